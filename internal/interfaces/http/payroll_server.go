package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/export"
	"github.com/vibecoding/backoffice/internal/payslip"
	"github.com/vibecoding/backoffice/internal/service"
)

// PayrollServer serves the payroll dashboard API.
type PayrollServer struct {
	config   ServerConfig
	router   *gin.Engine
	handlers *payrollHandlers
	logger   *zap.Logger
}

// OriginatorDefaults pre-fill the transfer-file request when the
// operator leaves the fields blank.
type OriginatorDefaults struct {
	Name string
	Code string
}

func NewPayrollServer(
	cfg ServerConfig,
	payrollService *service.PayrollService,
	slips *payslip.Renderer,
	excel *export.ExcelExporter,
	originator OriginatorDefaults,
	logger *zap.Logger,
) *PayrollServer {
	s := &PayrollServer{
		config: cfg,
		router: newRouter(logger),
		handlers: &payrollHandlers{
			service:    payrollService,
			slips:      slips,
			excel:      excel,
			originator: originator,
			logger:     logger,
		},
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *PayrollServer) setupRoutes() {
	s.router.GET("/health", healthHandler("1.0.0"))

	api := s.router.Group("/api")
	{
		api.POST("/payroll/run", s.handlers.Run)
		api.GET("/payroll/result", s.handlers.Result)
		api.GET("/payroll/result.csv", s.handlers.ResultCSV)
		api.GET("/payroll/result.xlsx", s.handlers.ResultExcel)
		api.GET("/payroll/payslips/:employee_id", s.handlers.Payslip)
		api.POST("/payroll/transfer", s.handlers.TransferFile)

		api.GET("/employees", s.handlers.ListEmployees)
		api.PUT("/employees", s.handlers.SaveEmployees)
	}
}

// Start blocks until the context is cancelled or the listener fails.
func (s *PayrollServer) Start(ctx context.Context) error {
	return serve(ctx, s.config, s.router, s.logger)
}

// Router exposes the gin engine for tests.
func (s *PayrollServer) Router() *gin.Engine { return s.router }
