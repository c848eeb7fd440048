package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/config"
	"github.com/vibecoding/backoffice/internal/export"
	httpapi "github.com/vibecoding/backoffice/internal/interfaces/http"
	"github.com/vibecoding/backoffice/internal/payslip"
	"github.com/vibecoding/backoffice/internal/service"
	"github.com/vibecoding/backoffice/internal/store"
	"github.com/vibecoding/backoffice/pkg/utils"
)

func main() {
	// Optional .env for local development.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting payroll server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir))

	employees := store.NewEmployeeStore(cfg.Data.EmployeesPath(), logger)
	attendance := store.NewAttendanceStore(cfg.Data.AttendancePath(), logger)
	payrollService := service.NewPayrollService(employees, attendance, logger)

	slips := payslip.NewRenderer(cfg.Payroll.CompanyName, cfg.Payroll.PayslipFont, logger)
	excel := export.NewExcelExporter(cfg.Payroll.CompanyName, logger)

	server := httpapi.NewPayrollServer(
		httpapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		payrollService,
		slips,
		excel,
		httpapi.OriginatorDefaults{
			Name: cfg.Payroll.OriginatorName,
			Code: cfg.Payroll.OriginatorCode,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
	logger.Info("Server exited successfully")
}
