package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/export"
	"github.com/vibecoding/backoffice/internal/payroll"
	"github.com/vibecoding/backoffice/internal/payslip"
	"github.com/vibecoding/backoffice/internal/service"
)

type payrollHandlers struct {
	service    *service.PayrollService
	slips      *payslip.Renderer
	excel      *export.ExcelExporter
	originator OriginatorDefaults
	logger     *zap.Logger
}

// RunSummary mirrors the dashboard metric tiles.
type RunSummary struct {
	TotalPayout   decimal.Decimal `json:"total_payout"`
	Headcount     int             `json:"headcount"`
	AveragePayout decimal.Decimal `json:"average_payout"`
}

// RunResponse is the payroll run payload.
type RunResponse struct {
	TargetMonth string             `json:"target_month"`
	Summary     RunSummary         `json:"summary"`
	Rows        []payroll.PayResult `json:"rows"`
	Failed      []RowFailure       `json:"failed,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// RowFailure reports one attendance row that could not be computed.
type RowFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

func toRunResponse(result *payroll.RunResult) RunResponse {
	resp := RunResponse{
		TargetMonth: result.TargetMonth,
		Summary: RunSummary{
			TotalPayout:   result.TotalPayout(),
			Headcount:     len(result.Rows),
			AveragePayout: result.AveragePayout(),
		},
		Rows:     result.Rows,
		Warnings: result.Warnings,
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, RowFailure{EmployeeID: f.EmployeeID, Error: f.Err.Error()})
	}
	return resp
}

// Run handles POST /api/payroll/run. An optional multipart file field
// "attendance" overrides the default attendance data.
func (h *payrollHandlers) Run(c *gin.Context) {
	var result *payroll.RunResult
	var err error

	file, fileErr := c.FormFile("attendance")
	if fileErr == nil && file != nil {
		opened, openErr := file.Open()
		if openErr != nil {
			respondError(c, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		defer opened.Close()
		result, err = h.service.Run(opened)
	} else {
		result, err = h.service.Run(nil)
	}
	if err != nil {
		h.logger.Error("payroll run failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, toRunResponse(result))
}

// Result handles GET /api/payroll/result.
func (h *payrollHandlers) Result(c *gin.Context) {
	result, err := h.service.LastRun()
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, toRunResponse(result))
}

// ResultCSV handles GET /api/payroll/result.csv.
func (h *payrollHandlers) ResultCSV(c *gin.Context) {
	result, err := h.service.LastRun()
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	data, err := export.ResultCSV(result)
	if err != nil {
		h.logger.Error("result csv export failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "csv export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="salary_result.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ResultExcel handles GET /api/payroll/result.xlsx.
func (h *payrollHandlers) ResultExcel(c *gin.Context) {
	result, err := h.service.LastRun()
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	data, err := h.excel.Build(result)
	if err != nil {
		h.logger.Error("result workbook export failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "workbook export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="salary_result.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Payslip handles GET /api/payroll/payslips/:employee_id.
func (h *payrollHandlers) Payslip(c *gin.Context) {
	row, err := h.service.PayslipRow(c.Param("employee_id"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, service.ErrNoRun) {
			status = http.StatusConflict
		}
		respondError(c, status, err.Error())
		return
	}
	data, err := h.slips.Render(row)
	if err != nil {
		h.logger.Error("payslip rendering failed",
			zap.String("employee_id", row.EmployeeID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "payslip rendering failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.slips.FileName(row)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// TransferRequest is the transfer-file generation payload.
type TransferRequest struct {
	PaymentDate    string `json:"payment_date" binding:"required"`
	OriginatorName string `json:"originator_name"`
	OriginatorCode string `json:"originator_code"`
}

// TransferFile handles POST /api/payroll/transfer. No partial file is
// returned on failure.
func (h *payrollHandlers) TransferFile(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "payment_date is required")
		return
	}
	if req.OriginatorName == "" {
		req.OriginatorName = h.originator.Name
	}
	if req.OriginatorCode == "" {
		req.OriginatorCode = h.originator.Code
	}

	data, name, err := h.service.TransferFile(req.PaymentDate, req.OriginatorName, req.OriginatorCode)
	if err != nil {
		if errors.Is(err, service.ErrNoRun) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/plain; charset=Shift_JIS", data)
}

// ListEmployees handles GET /api/employees.
func (h *payrollHandlers) ListEmployees(c *gin.Context) {
	roster, err := h.service.Employees()
	if err != nil {
		h.logger.Error("roster load failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, roster)
}

// SaveEmployees handles PUT /api/employees: a whole-file overwrite of
// the roster, like the original master editor.
func (h *payrollHandlers) SaveEmployees(c *gin.Context) {
	var roster []payroll.Employee
	if err := c.ShouldBindJSON(&roster); err != nil {
		respondError(c, http.StatusBadRequest, "invalid roster payload")
		return
	}
	if err := h.service.SaveEmployees(roster); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(c, gin.H{"saved": len(roster)})
}
