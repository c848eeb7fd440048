// Package service wires the domain packages to the flat-file stores
// and holds the per-session state each operation needs. Operations are
// synchronous; the mutex only guards the session result table.
package service

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/payroll"
	"github.com/vibecoding/backoffice/internal/store"
	"github.com/vibecoding/backoffice/internal/zengin"
)

// ErrNoRun is returned when payslip or transfer-file generation is
// requested before any payroll run in this session.
var ErrNoRun = errors.New("no payroll result available; run the calculation first")

// PayrollService runs payroll and keeps the session's result table for
// the payslip renderer and the transfer-file encoder.
type PayrollService struct {
	mu         sync.Mutex
	employees  *store.EmployeeStore
	attendance *store.AttendanceStore
	last       *payroll.RunResult
	logger     *zap.Logger
}

func NewPayrollService(employees *store.EmployeeStore, attendance *store.AttendanceStore, logger *zap.Logger) *PayrollService {
	return &PayrollService{
		employees:  employees,
		attendance: attendance,
		logger:     logger,
	}
}

// Run computes payroll against the roster and either the uploaded
// attendance CSV or the default file. Missing data files and malformed
// uploads are reported as warnings on the (possibly empty) result, not
// as errors; only unexpected I/O or validation failures abort.
func (s *PayrollService) Run(upload io.Reader) (*payroll.RunResult, error) {
	var warnings []string

	roster, err := s.employees.Load()
	if err != nil {
		if !errors.Is(err, store.ErrMissingFile) {
			return nil, err
		}
		s.logger.Warn("employee roster missing", zap.Error(err))
		warnings = append(warnings, "employee roster file not found; run the seed tool first")
		roster = nil
	}

	var attendance []payroll.Attendance
	switch {
	case upload != nil:
		attendance, err = store.ParseAttendance(upload)
		if err != nil {
			s.logger.Warn("uploaded attendance rejected, using default file", zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("uploaded attendance could not be parsed (%v); using default data", err))
			attendance, err = s.loadDefaultAttendance(&warnings)
			if err != nil {
				return nil, err
			}
		}
	default:
		attendance, err = s.loadDefaultAttendance(&warnings)
		if err != nil {
			return nil, err
		}
	}

	result := payroll.Run(roster, attendance)
	result.Warnings = warnings
	for _, rowErr := range result.Failed {
		s.logger.Warn("payroll row failed", zap.String("employee_id", rowErr.EmployeeID), zap.Error(rowErr.Err))
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.logger.Info("payroll run complete",
		zap.String("target_month", result.TargetMonth),
		zap.Int("rows", len(result.Rows)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *PayrollService) loadDefaultAttendance(warnings *[]string) ([]payroll.Attendance, error) {
	attendance, err := s.attendance.Load()
	if err != nil {
		if !errors.Is(err, store.ErrMissingFile) {
			return nil, err
		}
		s.logger.Warn("attendance file missing", zap.Error(err))
		*warnings = append(*warnings, "attendance file not found; run the seed tool first")
		return nil, nil
	}
	return attendance, nil
}

// LastRun returns the session's current result table.
func (s *PayrollService) LastRun() (*payroll.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, ErrNoRun
	}
	return s.last, nil
}

// PayslipRow returns the computed row for one employee from the last
// run.
func (s *PayrollService) PayslipRow(employeeID string) (payroll.PayResult, error) {
	result, err := s.LastRun()
	if err != nil {
		return payroll.PayResult{}, err
	}
	row, ok := result.FindRow(employeeID)
	if !ok {
		return payroll.PayResult{}, fmt.Errorf("employee %s: %w", employeeID, payroll.ErrUnknownEmployee)
	}
	return row, nil
}

// TransferFile encodes the last run as a fixed-width transfer batch.
// Rows with a non-positive net payment are excluded by the encoder.
func (s *PayrollService) TransferFile(paymentDate, originatorName, originatorCode string) ([]byte, string, error) {
	result, err := s.LastRun()
	if err != nil {
		return nil, "", err
	}

	batch := zengin.Batch{
		PaymentDate:    paymentDate,
		OriginatorName: originatorName,
		OriginatorCode: originatorCode,
	}
	for _, row := range result.Rows {
		batch.Transfers = append(batch.Transfers, zengin.Transfer{
			BankCode:        row.Bank.BankCode,
			BankNameKana:    row.Bank.BankNameKana,
			BranchCode:      row.Bank.BranchCode,
			BranchNameKana:  row.Bank.BranchNameKana,
			AccountType:     int(row.Bank.AccountType),
			AccountNumber:   row.Bank.AccountNumber,
			AccountNameKana: row.Bank.AccountNameKana,
			Amount:          row.NetPayment.IntPart(),
		})
	}

	data, err := zengin.Encode(batch)
	if err != nil {
		s.logger.Error("transfer file generation failed", zap.Error(err))
		return nil, "", fmt.Errorf("transfer file generation: %w", err)
	}
	return data, batch.FileName(), nil
}

// Employees loads the roster for the master editor.
func (s *PayrollService) Employees() ([]payroll.Employee, error) {
	roster, err := s.employees.Load()
	if err != nil && errors.Is(err, store.ErrMissingFile) {
		return []payroll.Employee{}, nil
	}
	return roster, err
}

// SaveEmployees overwrites the roster from the master editor.
func (s *PayrollService) SaveEmployees(roster []payroll.Employee) error {
	return s.employees.Save(roster)
}
