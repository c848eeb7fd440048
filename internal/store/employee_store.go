package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/payroll"
)

// EmployeeStore reads and overwrites the employee roster file.
type EmployeeStore struct {
	path   string
	logger *zap.Logger
}

func NewEmployeeStore(path string, logger *zap.Logger) *EmployeeStore {
	return &EmployeeStore{path: path, logger: logger}
}

// Load reads the whole roster and validates every record.
func (s *EmployeeStore) Load() ([]payroll.Employee, error) {
	var employees []payroll.Employee
	if err := loadCSV(s.path, &employees); err != nil {
		return nil, err
	}
	for i := range employees {
		// Files predating the bank columns lack account_type entirely.
		if employees[i].AccountType == 0 {
			employees[i].AccountType = payroll.AccountTypeOrdinary
		}
		if err := employees[i].Validate(); err != nil {
			return nil, fmt.Errorf("roster %s row %d: %w", s.path, i+1, err)
		}
	}
	s.logger.Debug("roster loaded", zap.String("path", s.path), zap.Int("employees", len(employees)))
	return employees, nil
}

// Save overwrites the roster with the given records, validating first.
func (s *EmployeeStore) Save(employees []payroll.Employee) error {
	for i := range employees {
		if err := employees[i].Validate(); err != nil {
			return fmt.Errorf("roster row %d: %w", i+1, err)
		}
	}
	if err := saveCSV(s.path, &employees); err != nil {
		return err
	}
	s.logger.Info("roster saved", zap.String("path", s.path), zap.Int("employees", len(employees)))
	return nil
}
