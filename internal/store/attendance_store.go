package store

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/payroll"
)

// AttendanceStore reads the default monthly attendance file.
type AttendanceStore struct {
	path   string
	logger *zap.Logger
}

func NewAttendanceStore(path string, logger *zap.Logger) *AttendanceStore {
	return &AttendanceStore{path: path, logger: logger}
}

// Load reads the whole attendance file.
func (s *AttendanceStore) Load() ([]payroll.Attendance, error) {
	var rows []payroll.Attendance
	if err := loadCSV(s.path, &rows); err != nil {
		return nil, err
	}
	s.logger.Debug("attendance loaded", zap.String("path", s.path), zap.Int("rows", len(rows)))
	return rows, nil
}

// Save overwrites the attendance file. Used by the seed tool.
func (s *AttendanceStore) Save(rows []payroll.Attendance) error {
	if err := saveCSV(s.path, rows); err != nil {
		return err
	}
	s.logger.Info("attendance saved", zap.String("path", s.path), zap.Int("rows", len(rows)))
	return nil
}

// ParseAttendance parses an uploaded attendance CSV. Callers fall back
// to the default dataset when this fails.
func ParseAttendance(r io.Reader) ([]payroll.Attendance, error) {
	var rows []payroll.Attendance
	if err := gocsv.Unmarshal(skipBOM(r), &rows); err != nil {
		return nil, fmt.Errorf("parse uploaded attendance: %w", err)
	}
	return rows, nil
}
