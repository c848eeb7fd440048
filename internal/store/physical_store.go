package store

import (
	"errors"

	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
)

// PhysicalStore reads and overwrites the physical test log.
type PhysicalStore struct {
	path   string
	logger *zap.Logger
}

func NewPhysicalStore(path string, logger *zap.Logger) *PhysicalStore {
	return &PhysicalStore{path: path, logger: logger}
}

// Load reads all test records; a missing file is an empty log.
func (s *PhysicalStore) Load() ([]players.PhysicalTest, error) {
	var tests []players.PhysicalTest
	if err := loadCSV(s.path, &tests); err != nil {
		if errors.Is(err, ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return tests, nil
}

// Save overwrites the whole log.
func (s *PhysicalStore) Save(tests []players.PhysicalTest) error {
	return saveCSV(s.path, &tests)
}

// Append adds one record with whole-file overwrite semantics.
func (s *PhysicalStore) Append(test players.PhysicalTest) error {
	tests, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(tests, test))
}

// Delete removes one record by id.
func (s *PhysicalStore) Delete(id string) (bool, error) {
	tests, err := s.Load()
	if err != nil {
		return false, err
	}
	kept := tests[:0]
	found := false
	for _, t := range tests {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return false, nil
	}
	if err := s.Save(kept); err != nil {
		return false, err
	}
	s.logger.Info("physical test deleted", zap.String("id", id))
	return true, nil
}
