package store

import (
	"errors"

	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
)

// ConditionStore reads and overwrites the daily condition log.
type ConditionStore struct {
	path   string
	logger *zap.Logger
}

func NewConditionStore(path string, logger *zap.Logger) *ConditionStore {
	return &ConditionStore{path: path, logger: logger}
}

// Load reads all condition entries; a missing file is an empty log.
func (s *ConditionStore) Load() ([]players.Condition, error) {
	var entries []players.Condition
	if err := loadCSV(s.path, &entries); err != nil {
		if errors.Is(err, ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

// Save overwrites the whole log.
func (s *ConditionStore) Save(entries []players.Condition) error {
	return saveCSV(s.path, &entries)
}

// Append adds one entry with whole-file overwrite semantics.
func (s *ConditionStore) Append(entry players.Condition) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(entries, entry))
}

// Delete removes all entries for a player on a date and reports how
// many were dropped.
func (s *ConditionStore) Delete(player, date string) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	removed := 0
	for _, e := range entries {
		if e.Player == player && e.Date == date {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.Save(kept); err != nil {
		return 0, err
	}
	s.logger.Info("condition entries deleted",
		zap.String("player", player), zap.String("date", date), zap.Int("removed", removed))
	return removed, nil
}
