package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
)

// PlayerStore reads and overwrites the player master file.
type PlayerStore struct {
	path   string
	logger *zap.Logger
}

func NewPlayerStore(path string, logger *zap.Logger) *PlayerStore {
	return &PlayerStore{path: path, logger: logger}
}

// Load reads the whole roster. A missing file is an empty roster, not
// an error: the tracker bootstraps its own data files.
//
// Legacy files carry plaintext passwords; those are hashed and the file
// rewritten in place, mirroring the first-load migration the original
// data set went through.
func (s *PlayerStore) Load() ([]players.Player, error) {
	var roster []players.Player
	if err := loadCSV(s.path, &roster); err != nil {
		if errors.Is(err, ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	migrated := false
	for i := range roster {
		if !players.IsHashed(roster[i].PasswordHash) {
			roster[i].PasswordHash = players.HashPassword(roster[i].PasswordHash)
			migrated = true
		}
	}
	if migrated {
		s.logger.Warn("player master held plaintext passwords, rewriting hashed",
			zap.String("path", s.path))
		if err := s.Save(roster); err != nil {
			return nil, fmt.Errorf("password migration: %w", err)
		}
	}
	return roster, nil
}

// Save overwrites the roster.
func (s *PlayerStore) Save(roster []players.Player) error {
	for i := range roster {
		if err := roster[i].Validate(); err != nil {
			return fmt.Errorf("player master row %d: %w", i+1, err)
		}
	}
	return saveCSV(s.path, &roster)
}
