package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
	"github.com/vibecoding/backoffice/internal/store"
)

// DefaultGrade is assigned to newly registered players.
const DefaultGrade = "3rd-year"

// AdminDisplayName labels the coach account in session responses.
const AdminDisplayName = "admin"

// PlayersService orchestrates the condition tracker: roster CRUD,
// daily condition logging, physical tests and the dashboard analytics.
type PlayersService struct {
	mu         sync.Mutex
	roster     *store.PlayerStore
	conditions *store.ConditionStore
	physicals  *store.PhysicalStore
	sessions   *players.SessionManager
	adminHash  string
	imageDir   string
	logger     *zap.Logger
	today      func() string
}

func NewPlayersService(
	roster *store.PlayerStore,
	conditions *store.ConditionStore,
	physicals *store.PhysicalStore,
	sessions *players.SessionManager,
	adminPassword string,
	imageDir string,
	logger *zap.Logger,
) *PlayersService {
	return &PlayersService{
		roster:     roster,
		conditions: conditions,
		physicals:  physicals,
		sessions:   sessions,
		adminHash:  players.HashPassword(adminPassword),
		imageDir:   imageDir,
		logger:     logger,
		today:      func() string { return time.Now().Format(players.DateLayout) },
	}
}

// Login authenticates the admin account or a rostered player. The
// admin secret is checked through the same digest path as player
// credentials.
func (s *PlayersService) Login(name, password string) (players.Session, error) {
	hash := players.HashPassword(password)

	if name == "admin" && hash == s.adminHash {
		session := s.sessions.Create(AdminDisplayName, players.RoleAdmin)
		s.logger.Info("admin logged in")
		return session, nil
	}

	roster, err := s.roster.Load()
	if err != nil {
		return players.Session{}, err
	}
	for _, p := range roster {
		if p.Name == name && p.PasswordHash == hash {
			session := s.sessions.Create(p.Name, players.RolePlayer)
			s.logger.Info("player logged in", zap.String("player", p.Name))
			return session, nil
		}
	}
	return players.Session{}, players.ErrInvalidCredentials
}

// Logout revokes a session token.
func (s *PlayersService) Logout(token string) {
	s.sessions.Delete(token)
}

// Authenticate resolves a bearer token.
func (s *PlayersService) Authenticate(token string) (players.Session, bool) {
	return s.sessions.Get(token)
}

// ListPlayers returns the roster.
func (s *PlayersService) ListPlayers() ([]players.Player, error) {
	return s.roster.Load()
}

// GetPlayer returns one roster record by name.
func (s *PlayersService) GetPlayer(name string) (players.Player, error) {
	roster, err := s.roster.Load()
	if err != nil {
		return players.Player{}, err
	}
	for _, p := range roster {
		if p.Name == name {
			return p, nil
		}
	}
	return players.Player{}, fmt.Errorf("%w: %s", players.ErrPlayerNotFound, name)
}

// CreatePlayer registers a new player with a hashed password and the
// default grade when none is given.
func (s *PlayersService) CreatePlayer(p players.Player, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Grade == "" {
		p.Grade = DefaultGrade
	}
	p.PasswordHash = players.HashPassword(password)
	if err := p.Validate(); err != nil {
		return err
	}

	roster, err := s.roster.Load()
	if err != nil {
		return err
	}
	for _, existing := range roster {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %s", players.ErrDuplicatePlayer, p.Name)
		}
	}

	if err := s.roster.Save(append(roster, p)); err != nil {
		return err
	}
	s.logger.Info("player registered", zap.String("player", p.Name), zap.Int("number", p.Number))
	return nil
}

// PlayerUpdate carries the editable profile fields; nil means keep.
type PlayerUpdate struct {
	Name     *string
	Number   *int
	HeightCM *float64
	WeightKG *float64
	Password *string
}

// UpdatePlayer edits a roster record. The password changes only when a
// new one is supplied.
func (s *PlayersService) UpdatePlayer(name string, upd PlayerUpdate) (players.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.roster.Load()
	if err != nil {
		return players.Player{}, err
	}
	idx := -1
	for i := range roster {
		if roster[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return players.Player{}, fmt.Errorf("%w: %s", players.ErrPlayerNotFound, name)
	}

	p := &roster[idx]
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Number != nil {
		p.Number = *upd.Number
	}
	if upd.HeightCM != nil {
		p.HeightCM = *upd.HeightCM
	}
	if upd.WeightKG != nil {
		p.WeightKG = *upd.WeightKG
	}
	if upd.Password != nil && *upd.Password != "" {
		p.PasswordHash = players.HashPassword(*upd.Password)
	}
	if err := p.Validate(); err != nil {
		return players.Player{}, err
	}

	if err := s.roster.Save(roster); err != nil {
		return players.Player{}, err
	}
	s.logger.Info("player updated", zap.String("player", p.Name))
	return *p, nil
}

// SaveImage stores an uploaded profile photo and records its path on
// the player. Bytes are stored as-is; resizing is out of scope.
func (s *PlayersService) SaveImage(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.roster.Load()
	if err != nil {
		return "", err
	}
	idx := -1
	for i := range roster {
		if roster[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", players.ErrPlayerNotFound, name)
	}

	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	path := filepath.Join(s.imageDir, fmt.Sprintf("%d_%s.jpg", roster[idx].Number, name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	roster[idx].ImagePath = path
	if err := s.roster.Save(roster); err != nil {
		return "", err
	}
	return path, nil
}

// SubmitCondition records a daily entry. The date defaults to today.
func (s *PlayersService) SubmitCondition(entry players.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Date == "" {
		entry.Date = s.today()
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if _, err := s.getPlayerLocked(entry.Player); err != nil {
		return err
	}
	if err := s.conditions.Append(entry); err != nil {
		return err
	}
	s.logger.Info("condition submitted", zap.String("player", entry.Player), zap.String("date", entry.Date))
	return nil
}

func (s *PlayersService) getPlayerLocked(name string) (players.Player, error) {
	roster, err := s.roster.Load()
	if err != nil {
		return players.Player{}, err
	}
	for _, p := range roster {
		if p.Name == name {
			return p, nil
		}
	}
	return players.Player{}, fmt.Errorf("%w: %s", players.ErrPlayerNotFound, name)
}

// DeleteCondition removes a player's entries for one date.
func (s *PlayersService) DeleteCondition(player, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conditions.Delete(player, date)
}

// AddPhysical records one measured test result.
func (s *PlayersService) AddPhysical(player string, event players.TestEvent, value float64, date string) (players.PhysicalTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date == "" {
		date = s.today()
	}
	if _, err := time.Parse(players.DateLayout, date); err != nil {
		return players.PhysicalTest{}, fmt.Errorf("test date %q: %w", date, err)
	}
	if _, err := s.getPlayerLocked(player); err != nil {
		return players.PhysicalTest{}, err
	}

	test := players.PhysicalTest{
		ID:     uuid.NewString(),
		Date:   date,
		Player: player,
		Event:  event,
		Value:  value,
	}
	if err := s.physicals.Append(test); err != nil {
		return players.PhysicalTest{}, err
	}
	s.logger.Info("physical test recorded",
		zap.String("player", player), zap.String("event", string(event)), zap.Float64("value", value))
	return test, nil
}

// DeletePhysical removes one record by id.
func (s *PlayersService) DeletePhysical(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.physicals.Delete(id)
}

// TeamStatus is today's alert board plus the team average series.
type TeamStatus struct {
	Date     string                 `json:"date"`
	Alerts   []players.Alert        `json:"alerts"`
	Averages []players.DailyAverage `json:"averages"`
}

// TeamStatusToday builds the coach dashboard.
func (s *PlayersService) TeamStatusToday() (TeamStatus, error) {
	conditions, err := s.conditions.Load()
	if err != nil {
		return TeamStatus{}, err
	}
	today := s.today()
	return TeamStatus{
		Date:     today,
		Alerts:   players.AlertsOn(conditions, today),
		Averages: players.TeamAverages(conditions),
	}, nil
}

// EventLeaderboard is the ranking for one test discipline.
type EventLeaderboard struct {
	Event   players.TestEvent          `json:"event"`
	Unit    string                     `json:"unit"`
	Entries []players.LeaderboardEntry `json:"entries"`
}

// Leaderboards ranks every test discipline, top N per event.
func (s *PlayersService) Leaderboards(limit int) ([]EventLeaderboard, error) {
	tests, err := s.physicals.Load()
	if err != nil {
		return nil, err
	}
	boards := make([]EventLeaderboard, 0, len(players.Events))
	for _, event := range players.Events {
		boards = append(boards, EventLeaderboard{
			Event:   event,
			Unit:    event.Unit(),
			Entries: players.Leaderboard(tests, event, limit),
		})
	}
	return boards, nil
}

// MissingToday lists players without a condition entry today.
func (s *PlayersService) MissingToday() ([]string, error) {
	roster, err := s.roster.Load()
	if err != nil {
		return nil, err
	}
	conditions, err := s.conditions.Load()
	if err != nil {
		return nil, err
	}
	return players.MissingOn(roster, conditions, s.today()), nil
}

// PlayerSummary is one player's profile with BMI guidance and history.
type PlayerSummary struct {
	Player     players.Player         `json:"player"`
	BMI        players.BMIAssessment  `json:"bmi"`
	Conditions []players.Condition    `json:"conditions"`
	Physicals  []players.PhysicalTest `json:"physicals"`
}

// Summary builds the per-player view. BMI uses the latest logged
// weight, falling back to the roster weight.
func (s *PlayersService) Summary(name string) (PlayerSummary, error) {
	player, err := s.GetPlayer(name)
	if err != nil {
		return PlayerSummary{}, err
	}
	conditions, err := s.conditions.Load()
	if err != nil {
		return PlayerSummary{}, err
	}
	tests, err := s.physicals.Load()
	if err != nil {
		return PlayerSummary{}, err
	}

	var mine []players.Condition
	latestWeight := player.WeightKG
	latestDate := ""
	for _, c := range conditions {
		if c.Player != name {
			continue
		}
		mine = append(mine, c)
		if c.Date >= latestDate {
			latestDate = c.Date
			latestWeight = c.WeightKG
		}
	}

	var myTests []players.PhysicalTest
	for _, t := range tests {
		if t.Player == name {
			myTests = append(myTests, t)
		}
	}

	return PlayerSummary{
		Player:     player,
		BMI:        players.AssessBMI(player.HeightCM, latestWeight),
		Conditions: mine,
		Physicals:  myTests,
	}, nil
}
