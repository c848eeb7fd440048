// Package players holds the team condition tracker domain: the player
// roster, daily condition entries, physical test records and the
// analytics computed over them.
package players

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and file format for dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrDuplicatePlayer    = errors.New("player name already registered")
)

// Position is a field position, a closed set checked at parse time.
type Position string

const (
	PositionGK Position = "GK"
	PositionDF Position = "DF"
	PositionMF Position = "MF"
	PositionFW Position = "FW"
)

// ParsePosition validates a position code.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToUpper(strings.TrimSpace(s))) {
	case PositionGK:
		return PositionGK, nil
	case PositionDF:
		return PositionDF, nil
	case PositionMF:
		return PositionMF, nil
	case PositionFW:
		return PositionFW, nil
	default:
		return "", fmt.Errorf("unknown position %q", s)
	}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (p *Position) UnmarshalCSV(s string) error {
	parsed, err := ParsePosition(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (p Position) MarshalCSV() (string, error) { return string(p), nil }

// Player is one roster record. PasswordHash is a hex SHA-256 digest;
// plaintext values in legacy files are migrated on first load.
type Player struct {
	Number       int      `csv:"number" json:"number"`
	Name         string   `csv:"name" json:"name"`
	Position     Position `csv:"position" json:"position"`
	Grade        string   `csv:"grade" json:"grade"`
	HeightCM     float64  `csv:"height_cm" json:"height_cm"`
	WeightKG     float64  `csv:"weight_kg" json:"weight_kg"`
	ImagePath    string   `csv:"image_path" json:"image_path,omitempty"`
	PasswordHash string   `csv:"password_hash" json:"-"`
}

// Validate checks roster invariants.
func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("player name is empty")
	}
	if p.Number < 1 || p.Number > 99 {
		return fmt.Errorf("player %s: squad number %d out of range", p.Name, p.Number)
	}
	if _, err := ParsePosition(string(p.Position)); err != nil {
		return fmt.Errorf("player %s: %w", p.Name, err)
	}
	if p.HeightCM <= 0 {
		return fmt.Errorf("player %s: height %.1f must be positive", p.Name, p.HeightCM)
	}
	if p.WeightKG <= 0 {
		return fmt.Errorf("player %s: weight %.1f must be positive", p.Name, p.WeightKG)
	}
	return nil
}

// Condition is one daily self-report.
type Condition struct {
	Date         string  `csv:"date" json:"date"`
	Player       string  `csv:"player" json:"player"`
	WeightKG     float64 `csv:"weight_kg" json:"weight_kg"`
	Fatigue      int     `csv:"fatigue" json:"fatigue"`
	SleepQuality int     `csv:"sleep_quality" json:"sleep_quality"`
	Injured      bool    `csv:"injured" json:"injured"`
	PainDetail   string  `csv:"pain_detail" json:"pain_detail,omitempty"`
}

// Validate checks the 1–5 scales and the date format.
func (c *Condition) Validate() error {
	if strings.TrimSpace(c.Player) == "" {
		return errors.New("condition entry without player")
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("condition date %q: %w", c.Date, err)
	}
	if c.Fatigue < 1 || c.Fatigue > 5 {
		return fmt.Errorf("fatigue %d out of 1-5 range", c.Fatigue)
	}
	if c.SleepQuality < 1 || c.SleepQuality > 5 {
		return fmt.Errorf("sleep quality %d out of 1-5 range", c.SleepQuality)
	}
	return nil
}

// TestEvent is a physical test discipline, a closed catalogue.
type TestEvent string

const (
	EventSprint30m    TestEvent = "sprint_30m"    // seconds
	EventProAgility   TestEvent = "pro_agility"   // seconds
	EventVerticalJump TestEvent = "vertical_jump" // cm
	EventYoYo         TestEvent = "yoyo_test"     // meters
)

// Events lists the catalogue in display order.
var Events = []TestEvent{EventSprint30m, EventProAgility, EventVerticalJump, EventYoYo}

// ParseTestEvent validates an event code.
func ParseTestEvent(s string) (TestEvent, error) {
	for _, e := range Events {
		if TestEvent(strings.TrimSpace(s)) == e {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown test event %q", s)
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (e *TestEvent) UnmarshalCSV(s string) error {
	parsed, err := ParseTestEvent(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (e TestEvent) MarshalCSV() (string, error) { return string(e), nil }

// LowerIsBetter reports whether smaller values rank higher (timed
// events).
func (e TestEvent) LowerIsBetter() bool {
	return e == EventSprint30m || e == EventProAgility
}

// Unit returns the measurement unit for display.
func (e TestEvent) Unit() string {
	switch e {
	case EventSprint30m, EventProAgility:
		return "s"
	case EventVerticalJump:
		return "cm"
	case EventYoYo:
		return "m"
	default:
		return ""
	}
}

// PhysicalTest is one measured result.
type PhysicalTest struct {
	ID     string    `csv:"id" json:"id"`
	Date   string    `csv:"date" json:"date"`
	Player string    `csv:"player" json:"player"`
	Event  TestEvent `csv:"event" json:"event"`
	Value  float64   `csv:"value" json:"value"`
}
