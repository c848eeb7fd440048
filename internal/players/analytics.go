package players

import (
	"fmt"
	"math"
	"sort"
)

// Condition dashboard thresholds.
const (
	// alertFatigue flags a player for the coach's attention.
	alertFatigue = 4

	// U-18 athletic BMI target band.
	bmiTargetMin = 21.0
	bmiTargetMax = 23.0
)

// Alert is one player flagged on today's board.
type Alert struct {
	Player     string `json:"player"`
	Fatigue    int    `json:"fatigue"`
	Injured    bool   `json:"injured"`
	PainDetail string `json:"pain_detail,omitempty"`
}

// DailyAverage is the team mean for one date.
type DailyAverage struct {
	Date         string  `json:"date"`
	Fatigue      float64 `json:"fatigue"`
	SleepQuality float64 `json:"sleep_quality"`
}

// AlertsOn returns players whose entry for the date shows high fatigue
// or an injury.
func AlertsOn(conditions []Condition, date string) []Alert {
	var alerts []Alert
	for _, c := range conditions {
		if c.Date != date {
			continue
		}
		if c.Fatigue >= alertFatigue || c.Injured {
			alerts = append(alerts, Alert{
				Player:     c.Player,
				Fatigue:    c.Fatigue,
				Injured:    c.Injured,
				PainDetail: c.PainDetail,
			})
		}
	}
	return alerts
}

// TeamAverages computes per-date mean fatigue and sleep quality,
// ordered by date.
func TeamAverages(conditions []Condition) []DailyAverage {
	type acc struct {
		fatigue, sleep, n float64
	}
	byDate := make(map[string]*acc)
	for _, c := range conditions {
		a := byDate[c.Date]
		if a == nil {
			a = &acc{}
			byDate[c.Date] = a
		}
		a.fatigue += float64(c.Fatigue)
		a.sleep += float64(c.SleepQuality)
		a.n++
	}

	averages := make([]DailyAverage, 0, len(byDate))
	for date, a := range byDate {
		averages = append(averages, DailyAverage{
			Date:         date,
			Fatigue:      a.fatigue / a.n,
			SleepQuality: a.sleep / a.n,
		})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Date < averages[j].Date })
	return averages
}

// MissingOn lists roster players without a condition entry for the
// date, in roster order.
func MissingOn(roster []Player, conditions []Condition, date string) []string {
	submitted := make(map[string]bool)
	for _, c := range conditions {
		if c.Date == date {
			submitted[c.Player] = true
		}
	}
	missing := []string{}
	for _, p := range roster {
		if !submitted[p.Name] {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// LeaderboardEntry is one ranked player with their best result and the
// delta between their two most recent measurements.
type LeaderboardEntry struct {
	Rank     int      `json:"rank"`
	Player   string   `json:"player"`
	Value    float64  `json:"value"`
	Delta    *float64 `json:"delta,omitempty"`
	Improved bool     `json:"improved"`
}

// Leaderboard ranks players on an event by their best result, one row
// per player, capped at limit. Timed events rank ascending.
func Leaderboard(tests []PhysicalTest, event TestEvent, limit int) []LeaderboardEntry {
	best := make(map[string]float64)
	var order []string
	for _, t := range tests {
		if t.Event != event {
			continue
		}
		current, seen := best[t.Player]
		better := !seen ||
			(event.LowerIsBetter() && t.Value < current) ||
			(!event.LowerIsBetter() && t.Value > current)
		if !seen {
			order = append(order, t.Player)
		}
		if better {
			best[t.Player] = t.Value
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if event.LowerIsBetter() {
			return best[order[i]] < best[order[j]]
		}
		return best[order[i]] > best[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for rank, player := range order {
		entry := LeaderboardEntry{Rank: rank + 1, Player: player, Value: best[player]}
		if delta, ok := latestDelta(tests, event, player); ok {
			d := delta
			entry.Delta = &d
			if event.LowerIsBetter() {
				entry.Improved = delta < 0
			} else {
				entry.Improved = delta > 0
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// latestDelta is the difference between a player's two most recent
// measurements for an event.
func latestDelta(tests []PhysicalTest, event TestEvent, player string) (float64, bool) {
	var history []PhysicalTest
	for _, t := range tests {
		if t.Event == event && t.Player == player {
			history = append(history, t)
		}
	}
	if len(history) < 2 {
		return 0, false
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	last := history[len(history)-1].Value
	previous := history[len(history)-2].Value
	return last - previous, true
}

// BMIAssessment is the weight guidance shown on a player's summary.
type BMIAssessment struct {
	BMI          float64 `json:"bmi"`
	Status       string  `json:"status"` // low, optimal, high
	Message      string  `json:"message"`
	LatestWeight float64 `json:"latest_weight_kg"`
	TargetMinKG  float64 `json:"target_min_kg"`
	TargetMaxKG  float64 `json:"target_max_kg"`
}

// AssessBMI evaluates the latest weight against the U-18 target band.
// Records without a recorded height cannot be assessed; the zero BMI
// keeps the result JSON-safe.
func AssessBMI(heightCM, weightKG float64) BMIAssessment {
	if heightCM <= 0 {
		return BMIAssessment{
			Status:       "unknown",
			Message:      "height not recorded",
			LatestWeight: weightKG,
		}
	}
	heightM := heightCM / 100
	bmi := weightKG / (heightM * heightM)
	targetMin := bmiTargetMin * heightM * heightM
	targetMax := bmiTargetMax * heightM * heightM

	a := BMIAssessment{
		BMI:          round1(bmi),
		LatestWeight: weightKG,
		TargetMinKG:  round1(targetMin),
		TargetMaxKG:  round1(targetMax),
	}
	switch {
	case bmi < bmiTargetMin:
		a.Status = "low"
		a.Message = fmt.Sprintf("gain %.1f kg to reach BMI %.1f", targetMin-weightKG, bmiTargetMin)
	case bmi > bmiTargetMax:
		a.Status = "high"
		a.Message = fmt.Sprintf("lose %.1f kg to reach BMI %.1f", weightKG-targetMax, bmiTargetMax)
	default:
		a.Status = "optimal"
		a.Message = "maintain current weight"
	}
	return a
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
