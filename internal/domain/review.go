package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is the user's self-assessment after a drill
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Valid reports whether the rating is one of the four allowed values
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Tier is a difficulty declared by the user when a card is created.
// It seeds the starting interval instead of the default "due now" state
type Tier string

const (
	TierNone     Tier = ""
	TierVeryEasy Tier = "very_easy"
	TierEasy     Tier = "easy"
	TierMedium   Tier = "medium"
	TierHard     Tier = "hard"
)

// ReviewLogEntry is one line of a record's append-only history.
// Entries are never mutated after being appended
type ReviewLogEntry struct {
	RatedAt          time.Time `json:"rated_at"`
	Rating           Rating    `json:"rating"`
	StabilityBefore  float64   `json:"stability_before"`
	StabilityAfter   float64   `json:"stability_after"`
	DifficultyBefore float64   `json:"difficulty_before"`
	DifficultyAfter  float64   `json:"difficulty_after"`
	Retrievability   float64   `json:"retrievability"`
	IntervalDays     float64   `json:"interval_days"`
}

// ReviewRecord holds the scheduling state for one (user, content item) pair.
// Created lazily on the first rating or star
type ReviewRecord struct {
	ID           uuid.UUID
	UserID       int64
	ContentID    uuid.UUID
	Stability    float64
	Difficulty   float64
	Lapses       int
	IntervalDays float64
	NextReviewAt time.Time
	LastReviewAt *time.Time
	Starred      bool
	History      []ReviewLogEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDue reports whether the record's next review day has arrived.
// Both sides are projected to calendar days in the fixed review timezone,
// so an item becomes due at the start of its due day, not after 24h elapsed
func (r *ReviewRecord) IsDue(asOf time.Time, loc *time.Location) bool {
	return DayKey(r.NextReviewAt, loc) <= DayKey(asOf, loc)
}

// IsDifficultToday reports whether the record was rated Again or Hard
// today (same fixed-timezone day projection). Derived from the history on
// every read; membership clears by itself at the next calendar day
func (r *ReviewRecord) IsDifficultToday(asOf time.Time, loc *time.Location) bool {
	today := DayKey(asOf, loc)
	for _, e := range r.History {
		if DayKey(e.RatedAt, loc) != today {
			continue
		}
		if e.Rating == RatingAgain || e.Rating == RatingHard {
			return true
		}
	}
	return false
}
