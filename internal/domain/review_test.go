package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mskLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultReviewTimezone)
	require.NoError(t, err)
	return loc
}

func TestRating_Valid(t *testing.T) {
	assert.False(t, Rating(0).Valid())
	assert.True(t, RatingAgain.Valid())
	assert.True(t, RatingHard.Valid())
	assert.True(t, RatingGood.Valid())
	assert.True(t, RatingEasy.Valid())
	assert.False(t, Rating(5).Valid())
}

func TestReviewRecord_IsDue(t *testing.T) {
	loc := mskLocation(t)
	asOf := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	tests := []struct {
		name         string
		nextReviewAt time.Time
		expected     bool
	}{
		{
			name:         "due yesterday",
			nextReviewAt: asOf.Add(-24 * time.Hour),
			expected:     true,
		},
		{
			name:         "due later today counts as due",
			nextReviewAt: time.Date(2024, 3, 10, 23, 0, 0, 0, loc),
			expected:     true,
		},
		{
			name:         "due exactly now",
			nextReviewAt: asOf,
			expected:     true,
		},
		{
			name:         "due tomorrow",
			nextReviewAt: time.Date(2024, 3, 11, 0, 1, 0, 0, loc),
			expected:     false,
		},
		{
			name:         "due next week",
			nextReviewAt: asOf.Add(7 * 24 * time.Hour),
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ReviewRecord{NextReviewAt: tt.nextReviewAt}
			assert.Equal(t, tt.expected, rec.IsDue(asOf, loc))
		})
	}
}

func TestReviewRecord_IsDue_DayBoundaryNotElapsedHours(t *testing.T) {
	loc := mskLocation(t)

	// Rated at 23:00, scheduled one day out. The item is due right after
	// midnight, not 24 hours later
	next := time.Date(2024, 3, 11, 23, 0, 0, 0, loc)
	rec := &ReviewRecord{NextReviewAt: next}

	justAfterMidnight := time.Date(2024, 3, 11, 0, 5, 0, 0, loc)
	assert.True(t, rec.IsDue(justAfterMidnight, loc))
}

func TestReviewRecord_IsDifficultToday(t *testing.T) {
	loc := mskLocation(t)
	asOf := time.Date(2024, 3, 10, 18, 0, 0, 0, loc)
	today := time.Date(2024, 3, 10, 10, 0, 0, 0, loc)
	yesterday := today.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		history  []ReviewLogEntry
		expected bool
	}{
		{
			name:     "no history",
			history:  nil,
			expected: false,
		},
		{
			name: "again today",
			history: []ReviewLogEntry{
				{RatedAt: today, Rating: RatingAgain},
			},
			expected: true,
		},
		{
			name: "hard today",
			history: []ReviewLogEntry{
				{RatedAt: today, Rating: RatingHard},
			},
			expected: true,
		},
		{
			name: "good today",
			history: []ReviewLogEntry{
				{RatedAt: today, Rating: RatingGood},
			},
			expected: false,
		},
		{
			name: "again yesterday does not carry over",
			history: []ReviewLogEntry{
				{RatedAt: yesterday, Rating: RatingAgain},
			},
			expected: false,
		},
		{
			name: "hard earlier today then good later stays difficult",
			history: []ReviewLogEntry{
				{RatedAt: today, Rating: RatingHard},
				{RatedAt: today.Add(2 * time.Hour), Rating: RatingGood},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ReviewRecord{History: tt.history}
			assert.Equal(t, tt.expected, rec.IsDifficultToday(asOf, loc))
		})
	}
}

func TestReviewRecord_IsDifficultToday_ExpiresNextDay(t *testing.T) {
	loc := mskLocation(t)
	ratedAt := time.Date(2024, 3, 10, 21, 0, 0, 0, loc)

	rec := &ReviewRecord{History: []ReviewLogEntry{
		{RatedAt: ratedAt, Rating: RatingAgain},
	}}

	assert.True(t, rec.IsDifficultToday(ratedAt.Add(time.Hour), loc))

	// Membership clears at midnight without any cleanup write
	nextMorning := time.Date(2024, 3, 11, 8, 0, 0, 0, loc)
	assert.False(t, rec.IsDifficultToday(nextMorning, loc))
}

func TestContentItem_Learnable(t *testing.T) {
	tests := []struct {
		name     string
		item     ContentItem
		expected bool
	}{
		{
			name:     "complete word pair",
			item:     ContentItem{Kind: DrillVocabulary, Word: "cat", Translation: "кот"},
			expected: true,
		},
		{
			name:     "word without translation",
			item:     ContentItem{Kind: DrillVocabulary, Word: "cat"},
			expected: false,
		},
		{
			name:     "translation sentence pair",
			item:     ContentItem{Kind: DrillTranslation, Sentence: "I am here", Translation: "Я здесь"},
			expected: true,
		},
		{
			name:     "listening with audio",
			item:     ContentItem{Kind: DrillListening, Sentence: "I am here", AudioFileID: "file123"},
			expected: true,
		},
		{
			name:     "listening awaiting audio",
			item:     ContentItem{Kind: DrillListening, Sentence: "I am here"},
			expected: false,
		},
		{
			name:     "shadowing with audio",
			item:     ContentItem{Kind: DrillShadowing, Sentence: "I am here", AudioFileID: "file123"},
			expected: true,
		},
		{
			name:     "unknown kind",
			item:     ContentItem{Kind: DrillKind("quiz"), Word: "cat"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.Learnable())
		})
	}
}

func TestContentItem_PromptAnswer(t *testing.T) {
	word := ContentItem{Kind: DrillVocabulary, Word: "cat", Translation: "кот"}
	assert.Equal(t, "cat", word.Prompt())
	assert.Equal(t, "кот", word.Answer())

	sentence := ContentItem{Kind: DrillTranslation, Sentence: "I am here", Translation: "Я здесь"}
	assert.Equal(t, "I am here", sentence.Prompt())
	assert.Equal(t, "Я здесь", sentence.Answer())

	// Shadowing reveals the sentence itself
	shadow := ContentItem{Kind: DrillShadowing, Sentence: "I am here"}
	assert.Equal(t, "I am here", shadow.Prompt())
	assert.Equal(t, "I am here", shadow.Answer())
}
