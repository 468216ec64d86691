package testutil

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingodrill/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestItem creates a vocabulary test item
func NewTestItem(userID int64, word, translation string) *domain.ContentItem {
	return &domain.ContentItem{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.DrillVocabulary,
		Word:        word,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}

// NewTestSentence creates a sentence test item of the given drill kind
func NewTestSentence(userID int64, kind domain.DrillKind, sentence, translation string) *domain.ContentItem {
	return &domain.ContentItem{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Sentence:    sentence,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}

// NewTestRecord creates a review record due at the given moment
func NewTestRecord(userID int64, contentID uuid.UUID, nextReviewAt time.Time) *domain.ReviewRecord {
	now := time.Now()
	return &domain.ReviewRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ContentID:    contentID,
		Stability:    1.0,
		Difficulty:   5.0,
		IntervalDays: 1.0,
		NextReviewAt: nextReviewAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
