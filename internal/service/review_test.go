package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lingodrill/internal/domain"
	"lingodrill/internal/fsrs"
	"lingodrill/internal/testutil"
)

func newTestReviewService(
	contentRepo *testutil.MockContentRepository,
	reviewRepo *testutil.MockReviewRepository,
	now time.Time,
) *ReviewService {
	loc, _ := time.LoadLocation(domain.DefaultReviewTimezone)
	svc := NewReviewService(contentRepo, reviewRepo, fsrs.DefaultParams(), loc, testutil.NewTestLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestReviewService_SubmitRating_InvalidRating(t *testing.T) {
	tests := []struct {
		name   string
		rating domain.Rating
	}{
		{name: "zero", rating: 0},
		{name: "too high", rating: 5},
		{name: "negative", rating: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentRepo := new(testutil.MockContentRepository)
			reviewRepo := new(testutil.MockReviewRepository)
			svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

			_, _, err := svc.SubmitRating(123, uuid.New(), tt.rating, domain.TierNone)

			assert.ErrorIs(t, err, domain.ErrInvalidRating)
			// Nothing was read or written
			contentRepo.AssertExpectations(t)
			reviewRepo.AssertExpectations(t)
		})
	}
}

func TestReviewService_SubmitRating_ContentNotFound(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

	contentID := uuid.New()
	contentRepo.On("GetItem", int64(123), contentID).Return(nil, nil)

	_, _, err := svc.SubmitRating(123, contentID, domain.RatingGood, domain.TierNone)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	contentRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_SubmitRating_ProvisionsOnFirstRating(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	item := testutil.NewTestItem(123, "cat", "кот")
	contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
	reviewRepo.On("Get", int64(123), item.ID).Return(nil, nil)
	reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

	record, got, err := svc.SubmitRating(123, item.ID, domain.RatingGood, domain.TierNone)

	require.NoError(t, err)
	assert.Equal(t, item, got)
	assert.Equal(t, item.ID, record.ContentID)
	assert.Len(t, record.History, 1)
	assert.Equal(t, domain.RatingGood, record.History[0].Rating)
	assert.Equal(t, 0, record.Lapses)
	reviewRepo.AssertNumberOfCalls(t, "Put", 1)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_SubmitRating_AgainNotDueSameDay(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	loc, _ := time.LoadLocation(domain.DefaultReviewTimezone)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	item := testutil.NewTestItem(123, "cat", "кот")
	contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
	reviewRepo.On("Get", int64(123), item.ID).Return(nil, nil)
	reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

	record, _, err := svc.SubmitRating(123, item.ID, domain.RatingAgain, domain.TierNone)

	require.NoError(t, err)
	assert.Equal(t, 1, record.Lapses)
	// Even a failed first exposure leaves today's queue
	assert.False(t, record.IsDue(now, loc))
}

func TestReviewService_SubmitRating_AppendsToExistingHistory(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	item := testutil.NewTestItem(123, "cat", "кот")
	existing := testutil.NewTestRecord(123, item.ID, now.Add(-24*time.Hour))
	last := now.Add(-48 * time.Hour)
	existing.LastReviewAt = &last
	existing.History = []domain.ReviewLogEntry{
		{RatedAt: last, Rating: domain.RatingGood},
	}

	contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
	reviewRepo.On("Get", int64(123), item.ID).Return(existing, nil)
	reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

	record, _, err := svc.SubmitRating(123, item.ID, domain.RatingGood, domain.TierNone)

	require.NoError(t, err)
	assert.Len(t, record.History, 2)
	assert.Equal(t, now, record.History[1].RatedAt)
	assert.Equal(t, now, record.UpdatedAt)
}

func TestReviewService_SubmitRating_TierSeedKeepsInterval(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	item := testutil.NewTestItem(123, "cat", "кот")
	contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
	reviewRepo.On("Get", int64(123), item.ID).Return(nil, nil)
	reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

	// Declared easy in Learn mode: the first rating keeps the card at
	// least a week out instead of collapsing to the fresh-card interval
	record, _, err := svc.SubmitRating(123, item.ID, domain.RatingGood, domain.TierEasy)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, record.IntervalDays, 7.0)
}

func TestReviewService_SubmitRating_PutError(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

	item := testutil.NewTestItem(123, "cat", "кот")
	contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
	reviewRepo.On("Get", int64(123), item.ID).Return(nil, nil)
	reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).
		Return(fmt.Errorf("db error"))

	_, _, err := svc.SubmitRating(123, item.ID, domain.RatingGood, domain.TierNone)

	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestReviewService_ToggleStar(t *testing.T) {
	t.Run("provisions record without rating it", func(t *testing.T) {
		contentRepo := new(testutil.MockContentRepository)
		reviewRepo := new(testutil.MockReviewRepository)
		loc, _ := time.LoadLocation(domain.DefaultReviewTimezone)
		now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)
		svc := newTestReviewService(contentRepo, reviewRepo, now)

		item := testutil.NewTestItem(123, "cat", "кот")
		reviewRepo.On("Get", int64(123), item.ID).Return(nil, nil)
		contentRepo.On("GetItem", int64(123), item.ID).Return(item, nil)
		reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

		record, err := svc.ToggleStar(123, item.ID)

		require.NoError(t, err)
		assert.True(t, record.Starred)
		// Starring is not a rating: no history, still due right away
		assert.Empty(t, record.History)
		assert.True(t, record.IsDue(now, loc))
	})

	t.Run("unstars an existing record", func(t *testing.T) {
		contentRepo := new(testutil.MockContentRepository)
		reviewRepo := new(testutil.MockReviewRepository)
		now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
		svc := newTestReviewService(contentRepo, reviewRepo, now)

		contentID := uuid.New()
		existing := testutil.NewTestRecord(123, contentID, now)
		existing.Starred = true

		reviewRepo.On("Get", int64(123), contentID).Return(existing, nil)
		reviewRepo.On("Put", mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)

		record, err := svc.ToggleStar(123, contentID)

		require.NoError(t, err)
		assert.False(t, record.Starred)
		contentRepo.AssertExpectations(t)
	})

	t.Run("unknown content", func(t *testing.T) {
		contentRepo := new(testutil.MockContentRepository)
		reviewRepo := new(testutil.MockReviewRepository)
		svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

		contentID := uuid.New()
		reviewRepo.On("Get", int64(123), contentID).Return(nil, nil)
		contentRepo.On("GetItem", int64(123), contentID).Return(nil, nil)

		_, err := svc.ToggleStar(123, contentID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReviewService_ListDue(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	loc, _ := time.LoadLocation(domain.DefaultReviewTimezone)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	dueRec := testutil.NewTestRecord(123, uuid.New(), now.Add(-24*time.Hour))
	laterToday := testutil.NewTestRecord(123, uuid.New(), now.Add(6*time.Hour))
	future := testutil.NewTestRecord(123, uuid.New(), now.Add(5*24*time.Hour))

	reviewRepo.On("ListByOwner", int64(123)).
		Return([]domain.ReviewRecord{*dueRec, *laterToday, *future}, nil)

	due, err := svc.ListDue(123)

	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, dueRec.ContentID, due[0].ContentID)
	assert.Equal(t, laterToday.ContentID, due[1].ContentID)
}

func TestReviewService_ListStarred(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	starred := testutil.NewTestRecord(123, uuid.New(), now)
	starred.Starred = true
	plain := testutil.NewTestRecord(123, uuid.New(), now)

	reviewRepo.On("ListByOwner", int64(123)).
		Return([]domain.ReviewRecord{*plain, *starred}, nil)

	got, err := svc.ListStarred(123)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, starred.ContentID, got[0].ContentID)
}

func TestReviewService_ListDifficultToday(t *testing.T) {
	contentRepo := new(testutil.MockContentRepository)
	reviewRepo := new(testutil.MockReviewRepository)
	loc, _ := time.LoadLocation(domain.DefaultReviewTimezone)
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, loc)
	svc := newTestReviewService(contentRepo, reviewRepo, now)

	hardToday := testutil.NewTestRecord(123, uuid.New(), now)
	hardToday.History = []domain.ReviewLogEntry{
		{RatedAt: now.Add(-2 * time.Hour), Rating: domain.RatingHard},
	}
	hardYesterday := testutil.NewTestRecord(123, uuid.New(), now)
	hardYesterday.History = []domain.ReviewLogEntry{
		{RatedAt: now.Add(-26 * time.Hour), Rating: domain.RatingAgain},
	}

	reviewRepo.On("ListByOwner", int64(123)).
		Return([]domain.ReviewRecord{*hardToday, *hardYesterday}, nil)

	got, err := svc.ListDifficultToday(123)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, hardToday.ContentID, got[0].ContentID)
}

func TestReviewService_LearnCandidate(t *testing.T) {
	t.Run("returns an unseen item", func(t *testing.T) {
		contentRepo := new(testutil.MockContentRepository)
		reviewRepo := new(testutil.MockReviewRepository)
		svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

		item := testutil.NewTestItem(123, "cat", "кот")
		contentRepo.On("RandomUnseen", int64(123)).Return(item, nil)

		got, err := svc.LearnCandidate(123)

		require.NoError(t, err)
		assert.Equal(t, item, got)
	})

	t.Run("everything seen", func(t *testing.T) {
		contentRepo := new(testutil.MockContentRepository)
		reviewRepo := new(testutil.MockReviewRepository)
		svc := newTestReviewService(contentRepo, reviewRepo, time.Now())

		contentRepo.On("RandomUnseen", int64(123)).Return(nil, nil)

		_, err := svc.LearnCandidate(123)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
