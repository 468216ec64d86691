package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingodrill/internal/domain"
	"lingodrill/internal/fsrs"
	"lingodrill/internal/repository"
)

// ReviewService owns review records: it provisions them lazily, applies
// ratings through the scheduler and is the only writer of review history
type ReviewService struct {
	contentRepo repository.ContentRepository
	reviewRepo  repository.ReviewRepository
	params      *fsrs.Params
	loc         *time.Location
	logger      *zap.Logger

	now func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(
	contentRepo repository.ContentRepository,
	reviewRepo repository.ReviewRepository,
	params *fsrs.Params,
	loc *time.Location,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		contentRepo: contentRepo,
		reviewRepo:  reviewRepo,
		params:      params,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

// Location returns the fixed civil timezone shared by the day classifiers
func (s *ReviewService) Location() *time.Location {
	return s.loc
}

// SubmitRating applies one self-rating to a content item. The record is
// created on first rating (seeded from the tier when one is declared),
// advanced through the scheduler exactly once and persisted with the new
// history entry. Returns the updated record together with the content
func (s *ReviewService) SubmitRating(
	userID int64,
	contentID uuid.UUID,
	rating domain.Rating,
	tier domain.Tier,
) (*domain.ReviewRecord, *domain.ContentItem, error) {
	if !rating.Valid() {
		return nil, nil, fmt.Errorf("%w: rating %d not in 1..4", domain.ErrInvalidRating, rating)
	}

	item, err := s.contentRepo.GetItem(userID, contentID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("content item %s: %w", contentID, domain.ErrNotFound)
	}

	now := s.now()
	record, err := s.getOrCreate(userID, contentID, tier, now)
	if err != nil {
		return nil, nil, err
	}

	state, entry := s.params.Advance(stateFromRecord(record), rating, now)
	applyState(record, state)
	record.History = append(record.History, entry)
	record.UpdatedAt = now

	// The advanced state is persisted exactly once; a retry re-persists
	// this result rather than advancing the curve a second time
	if err := s.reviewRepo.Put(record); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Rating applied",
		zap.Int64("user_id", userID),
		zap.String("content_id", contentID.String()),
		zap.Int("rating", int(rating)),
		zap.Int("lapses", record.Lapses),
		zap.Float64("interval_days", record.IntervalDays),
	)

	return record, item, nil
}

// ToggleStar flips the starred flag. Starring an unrated item provisions
// its record first, but that does not count as a rating: the history
// stays empty and the item remains due immediately
func (s *ReviewService) ToggleStar(userID int64, contentID uuid.UUID) (*domain.ReviewRecord, error) {
	record, err := s.reviewRepo.Get(userID, contentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if record == nil {
		item, err := s.contentRepo.GetItem(userID, contentID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("content item %s: %w", contentID, domain.ErrNotFound)
		}
		record = s.newRecord(userID, contentID, domain.TierNone, now)
	}

	record.Starred = !record.Starred
	record.UpdatedAt = now

	if err := s.reviewRepo.Put(record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListAll returns every review record of the user
func (s *ReviewService) ListAll(userID int64) ([]domain.ReviewRecord, error) {
	return s.reviewRepo.ListByOwner(userID)
}

// ListDue returns the records whose review day has arrived
func (s *ReviewService) ListDue(userID int64) ([]domain.ReviewRecord, error) {
	records, err := s.reviewRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var due []domain.ReviewRecord
	for _, rec := range records {
		if rec.IsDue(now, s.loc) {
			due = append(due, rec)
		}
	}
	return due, nil
}

// ListStarred returns the records the user starred
func (s *ReviewService) ListStarred(userID int64) ([]domain.ReviewRecord, error) {
	records, err := s.reviewRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	var starred []domain.ReviewRecord
	for _, rec := range records {
		if rec.Starred {
			starred = append(starred, rec)
		}
	}
	return starred, nil
}

// ListDifficultToday returns the records rated Again or Hard today.
// Membership is derived from the history and clears at the next
// calendar day on its own
func (s *ReviewService) ListDifficultToday(userID int64) ([]domain.ReviewRecord, error) {
	records, err := s.reviewRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var difficult []domain.ReviewRecord
	for _, rec := range records {
		if rec.IsDifficultToday(now, s.loc) {
			difficult = append(difficult, rec)
		}
	}
	return difficult, nil
}

// LearnCandidate samples one eligible content item without a review
// record yet. ErrNotFound means everything has been seen
func (s *ReviewService) LearnCandidate(userID int64) (*domain.ContentItem, error) {
	item, err := s.contentRepo.RandomUnseen(userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("no learn candidate: %w", domain.ErrNotFound)
	}
	return item, nil
}

// getOrCreate returns the stored record or builds a fresh one in memory.
// A built record is not persisted here: only a rating or a star creates
// a durable record, so Learn sampling keeps seeing unrated items
func (s *ReviewService) getOrCreate(
	userID int64,
	contentID uuid.UUID,
	tier domain.Tier,
	now time.Time,
) (*domain.ReviewRecord, error) {
	record, err := s.reviewRepo.Get(userID, contentID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	return s.newRecord(userID, contentID, tier, now), nil
}

func (s *ReviewService) newRecord(
	userID int64,
	contentID uuid.UUID,
	tier domain.Tier,
	now time.Time,
) *domain.ReviewRecord {
	record := &domain.ReviewRecord{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: contentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyState(record, s.params.NewStateFromTier(tier, now))
	return record
}

func stateFromRecord(rec *domain.ReviewRecord) fsrs.State {
	return fsrs.State{
		Stability:    rec.Stability,
		Difficulty:   rec.Difficulty,
		IntervalDays: rec.IntervalDays,
		Lapses:       rec.Lapses,
		LastReview:   rec.LastReviewAt,
		NextReview:   rec.NextReviewAt,
	}
}

func applyState(rec *domain.ReviewRecord, st fsrs.State) {
	rec.Stability = st.Stability
	rec.Difficulty = st.Difficulty
	rec.IntervalDays = st.IntervalDays
	rec.Lapses = st.Lapses
	rec.LastReviewAt = st.LastReview
	rec.NextReviewAt = st.NextReview
}
