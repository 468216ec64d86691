package service

import (
	"time"

	"go.uber.org/zap"

	"lingodrill/internal/repository"
)

// DrillStats summarizes one user's drilling state
type DrillStats struct {
	Total         int
	WithReview    int
	WithoutReview int
	DueToday      int
	Starred       int
	Difficult     int
}

// StatsService computes drill statistics
type StatsService struct {
	contentRepo repository.ContentRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	loc         *time.Location
	logger      *zap.Logger

	now func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	contentRepo repository.ContentRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		contentRepo: contentRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

// Snapshot computes the user's current drill statistics. Due and
// difficult counts are derived from the records on every call, never
// stored
func (s *StatsService) Snapshot(userID int64) (*DrillStats, error) {
	items, err := s.contentRepo.ListItems(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.reviewRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &DrillStats{
		Total:      len(items),
		WithReview: len(records),
	}
	if stats.WithoutReview = stats.Total - stats.WithReview; stats.WithoutReview < 0 {
		stats.WithoutReview = 0
	}

	for _, rec := range records {
		if rec.IsDue(now, s.loc) {
			stats.DueToday++
		}
		if rec.Starred {
			stats.Starred++
		}
		if rec.IsDifficultToday(now, s.loc) {
			stats.Difficult++
		}
	}

	return stats, nil
}

// LogDailySnapshots logs the drill statistics of every authorized user.
// Run by the background job once a day
func (s *StatsService) LogDailySnapshots() error {
	userIDs, err := s.userRepo.ListAuthorized()
	if err != nil {
		s.logger.Error("Failed to list users for stats snapshot", zap.Error(err))
		return err
	}

	for _, userID := range userIDs {
		stats, err := s.Snapshot(userID)
		if err != nil {
			s.logger.Error("Failed to compute stats snapshot",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("Daily drill snapshot",
			zap.Int64("user_id", userID),
			zap.Int("total", stats.Total),
			zap.Int("due_today", stats.DueToday),
			zap.Int("starred", stats.Starred),
			zap.Int("difficult", stats.Difficult),
		)
	}

	return nil
}
