package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"lingodrill/internal/domain"
)

// ReviewRepo implements repository.ReviewRepository
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo creates a new review record repository
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Get returns the review record for a content item, or nil when missing
func (r *ReviewRepo) Get(userID int64, contentID uuid.UUID) (*domain.ReviewRecord, error) {
	query := `
		SELECT id, user_id, content_id, stability, difficulty, lapses, interval_days,
			next_review_at, last_review_at, starred, history, created_at, updated_at
		FROM review_records
		WHERE user_id = $1 AND content_id = $2
	`
	rec, err := scanRecord(r.db.QueryRow(query, userID, contentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Put upserts a review record. One record per (user, content item):
// a second Put for the same pair overwrites the scheduling state
func (r *ReviewRepo) Put(record *domain.ReviewRecord) error {
	history, err := json.Marshal(record.History)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO review_records
			(id, user_id, content_id, stability, difficulty, lapses, interval_days,
			next_review_at, last_review_at, starred, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, content_id)
		DO UPDATE SET
			stability = EXCLUDED.stability,
			difficulty = EXCLUDED.difficulty,
			lapses = EXCLUDED.lapses,
			interval_days = EXCLUDED.interval_days,
			next_review_at = EXCLUDED.next_review_at,
			last_review_at = EXCLUDED.last_review_at,
			starred = EXCLUDED.starred,
			history = EXCLUDED.history,
			updated_at = NOW()
	`
	_, err = r.db.Exec(query,
		record.ID, record.UserID, record.ContentID,
		record.Stability, record.Difficulty, record.Lapses, record.IntervalDays,
		record.NextReviewAt, nullableTime(record.LastReviewAt), record.Starred, history,
	)
	return err
}

// ListByOwner returns all review records of the user
func (r *ReviewRepo) ListByOwner(userID int64) ([]domain.ReviewRecord, error) {
	query := `
		SELECT id, user_id, content_id, stability, difficulty, lapses, interval_days,
			next_review_at, last_review_at, starred, history, created_at, updated_at
		FROM review_records
		WHERE user_id = $1
		ORDER BY next_review_at
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ReviewRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

func scanRecord(row rowScanner) (*domain.ReviewRecord, error) {
	var rec domain.ReviewRecord
	var lastReview sql.NullTime
	var history []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ContentID,
		&rec.Stability, &rec.Difficulty, &rec.Lapses, &rec.IntervalDays,
		&rec.NextReviewAt, &lastReview, &rec.Starred, &history,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReview.Valid {
		rec.LastReviewAt = &lastReview.Time
	}

	// An unparsable history column must not fail the record: the
	// scheduling fields are intact, so recover with an empty log
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rec.History); err != nil {
			rec.History = nil
		}
	}

	return &rec, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
