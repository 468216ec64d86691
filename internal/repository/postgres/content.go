package postgres

import (
	"database/sql"

	"github.com/google/uuid"

	"lingodrill/internal/domain"
)

// ContentRepo implements repository.ContentRepository
type ContentRepo struct {
	db *sql.DB
}

// NewContentRepo creates a new content repository
func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// SaveItem saves a learning content item
func (r *ContentRepo) SaveItem(item *domain.ContentItem) error {
	query := `
		INSERT INTO content_items (id, user_id, kind, word, translation, sentence, audio_file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		item.ID, item.UserID, item.Kind, item.Word, item.Translation, item.Sentence, item.AudioFileID,
	)
	return err
}

// GetItem returns one content item, or nil when it doesn't exist
func (r *ContentRepo) GetItem(userID int64, id uuid.UUID) (*domain.ContentItem, error) {
	query := `
		SELECT id, user_id, kind, word, translation, sentence, audio_file_id, created_at
		FROM content_items
		WHERE user_id = $1 AND id = $2
	`
	item, err := scanItem(r.db.QueryRow(query, userID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetAudio stores the voice clip file id on an item
func (r *ContentRepo) SetAudio(userID int64, id uuid.UUID, fileID string) error {
	query := `
		UPDATE content_items
		SET audio_file_id = $3
		WHERE user_id = $1 AND id = $2
	`
	_, err := r.db.Exec(query, userID, id, fileID)
	return err
}

// ListItems returns all content items of the user, newest first
func (r *ContentRepo) ListItems(userID int64) ([]domain.ContentItem, error) {
	query := `
		SELECT id, user_id, kind, word, translation, sentence, audio_file_id, created_at
		FROM content_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// RandomUnseen returns a random item with no review record yet.
// Listening and shadowing items qualify only once they carry audio
func (r *ContentRepo) RandomUnseen(userID int64) (*domain.ContentItem, error) {
	query := `
		SELECT c.id, c.user_id, c.kind, c.word, c.translation, c.sentence, c.audio_file_id, c.created_at
		FROM content_items c
		WHERE c.user_id = $1
			AND NOT EXISTS (
				SELECT 1 FROM review_records rr
				WHERE rr.user_id = c.user_id AND rr.content_id = c.id
			)
			AND (c.kind NOT IN ('listening', 'shadowing') OR c.audio_file_id <> '')
		ORDER BY RANDOM()
		LIMIT 1
	`
	item, err := scanItem(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.Kind, &item.Word,
		&item.Translation, &item.Sentence, &item.AudioFileID, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
