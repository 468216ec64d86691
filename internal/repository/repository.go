package repository

import (
	"github.com/google/uuid"

	"lingodrill/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
	ListAuthorized() ([]int64, error)
}

// ContentRepository defines learning-content data operations
type ContentRepository interface {
	SaveItem(item *domain.ContentItem) error
	GetItem(userID int64, id uuid.UUID) (*domain.ContentItem, error)
	SetAudio(userID int64, id uuid.UUID, fileID string) error
	ListItems(userID int64) ([]domain.ContentItem, error)
	// RandomUnseen returns one random eligible item the user has no
	// review record for yet, or nil when every item has been seen
	RandomUnseen(userID int64) (*domain.ContentItem, error)
}

// ReviewRepository defines review-record data operations
type ReviewRepository interface {
	// Get returns the record for the content item, or nil when missing
	Get(userID int64, contentID uuid.UUID) (*domain.ReviewRecord, error)
	Put(record *domain.ReviewRecord) error
	ListByOwner(userID int64) ([]domain.ReviewRecord, error)
}
