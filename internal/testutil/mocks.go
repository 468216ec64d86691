package testutil

import (
	"lingodrill/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) ListAuthorized() ([]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockContentRepository is a mock for ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) SaveItem(item *domain.ContentItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockContentRepository) GetItem(userID int64, id uuid.UUID) (*domain.ContentItem, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *MockContentRepository) SetAudio(userID int64, id uuid.UUID, fileID string) error {
	args := m.Called(userID, id, fileID)
	return args.Error(0)
}

func (m *MockContentRepository) ListItems(userID int64) ([]domain.ContentItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContentItem), args.Error(1)
}

func (m *MockContentRepository) RandomUnseen(userID int64) (*domain.ContentItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

// MockReviewRepository is a mock for ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Get(userID int64, contentID uuid.UUID) (*domain.ReviewRecord, error) {
	args := m.Called(userID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) Put(record *domain.ReviewRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByOwner(userID int64) ([]domain.ReviewRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewRecord), args.Error(1)
}
