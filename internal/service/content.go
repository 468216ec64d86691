package service

import (
	"fmt"

	"github.com/google/uuid"

	"lingodrill/internal/domain"
	"lingodrill/internal/repository"
)

// ContentService handles learning-content business logic
type ContentService struct {
	contentRepo repository.ContentRepository
}

// NewContentService creates a new content service
func NewContentService(contentRepo repository.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// AddWordPair saves a vocabulary word-translation pair
func (s *ContentService) AddWordPair(userID int64, word, translation string) (*domain.ContentItem, error) {
	if word == "" || translation == "" {
		return nil, fmt.Errorf("word and translation cannot be empty")
	}

	item := &domain.ContentItem{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.DrillVocabulary,
		Word:        word,
		Translation: translation,
	}
	if err := s.contentRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// AddSentence saves a sentence item for the translation, listening or
// shadowing drills. Audio for the latter two is attached separately
func (s *ContentService) AddSentence(
	userID int64,
	kind domain.DrillKind,
	sentence, translation string,
) (*domain.ContentItem, error) {
	switch kind {
	case domain.DrillTranslation, domain.DrillListening, domain.DrillShadowing:
	default:
		return nil, fmt.Errorf("kind %q does not take sentences", kind)
	}
	if sentence == "" {
		return nil, fmt.Errorf("sentence cannot be empty")
	}
	if kind == domain.DrillTranslation && translation == "" {
		return nil, fmt.Errorf("translation cannot be empty")
	}

	item := &domain.ContentItem{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Sentence:    sentence,
		Translation: translation,
	}
	if err := s.contentRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// AttachAudio stores the voice clip file id on a sentence item
func (s *ContentService) AttachAudio(userID int64, id uuid.UUID, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("audio file id cannot be empty")
	}

	item, err := s.contentRepo.GetItem(userID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("content item %s: %w", id, domain.ErrNotFound)
	}

	return s.contentRepo.SetAudio(userID, id, fileID)
}

// GetItem returns one content item
func (s *ContentService) GetItem(userID int64, id uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.contentRepo.GetItem(userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("content item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// ListItems returns all content items of the user
func (s *ContentService) ListItems(userID int64) ([]domain.ContentItem, error) {
	return s.contentRepo.ListItems(userID)
}
