package domain

import (
	"time"

	"github.com/google/uuid"
)

// DrillKind identifies which practice exercise a content item belongs to
type DrillKind string

const (
	DrillVocabulary  DrillKind = "vocabulary"
	DrillTranslation DrillKind = "translation"
	DrillListening   DrillKind = "listening"
	DrillShadowing   DrillKind = "shadowing"
)

// ContentItem is one learning unit: a word pair, a sentence with its
// translation, or an audio-bearing sentence for listening/shadowing
type ContentItem struct {
	ID          uuid.UUID
	UserID      int64
	Kind        DrillKind
	Word        string
	Translation string
	Sentence    string
	AudioFileID string // Telegram file id of the attached voice clip
	CreatedAt   time.Time
}

// Learnable reports whether the item carries everything its drill kind
// needs to be served in Learn mode
func (c *ContentItem) Learnable() bool {
	switch c.Kind {
	case DrillVocabulary:
		return c.Word != "" && c.Translation != ""
	case DrillTranslation:
		return c.Sentence != "" && c.Translation != ""
	case DrillListening, DrillShadowing:
		return c.Sentence != "" && c.AudioFileID != ""
	}
	return false
}

// Prompt returns the side of the item shown before the user answers
func (c *ContentItem) Prompt() string {
	switch c.Kind {
	case DrillVocabulary:
		return c.Word
	default:
		return c.Sentence
	}
}

// Answer returns the side of the item revealed after the user answers.
// Shadowing has no hidden side: the user repeats the sentence aloud
func (c *ContentItem) Answer() string {
	switch c.Kind {
	case DrillShadowing:
		return c.Sentence
	default:
		return c.Translation
	}
}
