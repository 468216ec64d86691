package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
	StateWaitingSentence    UserState = "waiting_sentence"
	StateWaitingAudio       UserState = "waiting_audio"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	Kind        DrillKind // drill kind the item being added belongs to
	CurrentWord string    // word or sentence collected so far
	PendingItem string    // item id waiting for its voice clip
}
