package handler

import (
	"sync"

	"lingodrill/internal/domain"
	"lingodrill/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot            *tele.Bot
	authService    *service.AuthService
	contentService *service.ContentService
	reviewService  *service.ReviewService
	statsService   *service.StatsService
	queues         *service.QueueManager
	logger         *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	contentService *service.ContentService,
	reviewService *service.ReviewService,
	statsService *service.StatsService,
	queues *service.QueueManager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:            bot,
		authService:    authService,
		contentService: contentService,
		reviewService:  reviewService,
		statsService:   statsService,
		queues:         queues,
		logger:         logger,
		states:         make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text and voice messages
	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnVoice, h.handleVoice)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnDueMode, h.handleDueMode)
	h.bot.Handle(&btnDifficultMode, h.handleDifficultMode)
	h.bot.Handle(&btnStarredMode, h.handleStarredMode)
	h.bot.Handle(&btnLearnMode, h.handleLearnMode)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// Inline keyboard buttons
var (
	btnDueMode = tele.Btn{
		Unique: "mode_due",
		Text:   "📆 На сегодня",
	}
	btnDifficultMode = tele.Btn{
		Unique: "mode_difficult",
		Text:   "🔥 Трудные",
	}
	btnStarredMode = tele.Btn{
		Unique: "mode_starred",
		Text:   "⭐️ Избранные",
	}
	btnLearnMode = tele.Btn{
		Unique: "mode_learn",
		Text:   "🆕 Учить новое",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Статистика",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Добавить слово",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnDueMode),
		menu.Row(btnDifficultMode, btnStarredMode),
		menu.Row(btnLearnMode),
		menu.Row(btnAddWord, btnStats),
	)
	return menu
}
