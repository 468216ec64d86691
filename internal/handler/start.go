package handler

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}

	if !authorized {
		// Request password
		h.ResetState(userID)
		return c.Send("Привет! Сначала введи пароль:")
	}

	// Session queues are stale after leaving the drill flow
	h.queues.Clear(userID)
	h.ResetState(userID)
	return c.Send(
		"🏠 Главное меню\n\nВыбери режим:",
		mainMenuMarkup(),
	)
}

// handleStats shows the user's drill statistics
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	stats, err := h.statsService.Snapshot(userID)
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	text := fmt.Sprintf(
		"📊 Статистика\n\n"+
			"Всего карточек: %d\n"+
			"В повторении: %d\n"+
			"Ещё не изучено: %d\n"+
			"На сегодня: %d\n"+
			"⭐️ Избранных: %d\n"+
			"🔥 Трудных сегодня: %d",
		stats.Total, stats.WithReview, stats.WithoutReview,
		stats.DueToday, stats.Starred, stats.Difficult,
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))

	if err := h.handleEditError(c.Edit(text, markup), c, userID); err != nil {
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCancel aborts the current input flow
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	if err := h.handleEditError(c.Edit("🏠 Главное меню\n\nВыбери режим:", mainMenuMarkup()), c, userID); err != nil {
		return c.Send("🏠 Главное меню\n\nВыбери режим:", mainMenuMarkup())
	}
	return c.Respond()
}
