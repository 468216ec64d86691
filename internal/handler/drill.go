package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"lingodrill/internal/domain"
	"lingodrill/internal/service"
)

// handleDueMode enters the scheduler-backed Due drill
func (h *Handler) handleDueMode(c tele.Context) error {
	userID := c.Sender().ID

	ids, err := h.dueContentIDs(userID)
	if err != nil {
		h.logger.Error("Failed to build due queue", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	h.queues.Rebuild(userID, service.QueueDue, ids)
	return h.serveNext(c, service.QueueDue)
}

// handleDifficultMode enters the local re-drill over today's lapses
func (h *Handler) handleDifficultMode(c tele.Context) error {
	userID := c.Sender().ID

	records, err := h.reviewService.ListDifficultToday(userID)
	if err != nil {
		h.logger.Error("Failed to build difficult queue", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	h.queues.SyncMerge(userID, service.QueueDifficult, contentIDs(records))
	return h.serveNext(c, service.QueueDifficult)
}

// handleStarredMode enters the local re-drill over starred items
func (h *Handler) handleStarredMode(c tele.Context) error {
	userID := c.Sender().ID

	records, err := h.reviewService.ListStarred(userID)
	if err != nil {
		h.logger.Error("Failed to build starred queue", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	h.queues.SyncMerge(userID, service.QueueStarred, contentIDs(records))
	return h.serveNext(c, service.QueueStarred)
}

// handleLearnMode serves one random unseen item
func (h *Handler) handleLearnMode(c tele.Context) error {
	userID := c.Sender().ID

	item, err := h.reviewService.LearnCandidate(userID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Новых карточек нет — всё уже в повторении",
			ShowAlert: true,
		})
	}
	if err != nil {
		h.logger.Error("Failed to pick learn candidate", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("😤 Сложное (1 день)", "tier_hard_"+item.ID.String())),
		markup.Row(markup.Data("🙂 Обычное (3 дня)", "tier_medium_"+item.ID.String())),
		markup.Row(markup.Data("😌 Лёгкое (7 дней)", "tier_easy_"+item.ID.String())),
		markup.Row(markup.Data("💤 Очень лёгкое (14 дней)", "tier_very_easy_"+item.ID.String())),
		markup.Row(btnMainMenu),
	)

	text := "🆕 Новая карточка\n\n" + cardFullText(item) + "\n\nНасколько она тебе знакома?"
	return h.sendCard(c, item, text, markup)
}

// serveNext shows the head of the session queue, resyncing or closing
// the round when the queue is empty
func (h *Handler) serveNext(c tele.Context, mode service.QueueMode) error {
	userID := c.Sender().ID

	id, ok := h.queues.Head(userID, mode)
	if !ok && mode == service.QueueDue {
		// Empty due queue triggers one resync before giving up
		ids, err := h.dueContentIDs(userID)
		if err != nil {
			h.logger.Error("Failed to resync due queue", zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
		}
		h.queues.Rebuild(userID, service.QueueDue, ids)
		id, ok = h.queues.Head(userID, mode)
	}

	if !ok {
		return h.finishRound(c, mode)
	}

	item, err := h.contentService.GetItem(userID, id)
	if err != nil {
		h.logger.Error("Failed to load queued item",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		// A stale id must not wedge the session
		h.queues.MarkRated(userID, mode, id)
		return h.serveNext(c, mode)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("👀 Показать ответ", fmt.Sprintf("reveal_%s_%s", mode, item.ID))),
		markup.Row(
			markup.Data("⭐️", fmt.Sprintf("star_%s_%s", mode, item.ID)),
			btnMainMenu,
		),
	)

	left := h.queues.Len(userID, mode)
	text := fmt.Sprintf("%s  (осталось: %d)\n\n%s", modeTitle(mode), left, cardPrompt(item))
	return h.sendCard(c, item, text, markup)
}

// handleReveal shows the hidden side with the mode's action buttons
func (h *Handler) handleReveal(c tele.Context, data string) error {
	userID := c.Sender().ID

	mode, id, err := parseModeID(strings.TrimPrefix(data, "reveal_"))
	if err != nil {
		h.logger.Warn("Bad reveal callback", zap.String("data", data))
		return c.Respond()
	}

	item, err := h.contentService.GetItem(userID, id)
	if err != nil {
		h.logger.Error("Failed to load item for reveal", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Карточка не найдена"})
	}

	markup := &tele.ReplyMarkup{}
	if mode == service.QueueDue {
		// Real ratings: these feed the forgetting-curve model
		markup.Inline(
			markup.Row(
				markup.Data("🔁 Снова", fmt.Sprintf("rate_%s_1_%s", mode, id)),
				markup.Data("😓 Трудно", fmt.Sprintf("rate_%s_2_%s", mode, id)),
			),
			markup.Row(
				markup.Data("👍 Хорошо", fmt.Sprintf("rate_%s_3_%s", mode, id)),
				markup.Data("😎 Легко", fmt.Sprintf("rate_%s_4_%s", mode, id)),
			),
			markup.Row(btnMainMenu),
		)
	} else {
		// Local actions: reorder the session queue, never touch records
		markup.Inline(
			markup.Row(
				markup.Data("😓 Трудно", fmt.Sprintf("local_%s_hard", mode)),
				markup.Data("👍 Легко", fmt.Sprintf("local_%s_easy", mode)),
			),
			markup.Row(btnMainMenu),
		)
	}

	text := modeTitle(mode) + "\n\n" + cardFullText(item)
	if err := h.handleEditError(c.Edit(text, markup), c, userID); err != nil {
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleRate applies a scheduler rating from the Due drill
func (h *Handler) handleRate(c tele.Context, data string) error {
	userID := c.Sender().ID

	parts := strings.SplitN(strings.TrimPrefix(data, "rate_"), "_", 3)
	if len(parts) != 3 {
		h.logger.Warn("Bad rate callback", zap.String("data", data))
		return c.Respond()
	}
	mode := service.QueueMode(parts[0])
	rating, err := strconv.Atoi(parts[1])
	if err != nil {
		h.logger.Warn("Bad rating in callback", zap.String("data", data))
		return c.Respond()
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		h.logger.Warn("Bad content id in callback", zap.String("data", data))
		return c.Respond()
	}

	record, _, err := h.reviewService.SubmitRating(userID, id, domain.Rating(rating), domain.TierNone)
	if err != nil {
		h.logger.Error("Failed to submit rating",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("content_id", id.String()),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Не удалось сохранить оценку"})
	}

	// Optimistic removal: the queue must not wait for a full resync
	h.queues.MarkRated(userID, mode, id)

	if err := c.Respond(&tele.CallbackResponse{
		Text: fmt.Sprintf("Следующий повтор через %s", intervalText(record.IntervalDays)),
	}); err != nil {
		h.logger.Debug("Failed to acknowledge rating callback", zap.Error(err))
	}
	return h.serveNext(c, mode)
}

// handleTier provisions a Learn candidate from a declared difficulty tier
func (h *Handler) handleTier(c tele.Context, data string) error {
	userID := c.Sender().ID

	rest := strings.TrimPrefix(data, "tier_")
	idx := strings.LastIndex(rest, "_")
	if idx < 1 {
		h.logger.Warn("Bad tier callback", zap.String("data", data))
		return c.Respond()
	}
	tier := domain.Tier(rest[:idx])
	id, err := uuid.Parse(rest[idx+1:])
	if err != nil {
		h.logger.Warn("Bad content id in tier callback", zap.String("data", data))
		return c.Respond()
	}

	_, _, err = h.reviewService.SubmitRating(userID, id, domain.RatingGood, tier)
	if err != nil {
		h.logger.Error("Failed to provision learn card",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("content_id", id.String()),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Не удалось сохранить карточку"})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "Добавлено в повторение"}); err != nil {
		h.logger.Debug("Failed to acknowledge tier callback", zap.Error(err))
	}
	return h.handleLearnMode(c)
}

// handleLocal applies a local Easy/Hard action in Starred/Difficult mode
func (h *Handler) handleLocal(c tele.Context, data string) error {
	userID := c.Sender().ID

	parts := strings.SplitN(strings.TrimPrefix(data, "local_"), "_", 2)
	if len(parts) != 2 {
		h.logger.Warn("Bad local callback", zap.String("data", data))
		return c.Respond()
	}
	mode := service.QueueMode(parts[0])

	switch parts[1] {
	case "easy":
		h.queues.DropHead(userID, mode)
	case "hard":
		h.queues.RotateHead(userID, mode)
	default:
		h.logger.Warn("Unknown local action", zap.String("data", data))
		return c.Respond()
	}

	return h.serveNext(c, mode)
}

// handleStarToggle flips the star on the shown card
func (h *Handler) handleStarToggle(c tele.Context, data string) error {
	userID := c.Sender().ID

	_, id, err := parseModeID(strings.TrimPrefix(data, "star_"))
	if err != nil {
		h.logger.Warn("Bad star callback", zap.String("data", data))
		return c.Respond()
	}

	record, err := h.reviewService.ToggleStar(userID, id)
	if err != nil {
		h.logger.Error("Failed to toggle star", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Не удалось изменить избранное"})
	}

	if record.Starred {
		return c.Respond(&tele.CallbackResponse{Text: "⭐️ В избранном"})
	}
	return c.Respond(&tele.CallbackResponse{Text: "Убрано из избранного"})
}

// handleReset starts another round over the full qualifying set
func (h *Handler) handleReset(c tele.Context, data string) error {
	userID := c.Sender().ID
	mode := service.QueueMode(strings.TrimPrefix(data, "reset_"))

	var err error
	var records []domain.ReviewRecord
	switch mode {
	case service.QueueStarred:
		records, err = h.reviewService.ListStarred(userID)
	case service.QueueDifficult:
		records, err = h.reviewService.ListDifficultToday(userID)
	default:
		h.logger.Warn("Bad reset callback", zap.String("data", data))
		return c.Respond()
	}
	if err != nil {
		h.logger.Error("Failed to reset queue", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке данных"})
	}

	h.queues.Rebuild(userID, mode, contentIDs(records))
	return h.serveNext(c, mode)
}

// finishRound closes an empty queue for its mode
func (h *Handler) finishRound(c tele.Context, mode service.QueueMode) error {
	userID := c.Sender().ID

	markup := &tele.ReplyMarkup{}
	var text string
	switch mode {
	case service.QueueDue:
		text = "🎉 На сегодня всё! Возвращайся завтра."
		markup.Inline(markup.Row(btnMainMenu))
	default:
		text = "Круг пройден. Ещё раз?"
		markup.Inline(
			markup.Row(markup.Data("🔁 Ещё круг", "reset_"+string(mode))),
			markup.Row(btnMainMenu),
		)
	}

	if err := h.handleEditError(c.Edit(text, markup), c, userID); err != nil {
		return c.Send(text, markup)
	}
	return c.Respond()
}

// sendCard delivers a card, attaching the voice clip for audio drills
func (h *Handler) sendCard(c tele.Context, item *domain.ContentItem, text string, markup *tele.ReplyMarkup) error {
	userID := c.Sender().ID

	if item.AudioFileID != "" &&
		(item.Kind == domain.DrillListening || item.Kind == domain.DrillShadowing) {
		voice := &tele.Voice{File: tele.File{FileID: item.AudioFileID}, Caption: text}
		if err := c.Respond(); err != nil {
			h.logger.Debug("Failed to acknowledge callback", zap.Error(err))
		}
		return c.Send(voice, markup)
	}

	if err := h.handleEditError(c.Edit(text, markup), c, userID); err != nil {
		return c.Send(text, markup)
	}
	return c.Respond()
}

// dueContentIDs lists the ids of everything currently due
func (h *Handler) dueContentIDs(userID int64) ([]uuid.UUID, error) {
	records, err := h.reviewService.ListDue(userID)
	if err != nil {
		return nil, err
	}
	return contentIDs(records), nil
}

func contentIDs(records []domain.ReviewRecord) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ContentID)
	}
	return ids
}

// cardPrompt renders the question side of a card
func cardPrompt(item *domain.ContentItem) string {
	switch item.Kind {
	case domain.DrillVocabulary:
		return "🔤 " + item.Word
	case domain.DrillTranslation:
		return "✍️ Переведи:\n" + item.Sentence
	case domain.DrillListening:
		return "🎧 Послушай и пойми смысл"
	case domain.DrillShadowing:
		return "🗣 Повтори вслух за диктором"
	}
	return item.Prompt()
}

// cardFullText renders both sides of a card
func cardFullText(item *domain.ContentItem) string {
	switch item.Kind {
	case domain.DrillVocabulary:
		return fmt.Sprintf("🔤 %s — %s", item.Word, item.Translation)
	case domain.DrillTranslation:
		return fmt.Sprintf("✍️ %s\n\n➡️ %s", item.Sentence, item.Translation)
	case domain.DrillListening:
		if item.Translation != "" {
			return fmt.Sprintf("🎧 %s\n\n➡️ %s", item.Sentence, item.Translation)
		}
		return "🎧 " + item.Sentence
	case domain.DrillShadowing:
		return "🗣 " + item.Sentence
	}
	return item.Prompt()
}

func modeTitle(mode service.QueueMode) string {
	switch mode {
	case service.QueueDue:
		return "📆 На сегодня"
	case service.QueueDifficult:
		return "🔥 Трудные"
	case service.QueueStarred:
		return "⭐️ Избранные"
	}
	return string(mode)
}

// intervalText formats an interval for the rating acknowledgement
func intervalText(days float64) string {
	switch {
	case days < 1.5:
		return "1 день"
	case days < 30:
		return fmt.Sprintf("%.0f дн.", days)
	default:
		return fmt.Sprintf("%.1f мес.", days/30)
	}
}

func parseModeID(rest string) (service.QueueMode, uuid.UUID, error) {
	idx := strings.LastIndex(rest, "_")
	if idx < 1 {
		return "", uuid.Nil, fmt.Errorf("malformed callback payload %q", rest)
	}
	id, err := uuid.Parse(rest[idx+1:])
	if err != nil {
		return "", uuid.Nil, err
	}
	return service.QueueMode(rest[:idx]), id, nil
}
