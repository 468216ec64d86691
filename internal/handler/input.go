package handler

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"lingodrill/internal/domain"
)

// handleAddWord opens the content input flow: type a word right away or
// pick a sentence drill first
func (h *Handler) handleAddWord(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{
		State: domain.StateWaitingWord,
		Kind:  domain.DrillVocabulary,
	})

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("✍️ Предложение на перевод", "add_sentence_translation")),
		markup.Row(markup.Data("🎧 Аудирование", "add_sentence_listening")),
		markup.Row(markup.Data("🗣 Шэдоуинг", "add_sentence_shadowing")),
		markup.Row(btnCancel),
	)

	text := "🔤 Жду слово — или выбери другой тип карточки:"
	if err := h.handleEditError(c.Edit(text, markup), c, userID); err != nil {
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleAddSentence starts a sentence input flow for the chosen drill
func (h *Handler) handleAddSentence(c tele.Context, data string) error {
	userID := c.Sender().ID

	kind := domain.DrillKind(strings.TrimPrefix(data, "add_sentence_"))
	switch kind {
	case domain.DrillTranslation, domain.DrillListening, domain.DrillShadowing:
	default:
		h.logger.Warn("Bad add_sentence callback", zap.String("data", data))
		return c.Respond()
	}

	h.SetState(userID, &domain.StateData{
		State: domain.StateWaitingSentence,
		Kind:  kind,
	})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	text := "✍️ Жду предложение"
	if kind != domain.DrillTranslation {
		text = "✍️ Жду предложение (потом попрошу голосовое)"
	}
	if err := h.handleEditError(c.Edit(text, cancelMarkup), c, userID); err != nil {
		return c.Send(text, cancelMarkup)
	}
	return c.Respond()
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}

	// If not authorized, check password
	if !authorized {
		if h.authService.CheckPassword(text) {
			// Correct password
			if err := h.authService.AuthorizeUser(userID); err != nil {
				h.logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			h.logger.Info("User authorized", zap.Int64("user_id", userID))
			h.ResetState(userID)
			return c.Send(
				"✅ Доступ разрешён!\n\n🏠 Главное меню\n\nВыбери режим:",
				mainMenuMarkup(),
			)
		}

		// Wrong password
		return c.Send("Неправильный пароль")
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)
	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	switch state.State {
	case domain.StateWaitingWord:
		// User sent a word, now wait for translation
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingTranslation,
			Kind:        domain.DrillVocabulary,
			CurrentWord: text,
		})
		return c.Send("Жду перевод", cancelMarkup)

	case domain.StateWaitingSentence:
		if state.Kind == domain.DrillTranslation {
			h.SetState(userID, &domain.StateData{
				State:       domain.StateWaitingTranslation,
				Kind:        domain.DrillTranslation,
				CurrentWord: text,
			})
			return c.Send("Жду перевод", cancelMarkup)
		}

		// Listening/shadowing: save the sentence, then collect the audio
		item, err := h.contentService.AddSentence(userID, state.Kind, text, "")
		if err != nil {
			h.logger.Error("Failed to save sentence",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			return c.Send("Не удалось сохранить предложение. Попробуйте ещё раз.")
		}
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingAudio,
			Kind:        state.Kind,
			PendingItem: item.ID.String(),
		})
		return c.Send("Теперь отправь голосовое 🎙", cancelMarkup)

	case domain.StateWaitingTranslation:
		if state.Kind == domain.DrillTranslation {
			if _, err := h.contentService.AddSentence(userID, state.Kind, state.CurrentWord, text); err != nil {
				h.logger.Error("Failed to save sentence pair",
					zap.Error(err),
					zap.Int64("user_id", userID),
				)
				return c.Send("Не удалось сохранить. Попробуйте ещё раз.")
			}
			h.SetState(userID, &domain.StateData{
				State: domain.StateWaitingSentence,
				Kind:  domain.DrillTranslation,
			})
			return c.Send("✅ Сохранено!\n\nМожешь отправить следующее предложение или вернуться в /start")
		}

		// Vocabulary pair
		if _, err := h.contentService.AddWordPair(userID, state.CurrentWord, text); err != nil {
			h.logger.Error("Failed to save word pair",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			return c.Send("Не удалось сохранить слово. Попробуйте ещё раз.")
		}

		h.logger.Info("Word pair saved",
			zap.Int64("user_id", userID),
			zap.String("word", state.CurrentWord),
		)

		// Reset to waiting for next word
		h.SetState(userID, &domain.StateData{
			State: domain.StateWaitingWord,
			Kind:  domain.DrillVocabulary,
		})
		return c.Send("✅ Сохранено!\n\nМожешь отправить следующее слово или вернуться в /start")

	case domain.StateWaitingAudio:
		return c.Send("Жду голосовое сообщение 🎙", cancelMarkup)

	default:
		// Idle state - treat the text as a new word
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingTranslation,
			Kind:        domain.DrillVocabulary,
			CurrentWord: text,
		})
		return c.Send("Жду перевод", cancelMarkup)
	}
}

// handleVoice attaches a voice clip to the sentence waiting for it
func (h *Handler) handleVoice(c tele.Context) error {
	userID := c.Sender().ID

	state := h.GetState(userID)
	if state.State != domain.StateWaitingAudio {
		return c.Send("Сначала добавь предложение: ➕ Добавить слово → 🎧 или 🗣")
	}

	itemID, err := uuid.Parse(state.PendingItem)
	if err != nil {
		h.logger.Error("Corrupt pending item id in state",
			zap.String("pending_item", state.PendingItem),
			zap.Int64("user_id", userID),
		)
		h.ResetState(userID)
		return c.Send("Что-то пошло не так, начни заново с ➕")
	}

	voice := c.Message().Voice
	if voice == nil || voice.FileID == "" {
		return c.Send("Не вижу голосового, попробуй ещё раз 🎙")
	}

	if err := h.contentService.AttachAudio(userID, itemID, voice.FileID); err != nil {
		h.logger.Error("Failed to attach audio",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("content_id", itemID.String()),
		)
		return c.Send("Не удалось сохранить аудио. Попробуйте ещё раз.")
	}

	h.ResetState(userID)
	return c.Send("✅ Карточка с аудио готова!", mainMenuMarkup())
}
