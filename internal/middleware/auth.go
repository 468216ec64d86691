package middleware

import (
	"lingodrill/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AuthMiddleware creates authentication middleware. Text messages from
// unauthorized users pass through: they may be the password being typed
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			// Ensure user exists
			if err := authService.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			// Unauthorized button presses are rejected; /start and plain
			// text continue to the password flow
			if !authorized && c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{
					Text:      "Сначала введи пароль",
					ShowAlert: true,
				})
			}

			return next(c)
		}
	}
}
