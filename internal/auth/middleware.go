package auth

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/repository"
)

const userIDKey = "user_id"

// Middleware validates the bearer token and resolves the calling user.
//
// Behavior:
//   - Missing or malformed Authorization header → 401.
//   - Invalid, expired or wrongly signed token → 401.
//   - Unknown or blocked user → 401.
//   - Otherwise stores the user id on the context (see UserID).
func Middleware(issuer *Issuer, users *repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := logger.FromContext(ctx, nil)

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return svcErr.Unauthorized("missing bearer token")
			}

			userID, err := issuer.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Debug("rejected token", "err", err)
				return svcErr.Unauthorized("invalid or expired token")
			}

			user, err := users.FindByID(ctx, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return svcErr.Unauthorized("unknown user")
			} else if err != nil {
				return err
			}
			if user.Status == db.UserBlocked {
				log.Warn("blocked user rejected", "user_id", userID)
				return svcErr.Unauthorized("user is blocked")
			}

			c.Set(userIDKey, user.ID)
			c.SetRequest(c.Request().WithContext(logger.WithContext(ctx, log.With(slog.String("user_id", user.ID)))))
			return next(c)
		}
	}
}

// UserID returns the authenticated caller. Empty outside the middleware.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
