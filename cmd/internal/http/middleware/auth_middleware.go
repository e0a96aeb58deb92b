package middleware

import (
	"net/http"

	"notesapi/cmd/internal/auth"
	"notesapi/cmd/internal/domain/entity"
	"notesapi/cmd/internal/utils"
	"notesapi/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindBySub(sub string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	Verifier auth.Verifier
	UserRepo UserRepository
}

// NewAuthMiddleware resolves the bearer token into a user and stores it in
// the request context. Requests without a valid identity never reach the handler.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			tokenData, err := cfg.Verifier.Verify(header)
			if err != nil {
				log.Debugf("rejected bearer token: %v", err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindBySub(tokenData.Sub)
			if err != nil {
				log.Errorf("failed to resolve token subject %s: %v", tokenData.Sub, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.IDPUserNotFoundError)
			}

			c.Set(utils.ContextUserKey, user)
			return next(c)
		}
	}
}
