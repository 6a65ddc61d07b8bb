package middleware

import (
	"context"

	"slotswap-api/core/controller"
	"slotswap-api/core/errors"
	"slotswap-api/core/logger"
	"slotswap-api/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenBlacklist is the slice of the cache the auth middleware needs.
type TokenBlacklist interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Middleware struct {
	controller.BaseController
	blacklist TokenBlacklist
}

func NewMiddleware(blacklist TokenBlacklist) *Middleware {
	return &Middleware{
		BaseController: controller.NewBaseController(),
		blacklist:      blacklist,
	}
}

// AuthMiddleware verifies the bearer token and stores its claims in the echo
// context under "token_data" for downstream controllers.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return m.Unauthorized(ae.Code, ae.Message, nil)
				}
				return m.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
			}

			blacklisted, err := m.blacklist.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:Auth:IsTokenBlacklisted:Error", err)
				return m.InternalServerError(errors.ErrInternalServer, "Failed to verify token", nil)
			}
			if blacklisted {
				return m.Unauthorized(errors.ErrUnauthorized, "Token has been revoked", nil)
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				logger.Warn("Middleware:Auth:InvalidToken", "error", err)
				return m.Unauthorized(errors.ErrUnauthorized, "Invalid or expired token", nil)
			}

			c.Set("token_data", claims)
			return next(c)
		}
	}
}
