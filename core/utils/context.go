package utils

import (
	"slotswap-api/core/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserIDFromContext retrieves the authenticated user ID placed in the echo
// context by the auth middleware.
func UserIDFromContext(c echo.Context) (uuid.UUID, error) {
	tokenData := c.Get("token_data")
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Token data not found in context", nil)
	}

	claims, ok := tokenData.(*TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data format", nil)
	}

	return claims.UserID, nil
}
