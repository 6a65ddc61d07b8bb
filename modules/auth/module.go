package auth

import (
	"slotswap-api/core/cache"
	"slotswap-api/core/database"
	"slotswap-api/core/middleware"
	"slotswap-api/modules/auth/controller"
	"slotswap-api/modules/auth/repository"
	"slotswap-api/modules/auth/router"
	"slotswap-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init wires the auth module and returns the service for use by other modules.
func Init(g *echo.Group, db database.IDatabase, cache cache.Cache, mw *middleware.Middleware) *service.AuthService {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, cache)
	ctrl := controller.NewAuthController(svc)
	r := router.NewAuthRouter(ctrl)

	r.Register(g, mw)

	return svc
}
