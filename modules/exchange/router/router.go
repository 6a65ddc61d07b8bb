package router

import (
	"slotswap-api/core/middleware"
	"slotswap-api/modules/exchange/controller"

	"github.com/labstack/echo/v4"
)

type ExchangeRouter struct {
	controller *controller.ExchangeController
}

func NewExchangeRouter(controller *controller.ExchangeController) *ExchangeRouter {
	return &ExchangeRouter{
		controller: controller,
	}
}

func (r *ExchangeRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	exchanges := g.Group("/exchanges")
	exchanges.Use(mw.AuthMiddleware())

	exchanges.POST("", r.controller.Propose)
	exchanges.GET("/me", r.controller.ListMine)
	exchanges.POST("/:id/accept", r.controller.Accept)
	exchanges.POST("/:id/reject", r.controller.Reject)
}
