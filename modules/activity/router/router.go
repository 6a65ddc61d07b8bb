package router

import (
	"slotswap-api/core/middleware"
	"slotswap-api/modules/activity/controller"

	"github.com/labstack/echo/v4"
)

type ActivityRouter struct {
	controller *controller.ActivityController
}

func NewActivityRouter(controller *controller.ActivityController) *ActivityRouter {
	return &ActivityRouter{
		controller: controller,
	}
}

func (r *ActivityRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	activities := g.Group("/activities")
	activities.Use(mw.AuthMiddleware())

	activities.GET("/me", r.controller.ListMyActivities)
}
