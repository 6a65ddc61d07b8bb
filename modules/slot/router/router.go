package router

import (
	"slotswap-api/core/middleware"
	"slotswap-api/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

type SlotRouter struct {
	controller *controller.SlotController
}

func NewSlotRouter(controller *controller.SlotController) *SlotRouter {
	return &SlotRouter{
		controller: controller,
	}
}

func (r *SlotRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	slots := g.Group("/slots")
	slots.Use(mw.AuthMiddleware())

	slots.POST("", r.controller.CreateSlot)
	slots.GET("/me", r.controller.ListMySlots)
	slots.GET("/marketplace", r.controller.Marketplace)
	slots.PUT("/:id/status", r.controller.UpdateStatus)
}
