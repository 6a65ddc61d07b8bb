package slot

import (
	"slotswap-api/core/database"
	"slotswap-api/core/middleware"
	"slotswap-api/modules/activity/worker"
	"slotswap-api/modules/slot/controller"
	"slotswap-api/modules/slot/repository"
	"slotswap-api/modules/slot/router"
	"slotswap-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init wires the slot module and returns the service for use by other modules.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, activity worker.Enqueuer) *service.SlotService {
	repo := repository.NewSlotRepository(db)
	svc := service.NewSlotService(repo, db, activity)
	ctrl := controller.NewSlotController(svc)
	r := router.NewSlotRouter(ctrl)

	r.Register(g, mw)

	return svc
}
