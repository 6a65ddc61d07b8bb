package exchange

import (
	"slotswap-api/core/database"
	"slotswap-api/core/middleware"
	"slotswap-api/modules/activity/worker"
	"slotswap-api/modules/exchange/controller"
	"slotswap-api/modules/exchange/repository"
	"slotswap-api/modules/exchange/router"
	"slotswap-api/modules/exchange/service"
	slotrepository "slotswap-api/modules/slot/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the exchange module. The coordinator shares the slot repository
// so proposal creation and resolution can lock both stores in one transaction.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, activity worker.Enqueuer) *service.ExchangeService {
	repo := repository.NewExchangeRepository(db)
	slotRepo := slotrepository.NewSlotRepository(db)
	svc := service.NewExchangeService(db, repo, slotRepo, activity)
	ctrl := controller.NewExchangeController(svc)
	r := router.NewExchangeRouter(ctrl)

	r.Register(g, mw)

	return svc
}
