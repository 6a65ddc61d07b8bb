package activity

import (
	"slotswap-api/core/config"
	"slotswap-api/core/database"
	"slotswap-api/core/middleware"
	"slotswap-api/modules/activity/controller"
	"slotswap-api/modules/activity/repository"
	"slotswap-api/modules/activity/router"
	"slotswap-api/modules/activity/service"
	"slotswap-api/modules/activity/worker"

	"github.com/labstack/echo/v4"
)

// Init wires the activity module: HTTP listing plus the asynq producer and
// consumer. The returned client is handed to the slot and exchange services;
// the worker is started and stopped by the server.
func Init(g *echo.Group, db database.IDatabase, redisCfg config.RedisConfig, mw *middleware.Middleware) (*worker.Client, *worker.Worker) {
	repo := repository.NewActivityRepository(db)
	svc := service.NewActivityService(repo)
	ctrl := controller.NewActivityController(svc)
	r := router.NewActivityRouter(ctrl)

	r.Register(g, mw)

	client := worker.NewClient(redisCfg)
	w := worker.NewWorker(redisCfg, repo)

	return client, w
}
