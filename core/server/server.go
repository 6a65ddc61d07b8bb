package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotswap-api/core/cache"
	"slotswap-api/core/config"
	"slotswap-api/core/database"
	"slotswap-api/core/logger"
	"slotswap-api/core/middleware"
	"slotswap-api/modules/activity"
	"slotswap-api/modules/auth"
	"slotswap-api/modules/exchange"
	"slotswap-api/modules/slot"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires every module and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redisCache, err := cache.InitCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(redisCache)
	v1 := e.Group("/api/v1")

	activityClient, activityWorker := activity.Init(v1, db, cfg.Redis, mw)
	defer activityClient.Close()

	auth.Init(v1, db, redisCache, mw)
	slot.Init(v1, db, mw, activityClient)
	exchange.Init(v1, db, mw, activityClient)

	if err := activityWorker.Start(); err != nil {
		return err
	}
	defer activityWorker.Shutdown()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", err)
		}
	}()

	logger.Info("Server:Run:Started", "port", cfg.Server.Port, "env", cfg.Server.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
