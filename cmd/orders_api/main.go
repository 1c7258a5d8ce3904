package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/export"
	"github.com/orderdesk/orderdesk/internal/i18n"
	"github.com/orderdesk/orderdesk/internal/router"
	"github.com/orderdesk/orderdesk/internal/server"
	"github.com/orderdesk/orderdesk/internal/session"
	"github.com/orderdesk/orderdesk/internal/storage/pg"
	"github.com/orderdesk/orderdesk/pkg/config/env"
	pkgserver "github.com/orderdesk/orderdesk/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/orders_api/.env"); err != nil {
		slog.Info("No .env file loaded, continuing with existing environment", "error", err)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	catalog, err := i18n.Load(cfg.Locale)
	if err != nil {
		slog.Error("Failed to load translation catalog", "error", err)
		os.Exit(1)
	}

	orders := pg.NewOrderRepository(pool)
	exporter := export.NewExporter(orders, catalog, cfg.ExportBatchSize)
	sessions := session.NewMemoryStore()

	checker := pkgserver.HealthCheckerFunc(func(ctx context.Context) bool {
		return pool.Ping(ctx) == nil
	})

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, cfg, checker)

	ordersRouter := router.NewOrdersRouter(e, orders, exporter, sessions, catalog, cfg.PageSize)
	ordersRouter.Bind()

	slog.Info("Starting orders API", "port", cfg.Port)
	if err := s.Start(); err != nil {
		e.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
