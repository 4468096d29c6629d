package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/westpointwind/marine-api/internal/api/http"
	"github.com/westpointwind/marine-api/internal/cache"
	"github.com/westpointwind/marine-api/internal/config"
	"github.com/westpointwind/marine-api/internal/marine"
	"github.com/westpointwind/marine-api/internal/marine/clients"
	"github.com/westpointwind/marine-api/internal/marine/summary"
	"github.com/westpointwind/marine-api/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound NOAA calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// TTL cache fronting all three upstream sources.
	dataCache := cache.New(cfg.CacheSweepInterval)
	dataCache.Start()
	defer dataCache.Stop()

	service := marine.NewService(marine.ServiceConfig{
		Cache:              dataCache,
		Obs:                clients.NewNDBCClient(httpClient),
		Tides:              clients.NewCOOPSClient(httpClient),
		Forecasts:          clients.NewNWSClient(httpClient),
		ObservationsTTL:    cfg.ObservationsTTL,
		ForecastTTL:        cfg.ForecastTTL,
		DefaultStation:     cfg.DefaultStation,
		DefaultTideStation: cfg.DefaultTideStation,
	})

	summarizer := summary.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	// Optional cache prewarm for the default stations.
	sched := scheduler.New(cfg.PrewarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "marine-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware. The UI is served from another origin, so every
	// endpoint allows cross-origin GETs.
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET",
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "marine-api",
		})
	})

	httpapi.RegisterRoutes(app, service, summarizer)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
