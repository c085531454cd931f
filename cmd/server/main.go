package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	"github.com/andretaki/amazon-ads-project2024/internal/bootstrap"
	"github.com/andretaki/amazon-ads-project2024/internal/config"
	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
	"github.com/andretaki/amazon-ads-project2024/internal/gateway"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
	"github.com/andretaki/amazon-ads-project2024/internal/report"
)

// newApp creates the gateway application with its middleware and routes
func newApp(cfg *config.Config, log *logging.Logger, functions *gateway.FunctionHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Amazon Ads Reports Gateway",
		ErrorHandler: apperrors.NewHandler(log).FiberErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New())

	healthHandler := gateway.NewHealthHandler(cfg)
	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/ready", healthHandler.HandleReady)

	functions.Register(app)

	return app
}

func main() {
	rt, err := bootstrap.Load("server")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer rt.Logger.Sync()

	resolver, err := rt.NewResolver(context.Background())
	if err != nil {
		log.Fatalf("Failed to create secret resolver: %v", err)
	}

	exchanger, err := rt.NewExchanger()
	if err != nil {
		log.Fatalf("Failed to create token exchanger: %v", err)
	}

	if !rt.Config.HasProfileID() {
		rt.Logger.Warn("AMAZON_ADS_PROFILE_ID not set - report requests will be rejected by Amazon")
	}
	client, err := amazon.NewClient(rt.Config.HTTP)
	if err != nil {
		log.Fatalf("Failed to create report client: %v", err)
	}
	requester := report.NewRequester(client, rt.Config.Amazon, rt.Config.Report, rt.Logger)

	app := newApp(rt.Config, rt.Logger, gateway.NewFunctionHandler(resolver, exchanger, requester))

	rt.Logger.Info("Gateway starting on port %s", rt.Config.Server.Port)
	rt.Logger.Info("Report mode: %s", rt.Config.ReportMode())
	log.Fatal(app.Listen(":" + rt.Config.Server.Port))
}
