// Package main provides the entry point for the scan-text HTTP server
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/Timmyway/scan-text/internal/api"
	"github.com/Timmyway/scan-text/internal/batch"
	"github.com/Timmyway/scan-text/internal/sink"
	"github.com/Timmyway/scan-text/pkg/extractor"
	"github.com/Timmyway/scan-text/pkg/logging"
)

func main() {
	logConfig := logging.DefaultLogConfig()
	logConfig.Level = getEnv("LOG_LEVEL", "info")
	logConfig.Format = getEnv("LOG_FORMAT", "json")
	if err := logging.SetupLogger(logConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	cfg := extractor.DefaultConfig()
	cfg.Language = getEnv("OCR_LANGUAGE", "eng")
	cfg.TessdataPrefix = getEnv("TESSDATA_PREFIX", "")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid OCR configuration")
	}

	engine := extractor.NewEngine(cfg)

	// Results go to plain files by default; point RESULTS_REPO at a git
	// repository to keep a commit per save instead.
	var resultSink sink.Sink = sink.NewFileSink()
	if repoPath := getEnv("RESULTS_REPO", ""); repoPath != "" {
		gitSink, err := sink.NewGitSink(repoPath)
		if err != nil {
			log.Fatal().Err(err).Str("repo", repoPath).Msg("Failed to open results repository")
		}
		resultSink = gitSink
	}

	runner := batch.NewRunner(engine, resultSink)

	app := fiber.New(fiber.Config{
		AppName:               "scan-text API",
		DisableStartupMessage: false,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "UTC",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	h := api.NewHandlers(engine, runner)
	setupRoutes(app, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("Starting scan-text server")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// setupRoutes configures all API routes
func setupRoutes(app *fiber.App, h *api.Handlers) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api/v1")
	v1.Post("/extract", h.ExtractImage)
	v1.Post("/batches", h.RunBatch)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
