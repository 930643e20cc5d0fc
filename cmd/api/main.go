package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/app"
	"gcccs/careerlink/internal/config"
	"gcccs/careerlink/internal/handlers"
	"gcccs/careerlink/internal/logger"
	"gcccs/careerlink/internal/middleware"
	"gcccs/careerlink/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}
	repos := app.NewRepositories(db)

	// Initialize services
	storage, err := app.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize storage")
	}

	gemini, err := app.NewGemini(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}

	index, err := app.NewVectorIndex(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Qdrant")
	}
	indexer := services.NewIndexService(gemini, index)

	identity, _, err := app.NewIdentity(ctx, cfg, repos.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize identity provider")
	}

	matcher := services.NewMatchingService(gemini, services.MatchingOptions{
		ItemTimeout: cfg.Matching.ItemTimeout,
		MaxAttempts: cfg.Gemini.MaxAttempts,
	})

	processor := services.NewApplicationProcessor(
		repos.Applications,
		storage,
		services.NewPDFParserService(),
		indexer,
	)

	worker := services.NewWorker(
		repos.Applications,
		processor,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
		cfg.Worker.StaleAfter,
	)
	worker.Start(ctx)

	// Initialize handlers
	matchingHandler := handlers.NewMatchingHandler(matcher)
	authHandler := handlers.NewAuthHandler(identity, !cfg.IsProduction())
	jobHandler := handlers.NewJobHandler(repos.Jobs, repos.Applications, repos.Profiles, indexer)
	profileHandler := handlers.NewProfileHandler(repos.Profiles)
	applicationHandler := handlers.NewApplicationHandler(
		jobHandler,
		repos.Applications,
		storage,
		worker,
		cfg.Storage.MaxFileSize,
	)
	log.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "GCCCS CareerLink API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	server.Use(recover.New())
	server.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(server, handlers.Routes{
		Auth:         middleware.RequireAuth(identity),
		Matching:     matchingHandler,
		Identity:     authHandler,
		Jobs:         jobHandler,
		Profiles:     profileHandler,
		Applications: applicationHandler,
		Health: func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"status": "healthy",
				"time":   time.Now(),
				"ai":     matcher.Available(),
				"search": indexer.Enabled(),
			})
		},
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := server.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
		worker.Stop()
		cancel()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := server.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
