package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"drawing-bot-backend/internal/api"
	"drawing-bot-backend/internal/api/routes"
	v1 "drawing-bot-backend/internal/api/routes/v1"
	"drawing-bot-backend/internal/config"
	"drawing-bot-backend/internal/drawbot/agents"
	"drawing-bot-backend/internal/libraries"
	llmHandlers "drawing-bot-backend/internal/llm_handlers"
	"drawing-bot-backend/internal/repo"
	"drawing-bot-backend/internal/scene"
	"drawing-bot-backend/internal/session"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Connect to database
	if err := config.ConnectDB(settings.DBURL); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer config.CloseDB()

	// Run migrations
	if err := config.MigrateAllModels(settings.RunMigrations); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	provider := llmHandlers.Provider(settings.LLMProvider)
	llmClient, err := llmHandlers.New(ctx, llmHandlers.Config{
		Provider:    provider,
		Model:       settings.LLMModel,
		Temperature: settings.Temperature,
		OpenAIKey:   settings.OpenAIKey,
		GroqKey:     settings.GroqKey,
		GeminiKey:   settings.GeminiKey,
		ProjectID:   settings.GCPProject,
		Location:    settings.GCPLocation,
		Credentials: settings.GCPCredentials,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM client (%s): %v", provider, err)
	}

	images, closeImages := imageStore(ctx, settings)
	defer closeImages()

	hub := libraries.NewHub()
	go hub.Run()

	drawingRepo := repo.NewDrawingRepository(config.DB)
	manager := session.NewManager(agents.NewAgent(provider, llmClient), drawingRepo, hub, session.Options{
		Canvas:    scene.Canvas{Width: settings.CanvasWidth, Height: settings.CanvasHeight},
		MaxCanvas: scene.Canvas{Width: settings.MaxCanvasWidth, Height: settings.MaxCanvasHeight},
		Timeout:   settings.GenTimeout,
	})

	// Create and configure Fiber app
	app := api.NewServer(settings.AllowOrigins)

	routes.Register(app, v1.Dependencies{
		Manager:    manager,
		Hub:        hub,
		Images:     images,
		Thumbnails: drawingRepo,
		Users:      repo.NewUserRepository(config.DB),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("shutting down")
		hub.Stop()
		if err := app.Shutdown(); err != nil {
			log.Println(err, "Error shutting down")
		}
	}()

	// Start server
	if err := api.StartServer(app, settings.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// imageStore prefers GCS and falls back to the local temp/images directory.
func imageStore(ctx context.Context, settings *config.Settings) (libraries.ImageStore, func()) {
	local := libraries.NewLocalImageStore(settings.ImageDir)
	if settings.GCSBucket == "" {
		return local, func() {}
	}
	clients, err := libraries.NewClients(ctx, settings.GCPCredentials, settings.GCPProject)
	if err != nil {
		log.Printf("GCS unavailable, storing thumbnails locally: %v", err)
		return local, func() {}
	}
	return libraries.NewGCSImageStore(clients.GCS, settings.GCSBucket), clients.Close
}
