package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"debatebot/config"
	"debatebot/controllers"
	"debatebot/db"
	"debatebot/llm"
	"debatebot/middlewares"
	"debatebot/routes"
	"debatebot/services"
	"debatebot/validators"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	log.Printf("Using generation provider: %s", provider.Name())

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize conversation store: %v", err)
	}

	orchestrator := services.NewOrchestrator(
		store,
		services.NewExtractor(provider),
		services.NewGenerator(provider, cfg.Generation.Temperature, cfg.Generation.MaxWords),
		services.NewConsistencyChecker(cfg.Consistency.Mode, provider),
		validators.NewSet(validators.Config{
			MinChars:            cfg.Validation.MinChars,
			MaxChars:            cfg.Validation.MaxChars,
			SimilarityThreshold: cfg.Validation.SimilarityThreshold,
			BannedTerms:         cfg.Validation.BannedTerms,
			DisabledRules:       cfg.Validation.DisabledRules,
		}),
		services.NewFallbackTable(),
		services.OrchestratorConfig{
			MaxAttempts:    cfg.Generation.MaxAttempts,
			InitialBackoff: time.Duration(cfg.Generation.InitialBackoffSeconds * float64(time.Second)),
			Timeout:        time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
			HistoryWindow:  cfg.Generation.HistoryWindow,
		},
	)

	controller := controllers.NewChatController(orchestrator, store, provider.Name(), cfg.MaxMessageLength)

	router := setupRouter(cfg, controller)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return llm.NewGemini(context.Background(), cfg.LLM.Gemini.ApiKey, cfg.LLM.Gemini.Model)
	case "openai":
		return llm.NewOpenAI(cfg.LLM.Openai.ApiKey, cfg.LLM.Openai.BaseURL, cfg.LLM.Openai.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func buildStore(cfg *config.Config) (db.ConversationStore, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Println("Using in-memory conversation store")
		return db.NewMemoryStore(), nil
	case "mongo":
		store, err := db.ConnectMongo(cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		log.Println("Connected to MongoDB")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func setupRouter(cfg *config.Config, controller *controllers.ChatController) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	origins := cfg.Cors.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	routes.SetupChatRoutes(router, controller, middlewares.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	return router
}
