package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/clients"
	"github.com/mikeboe/deepresearch/pkg/config"
	"github.com/mikeboe/deepresearch/pkg/research"
	"github.com/mikeboe/deepresearch/pkg/search"
	"github.com/mikeboe/deepresearch/pkg/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	model, err := buildModel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize search provider: %v", err)
	}

	// Initialize Service & Handler
	store := server.NewJobStore()
	svc := server.NewService(store, model, provider, research.Config{
		Breadth:     cfg.Breadth,
		Depth:       cfg.Depth,
		Concurrency: cfg.Concurrency,
	})
	svc.MinSearchInterval = time.Duration(cfg.MinSearchGap) * time.Second
	handler := server.NewHandler(svc)

	// Web Server Setup
	r := gin.Default()

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Allow all for dev
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Mcp-Session-Id"},
		ExposeHeaders:    []string{"Content-Length", "Mcp-Session-Id"},
		AllowCredentials: true,
	}))

	handler.RegisterRoutes(r)

	fmt.Printf("Server starting on port %s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	// Each backend gets its own default model name; a Gemini identifier
	// must never reach an OpenAI-compatible endpoint.
	if cfg.OpenAIApiKey != "" {
		return clients.OpenAI(cfg.OpenAIModel)
	}
	return clients.GoogleAi(ctx, clients.ModelType(cfg.ReasoningModel))
}

func buildProvider(cfg *config.Config) (search.Provider, error) {
	var inner search.Provider
	switch cfg.SearchProvider {
	case "arxiv":
		inner = search.NewArxiv()
	case "firecrawl":
		if cfg.FirecrawlApiKey == "" {
			return nil, fmt.Errorf("FIRECRAWL_API_KEY is required for the firecrawl search provider")
		}
		inner = search.NewFirecrawl(cfg.FirecrawlApiKey)
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.SearchProvider)
	}
	return search.NewCached(inner, time.Duration(cfg.SearchCacheTTL)*time.Second), nil
}
