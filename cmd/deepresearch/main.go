package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/deepresearch/pkg/clients"
	"github.com/mikeboe/deepresearch/pkg/config"
	"github.com/mikeboe/deepresearch/pkg/research"
	"github.com/mikeboe/deepresearch/pkg/search"
)

var (
	topic       string
	breadth     int
	depth       int
	concurrency int
	rawData     bool
)

func main() {
	// Setup structured logging
	handler := slog.NewTextHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(handler))

	// Load .env file
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, as long as env vars are set
	}

	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "deepresearch",
		Short: "A terminal-based deep research agent",
		Long:  `deepresearch explores a topic recursively: it plans search queries, reads the results, and follows the questions they raise until the depth budget runs out, then writes a markdown report.`,
		Run: func(cmd *cobra.Command, args []string) {

			// Check if topic provided via flags
			topicFlagChanged := cmd.Flags().Changed("topic")

			if !topicFlagChanged {
				// Interactive Mode
				reader := bufio.NewReader(os.Stdin)

				fmt.Print("Enter research topic: ")
				input, _ := reader.ReadString('\n')
				topic = strings.TrimSpace(input)
				if topic == "" {
					slog.Error("Topic cannot be empty")
					os.Exit(1)
				}
			} else {
				// Non-Interactive Mode (Flag provided)
				if topic == "" {
					slog.Error("--topic flag provided but empty")
					os.Exit(1)
				}
			}

			slog.Info("Starting research", "topic", topic, "breadth", breadth, "depth", depth)

			ctx := context.Background()

			model, err := buildModel(ctx, cfg)
			if err != nil {
				slog.Error("Error initializing model client", "error", err)
				os.Exit(1)
			}

			provider, err := buildProvider(cfg)
			if err != nil {
				slog.Error("Error initializing search provider", "error", err)
				os.Exit(1)
			}

			engine, err := research.NewEngine(model, provider)
			if err != nil {
				slog.Error("Error initializing engine", "error", err)
				os.Exit(1)
			}
			engine.MinSearchInterval = time.Duration(cfg.MinSearchGap) * time.Second

			out, err := engine.Run(ctx, topic, research.Config{
				Breadth:     breadth,
				Depth:       depth,
				Concurrency: concurrency,
				RawDataOnly: rawData,
			})
			if err != nil {
				slog.Error("Error running research", "error", err)
				os.Exit(1)
			}

			if out.Report != nil {
				fmt.Println(*out.Report)
				return
			}
			for _, learning := range out.Data.Learnings {
				fmt.Printf("- %s\n", learning)
			}
			for _, url := range out.Data.VisitedURLs {
				fmt.Println(url)
			}
		},
	}

	rootCmd.Flags().StringVarP(&topic, "topic", "t", "", "The research topic")
	rootCmd.Flags().IntVarP(&breadth, "breadth", "b", cfg.Breadth, "Search queries per research level")
	rootCmd.Flags().IntVarP(&depth, "depth", "d", cfg.Depth, "Recursive research levels")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", cfg.Concurrency, "Maximum concurrent query workers")
	rootCmd.Flags().BoolVar(&rawData, "raw", false, "Print raw learnings and sources instead of a report")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
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
