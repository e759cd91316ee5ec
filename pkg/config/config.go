package config

import (
	"os"
	"strconv"
)

type Config struct {
	GoogleApiKey    string
	OpenAIApiKey    string
	OpenAIBaseURL   string
	FirecrawlApiKey string
	ReasoningModel  string
	FastModel       string
	OpenAIModel     string
	Port            string
	SearchProvider  string
	SearchCacheTTL  int
	MinSearchGap    int
	Breadth         int
	Depth           int
	Concurrency     int
}

func Load() *Config {
	return &Config{
		GoogleApiKey:    getEnv("GOOGLE_API_KEY", ""),
		OpenAIApiKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		FirecrawlApiKey: getEnv("FIRECRAWL_API_KEY", ""),
		ReasoningModel:  getEnv("REASONING_MODEL", "gemini-3-pro-preview"),
		FastModel:       getEnv("FAST_MODEL", "gemini-3-flash-preview"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),
		Port:            getEnv("PORT", "3000"),
		SearchProvider:  getEnv("SEARCH_PROVIDER", "firecrawl"),
		SearchCacheTTL:  getEnvAsInt("SEARCH_CACHE_TTL", 300),
		MinSearchGap:    getEnvAsInt("MIN_SEARCH_INTERVAL", 3),
		Breadth:         getEnvAsInt("RESEARCH_BREADTH", 3),
		Depth:           getEnvAsInt("RESEARCH_DEPTH", 2),
		Concurrency:     getEnvAsInt("RESEARCH_CONCURRENCY", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
