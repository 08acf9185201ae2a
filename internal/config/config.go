package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ListenAddr  string
	AdminAPIKey string

	// Outbound HTTP (shared by all search sources and the scraper)
	ProxyURL     string
	SearchRegion string

	// Generation backend
	LMStudioURL    string
	LMStudioModel  string
	GroqAPIKey     string
	CerebrasAPIKey string
	GeminiAPIKey   string
	GeminiModel    string
	Temperature    float64
	MaxTokens      int
	TopP           float64
	SystemPrompt   string

	// Optional supplemental search providers
	SerpAPIKey   string
	TavilyAPIKey string

	// Retrieval budgets
	PerSourceTimeout time.Duration
	OverallTimeout   time.Duration

	// Conversation history
	DatabaseURL        string
	MaxContextMessages int
	ContextTimeout     time.Duration

	// Rate limiting
	RateLimitMessages int
	RateLimitPeriod   time.Duration
}

// Load loads configuration from environment variables
func Load() Config {
	return Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		ProxyURL:     os.Getenv("PROXY_URL"),
		SearchRegion: getEnv("SEARCH_REGION", "ru-ru"),

		LMStudioURL:    getEnv("LM_STUDIO_URL", "http://localhost:1234/v1"),
		LMStudioModel:  getEnv("LM_STUDIO_MODEL", "local-model"),
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		CerebrasAPIKey: os.Getenv("CEREBRAS_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature:    getEnvFloat("TEMPERATURE", 0.7),
		MaxTokens:      getEnvInt("MAX_TOKENS", 2000),
		TopP:           getEnvFloat("TOP_P", 0.9),
		SystemPrompt:   os.Getenv("SYSTEM_PROMPT"),

		SerpAPIKey:   os.Getenv("SERPAPI_API_KEY"),
		TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),

		PerSourceTimeout: getEnvSeconds("PER_SOURCE_TIMEOUT", 15*time.Second),
		OverallTimeout:   getEnvSeconds("OVERALL_TIMEOUT", 45*time.Second),

		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MaxContextMessages: getEnvInt("MAX_CONTEXT_MESSAGES", 10),
		ContextTimeout:     getEnvSeconds("CONTEXT_TIMEOUT", 3600*time.Second),

		RateLimitMessages: getEnvInt("RATE_LIMIT_MESSAGES", 5),
		RateLimitPeriod:   getEnvSeconds("RATE_LIMIT_PERIOD", 60*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvSeconds reads a whole number of seconds from the environment.
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return defaultValue
}
