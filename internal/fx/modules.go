package fx

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/asemenov/chatground/internal/ai"
	"github.com/asemenov/chatground/internal/config"
	"github.com/asemenov/chatground/internal/core"
	"github.com/asemenov/chatground/internal/duckduck"
	"github.com/asemenov/chatground/internal/history"
	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/ratelimit"
	"github.com/asemenov/chatground/internal/retrieval"
	"github.com/asemenov/chatground/internal/scraper"
	"github.com/asemenov/chatground/internal/search"
	"github.com/asemenov/chatground/internal/serpapi"
	"github.com/asemenov/chatground/internal/tavily"
	"github.com/asemenov/chatground/internal/wikipedia"
	"github.com/asemenov/chatground/internal/worker"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// HTTPClientModule provides the shared outbound HTTP client
var HTTPClientModule = fx.Module("httpclient",
	fx.Provide(NewHTTPClient),
)

// HistoryModule provides conversation history storage
var HistoryModule = fx.Module("history",
	fx.Provide(NewHistoryStore),
)

// AIModule provides AI/LLM providers
var AIModule = fx.Module("ai",
	fx.Provide(NewAIProvider),
)

// SearchModule provides the retrieval source clients and registry
var SearchModule = fx.Module("search",
	fx.Provide(
		NewInstantClient,
		NewHTMLClient,
		NewWikipediaClient,
		NewSearchRegistry,
		NewScraper,
	),
)

// RetrievalModule provides the multi-source aggregator
var RetrievalModule = fx.Module("retrieval",
	fx.Provide(NewAggregator),
)

// CoreModule provides the assistant orchestrator
var CoreModule = fx.Module("core",
	fx.Provide(NewAssistantCore),
)

// RateLimitModule provides the per-user rate limiter
var RateLimitModule = fx.Module("ratelimit",
	fx.Provide(NewRateLimiter),
)

// WorkerModule provides the maintenance worker
var WorkerModule = fx.Module("worker",
	fx.Provide(NewCleanupWorker),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewHTTPClient creates the shared outbound client, honoring the optional
// proxy setting.
func NewHTTPClient(cfg config.Config) (*httpclient.Client, error) {
	hc, err := httpclient.New(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	if cfg.ProxyURL != "" {
		log.Printf("[FX] HTTPClient initialized (proxy: %s)", cfg.ProxyURL)
	} else {
		log.Printf("[FX] HTTPClient initialized")
	}
	return hc, nil
}

// NewHistoryStore creates the conversation store: Postgres when a database
// URL is configured, in-memory otherwise.
func NewHistoryStore(cfg config.Config) (history.Store, error) {
	if cfg.DatabaseURL != "" {
		st, err := history.NewPostgresStore(context.Background(), cfg.DatabaseURL, cfg.MaxContextMessages)
		if err != nil {
			return nil, err
		}
		log.Printf("[FX] HistoryStore initialized (Postgres)")
		return st, nil
	}
	log.Printf("[FX] HistoryStore initialized (in-memory)")
	return history.NewMemoryStore(cfg.MaxContextMessages), nil
}

// NewAIProvider builds the generation backend chain: the local server
// first, then whichever cloud providers have keys configured.
func NewAIProvider(cfg config.Config) (ai.Provider, error) {
	params := ai.GenerationParams{
		Model:       cfg.LMStudioModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
	}

	providers := []ai.Provider{
		ai.NewLLMProvider("lmstudio", cfg.LMStudioURL, "", params),
	}
	log.Printf("[FX] AIProvider: LMStudio registered (%s)", cfg.LMStudioURL)

	if cfg.GroqAPIKey != "" {
		providers = append(providers, ai.NewLLMProvider("groq", "", cfg.GroqAPIKey, params))
		log.Printf("[FX] AIProvider: Groq registered")
	}
	if cfg.CerebrasAPIKey != "" {
		providers = append(providers, ai.NewLLMProvider("cerebras", "", cfg.CerebrasAPIKey, params))
		log.Printf("[FX] AIProvider: Cerebras registered")
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, params)
		if err != nil {
			return nil, err
		}
		providers = append(providers, gemini)
		log.Printf("[FX] AIProvider: Gemini registered (%s)", cfg.GeminiModel)
	}

	if len(providers) == 1 {
		log.Printf("[FX] AIProvider initialized (LMStudio only)")
		return providers[0], nil
	}

	multi := ai.NewMultiProvider(providers...)
	log.Printf("[FX] AIProvider initialized (%s)", multi.Name())
	return multi, nil
}

// NewInstantClient creates the instant answer source
func NewInstantClient(hc *httpclient.Client) *duckduck.InstantClient {
	return duckduck.NewInstantClient(hc, "")
}

// NewHTMLClient creates the results page source
func NewHTMLClient(hc *httpclient.Client, cfg config.Config) *duckduck.HTMLClient {
	return duckduck.NewHTMLClient(hc, "", cfg.SearchRegion)
}

// NewWikipediaClient creates the encyclopedia source
func NewWikipediaClient(hc *httpclient.Client) *wikipedia.Client {
	return wikipedia.NewClient(hc, "")
}

// NewScraper creates the page content extractor
func NewScraper(hc *httpclient.Client) *scraper.Scraper {
	return scraper.NewScraper(hc)
}

// NewSearchRegistry registers supplemental key-gated sources
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()

	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}
	if cfg.TavilyAPIKey != "" {
		registry.Register(tavily.NewClient(cfg.TavilyAPIKey))
		log.Printf("[FX] SearchRegistry: Tavily registered")
	}

	log.Printf("[FX] SearchRegistry initialized with %d supplemental sources", registry.Count())
	return registry
}

// NewAggregator wires the retrieval chain
func NewAggregator(instant *duckduck.InstantClient, html *duckduck.HTMLClient, wiki *wikipedia.Client, registry *search.Registry, sc *scraper.Scraper) *retrieval.Aggregator {
	agg := retrieval.NewAggregator(instant, html, wiki, registry, sc)
	log.Printf("[FX] Aggregator initialized")
	return agg
}

// NewAssistantCore creates the orchestrator
func NewAssistantCore(provider ai.Provider, agg *retrieval.Aggregator, store history.Store, cfg config.Config) *core.AssistantCore {
	c := core.NewAssistantCore(provider, agg, store, cfg.SystemPrompt, cfg.PerSourceTimeout, cfg.OverallTimeout)
	log.Printf("[FX] AssistantCore initialized")
	return c
}

// NewRateLimiter creates the per-user limiter
func NewRateLimiter(cfg config.Config) *ratelimit.Limiter {
	return ratelimit.NewLimiter(cfg.RateLimitMessages, cfg.RateLimitPeriod)
}

// NewCleanupWorker creates the maintenance worker
func NewCleanupWorker(store history.Store, cfg config.Config) *worker.Worker {
	return worker.NewWorker(store, cfg.ContextTimeout)
}
