package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/asemenov/chatground/internal/ai"
	"github.com/asemenov/chatground/internal/history"
	"github.com/asemenov/chatground/internal/query"
	"github.com/asemenov/chatground/internal/retrieval"
	"github.com/asemenov/chatground/internal/search"
	"github.com/asemenov/chatground/prompts"
)

const (
	augmentMaxResults = 3
	summaryMaxResults = 5
)

// AssistantCore ties retrieval and generation together: it decides when a
// message needs fresh information, collects it, and feeds the model an
// augmented prompt. Messages that don't trigger retrieval go to the model
// untouched.
type AssistantCore struct {
	provider         ai.Provider
	aggregator       *retrieval.Aggregator
	store            history.Store
	systemPrompt     string
	perSourceTimeout time.Duration
	overallTimeout   time.Duration
}

// NewAssistantCore creates the orchestrator. systemPrompt may be empty to
// use the built-in default.
func NewAssistantCore(provider ai.Provider, aggregator *retrieval.Aggregator, store history.Store, systemPrompt string, perSourceTimeout, overallTimeout time.Duration) *AssistantCore {
	if systemPrompt == "" {
		systemPrompt = strings.TrimSpace(prompts.SystemPrompt)
	}
	return &AssistantCore{
		provider:         provider,
		aggregator:       aggregator,
		store:            store,
		systemPrompt:     systemPrompt,
		perSourceTimeout: perSourceTimeout,
		overallTimeout:   overallTimeout,
	}
}

// GenerateAugmented produces a model response, enriching the prompt with
// retrieved web context when the message calls for it. Retrieval failure
// or emptiness falls back to plain generation with the original message.
func (c *AssistantCore) GenerateAugmented(ctx context.Context, userMessage string, hist []ai.Message, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = c.systemPrompt
	}

	if !query.NeedsRetrieval(userMessage) {
		return c.provider.GenerateResponse(ctx, userMessage, hist, systemPrompt)
	}

	log.Printf("[Core] Message needs retrieval: %q", userMessage)

	q := query.Detect(userMessage)
	results := c.aggregator.Aggregate(ctx, q, search.Budget{
		MaxResults:       augmentMaxResults,
		FetchContent:     true,
		PerSourceTimeout: c.perSourceTimeout,
		OverallTimeout:   c.overallTimeout,
	})

	if len(results) == 0 {
		log.Printf("[Core] Retrieval returned nothing, generating without context")
		return c.provider.GenerateResponse(ctx, userMessage, hist, systemPrompt)
	}

	searchContext := search.FormatResults(results, userMessage)
	log.Printf("[Core] Augmenting prompt with %d results", len(results))

	enhanced := fmt.Sprintf(strings.TrimSpace(prompts.AugmentedMessage), userMessage, searchContext)
	return c.provider.GenerateResponse(ctx, enhanced, hist, systemPrompt)
}

// SearchAndSummarize retrieves results for the query and asks the model
// for a short digest of them.
func (c *AssistantCore) SearchAndSummarize(ctx context.Context, queryText string) (string, error) {
	log.Printf("[Core] Search and summarize: %q", queryText)

	q := query.Detect(queryText)
	results := c.aggregator.Aggregate(ctx, q, search.Budget{
		MaxResults:       summaryMaxResults,
		FetchContent:     false,
		PerSourceTimeout: c.perSourceTimeout,
		OverallTimeout:   c.overallTimeout,
	})

	if len(results) == 0 {
		return "К сожалению, не удалось найти информацию по вашему запросу.", nil
	}

	searchContext := search.FormatResults(results, queryText)
	summaryPrompt := fmt.Sprintf(strings.TrimSpace(prompts.SummaryMessage), searchContext)

	return c.provider.GenerateResponse(ctx, summaryPrompt, nil, strings.TrimSpace(prompts.SummarySystem))
}

// Chat handles one conversation turn: load history, generate (augmented
// when warranted), persist both sides of the exchange.
func (c *AssistantCore) Chat(ctx context.Context, channelID, userID, message string) (string, error) {
	hist, err := c.store.GetHistory(ctx, channelID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	response, err := c.GenerateAugmented(ctx, message, hist, "")
	if err != nil {
		return "", err
	}

	if err := c.store.Append(ctx, channelID, userID, ai.Message{Role: "user", Content: message}); err != nil {
		log.Printf("[Core] Failed to store user message: %v", err)
	}
	if err := c.store.Append(ctx, channelID, userID, ai.Message{Role: "assistant", Content: response}); err != nil {
		log.Printf("[Core] Failed to store assistant message: %v", err)
	}

	return response, nil
}
