package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// MultiProvider tries each configured provider in order until one succeeds.
// Local backends come first so cloud keys only burn quota on failure.
type MultiProvider struct {
	providers []Provider
	primary   Provider
}

// NewMultiProvider creates a new multi-provider orchestrator
func NewMultiProvider(providers ...Provider) *MultiProvider {
	if len(providers) == 0 {
		panic("at least one provider required")
	}
	return &MultiProvider{
		providers: providers,
		primary:   providers[0],
	}
}

func (m *MultiProvider) Name() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return "Multi[" + strings.Join(names, "+") + "]"
}

// GenerateResponse walks the provider chain, returning the first success.
func (m *MultiProvider) GenerateResponse(ctx context.Context, userMessage string, history []Message, systemPrompt string) (string, error) {
	for i, provider := range m.providers {
		log.Printf("[MultiProvider] Trying %s (attempt %d/%d)...", provider.Name(), i+1, len(m.providers))
		response, err := provider.GenerateResponse(ctx, userMessage, history, systemPrompt)
		if err == nil {
			log.Printf("[MultiProvider] %s responded (length: %d)", provider.Name(), len(response))
			return response, nil
		}
		log.Printf("[MultiProvider] %s failed: %v", provider.Name(), err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("all providers failed")
}

// CheckConnection reports reachability of the primary provider.
func (m *MultiProvider) CheckConnection(ctx context.Context) error {
	if checker, ok := m.primary.(ConnectionChecker); ok {
		return checker.CheckConnection(ctx)
	}
	return nil
}
