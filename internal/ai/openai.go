package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ProviderConfig holds configuration for an OpenAI-compatible provider
type ProviderConfig struct {
	Name    string
	BaseURL string // e.g. "http://localhost:1234/v1"
	APIKey  string // empty for local servers
	Params  GenerationParams
}

// BaseProvider implements common functionality for OpenAI-compatible APIs:
// LM Studio locally, Groq and Cerebras in the cloud.
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

// GenerateResponse sends the conversation to the chat completions endpoint
// and returns the model's reply.
func (p *BaseProvider) GenerateResponse(ctx context.Context, userMessage string, history []Message, systemPrompt string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})

	reqBody := chatRequest{
		Model:       p.config.Params.Model,
		Messages:    messages,
		Temperature: p.config.Params.Temperature,
		MaxTokens:   p.config.Params.MaxTokens,
		TopP:        p.config.Params.TopP,
	}

	return p.sendRequest(ctx, reqBody)
}

// sendRequest handles HTTP requests to the chat completions endpoint
func (p *BaseProvider) sendRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	log.Printf("[%s] Sending request (%d messages)...", p.config.Name, len(reqBody.Messages))

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s] Response status: %d", p.config.Name, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[%s] Success, response length: %d", p.config.Name, len(content))
	return content, nil
}

// CheckConnection verifies the backend is reachable via its models listing.
func (p *BaseProvider) CheckConnection(ctx context.Context) error {
	_, err := p.ListModels(ctx)
	return err
}

// ListModels returns the model identifiers the backend advertises.
func (p *BaseProvider) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error: %d", resp.StatusCode)
	}

	var data modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	models := make([]string, len(data.Data))
	for i, m := range data.Data {
		models[i] = m.ID
	}
	return models, nil
}
