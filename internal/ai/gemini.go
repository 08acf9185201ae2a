package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider generates responses via Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
	params GenerationParams
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey, model string, params GenerationParams) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model, params: params}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) GenerateResponse(ctx context.Context, userMessage string, history []Message, systemPrompt string) (string, error) {
	contents := toGeminiContents(history)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: userMessage}},
	})

	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if g.params.Temperature > 0 {
		temp := float32(g.params.Temperature)
		config.Temperature = &temp
	}
	if g.params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(g.params.MaxTokens)
	}

	log.Printf("[Gemini] Sending request (%d messages)...", len(contents))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var content strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				content.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	log.Printf("[Gemini] Success, response length: %d", len(text))
	return text, nil
}

// toGeminiContents maps chat-format history onto Gemini contents. System
// turns are carried via SystemInstruction, not the content list.
func toGeminiContents(history []Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range history {
		role := "user"
		switch msg.Role {
		case "assistant":
			role = "model"
		case "system":
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}
