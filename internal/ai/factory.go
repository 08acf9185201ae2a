package ai

import "fmt"

// NewLLMProvider creates an OpenAI-compatible provider by name.
// Supported providers: "lmstudio", "groq", "cerebras"
func NewLLMProvider(providerName, baseURL, apiKey string, params GenerationParams) *BaseProvider {
	switch providerName {
	case "lmstudio":
		if baseURL == "" {
			baseURL = "http://localhost:1234/v1"
		}
		return NewBaseProvider(ProviderConfig{
			Name:    "LMStudio",
			BaseURL: baseURL,
			Params:  params,
		})
	case "groq":
		return NewBaseProvider(ProviderConfig{
			Name:    "Groq",
			BaseURL: "https://api.groq.com/openai/v1",
			APIKey:  apiKey,
			Params:  params,
		})
	case "cerebras":
		return NewBaseProvider(ProviderConfig{
			Name:    "Cerebras",
			BaseURL: "https://api.cerebras.ai/v1",
			APIKey:  apiKey,
			Params:  params,
		})
	default:
		// Fail fast: don't silently default to an unknown provider
		panic(fmt.Sprintf("unsupported AI provider: %s (supported: lmstudio, groq, cerebras)", providerName))
	}
}
