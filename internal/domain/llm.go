package domain

// LLM provider identifiers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// LLMRequest is a provider-neutral chat completion request
type LLMRequest struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// LLMResponse is one completion result or streaming delta
type LLMResponse struct {
	Text         string     `json:"text"`
	Usage        TokenUsage `json:"usage,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// TokenUsage holds token accounting for a completion
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LLMModel describes a model reachable through one of the providers
type LLMModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	ModelID     string `json:"model_id"`
	ContextSize int    `json:"context_size"`
}

// KnownProvider reports whether p names a supported provider
func KnownProvider(p string) bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
		return true
	}
	return false
}
