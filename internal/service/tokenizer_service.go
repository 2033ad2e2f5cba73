package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/finsight/finsight/internal/domain"
)

// TokenizerService handles token counting for different LLM models
type TokenizerService struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

// NewTokenizerService creates a new tokenizer service
func NewTokenizerService() *TokenizerService {
	return &TokenizerService{
		encodings: make(map[string]*tiktoken.Tiktoken),
	}
}

// CountTokens counts the number of tokens in the given text for the specified model
func (s *TokenizerService) CountTokens(text string, model string) (int, error) {
	// tiktoken covers OpenAI models exactly
	if strings.HasPrefix(model, "gpt-") || strings.HasPrefix(model, "o1") {
		return s.countTokensTikToken(text, model)
	}

	// Anthropic and local models get an approximation
	return s.countTokensApproximate(text), nil
}

// CountMessageTokens counts tokens across a message history, with a small
// per-message overhead for role framing.
func (s *TokenizerService) CountMessageTokens(messages []domain.ChatMessage, model string) (int, error) {
	const perMessageOverhead = 4

	total := 0
	for _, m := range messages {
		n, err := s.CountTokens(m.Content, model)
		if err != nil {
			return 0, err
		}
		total += n + perMessageOverhead
	}
	return total, nil
}

// TrimToBudget drops the oldest messages until the history fits the token
// budget. The most recent message is always kept, even when it alone exceeds
// the budget, so a conversation can never trim itself into an empty request.
func (s *TokenizerService) TrimToBudget(messages []domain.ChatMessage, budget int, model string) ([]domain.ChatMessage, error) {
	if len(messages) == 0 || budget <= 0 {
		return messages, nil
	}

	start := 0
	for start < len(messages)-1 {
		total, err := s.CountMessageTokens(messages[start:], model)
		if err != nil {
			return nil, err
		}
		if total <= budget {
			break
		}
		start++
	}
	return messages[start:], nil
}

// countTokensTikToken uses tiktoken to count tokens for OpenAI models
func (s *TokenizerService) countTokensTikToken(text string, model string) (int, error) {
	tkm, err := s.getEncoding("cl100k_base")
	if err != nil {
		return 0, fmt.Errorf("failed to get encoding for %s: %w", model, err)
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// countTokensApproximate provides a rough approximation for models without
// tiktoken support: word count weighted plus a character-length term.
func (s *TokenizerService) countTokensApproximate(text string) int {
	return int(float64(len(strings.Fields(text)))*1.3) + len(text)/4
}

// getEncoding gets or creates a tiktoken encoding
func (s *TokenizerService) getEncoding(encodingName string) (*tiktoken.Tiktoken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tkm, exists := s.encodings[encodingName]; exists {
		return tkm, nil
	}

	tkm, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	s.encodings[encodingName] = tkm
	return tkm, nil
}

// GetContextSize returns the context size for a given model
func (s *TokenizerService) GetContextSize(model string) int {
	switch {
	case strings.HasPrefix(model, "claude-"):
		return 200000
	case strings.HasPrefix(model, "gpt-4o"):
		return 128000
	case strings.HasPrefix(model, "gpt-4"):
		return 128000
	case strings.HasPrefix(model, "llama3"):
		return 131072
	default:
		return 8192
	}
}

// IsWithinContext checks if the given token count is within the model's context size
func (s *TokenizerService) IsWithinContext(tokenCount int, model string) bool {
	return tokenCount <= s.GetContextSize(model)
}
