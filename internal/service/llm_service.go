package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	openai "github.com/sashabaranov/go-openai"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/domain"
)

// LLMService defines the interface for LLM operations
type LLMService interface {
	// ListAvailableModels returns all available models across providers
	ListAvailableModels() ([]domain.LLMModel, error)

	// Execute runs a chat completion and returns the full response
	Execute(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error)

	// Stream runs a chat completion with streaming deltas
	Stream(ctx context.Context, req domain.LLMRequest) (<-chan domain.LLMResponse, <-chan error)

	// CountTokens counts tokens for a given text and model
	CountTokens(text string, model string) (int, error)
}

// LLMServiceImpl implements the LLMService interface
type LLMServiceImpl struct {
	logger    *zap.Logger
	cfg       config.LLMConfig
	tokenizer *TokenizerService

	// Provider clients
	anthropicClient anthropic.Client
	openaiClient    *openai.Client
	ollamaClient    *api.Client

	models []domain.LLMModel
}

// NewLLMService creates a new LLM service instance
func NewLLMService(logger *zap.Logger, cfg config.LLMConfig, tokenizer *TokenizerService) *LLMServiceImpl {
	s := &LLMServiceImpl{
		logger:    logger,
		cfg:       cfg,
		tokenizer: tokenizer,
		models:    getAvailableModels(),
	}
	s.initializeClients()
	return s
}

func (s *LLMServiceImpl) initializeClients() {
	var anthropicOpts []option.RequestOption
	if s.cfg.AnthropicAPIKey != "" {
		anthropicOpts = append(anthropicOpts, option.WithAPIKey(s.cfg.AnthropicAPIKey))
	}
	if s.cfg.AnthropicBaseURL != "" {
		anthropicOpts = append(anthropicOpts, option.WithBaseURL(s.cfg.AnthropicBaseURL))
	}
	s.anthropicClient = anthropic.NewClient(anthropicOpts...)

	s.openaiClient = openai.NewClient(s.cfg.OpenAIAPIKey)

	if host, err := url.Parse(s.cfg.OllamaHost); err == nil {
		s.ollamaClient = api.NewClient(host, http.DefaultClient)
	} else {
		s.logger.Warn("invalid ollama host, local provider disabled",
			zap.String("host", s.cfg.OllamaHost),
			zap.Error(err),
		)
	}
}

func (s *LLMServiceImpl) ListAvailableModels() ([]domain.LLMModel, error) {
	return s.models, nil
}

func (s *LLMServiceImpl) Execute(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	switch req.Provider {
	case domain.ProviderAnthropic:
		return s.executeAnthropic(ctx, req)
	case domain.ProviderOpenAI:
		return s.executeOpenAI(ctx, req)
	case domain.ProviderOllama:
		return s.executeOllama(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrInvalidInput, req.Provider)
	}
}

func (s *LLMServiceImpl) Stream(ctx context.Context, req domain.LLMRequest) (<-chan domain.LLMResponse, <-chan error) {
	respCh := make(chan domain.LLMResponse)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		switch req.Provider {
		case domain.ProviderAnthropic:
			s.streamAnthropic(ctx, req, respCh, errCh)
		case domain.ProviderOpenAI:
			s.streamOpenAI(ctx, req, respCh, errCh)
		case domain.ProviderOllama:
			s.streamOllama(ctx, req, respCh, errCh)
		default:
			errCh <- fmt.Errorf("%w: unsupported provider %q", domain.ErrInvalidInput, req.Provider)
		}
	}()

	return respCh, errCh
}

func (s *LLMServiceImpl) CountTokens(text string, model string) (int, error) {
	return s.tokenizer.CountTokens(text, model)
}

// Anthropic implementation
func (s *LLMServiceImpl) anthropicParams(req domain.LLMRequest) anthropic.MessageNewParams {
	maxTokens := int64(req.MaxTokens)
	if maxTokens == 0 {
		maxTokens = int64(s.cfg.MaxTokens)
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == domain.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	return params
}

func (s *LLMServiceImpl) executeAnthropic(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	message, err := s.anthropicClient.Messages.New(ctx, s.anthropicParams(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	if len(message.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrProviderUnavailable)
	}

	text := ""
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &domain.LLMResponse{
		Text: text,
		Usage: domain.TokenUsage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
		FinishReason: string(message.StopReason),
	}, nil
}

func (s *LLMServiceImpl) streamAnthropic(ctx context.Context, req domain.LLMRequest, respCh chan<- domain.LLMResponse, errCh chan<- error) {
	stream := s.anthropicClient.Messages.NewStreaming(ctx, s.anthropicParams(req))

	for stream.Next() {
		event := stream.Current()
		if event.Delta.Text != "" {
			respCh <- domain.LLMResponse{Text: event.Delta.Text}
		}
	}

	if err := stream.Err(); err != nil {
		errCh <- fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
}

// OpenAI implementation
func (s *LLMServiceImpl) openaiRequest(req domain.LLMRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = s.cfg.MaxTokens
	}

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	}
}

func (s *LLMServiceImpl) executeOpenAI(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	resp, err := s.openaiClient.CreateChatCompletion(ctx, s.openaiRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrProviderUnavailable)
	}

	return &domain.LLMResponse{
		Text: resp.Choices[0].Message.Content,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

func (s *LLMServiceImpl) streamOpenAI(ctx context.Context, req domain.LLMRequest, respCh chan<- domain.LLMResponse, errCh chan<- error) {
	oreq := s.openaiRequest(req)
	oreq.Stream = true

	stream, err := s.openaiClient.CreateChatCompletionStream(ctx, oreq)
	if err != nil {
		errCh <- fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
		return
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if err.Error() == "stream closed" || err.Error() == "EOF" {
				break
			}
			errCh <- fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
			return
		}

		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" {
				respCh <- domain.LLMResponse{Text: delta}
			}
		}
	}
}

// Ollama implementation
func (s *LLMServiceImpl) ollamaRequest(req domain.LLMRequest, stream bool) *api.ChatRequest {
	messages := make([]api.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: m.Role, Content: m.Content})
	}
	return &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
	}
}

func (s *LLMServiceImpl) executeOllama(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	if s.ollamaClient == nil {
		return nil, fmt.Errorf("%w: ollama client not configured", domain.ErrProviderUnavailable)
	}

	var out domain.LLMResponse
	err := s.ollamaClient.Chat(ctx, s.ollamaRequest(req, false), func(resp api.ChatResponse) error {
		out.Text += resp.Message.Content
		if resp.Done {
			out.Usage = domain.TokenUsage{
				PromptTokens:     resp.Metrics.PromptEvalCount,
				CompletionTokens: resp.Metrics.EvalCount,
				TotalTokens:      resp.Metrics.PromptEvalCount + resp.Metrics.EvalCount,
			}
			out.FinishReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	return &out, nil
}

func (s *LLMServiceImpl) streamOllama(ctx context.Context, req domain.LLMRequest, respCh chan<- domain.LLMResponse, errCh chan<- error) {
	if s.ollamaClient == nil {
		errCh <- fmt.Errorf("%w: ollama client not configured", domain.ErrProviderUnavailable)
		return
	}

	err := s.ollamaClient.Chat(ctx, s.ollamaRequest(req, true), func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			respCh <- domain.LLMResponse{Text: resp.Message.Content}
		}
		return nil
	})
	if err != nil {
		errCh <- fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
}

// getAvailableModels returns the models reachable through the configured
// providers. Static for now; the set rarely changes and keeps startup cheap.
func getAvailableModels() []domain.LLMModel {
	return []domain.LLMModel{
		{
			ID:          "claude-3-5-sonnet",
			Name:        "Claude 3.5 Sonnet",
			Provider:    domain.ProviderAnthropic,
			ModelID:     "claude-3-5-sonnet-latest",
			ContextSize: 200000,
		},
		{
			ID:          "claude-3-5-haiku",
			Name:        "Claude 3.5 Haiku",
			Provider:    domain.ProviderAnthropic,
			ModelID:     "claude-3-5-haiku-latest",
			ContextSize: 200000,
		},
		{
			ID:          "gpt-4o",
			Name:        "GPT-4o",
			Provider:    domain.ProviderOpenAI,
			ModelID:     "gpt-4o",
			ContextSize: 128000,
		},
		{
			ID:          "gpt-4o-mini",
			Name:        "GPT-4o mini",
			Provider:    domain.ProviderOpenAI,
			ModelID:     "gpt-4o-mini",
			ContextSize: 128000,
		},
		{
			ID:          "llama3.1",
			Name:        "Llama 3.1 8B (local)",
			Provider:    domain.ProviderOllama,
			ModelID:     "llama3.1",
			ContextSize: 131072,
		},
	}
}
