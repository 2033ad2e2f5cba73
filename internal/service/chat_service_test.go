package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
	"github.com/finsight/finsight/internal/viz"
)

// stubLLM plays back canned chunks and records the request it received
type stubLLM struct {
	chunks  []string
	err     error
	lastReq domain.LLMRequest
}

func (s *stubLLM) ListAvailableModels() ([]domain.LLMModel, error) { return nil, nil }

func (s *stubLLM) CountTokens(text string, model string) (int, error) { return len(text) / 4, nil }

func (s *stubLLM) Execute(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	var text string
	for _, c := range s.chunks {
		text += c
	}
	return &domain.LLMResponse{Text: text, FinishReason: "stop"}, nil
}

func (s *stubLLM) Stream(ctx context.Context, req domain.LLMRequest) (<-chan domain.LLMResponse, <-chan error) {
	s.lastReq = req
	respCh := make(chan domain.LLMResponse, len(s.chunks))
	errCh := make(chan error, 1)
	for _, c := range s.chunks {
		respCh <- domain.LLMResponse{Text: c}
	}
	close(respCh)
	errCh <- s.err
	close(errCh)
	return respCh, errCh
}

func newChatFixture(t *testing.T, llm LLMService) (*ChatService, *file.SessionRepository, string) {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	prices := file.NewPriceRepository(dir)
	portfolios := NewPortfolioService(file.NewPortfolioRepository(dir), prices, logger)
	sessions := file.NewSessionRepository(dir)

	cfg := config.LLMConfig{
		Provider:      domain.ProviderAnthropic,
		Model:         "claude-3-5-sonnet-latest",
		MaxTokens:     1024,
		HistoryBudget: 100000,
	}

	svc := NewChatService(
		logger,
		cfg,
		llm,
		NewTokenizerService(),
		NewSkillService(dir, logger),
		portfolios,
		NewMarketService(prices, logger),
		NewNewsService(file.NewNewsRepository(dir), logger),
		sessions,
		nil,
	)
	return svc, sessions, dir
}

func TestChatExecute(t *testing.T) {
	llm := &stubLLM{chunks: []string{
		`Allocation: ![viz:pie]({"data":[{"label":"AAPL","value":60}]}) as requested.`,
	}}
	svc, sessions, _ := newChatFixture(t, llm)

	res, err := svc.Execute(context.Background(), ChatRequest{Message: "show my allocation"})
	require.NoError(t, err)

	require.Len(t, res.Segments, 3)
	assert.Equal(t, viz.SegmentText, res.Segments[0].Type)
	assert.Equal(t, viz.SegmentViz, res.Segments[1].Type)
	assert.Equal(t, viz.SegmentText, res.Segments[2].Type)
	require.Len(t, res.Commands, 1)
	assert.Equal(t, viz.KindPie, res.Commands[0].Kind())
	assert.Empty(t, res.Errors)

	// the turn is persisted as user plus assistant messages
	require.NotEqual(t, uuid.Nil, res.SessionID)
	session, err := sessions.Get(res.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, domain.RoleUser, session.Messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, "show my allocation", session.Title)
}

func TestChatExecuteContinuesSession(t *testing.T) {
	llm := &stubLLM{chunks: []string{"Sure."}}
	svc, sessions, _ := newChatFixture(t, llm)

	first, err := svc.Execute(context.Background(), ChatRequest{Message: "hello"})
	require.NoError(t, err)

	second, err := svc.Execute(context.Background(), ChatRequest{
		SessionID: first.SessionID,
		Message:   "and again",
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	session, err := sessions.Get(first.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "and again", session.Messages[2].Content)

	// history carried into the provider request
	require.Len(t, llm.lastReq.Messages, 3)
}

func TestChatExecuteValidation(t *testing.T) {
	svc, _, _ := newChatFixture(t, &stubLLM{})

	t.Run("Empty Message", func(t *testing.T) {
		_, err := svc.Execute(context.Background(), ChatRequest{Message: "   "})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := svc.Execute(context.Background(), ChatRequest{Message: "hi", Provider: "palm"})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Unknown Session", func(t *testing.T) {
		_, err := svc.Execute(context.Background(), ChatRequest{Message: "hi", SessionID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestChatSystemPrompt(t *testing.T) {
	llm := &stubLLM{chunks: []string{"ok"}}
	svc, _, dir := newChatFixture(t, llm)
	writeSkill(t, dir, "charting.md", "Prefer line charts.")

	_, err := svc.Execute(context.Background(), ChatRequest{Message: "hi"})
	require.NoError(t, err)

	assert.Contains(t, llm.lastReq.System, "![viz:chart]")
	assert.Contains(t, llm.lastReq.System, "## Skill: charting")
	assert.Equal(t, domain.ProviderAnthropic, llm.lastReq.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", llm.lastReq.Model)
}

func TestChatStream(t *testing.T) {
	llm := &stubLLM{chunks: []string{"Hello ", "world"}}
	svc, sessions, _ := newChatFixture(t, llm)

	events, err := svc.Stream(context.Background(), ChatRequest{Message: "hi"})
	require.NoError(t, err)

	var collected []ChatEvent
	for ev := range events {
		collected = append(collected, ev)
	}

	require.Len(t, collected, 3)
	assert.Equal(t, "delta", collected[0].Type)
	assert.Equal(t, "Hello ", collected[0].Delta)
	assert.Equal(t, "delta", collected[1].Type)
	assert.Equal(t, "world", collected[1].Delta)

	final := collected[2]
	assert.Equal(t, "segments", final.Type)
	require.Len(t, final.Segments, 1)
	assert.Equal(t, "Hello world", final.Segments[0].Content)

	session, err := sessions.Get(final.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "Hello world", session.Messages[1].Content)
}

func TestChatStreamProviderError(t *testing.T) {
	llm := &stubLLM{err: domain.ErrProviderUnavailable}
	svc, _, _ := newChatFixture(t, llm)

	events, err := svc.Stream(context.Background(), ChatRequest{Message: "hi"})
	require.NoError(t, err)

	var collected []ChatEvent
	for ev := range events {
		collected = append(collected, ev)
	}

	require.Len(t, collected, 1)
	assert.Equal(t, "error", collected[0].Type)
	assert.NotEmpty(t, collected[0].Error)
}
