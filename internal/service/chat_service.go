package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
	"github.com/finsight/finsight/internal/viz"
)

// baseSystemPrompt instructs the model to emit visualization markup instead
// of markdown tables. The recovery parser tolerates the model getting this
// wrong, but asking correctly first keeps the fix rate down.
const baseSystemPrompt = `You are a personal finance research assistant. You answer questions
about the user's portfolios, watchlists, trades, price history, and news.

When a chart or table would help, embed it with this exact markup, inline in your prose:

![viz:chart]({"chartType":"line","data":{"labels":[...],"datasets":[{"label":"...","data":[...]}]}})
![viz:table]({"headers":["..."],"rows":[["..."]]})
![viz:pie]({"data":[{"label":"...","value":1}]})

The payload must be valid JSON on a single line. Never use markdown tables; always use
the viz markup instead. Keep visualizations small and focused.`

// ChatRequest is one user turn
type ChatRequest struct {
	SessionID uuid.UUID `json:"session_id,omitempty"`
	Message   string    `json:"message" binding:"required"`
	Provider  string    `json:"provider,omitempty" binding:"omitempty,provider"`
	Model     string    `json:"model,omitempty"`
}

// ChatEvent is one streamed chat event: a text delta while the model is
// generating, then a terminal segments event carrying the parsed
// visualization segments of the full response.
type ChatEvent struct {
	Type      string        `json:"type"` // "delta", "segments", "error"
	SessionID uuid.UUID     `json:"session_id"`
	Delta     string        `json:"delta,omitempty"`
	Segments  []viz.Segment `json:"segments,omitempty"`
	Commands  []viz.Command `json:"commands,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ChatResult is the response of a non-streaming chat turn
type ChatResult struct {
	SessionID uuid.UUID         `json:"session_id"`
	Text      string            `json:"text"`
	Segments  []viz.Segment     `json:"segments"`
	Commands  []viz.Command     `json:"commands"`
	Errors    []viz.ParseError  `json:"parse_errors,omitempty"`
	Usage     domain.TokenUsage `json:"usage"`
}

// ChatService runs chat turns: it assembles the system prompt from skills and
// stored data, trims history to the token budget, streams the provider's
// deltas, and runs the visualization recovery parser over the final text.
type ChatService struct {
	logger     *zap.Logger
	cfg        config.LLMConfig
	llm        LLMService
	tokenizer  *TokenizerService
	skills     *SkillService
	portfolios *PortfolioService
	market     *MarketService
	news       *NewsService
	sessions   *file.SessionRepository
	hub        *StreamHub
}

// NewChatService creates a new chat service
func NewChatService(
	logger *zap.Logger,
	cfg config.LLMConfig,
	llm LLMService,
	tokenizer *TokenizerService,
	skills *SkillService,
	portfolios *PortfolioService,
	market *MarketService,
	news *NewsService,
	sessions *file.SessionRepository,
	hub *StreamHub,
) *ChatService {
	return &ChatService{
		logger:     logger,
		cfg:        cfg,
		llm:        llm,
		tokenizer:  tokenizer,
		skills:     skills,
		portfolios: portfolios,
		market:     market,
		news:       news,
		sessions:   sessions,
		hub:        hub,
	}
}

// Execute runs one chat turn to completion and returns the parsed result
func (s *ChatService) Execute(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	session, llmReq, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.llm.Execute(ctx, *llmReq)
	if err != nil {
		return nil, err
	}

	parsed := viz.Parse(resp.Text)
	if err := s.persistTurn(session, resp.Text); err != nil {
		return nil, err
	}

	return &ChatResult{
		SessionID: session.ID,
		Text:      resp.Text,
		Segments:  parsed.Segments,
		Commands:  parsed.Commands,
		Errors:    parsed.Errors,
		Usage:     resp.Usage,
	}, nil
}

// Stream runs one chat turn, emitting delta events followed by a terminal
// segments event. The channel closes when the turn is finished. Events are
// mirrored to the WebSocket hub for session subscribers.
func (s *ChatService) Stream(ctx context.Context, req ChatRequest) (<-chan ChatEvent, error) {
	session, llmReq, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	events := make(chan ChatEvent)
	go func() {
		defer close(events)

		respCh, errCh := s.llm.Stream(ctx, *llmReq)

		var full strings.Builder
		for resp := range respCh {
			full.WriteString(resp.Text)
			s.emit(ctx, events, ChatEvent{
				Type:      "delta",
				SessionID: session.ID,
				Delta:     resp.Text,
			})
		}
		if err := <-errCh; err != nil {
			s.logger.Error("chat stream failed",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
			s.emit(ctx, events, ChatEvent{
				Type:      "error",
				SessionID: session.ID,
				Error:     err.Error(),
			})
			return
		}

		text := full.String()
		parsed := viz.Parse(text)
		if err := s.persistTurn(session, text); err != nil {
			s.logger.Error("failed to persist chat turn",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}

		s.emit(ctx, events, ChatEvent{
			Type:      "segments",
			SessionID: session.ID,
			Segments:  parsed.Segments,
			Commands:  parsed.Commands,
		})
	}()

	return events, nil
}

// prepare loads or creates the session, appends the user turn, and builds
// the provider request with a budget-trimmed history.
func (s *ChatService) prepare(req ChatRequest) (*domain.ChatSession, *domain.LLMRequest, error) {
	if strings.TrimSpace(req.Message) == "" {
		var ve domain.ValidationErrors
		ve.Add("message", "message is required")
		return nil, nil, ve
	}

	provider := req.Provider
	if provider == "" {
		provider = s.cfg.Provider
	}
	if !domain.KnownProvider(provider) {
		var ve domain.ValidationErrors
		ve.Add("provider", "provider must be one of: anthropic, openai, ollama")
		return nil, nil, ve
	}
	model := req.Model
	if model == "" {
		model = s.cfg.Model
	}

	var session *domain.ChatSession
	if req.SessionID != uuid.Nil {
		var err error
		session, err = s.sessions.Get(req.SessionID)
		if err != nil {
			return nil, nil, err
		}
	} else {
		// assign the ID up front so streamed deltas carry it before the
		// first save
		session = &domain.ChatSession{
			ID:    uuid.New(),
			Title: truncateTitle(req.Message),
		}
	}

	session.Messages = append(session.Messages, domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now().UTC(),
	})

	history, err := s.tokenizer.TrimToBudget(session.Messages, s.cfg.HistoryBudget, model)
	if err != nil {
		return nil, nil, fmt.Errorf("trim history: %w", err)
	}

	system, err := s.buildSystemPrompt()
	if err != nil {
		return nil, nil, err
	}

	return session, &domain.LLMRequest{
		Provider:  provider,
		Model:     model,
		System:    system,
		Messages:  history,
		MaxTokens: s.cfg.MaxTokens,
	}, nil
}

// buildSystemPrompt assembles base instructions, skill packs, and a data
// context section summarizing the user's stored holdings and prices.
func (s *ChatService) buildSystemPrompt() (string, error) {
	var sb strings.Builder
	sb.WriteString(baseSystemPrompt)

	skillSection, err := s.skills.PromptSection()
	if err != nil {
		return "", err
	}
	sb.WriteString(skillSection)

	if ctx := s.dataContext(); ctx != "" {
		sb.WriteString("\n\n## Current data\n\n")
		sb.WriteString(ctx)
	}
	return sb.String(), nil
}

func (s *ChatService) dataContext() string {
	var sb strings.Builder
	var symbols []string

	portfolios, err := s.portfolios.List()
	if err != nil {
		s.logger.Warn("portfolio context unavailable", zap.Error(err))
	}
	for _, p := range portfolios {
		sb.WriteString("Portfolio ")
		sb.WriteString(p.Name)
		sb.WriteString(" (")
		sb.WriteString(p.Currency)
		sb.WriteString("): ")
		for i, pos := range p.Positions {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pos.Quantity.String())
			sb.WriteString(" ")
			sb.WriteString(pos.Symbol)
			symbols = append(symbols, pos.Symbol)
		}
		sb.WriteString("\n")
	}

	if prices := s.market.ChartContext(symbols, 30); prices != "" {
		sb.WriteString("\nRecent prices:\n")
		sb.WriteString(prices)
	}
	if headlines := s.news.HeadlineContext(symbols, 3); headlines != "" {
		sb.WriteString("\nRecent headlines:\n")
		sb.WriteString(headlines)
	}
	return sb.String()
}

// persistTurn appends the assistant message and saves the session
func (s *ChatService) persistTurn(session *domain.ChatSession, text string) error {
	session.Messages = append(session.Messages, domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
	return s.sessions.Save(session)
}

// emit delivers an event to the subscriber channel and the WebSocket hub
func (s *ChatService) emit(ctx context.Context, events chan<- ChatEvent, ev ChatEvent) {
	if s.hub != nil {
		s.hub.Broadcast(&ev)
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func truncateTitle(msg string) string {
	msg = strings.TrimSpace(msg)
	const max = 60
	if len(msg) <= max {
		return msg
	}
	return msg[:max] + "…"
}
