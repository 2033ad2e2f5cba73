package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/service"
)

// TokenHandler handles token counting HTTP requests
type TokenHandler struct {
	llmService service.LLMService
	tokenizer  *service.TokenizerService
	logger     *zap.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(llmService service.LLMService, tokenizer *service.TokenizerService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		llmService: llmService,
		tokenizer:  tokenizer,
		logger:     logger,
	}
}

// CountRequest represents a token count request
type CountRequest struct {
	Text  string `json:"text" binding:"required"`
	Model string `json:"model" binding:"required"`
}

// CountResponse represents a token count response
type CountResponse struct {
	Tokens      int  `json:"tokens"`
	ContextSize int  `json:"context_size"`
	Fits        bool `json:"fits"`
}

// Count counts tokens for a given text and model
// POST /v1/tokens/count
func (h *TokenHandler) Count(c *gin.Context) {
	var req CountRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.llmService.CountTokens(req.Text, req.Model)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{
		Tokens:      tokens,
		ContextSize: h.tokenizer.GetContextSize(req.Model),
		Fits:        h.tokenizer.IsWithinContext(tokens, req.Model),
	})
}

// Models lists the available models across providers
// GET /v1/models
func (h *TokenHandler) Models(c *gin.Context) {
	models, err := h.llmService.ListAvailableModels()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: models, Total: len(models)})
}
