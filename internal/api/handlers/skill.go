package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/service"
)

// SkillHandler handles skill pack HTTP requests
type SkillHandler struct {
	skillService *service.SkillService
	logger       *zap.Logger
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skillService *service.SkillService, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
		logger:       logger,
	}
}

// List lists all loaded skills
// GET /v1/skills
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skillService.List()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: skills, Total: len(skills)})
}

// Get retrieves a skill by name
// GET /v1/skills/:name
func (h *SkillHandler) Get(c *gin.Context) {
	sk, err := h.skillService.Get(c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sk)
}
