package delivery

import (
	"net/http"

	authdelivery "looppilot/internal/auth/delivery"
	"looppilot/internal/sequence/dto"
	"looppilot/internal/sequence/usecase"
	"looppilot/pkg/response"

	"github.com/gin-gonic/gin"
)

// SequenceHandler handles template and sequence HTTP requests
type SequenceHandler struct {
	sequenceUsecase usecase.SequenceUsecase
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(sequenceUsecase usecase.SequenceUsecase) *SequenceHandler {
	return &SequenceHandler{sequenceUsecase: sequenceUsecase}
}

// ListTemplates handles GET /templates
func (h *SequenceHandler) ListTemplates(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	templates, err := h.sequenceUsecase.ListTemplates(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTemplate handles POST /templates
func (h *SequenceHandler) CreateTemplate(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	template, err := h.sequenceUsecase.CreateTemplate(user.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// ListSequences handles GET /sequences
func (h *SequenceHandler) ListSequences(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	sequences, err := h.sequenceUsecase.ListSequences(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sequences)
}

// CreateSequence handles POST /sequences
func (h *SequenceHandler) CreateSequence(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req dto.CreateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	sequence, err := h.sequenceUsecase.CreateSequence(user.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, sequence)
}

// UpdateSequence handles PUT /sequences/:id
func (h *SequenceHandler) UpdateSequence(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req dto.UpdateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	sequence, err := h.sequenceUsecase.UpdateSequence(user.ID, c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sequence)
}

// DeleteSequence handles DELETE /sequences/:id
func (h *SequenceHandler) DeleteSequence(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	if err := h.sequenceUsecase.DeleteSequence(user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
