package delivery

import (
	"net/http"

	authdelivery "looppilot/internal/auth/delivery"
	"looppilot/internal/draft/dto"
	"looppilot/internal/draft/usecase"
	"looppilot/pkg/apperr"
	"looppilot/pkg/response"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	draftUsecase usecase.DraftUsecase
}

func NewDraftHandler(draftUsecase usecase.DraftUsecase) *DraftHandler {
	return &DraftHandler{draftUsecase: draftUsecase}
}

// Generate handles POST /drafts/generate
func (h *DraftHandler) Generate(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req dto.GenerateDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	resp, err := h.draftUsecase.Generate(c.Request.Context(), user.ID, &req)
	if err != nil {
		if apperr.Is(err, apperr.CodeLimitReached) {
			// The dashboard keys the upgrade prompt off these fields.
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":     apperr.CodeLimitReached,
				"message":   apperr.Message(err),
				"remaining": 0,
				"upgrade":   true,
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
