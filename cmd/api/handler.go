package api

import (
	"net/http"
	"strings"

	authDelivery "looppilot/internal/auth/delivery"
	authUsecase "looppilot/internal/auth/usecase"
	billingDelivery "looppilot/internal/billing/delivery"
	billingUsecase "looppilot/internal/billing/usecase"
	draftDelivery "looppilot/internal/draft/delivery"
	draftUsecase "looppilot/internal/draft/usecase"
	inboxDelivery "looppilot/internal/inbox/delivery"
	inboxUsecase "looppilot/internal/inbox/usecase"
	sequenceDelivery "looppilot/internal/sequence/delivery"
	sequenceUsecase "looppilot/internal/sequence/usecase"
	"looppilot/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	config      *config.Config

	authHandler     *authDelivery.AuthHandler
	inboxHandler    *inboxDelivery.InboxHandler
	billingHandler  *billingDelivery.BillingHandler
	draftHandler    *draftDelivery.DraftHandler
	sequenceHandler *sequenceDelivery.SequenceHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	inboxUc inboxUsecase.InboxUsecase,
	billingUc billingUsecase.BillingUsecase,
	draftUc draftUsecase.DraftUsecase,
	sequenceUc sequenceUsecase.SequenceUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:     authUc,
		config:          cfg,
		authHandler:     authDelivery.NewAuthHandler(authUc),
		inboxHandler:    inboxDelivery.NewInboxHandler(inboxUc, cfg.SiteURL),
		billingHandler:  billingDelivery.NewBillingHandler(billingUc),
		draftHandler:    draftDelivery.NewDraftHandler(draftUc),
		sequenceHandler: sequenceDelivery.NewSequenceHandler(sequenceUc),
	}
}

// Router builds the gin engine with CORS and every route mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(h.config.SiteURL))

	SetupRoutes(r, h)
	return r
}

// corsMiddleware allows the dashboard origin. Other origins get no CORS
// headers, which browsers treat as a denial.
func corsMiddleware(siteURL string) gin.HandlerFunc {
	allowed := strings.TrimRight(siteURL, "/")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && strings.EqualFold(origin, allowed) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
