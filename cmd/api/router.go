package api

import (
	"net/http"

	"looppilot/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireAuth := delivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/refresh", h.authHandler.Refresh)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", requireAuth, h.authHandler.Me)

			// Google redirects here without our bearer token; the signed
			// state identifies the user.
			auth.GET("/google/callback", h.inboxHandler.Callback)
			auth.GET("/google/url", requireAuth, h.inboxHandler.ConnectURL)
		}

		// Stripe calls this with a signature instead of a bearer token.
		api.POST("/webhooks/stripe", h.billingHandler.Webhook)

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			// Inbox and open loops
			protected.POST("/sync", h.inboxHandler.Sync)
			protected.GET("/open-loops", h.inboxHandler.GetOpenLoops)
			protected.GET("/threads/find", h.inboxHandler.GetOpenLoops) // older dashboard path
			protected.GET("/inbox/status", h.inboxHandler.GetStatus)
			protected.GET("/threads", h.inboxHandler.ListThreads)
			protected.GET("/threads/:id", h.inboxHandler.GetThread)

			// Drafts and usage
			protected.POST("/drafts/generate", h.draftHandler.Generate)
			protected.GET("/usage", h.billingHandler.GetUsage)
			protected.POST("/billing/checkout", h.billingHandler.Checkout)

			// Templates and sequences
			protected.GET("/templates", h.sequenceHandler.ListTemplates)
			protected.POST("/templates", h.sequenceHandler.CreateTemplate)
			protected.GET("/sequences", h.sequenceHandler.ListSequences)
			protected.POST("/sequences", h.sequenceHandler.CreateSequence)
			protected.PUT("/sequences/:id", h.sequenceHandler.UpdateSequence)
			protected.DELETE("/sequences/:id", h.sequenceHandler.DeleteSequence)
		}
	}
}
