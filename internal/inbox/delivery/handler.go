package delivery

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	authdelivery "looppilot/internal/auth/delivery"
	"looppilot/internal/inbox/dto"
	"looppilot/internal/inbox/usecase"
	"looppilot/pkg/apperr"
	"looppilot/pkg/response"

	"github.com/gin-gonic/gin"
)

type InboxHandler struct {
	inboxUsecase usecase.InboxUsecase
	siteURL      string
}

func NewInboxHandler(inboxUsecase usecase.InboxUsecase, siteURL string) *InboxHandler {
	return &InboxHandler{
		inboxUsecase: inboxUsecase,
		siteURL:      strings.TrimRight(siteURL, "/"),
	}
}

// Sync handles POST /sync. The body is optional.
func (h *InboxHandler) Sync(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req dto.SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, err)
			return
		}
	}

	resp, err := h.inboxUsecase.SyncThreads(c.Request.Context(), user.ID, usecase.SyncOptions{
		LookbackDays: req.LookbackDays,
		MaxPages:     req.MaxPages,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOpenLoops handles GET /open-loops?minDays=&maxDays=
func (h *InboxHandler) GetOpenLoops(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	minDays, err := intQuery(c, "minDays", usecase.DefaultMinDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	maxDays, err := intQuery(c, "maxDays", usecase.DefaultMaxDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.inboxUsecase.GetOpenLoops(user.ID, minDays, maxDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InboxHandler) GetStatus(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	resp, err := h.inboxUsecase.GetStatus(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListThreads handles GET /threads?q=
func (h *InboxHandler) ListThreads(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	threads, err := h.inboxUsecase.ListThreads(user.ID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ThreadListResponse{Threads: threads})
}

func (h *InboxHandler) GetThread(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	thread, err := h.inboxUsecase.GetThread(user.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// ConnectURL handles GET /auth/google/url
func (h *InboxHandler) ConnectURL(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	u, err := h.inboxUsecase.ConnectURL(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConnectURLResponse{AuthorizeURL: u, URL: u})
}

// Callback handles GET /auth/google/callback. It is reached by a browser
// redirect from Google, so the outcome is always a redirect to the site.
func (h *InboxHandler) Callback(c *gin.Context) {
	if denied := c.Query("error"); denied != "" {
		h.redirect(c, "/login", denied)
		return
	}

	_, err := h.inboxUsecase.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		code := apperr.CodeOf(err)
		slog.Warn("[Gmail] connect failed", "code", code, "error", err)
		h.redirect(c, "/login", string(code))
		return
	}

	h.redirect(c, "/dashboard", "connected")
}

func (h *InboxHandler) redirect(c *gin.Context, path, outcome string) {
	c.Redirect(http.StatusFound, h.siteURL+path+"?google="+url.QueryEscape(outcome))
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput(key + " must be an integer")
	}
	return v, nil
}
