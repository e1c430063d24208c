package handler

import (
	"net/http"
	"strconv"
	"strings"

	"brokerage_portal_backend/internal/notification/inapp"
	"brokerage_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type HTTPHandler struct {
	svc *inapp.Service
}

func NewHTTPHandler(svc *inapp.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread", h.CountUnread)
	rg.PATCH("/:id/read", h.MarkRead)
	rg.PATCH("/read-all", h.MarkAllRead)
}

// recipient is the broker's display name, which is what bookings store as
// the assigned broker.
func recipient(c *gin.Context) (string, bool) {
	actor, ok := httpkit.ActorFromContext(c.Request.Context())
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return "", false
	}
	return actor.Name, true
}

func (h *HTTPHandler) List(c *gin.Context) {
	name, ok := recipient(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	items, total, err := h.svc.List(c.Request.Context(), name, page, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"items": items,
		"total": total,
		"page":  page,
	})
}

func (h *HTTPHandler) CountUnread(c *gin.Context) {
	name, ok := recipient(c)
	if !ok {
		return
	}
	count, err := h.svc.CountUnread(c.Request.Context(), name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

func (h *HTTPHandler) MarkRead(c *gin.Context) {
	name, ok := recipient(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	if httpkit.HandleError(c, h.svc.MarkRead(c.Request.Context(), name, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	name, ok := recipient(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.MarkAllRead(c.Request.Context(), name)) {
		return
	}
	c.Status(http.StatusNoContent)
}
