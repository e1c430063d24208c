package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brokerage_portal_backend/internal/catalog/service"
	"brokerage_portal_backend/internal/catalog/transport"
	"brokerage_portal_backend/platform/httpkit"
	"brokerage_portal_backend/platform/validator"
)

// Handler handles HTTP requests for the property catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid property id"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListProperties retrieves properties.
// GET /api/v1/properties
func (h *Handler) ListProperties(c *gin.Context) {
	var req transport.ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ListProperties(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetProperty retrieves a property by ID.
// GET /api/v1/properties/:id
func (h *Handler) GetProperty(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetProperty(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
