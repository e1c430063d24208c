package registration

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"brokerage_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type ValidateRequest struct {
	Step string          `json:"step"`
	Data json.RawMessage `json:"data"`
}

type ValidateResponse struct {
	Step   Step              `json:"step"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// Validate checks one wizard step.
// POST /api/v1/registration/validate
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	step := Step(req.Step)
	errs, err := ValidateStep(step, req.Data, h.now())
	if err != nil {
		if errors.Is(err, ErrUnknownStep) {
			httpkit.Error(c, http.StatusBadRequest, "unknown registration step", gin.H{"steps": Steps()})
			return
		}
		httpkit.Error(c, http.StatusBadRequest, "invalid step data", err.Error())
		return
	}

	httpkit.OK(c, ValidateResponse{Step: step, Valid: len(errs) == 0, Errors: errs})
}

// ListSteps returns the wizard steps in order.
// GET /api/v1/registration/steps
func (h *Handler) ListSteps(c *gin.Context) {
	httpkit.OK(c, gin.H{"steps": Steps()})
}
