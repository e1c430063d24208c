package registration

import (
	apphttp "brokerage_portal_backend/internal/http"
)

// Module serves the public broker onboarding checks.
type Module struct {
	handler *Handler
}

func NewModule() *Module {
	return &Module{handler: NewHandler()}
}

func (m *Module) Name() string {
	return "registration"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/registration/steps", m.handler.ListSteps)
	ctx.V1.POST("/registration/validate", m.handler.Validate)
}

var _ apphttp.Module = (*Module)(nil)
