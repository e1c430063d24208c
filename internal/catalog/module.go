// Package catalog provides the property catalog bounded context module.
package catalog

import (
	"brokerage_portal_backend/internal/catalog/handler"
	"brokerage_portal_backend/internal/catalog/repository"
	"brokerage_portal_backend/internal/catalog/service"
	apphttp "brokerage_portal_backend/internal/http"
	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule loads the catalog from CATALOG_PATH, or the embedded seed.
func NewModule(cfg config.CatalogConfig, val *validator.Validator) (*Module, error) {
	repo, err := repository.New(cfg.GetCatalogPath())
	if err != nil {
		return nil, err
	}

	svc := service.New(repo)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters in other contexts.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the public catalog routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/properties", m.handler.ListProperties)
	ctx.V1.GET("/properties/:id", m.handler.GetProperty)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
