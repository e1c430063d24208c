// Package bookings provides the booking pipeline bounded context module.
package bookings

import (
	"time"

	"brokerage_portal_backend/internal/adapters/storage"
	"brokerage_portal_backend/internal/bookings/documents"
	"brokerage_portal_backend/internal/bookings/handler"
	"brokerage_portal_backend/internal/bookings/management"
	"brokerage_portal_backend/internal/bookings/ports"
	"brokerage_portal_backend/internal/bookings/repository"
	"brokerage_portal_backend/internal/events"
	apphttp "brokerage_portal_backend/internal/http"
	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/lock"
	"brokerage_portal_backend/platform/logger"
	"brokerage_portal_backend/platform/validator"
)

// Module is the bookings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *management.Service
	repo    repository.Store
}

// NewModule wires the booking store, document uploads and HTTP handler.
// storageSvc may be nil, in which case document uploads answer 503.
func NewModule(
	repo repository.Store,
	locker lock.Locker,
	catalog ports.PropertyCatalog,
	actors ports.ActorProvider,
	eventBus events.Bus,
	storageSvc storage.StorageService,
	documentsBucket string,
	val *validator.Validator,
	cfg config.BookingsConfig,
	log *logger.Logger,
	now func() time.Time,
) *Module {
	if now == nil {
		now = time.Now
	}
	svc := management.New(repo, locker, catalog, actors, eventBus,
		management.WithClock(now),
		management.WithLogger(log),
		management.WithValidator(val),
	)
	docs := documents.New(svc, storageSvc, documentsBucket, val, log)
	h := handler.New(svc, docs, val, handler.Config{
		ColdAfter:  cfg.GetColdAfter(),
		AppBaseURL: cfg.GetAppBaseURL(),
		Now:        now,
	})

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bookings"
}

// Service returns the booking store for the cold sweep and other contexts.
func (m *Module) Service() *management.Service {
	return m.service
}

// Repository returns the underlying store.
func (m *Module) Repository() repository.Store {
	return m.repo
}

// RegisterRoutes mounts buyer and broker booking routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	buyer := ctx.Protected.Group("/bookings")
	buyer.POST("", m.handler.Create)
	buyer.GET("/:id", m.handler.Get)
	buyer.GET("/:id/qr", m.handler.QRCode)
	buyer.POST("/:id/documents", m.handler.UploadDocument)

	broker := ctx.Broker.Group("/bookings")
	broker.GET("", m.handler.List)
	broker.PATCH("/:id", m.handler.Update)
	broker.POST("/:id/transition", m.handler.Transition)
	broker.POST("/:id/lost", m.handler.MarkLost)
	broker.POST("/:id/notes", m.handler.AddNote)
	broker.POST("/:id/sub-sections", m.handler.AppendSubSection)
	broker.PUT("/:id/assign", m.handler.AssignBroker)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
