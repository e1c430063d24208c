package service

import (
	"context"
	"errors"

	"brokerage_portal_backend/internal/catalog/repository"
	"brokerage_portal_backend/internal/catalog/transport"
	"brokerage_portal_backend/platform/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service provides the property catalog reads.
type Service struct {
	repo repository.Repository
}

// New creates a new catalog service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetProperty retrieves a property by ID.
func (s *Service) GetProperty(ctx context.Context, id string) (transport.PropertyResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.PropertyResponse{}, apperr.NotFound("property not found")
		}
		return transport.PropertyResponse{}, err
	}
	return toPropertyResponse(p), nil
}

// ListProperties retrieves properties with filters and pagination.
func (s *Service) ListProperties(ctx context.Context, req transport.ListPropertiesRequest) (transport.PropertyListResponse, error) {
	if req.MinPrice > 0 && req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return transport.PropertyListResponse{}, apperr.Validation("minPrice must not exceed maxPrice")
	}

	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Search:      req.Search,
		City:        req.City,
		Type:        req.Type,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		MinBedrooms: req.MinBedrooms,
		Offset:      (page - 1) * pageSize,
		Limit:       pageSize,
	})
	if err != nil {
		return transport.PropertyListResponse{}, err
	}

	resp := make([]transport.PropertyResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toPropertyResponse(p))
	}
	return transport.PropertyListResponse{
		Items:      resp,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func toPropertyResponse(p repository.Property) transport.PropertyResponse {
	units := make([]transport.UnitResponse, 0, len(p.Units))
	for _, u := range p.Units {
		units = append(units, transport.UnitResponse{
			ID:        u.ID,
			Number:    u.Number,
			Bedrooms:  u.Bedrooms,
			SizeSqft:  u.SizeSqft,
			Price:     u.Price,
			Available: u.Available,
		})
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return transport.PropertyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Developer: p.Developer,
		Community: p.Community,
		City:      p.City,
		Type:      p.Type,
		Status:    p.Status,
		Price:     p.Price,
		SizeSqft:  p.SizeSqft,
		Bedrooms:  p.Bedrooms,
		Bathrooms: p.Bathrooms,
		Images:    images,
		Units:     units,
	}
}
