package adapters

import (
	"context"
	"errors"
	"fmt"

	"brokerage_portal_backend/internal/bookings/ports"
	catrepo "brokerage_portal_backend/internal/catalog/repository"
)

// CatalogPropertyReader adapts the catalog repository for the bookings domain,
// satisfying ports.PropertyCatalog.
type CatalogPropertyReader struct {
	repo catrepo.Repository
}

// NewCatalogPropertyReader creates a new catalog reader adapter.
func NewCatalogPropertyReader(repo catrepo.Repository) *CatalogPropertyReader {
	return &CatalogPropertyReader{repo: repo}
}

// GetProperty returns the fields a booking snapshots. The first image is
// used as the cover.
func (a *CatalogPropertyReader) GetProperty(ctx context.Context, id string) (ports.Property, error) {
	p, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catrepo.ErrNotFound) {
			return ports.Property{}, ports.ErrPropertyNotFound
		}
		return ports.Property{}, fmt.Errorf("catalog adapter: get property: %w", err)
	}

	out := ports.Property{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Units: make([]ports.Unit, 0, len(p.Units)),
	}
	if len(p.Images) > 0 {
		out.Image = p.Images[0]
	}
	for _, u := range p.Units {
		out.Units = append(out.Units, ports.Unit{ID: u.ID, Number: u.Number, Price: u.Price})
	}
	return out, nil
}

var _ ports.PropertyCatalog = (*CatalogPropertyReader)(nil)
