// Package ports defines the interfaces that the bookings domain requires from
// external systems. Implementations are wired by the composition root so the
// bookings packages never import the catalog or auth packages directly.
package ports

import (
	"context"
	"errors"
)

// ErrPropertyNotFound is returned by a PropertyCatalog for unknown ids.
var ErrPropertyNotFound = errors.New("property not found")

// Unit is the part of a catalog unit a booking snapshots.
type Unit struct {
	ID     string
	Number string
	Price  float64
}

// Property is the part of a catalog property a booking snapshots.
type Property struct {
	ID    string
	Name  string
	Price float64
	Image string
	Units []Unit
}

// FindUnit returns the unit with id, if the property has one.
func (p Property) FindUnit(id string) (Unit, bool) {
	for _, u := range p.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// PropertyCatalog looks up properties at booking creation time.
type PropertyCatalog interface {
	GetProperty(ctx context.Context, id string) (Property, error)
}
