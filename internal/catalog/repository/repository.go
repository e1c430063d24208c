// Package repository loads the property catalog from YAML. The catalog is
// read-only at runtime; a deployment points CATALOG_PATH at its own file.
package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("property not found")

//go:embed seed.yaml
var seedCatalog []byte

type Unit struct {
	ID        string  `yaml:"id"`
	Number    string  `yaml:"number"`
	Bedrooms  int     `yaml:"bedrooms"`
	SizeSqft  int     `yaml:"sizeSqft"`
	Price     float64 `yaml:"price"`
	Available bool    `yaml:"available"`
}

type Property struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Developer string   `yaml:"developer"`
	Community string   `yaml:"community"`
	City      string   `yaml:"city"`
	Type      string   `yaml:"type"`
	Status    string   `yaml:"status"`
	Price     float64  `yaml:"price"`
	SizeSqft  int      `yaml:"sizeSqft"`
	Bedrooms  int      `yaml:"bedrooms"`
	Bathrooms int      `yaml:"bathrooms"`
	Images    []string `yaml:"images"`
	Units     []Unit   `yaml:"units"`
}

type catalogFile struct {
	Properties []Property `yaml:"properties"`
}

// ListParams filters List. Zero values match everything.
type ListParams struct {
	Search      string
	City        string
	Type        string
	MinPrice    float64
	MaxPrice    float64
	MinBedrooms int
	Offset      int
	Limit       int
}

// Repository defines the catalog reads.
type Repository interface {
	GetByID(ctx context.Context, id string) (Property, error)
	List(ctx context.Context, params ListParams) ([]Property, int, error)
}

// YAMLRepository holds the parsed catalog in memory.
type YAMLRepository struct {
	properties []Property
	byID       map[string]int
}

var _ Repository = (*YAMLRepository)(nil)

// New loads the catalog from path, or the embedded seed when path is empty.
func New(path string) (*YAMLRepository, error) {
	if path == "" {
		return Parse(strings.NewReader(string(seedCatalog)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document and rejects duplicate or empty ids.
func Parse(r io.Reader) (*YAMLRepository, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	repo := &YAMLRepository{
		properties: doc.Properties,
		byID:       make(map[string]int, len(doc.Properties)),
	}
	for i, p := range doc.Properties {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := repo.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %q", p.ID)
		}
		repo.byID[p.ID] = i
	}
	return repo, nil
}

func (r *YAMLRepository) GetByID(_ context.Context, id string) (Property, error) {
	i, ok := r.byID[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return r.properties[i], nil
}

// List returns one page of matching properties ordered by price, and the
// total number of matches.
func (r *YAMLRepository) List(_ context.Context, params ListParams) ([]Property, int, error) {
	search := strings.ToLower(strings.TrimSpace(params.Search))
	matched := make([]Property, 0, len(r.properties))
	for _, p := range r.properties {
		if search != "" && !containsFold(search, p.Name, p.Community, p.Developer) {
			continue
		}
		if params.City != "" && !strings.EqualFold(p.City, params.City) {
			continue
		}
		if params.Type != "" && !strings.EqualFold(p.Type, params.Type) {
			continue
		}
		if params.MinPrice > 0 && p.Price < params.MinPrice {
			continue
		}
		if params.MaxPrice > 0 && p.Price > params.MaxPrice {
			continue
		}
		if params.MinBedrooms > 0 && p.Bedrooms < params.MinBedrooms {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })

	total := len(matched)
	start := min(max(params.Offset, 0), total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}
	return matched[start:end], total, nil
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
