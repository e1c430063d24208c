package transport

// ListPropertiesRequest is the query of GET /properties.
type ListPropertiesRequest struct {
	Search      string  `form:"search" validate:"omitempty,max=100"`
	City        string  `form:"city" validate:"omitempty,max=100"`
	Type        string  `form:"type" validate:"omitempty,oneof=apartment villa townhouse penthouse"`
	MinPrice    float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice    float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	MinBedrooms int     `form:"bedrooms" validate:"omitempty,gte=0,lte=20"`
	Page        int     `form:"page" validate:"omitempty,min=1"`
	PageSize    int     `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type UnitResponse struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Bedrooms  int     `json:"bedrooms"`
	SizeSqft  int     `json:"sizeSqft"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type PropertyResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Developer string         `json:"developer"`
	Community string         `json:"community"`
	City      string         `json:"city"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Price     float64        `json:"price"`
	SizeSqft  int            `json:"sizeSqft"`
	Bedrooms  int            `json:"bedrooms"`
	Bathrooms int            `json:"bathrooms"`
	Images    []string       `json:"images"`
	Units     []UnitResponse `json:"units"`
}

type PropertyListResponse struct {
	Items      []PropertyResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
