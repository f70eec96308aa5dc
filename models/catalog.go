package models

// Package bundles one or more services sold and booked as a unit with its
// own aggregate price and duration.
type Package struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"` // minutes
	Price       float64   `json:"price"`
	Services    []Service `json:"services"`
}

// IsSingleService reports whether the package is presented in the catalog as
// a plain service (exactly one service) rather than a package.
func (p Package) IsSingleService() bool {
	return len(p.Services) == 1
}

// Service is a single bookable treatment belonging to a category.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"` // minutes
	Category    *Category `json:"category,omitempty"`
}

// Category classifies services and constrains which workstations can host them.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
