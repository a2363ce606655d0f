package models

import "time"

const (
	// DefaultCategory is assigned on read to parts stored without a category.
	DefaultCategory = "General"

	// DefaultMinStock is the low-stock threshold applied on read when a part
	// was stored without one.
	DefaultMinStock = 5
)

// Part is a spare part as seen by the client core. The ID is an opaque string
// assigned by the document store on insert and never changes afterwards.
type Part struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	MinStock    int       `json:"min_stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the part is at or below its own threshold.
func (p Part) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// PartDraft is the create payload: a Part minus everything the backend assigns.
type PartDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	MinStock    int     `json:"min_stock"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// PartUpdate carries a partial update. Nil fields are left untouched; an
// update with every field nil is still a legal write that only advances the
// modification timestamp.
type PartUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	MinStock    *int     `json:"min_stock,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// ApplyTo merges the non-nil fields into p. Timestamps are the caller's
// responsibility.
func (u PartUpdate) ApplyTo(p *Part) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.MinStock != nil {
		p.MinStock = *u.MinStock
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
}
