package models

import "time"

// Category is an independent entity. Parts reference a category by name only;
// nothing enforces that a part's category string matches a stored Category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryDraft is the create payload for a category.
type CategoryDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// CategoryUpdate carries a partial update. Nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// ApplyTo merges the non-nil fields into c.
func (u CategoryUpdate) ApplyTo(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
}
