package domain

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
