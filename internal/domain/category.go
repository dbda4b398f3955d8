package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyCategoryName is returned when a category is created without a name.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// Category groups places. Its name is unique, and its slug is derived
// from the name on create.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory creates a new Category with a generated ID and timestamps.
// The slug is assigned by the store on create, derived from the name.
func NewCategory(name, description, icon string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Icon:        icon,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrInvalidID
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	return nil
}
