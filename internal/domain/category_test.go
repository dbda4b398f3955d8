package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	category, err := NewCategory("Senderos", "Trails around town", "trail-icon")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if category.Slug != "" {
		t.Errorf("Expected empty slug before create, got %q", category.Slug)
	}

	if !category.IsActive {
		t.Error("Expected new category to be active")
	}
}

func TestNewCategoryValidation(t *testing.T) {
	if _, err := NewCategory("", "desc", ""); err != ErrEmptyCategoryName {
		t.Errorf("Expected error %v, got %v", ErrEmptyCategoryName, err)
	}
}
