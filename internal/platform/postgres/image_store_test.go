package postgres

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchalten/connect-api/internal/store"
)

func TestHasDuplicateIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	tests := []struct {
		name string
		ids  []uuid.UUID
		want bool
	}{
		{"empty", nil, false},
		{"single", []uuid.UUID{a}, false},
		{"distinct", []uuid.UUID{a, b}, false},
		{"repeated", []uuid.UUID{a, a}, true},
		{"repeated_later", []uuid.UUID{a, b, a}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasDuplicateIDs(tt.ids))
		})
	}
}

func TestReorderRejectsDuplicateIDs(t *testing.T) {
	// The duplicate check runs before any query, so no database is needed.
	imageStore := &ImageStore{logger: slog.Default()}

	id := uuid.New()
	_, err := imageStore.Reorder(context.Background(), uuid.New(), []uuid.UUID{id, id})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "duplicate")
}
