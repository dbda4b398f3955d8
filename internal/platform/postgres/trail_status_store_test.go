package postgres

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/elchalten/connect-api/internal/domain"
)

func TestTrailStatusCreateValidatesBeforeWrite(t *testing.T) {
	// Validation short-circuits before any query, so no database is needed.
	statusStore := &TrailStatusStore{logger: slog.Default()}

	tests := []struct {
		name     string
		status   *domain.TrailStatus
		expected error
	}{
		{
			name:     "missing_place",
			status:   &domain.TrailStatus{ID: uuid.New()},
			expected: domain.ErrEmptyStatusPlaceID,
		},
		{
			name: "invalid_status",
			status: &domain.TrailStatus{
				ID:      uuid.New(),
				PlaceID: uuid.New(),
				Status:  domain.TrailStatusType("flooded"),
			},
			expected: domain.ErrInvalidTrailStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusStore.Create(context.Background(), tt.status)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
