package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/platform/logger"
)

// RemoteResolver delegates token verification to the users service by
// calling its /users/me endpoint with the credential and accepting its
// answer. Any non-success response or connection failure is treated as
// an unauthenticated caller.
type RemoteResolver struct {
	usersBaseURL string
	client       *http.Client
}

// NewRemoteResolver creates an IdentityResolver that verifies credentials
// against the users service at the given base URL.
func NewRemoteResolver(usersBaseURL string, client *http.Client) *RemoteResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteResolver{
		usersBaseURL: strings.TrimRight(usersBaseURL, "/"),
		client:       client,
	}
}

var _ IdentityResolver = (*RemoteResolver)(nil)

// remoteUser is the subset of the users service's /users/me response the
// resolver needs.
type remoteUser struct {
	ID       uuid.UUID       `json:"id"`
	UserType domain.UserType `json:"user_type"`
	IsActive bool            `json:"is_active"`
}

// Resolve implements IdentityResolver.
func (r *RemoteResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		r.usersBaseURL+"/users/me",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		log.Warn("users service unreachable during identity resolution", "error", err)
		return nil, ErrUnauthenticated
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Debug("failed to close identity response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		log.Debug("identity rejected by users service", "status", resp.StatusCode)
		return nil, ErrUnauthenticated
	}

	var user remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		log.Warn("failed to decode identity response", "error", err)
		return nil, ErrUnauthenticated
	}

	if user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &Identity{
		UserID:   user.ID,
		UserType: user.UserType,
	}, nil
}
