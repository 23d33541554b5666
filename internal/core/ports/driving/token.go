package driving

import (
	"context"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// TokenService hands out valid access tokens, reusing the stored one when possible.
type TokenService interface {
	// GetValidToken returns the stored token if still valid, otherwise
	// requests and persists a new one. Fails only when authorization fails.
	GetValidToken(ctx context.Context) (*domain.AccessToken, error)

	// Status reports what the next GetValidToken call would do, without network.
	Status(ctx context.Context) (domain.TokenState, *domain.AccessToken)

	// Forget removes the persisted token.
	Forget(ctx context.Context) error

	// Location describes where the token is persisted.
	Location() string
}
