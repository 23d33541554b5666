package driven

import (
	"context"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// Authorizer performs the client-credentials token exchange.
// Implementations carry the client id, secret, scope and token endpoint.
type Authorizer interface {
	// Authorize requests a fresh access token. It never retries.
	Authorize(ctx context.Context) (*domain.AccessToken, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context) (*domain.AccessToken, error)

// Authorize calls f(ctx).
func (f AuthorizerFunc) Authorize(ctx context.Context) (*domain.AccessToken, error) {
	return f(ctx)
}
