package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/core/ports/driving"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Ensure TokenBroker implements the interface.
var _ driving.TokenService = (*TokenBroker)(nil)

// TokenBroker decides whether the stored token can be reused or a new one
// must be requested from the authorization server.
type TokenBroker struct {
	store      driven.CredentialStore
	authorizer driven.Authorizer
	now        func() time.Time
}

// NewTokenBroker creates a broker over a credential store and an authorizer.
func NewTokenBroker(store driven.CredentialStore, authorizer driven.Authorizer) *TokenBroker {
	return &TokenBroker{
		store:      store,
		authorizer: authorizer,
		now:        time.Now,
	}
}

// WithClock replaces the wall clock used for expiry checks.
func (b *TokenBroker) WithClock(now func() time.Time) *TokenBroker {
	b.now = now
	return b
}

// GetValidToken returns the stored token while it is valid, otherwise requests
// a new one and persists it. now is sampled once per call.
func (b *TokenBroker) GetValidToken(ctx context.Context) (*domain.AccessToken, error) {
	now := b.now()
	stored, _ := b.store.Load(ctx)

	state := domain.EvaluateToken(stored, now)
	logger.Debug("evaluated stored token", "component", "token-broker", "state", state.String())

	if !state.NeedsAuthorization() {
		return stored, nil
	}
	return b.requestNew(ctx)
}

// requestNew exchanges client credentials for a token and persists it.
// A failed save is reported but does not affect the returned token.
func (b *TokenBroker) requestNew(ctx context.Context) (*domain.AccessToken, error) {
	if b.authorizer == nil {
		return nil, fmt.Errorf("%w: no authorizer configured", domain.ErrConfiguration)
	}

	token, err := b.authorizer.Authorize(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorization) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthorization, err)
	}

	if err := b.store.Save(ctx, *token); err != nil {
		logger.Warn("could not persist access token; continuing without it",
			"component", "token-broker",
			"location", b.store.Location(),
			"error", err.Error())
	} else {
		logger.Debug("access token saved", "component", "token-broker", "location", b.store.Location())
	}

	return token, nil
}

// Status reports the state of the stored token without contacting the server.
func (b *TokenBroker) Status(ctx context.Context) (domain.TokenState, *domain.AccessToken) {
	stored, _ := b.store.Load(ctx)
	return domain.EvaluateToken(stored, b.now()), stored
}

// Forget removes the persisted token.
func (b *TokenBroker) Forget(ctx context.Context) error {
	if err := b.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored token: %w", err)
	}
	return nil
}

// Location describes where the token is persisted.
func (b *TokenBroker) Location() string {
	return b.store.Location()
}
