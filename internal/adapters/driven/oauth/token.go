// Package oauth obtains access tokens with the OAuth2 client-credentials grant.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage"
	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Ensure ClientCredentials implements the interface.
var _ driven.Authorizer = (*ClientCredentials)(nil)

// extraFields are copied from the token response into AccessToken.Raw, so the
// persisted record keeps them next to the computed expiry.
var extraFields = []string{storage.FieldExpiresIn, storage.FieldScope}

// Config configures a ClientCredentials authorizer.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	// HTTPClient is used for the token request. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// ClientCredentials exchanges a client id and secret for an access token.
// Credentials go in the Authorization header; no scope is requested.
type ClientCredentials struct {
	config     clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentials creates an authorizer. Missing credentials are a configuration error.
func NewClientCredentials(cfg Config) (*ClientCredentials, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required", domain.ErrConfiguration)
	}
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("%w: token URL is required", domain.ErrConfiguration)
	}

	return &ClientCredentials{
		config: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: cfg.HTTPClient,
	}, nil
}

// Authorize performs one token request. It never retries.
func (c *ClientCredentials) Authorize(ctx context.Context) (*domain.AccessToken, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	logger.Debug("requesting access token", "component", "oauth", "url", c.config.TokenURL)

	tok, err := c.config.Token(ctx)
	if err != nil {
		return nil, classify(err)
	}

	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access_token", domain.ErrMalformedResponse)
	}
	if tok.Expiry.IsZero() {
		return nil, fmt.Errorf("%w: token response has no expires_in", domain.ErrMalformedResponse)
	}

	token := &domain.AccessToken{
		Value:     tok.AccessToken,
		TokenType: tok.Type(),
		ExpiresAt: tok.Expiry,
	}
	for _, field := range extraFields {
		if v := tok.Extra(field); v != nil {
			if token.Raw == nil {
				token.Raw = make(map[string]any)
			}
			token.Raw[field] = v
		}
	}
	if scope, ok := tok.Extra(storage.FieldScope).(string); ok {
		token.Scope = scope
	}

	logger.Debug("access token issued", "component", "oauth", "expires_at", token.ExpiresAt)
	return token, nil
}

// classify maps oauth2 errors onto domain errors.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		if retrieveErr.ErrorCode != "" {
			return fmt.Errorf("%w: token endpoint returned %d: %s %s",
				domain.ErrAuthorization, status, retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
		}
		return fmt.Errorf("%w: token endpoint returned %d", domain.ErrAuthorization, status)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: token request: %w", domain.ErrTransport, err)
	}

	return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
}
