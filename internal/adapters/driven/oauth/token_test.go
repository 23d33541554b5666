package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage"
	"github.com/custodia-labs/tramtid/internal/core/domain"
)

func newTokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "credentials sent in header")
		assert.Equal(t, "my-id", user)
		assert.Equal(t, "my-secret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Empty(t, r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newAuthorizer(t *testing.T, tokenURL string) *ClientCredentials {
	t.Helper()
	auth, err := NewClientCredentials(Config{
		ClientID:     "my-id",
		ClientSecret: "my-secret",
		TokenURL:     tokenURL,
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
	})
	require.NoError(t, err)
	return auth
}

func TestNewClientCredentials_RequiresCredentials(t *testing.T) {
	_, err := NewClientCredentials(Config{ClientID: "id", TokenURL: "http://x/token"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewClientCredentials(Config{ClientID: "id", ClientSecret: "s"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAuthorize_Success(t *testing.T) {
	server := newTokenServer(t, http.StatusOK,
		`{"access_token":"xyz","token_type":"Bearer","expires_in":3600,"scope":"apiaccess"}`)
	before := time.Now()

	token, err := newAuthorizer(t, server.URL+"/token").Authorize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "xyz", token.Value)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "apiaccess", token.Scope)
	assert.WithinDuration(t, before.Add(time.Hour), token.ExpiresAt, 5*time.Second)
	assert.Contains(t, token.Raw, "expires_in")
}

func TestAuthorize_ExpiresInIsPersisted(t *testing.T) {
	server := newTokenServer(t, http.StatusOK,
		`{"access_token":"xyz","token_type":"Bearer","expires_in":3600}`)

	token, err := newAuthorizer(t, server.URL+"/token").Authorize(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3600, token.Raw[storage.FieldExpiresIn])

	data, err := storage.EncodeToken(*token)
	require.NoError(t, err)
	decoded, err := storage.DecodeToken(data)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, decoded.Raw[storage.FieldExpiresIn])
	assert.True(t, decoded.ExpiresAt.Equal(token.ExpiresAt))
}

func TestAuthorize_Rejected(t *testing.T) {
	server := newTokenServer(t, http.StatusUnauthorized,
		`{"error":"invalid_client","error_description":"bad secret"}`)

	token, err := newAuthorizer(t, server.URL+"/token").Authorize(context.Background())

	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.Contains(t, err.Error(), "invalid_client")
	assert.Contains(t, err.Error(), "401")
}

func TestAuthorize_MissingExpiry(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"xyz","token_type":"Bearer"}`)

	_, err := newAuthorizer(t, server.URL+"/token").Authorize(context.Background())

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAuthorize_MissingAccessToken(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"token_type":"Bearer","expires_in":3600}`)

	_, err := newAuthorizer(t, server.URL+"/token").Authorize(context.Background())

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAuthorize_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newAuthorizer(t, url+"/token").Authorize(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestAuthorize_Cancelled(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"xyz","expires_in":3600}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAuthorizer(t, server.URL+"/token").Authorize(ctx)

	assert.ErrorIs(t, err, domain.ErrTransport)
}
