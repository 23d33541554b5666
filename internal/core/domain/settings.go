package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// Default endpoint and tuning values.
const (
	DefaultAPIBaseURL     = "https://ext-api.vasttrafik.se"
	DefaultAPIPrefix      = "/pr/v4"
	DefaultTokenPath      = "/token"
	DefaultTimeoutSeconds = 30
	DefaultTokenFile      = "accessToken.json"
	DefaultTokenDatabase  = "credentials.db"
)

// CredentialBackend selects where the access token is persisted.
type CredentialBackend string

// Available credential backends.
const (
	// CredentialBackendFile stores the token as a JSON file.
	CredentialBackendFile CredentialBackend = "file"

	// CredentialBackendSQLite stores the token in a local SQLite database.
	CredentialBackendSQLite CredentialBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CredentialBackend) IsValid() bool {
	switch b {
	case CredentialBackendFile, CredentialBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CredentialBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CredentialBackend) Description() string {
	switch b {
	case CredentialBackendFile:
		return "JSON file"
	case CredentialBackendSQLite:
		return "SQLite database"
	default:
		return unknownDescription
	}
}

// DefaultFileName returns the file the backend writes inside the config directory.
func (b CredentialBackend) DefaultFileName() string {
	if b == CredentialBackendSQLite {
		return DefaultTokenDatabase
	}
	return DefaultTokenFile
}

// AllCredentialBackends returns every supported backend.
func AllCredentialBackends() []CredentialBackend {
	return []CredentialBackend{CredentialBackendFile, CredentialBackendSQLite}
}

// APISettings locates the transit API.
type APISettings struct {
	// BaseURL is the scheme and host, shared by the token and data endpoints.
	BaseURL string
	// Prefix is prepended to every data endpoint path.
	Prefix string
	// TokenPath is the token endpoint path relative to BaseURL.
	TokenPath string
}

// TokenURL returns the full token endpoint URL.
func (a APISettings) TokenURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.TokenPath
}

// DataURL returns the root URL for data endpoints.
func (a APISettings) DataURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.Prefix
}

// AuthSettings holds the client-credentials pair.
type AuthSettings struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if both client id and secret are set.
func (a AuthSettings) IsConfigured() bool {
	return a.ClientID != "" && a.ClientSecret != ""
}

// CredentialSettings configures token persistence.
type CredentialSettings struct {
	Backend CredentialBackend
	// Path overrides the backend's default location. Empty means default.
	Path string
}

// HTTPSettings configures outbound requests.
type HTTPSettings struct {
	// TimeoutSeconds bounds each request. Zero disables the timeout.
	TimeoutSeconds int
}

// Timeout returns the request timeout as a duration.
func (h HTTPSettings) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DisplaySettings configures how countdowns are computed and shown.
type DisplaySettings struct {
	// Timezone is the IANA zone used for the current wall-clock time.
	// Empty means the system local zone.
	Timezone string
}

// Location resolves the configured timezone.
func (d DisplaySettings) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrConfiguration, d.Timezone, err)
	}
	return loc, nil
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	API         APISettings
	Auth        AuthSettings
	Credentials CredentialSettings
	HTTP        HTTPSettings
	Display     DisplaySettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:   DefaultAPIBaseURL,
			Prefix:    DefaultAPIPrefix,
			TokenPath: DefaultTokenPath,
		},
		Credentials: CredentialSettings{
			Backend: CredentialBackendFile,
		},
		HTTP: HTTPSettings{
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// RequireCredentials returns ErrConfiguration when the client credentials are missing.
func (s *AppSettings) RequireCredentials() error {
	var missing []string
	if s.Auth.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if s.Auth.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
