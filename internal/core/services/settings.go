package services

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIBaseURL         = "api.base_url"
	keyAPIPrefix          = "api.prefix"
	keyAuthTokenPath      = "auth.token_path"
	keyAuthClientID       = "auth.client_id"
	keyAuthClientSecret   = "auth.client_secret"
	keyCredentialsBackend = "credentials.backend"
	keyCredentialsPath    = "credentials.path"
	keyHTTPTimeout        = "http.timeout_seconds"
	keyDisplayTimezone    = "display.timezone"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   LookupEnv
}

// NewSettingsService creates a new settings service.
// lookupEnv may be nil, in which case the environment is ignored.
func NewSettingsService(configStore driven.ConfigStore, lookupEnv LookupEnv) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:   s.getString(keyAPIBaseURL, defaults.API.BaseURL),
			Prefix:    s.getString(keyAPIPrefix, defaults.API.Prefix),
			TokenPath: s.getString(keyAuthTokenPath, defaults.API.TokenPath),
		},
		Auth: domain.AuthSettings{
			ClientID:     s.getEnvOr(EnvClientID, keyAuthClientID),
			ClientSecret: s.getEnvOr(EnvClientSecret, keyAuthClientSecret),
		},
		Credentials: domain.CredentialSettings{
			Backend: s.getBackend(defaults.Credentials.Backend),
			Path:    s.configStore.GetString(keyCredentialsPath), // Empty means the backend default
		},
		HTTP: domain.HTTPSettings{
			TimeoutSeconds: s.getTimeout(defaults.HTTP.TimeoutSeconds),
		},
		Display: domain.DisplaySettings{
			Timezone: s.configStore.GetString(keyDisplayTimezone),
		},
	}

	return settings, nil
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyAPIBaseURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL", domain.ErrInvalidInput, key)
		}
	case keyAPIPrefix, keyAuthTokenPath:
		if value != "" && !strings.HasPrefix(value, "/") {
			return fmt.Errorf("%w: %s must start with /", domain.ErrInvalidInput, key)
		}
	case keyCredentialsBackend:
		if !domain.CredentialBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown credentials backend %q", domain.ErrInvalidInput, value)
		}
	case keyHTTPTimeout:
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		if err := s.configStore.Set(key, seconds); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	case keyDisplayTimezone:
		if _, err := (domain.DisplaySettings{Timezone: value}).Location(); err != nil {
			return err
		}
	case keyAuthClientID, keyAuthClientSecret, keyCredentialsPath:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a setting so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the settings that can be configured.
func (s *SettingsService) Keys() []string {
	keys := knownKeys()
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns the configuration file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getEnvOr(envKey, configKey string) string {
	if val, ok := s.lookupEnv(envKey); ok && val != "" {
		return val
	}
	return s.configStore.GetString(configKey)
}

func (s *SettingsService) getBackend(defaultVal domain.CredentialBackend) domain.CredentialBackend {
	backend := domain.CredentialBackend(s.configStore.GetString(keyCredentialsBackend))
	if backend.IsValid() {
		return backend
	}
	return defaultVal
}

func (s *SettingsService) getTimeout(defaultVal int) int {
	if _, ok := s.configStore.Get(keyHTTPTimeout); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(keyHTTPTimeout); val >= 0 {
		return val
	}
	return defaultVal
}

func knownKeys() []string {
	return []string{
		keyAPIBaseURL, keyAPIPrefix,
		keyAuthClientID, keyAuthClientSecret, keyAuthTokenPath,
		keyCredentialsBackend, keyCredentialsPath,
		keyHTTPTimeout, keyDisplayTimezone,
	}
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys() {
		if k == key {
			return true
		}
	}
	return false
}
