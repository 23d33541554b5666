package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tramtid/internal/core/domain"
)

func envFrom(values map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.API, settings.API)
	assert.Equal(t, domain.CredentialBackendFile, settings.Credentials.Backend)
	assert.Empty(t, settings.Credentials.Path)
	assert.Equal(t, defaults.HTTP.TimeoutSeconds, settings.HTTP.TimeoutSeconds)
	assert.False(t, settings.Auth.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("api.base_url", "http://localhost:8080")
	_ = store.Set("credentials.backend", "sqlite")
	_ = store.Set("credentials.path", "/var/lib/tramtid/credentials.db")
	_ = store.Set("http.timeout_seconds", int64(5))
	_ = store.Set("display.timezone", "Europe/Stockholm")
	_ = store.Set("auth.client_id", "file-id")

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", settings.API.BaseURL)
	assert.Equal(t, domain.DefaultAPIPrefix, settings.API.Prefix)
	assert.Equal(t, domain.CredentialBackendSQLite, settings.Credentials.Backend)
	assert.Equal(t, "/var/lib/tramtid/credentials.db", settings.Credentials.Path)
	assert.Equal(t, 5, settings.HTTP.TimeoutSeconds)
	assert.Equal(t, "Europe/Stockholm", settings.Display.Timezone)
	assert.Equal(t, "file-id", settings.Auth.ClientID)
}

func TestSettingsService_Get_EnvOverridesFile(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("auth.client_id", "file-id")
	_ = store.Set("auth.client_secret", "file-secret")
	env := envFrom(map[string]string{"CLIENT_ID": "env-id", "CLIENT_SECRET": ""})

	settings, err := NewSettingsService(store, env).Get()

	require.NoError(t, err)
	assert.Equal(t, "env-id", settings.Auth.ClientID)
	assert.Equal(t, "file-secret", settings.Auth.ClientSecret, "empty env value falls through")
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("credentials.backend", "keychain")
	_ = store.Set("http.timeout_seconds", "soon")

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.CredentialBackendFile, settings.Credentials.Backend)
	assert.Equal(t, 0, settings.HTTP.TimeoutSeconds, "present but unreadable reads as zero")
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set("api.base_url", "https://example.test"))
	require.NoError(t, service.Set("api.prefix", "/pr/v5"))
	require.NoError(t, service.Set("credentials.backend", "sqlite"))
	require.NoError(t, service.Set("http.timeout_seconds", "10"))
	require.NoError(t, service.Set("display.timezone", "Europe/Stockholm"))
	require.NoError(t, service.Set("auth.client_id", " my-id "))

	assert.Equal(t, "https://example.test", store.GetString("api.base_url"))
	assert.Equal(t, 10, store.GetInt("http.timeout_seconds"))
	assert.Equal(t, "my-id", store.GetString("auth.client_id"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/pr/v5", settings.API.DataURL())
	assert.Equal(t, domain.CredentialBackendSQLite, settings.Credentials.Backend)
}

func TestSettingsService_Set_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative base url", "api.base_url", "ext-api.vasttrafik.se"},
		{"prefix without slash", "api.prefix", "pr/v4"},
		{"unknown backend", "credentials.backend", "keychain"},
		{"negative timeout", "http.timeout_seconds", "-1"},
		{"non-numeric timeout", "http.timeout_seconds", "ten"},
		{"unknown zone", "display.timezone", "Mars/Olympus"},
		{"unknown key", "search.mode", "hybrid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store, nil).Set(tt.key, tt.value)

			require.Error(t, err)
			assert.Empty(t, store.Keys(), "nothing stored on error")
		})
	}
}

func TestSettingsService_Set_UnknownKeyIsInvalidInput(t *testing.T) {
	err := NewSettingsService(memory.NewConfigStore(), nil).Set("nope", "x")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set_BadZoneIsConfigurationError(t *testing.T) {
	err := NewSettingsService(memory.NewConfigStore(), nil).Set("display.timezone", "Mars/Olympus")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSettingsService_Unset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.Set("http.timeout_seconds", "3"))

	require.NoError(t, service.Unset("http.timeout_seconds"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimeoutSeconds, settings.HTTP.TimeoutSeconds)

	assert.ErrorIs(t, service.Unset("bogus"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore(), nil).Keys()

	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "credentials.backend")
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ConfigPath(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, ":memory:", service.ConfigPath())
}
