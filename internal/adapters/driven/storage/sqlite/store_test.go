package sqlite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestStore_EmptyDatabase(t *testing.T) {
	store := setupTestStore(t)

	token, ok := store.Load(context.Background())

	assert.False(t, ok)
	assert.Nil(t, token)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	expires := time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)

	err := store.Save(ctx, domain.AccessToken{
		Value:     "xyz",
		TokenType: "Bearer",
		ExpiresAt: expires,
		Raw:       map[string]any{"expires_in": float64(3600)},
	})
	require.NoError(t, err)

	token, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "xyz", token.Value)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, expires.Equal(token.ExpiresAt))
	assert.Equal(t, float64(3600), token.Raw["expires_in"])
}

func TestStore_SaveOverwritesSingleRow(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, domain.AccessToken{Value: "first"}))
	require.NoError(t, store.Save(ctx, domain.AccessToken{Value: "second"}))

	var rows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&rows))
	assert.Equal(t, 1, rows)

	token, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", token.Value)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, domain.AccessToken{Value: "xyz"}))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	token, ok := second.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "xyz", token.Value)
}

func TestStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestStore_Load_CorruptRow(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	store := setupTestStore(t)
	_, err := store.db.Exec("INSERT INTO credentials (id, record) VALUES (1, ?)", `{"token_type":"Bearer"}`)
	require.NoError(t, err)

	token, ok := store.Load(context.Background())

	assert.False(t, ok)
	assert.Nil(t, token)
	assert.Contains(t, buf.String(), "ignoring unreadable token row")
}

func TestStore_Save_RejectsEmptyToken(t *testing.T) {
	store := setupTestStore(t)

	assert.Error(t, store.Save(context.Background(), domain.AccessToken{}))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Save(ctx, domain.AccessToken{Value: "xyz"}))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	_, ok := store.Load(ctx)
	assert.False(t, ok)
}

func TestStore_Location(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Location())
}

func TestNewStore_UnwritableDir(t *testing.T) {
	store, err := NewStore("/dev/null/credentials.db")

	assert.Error(t, err)
	assert.Nil(t, store)
}
