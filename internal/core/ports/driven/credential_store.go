package driven

import (
	"context"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// CredentialStore persists the serialised access token between runs.
// A single process is assumed: there is no locking, and concurrent writers
// sharing one location race with last-writer-wins.
type CredentialStore interface {
	// Load returns the stored token. Missing, unreadable or unparseable
	// records yield (nil, false); failures are reported as diagnostics,
	// never returned.
	Load(ctx context.Context) (*domain.AccessToken, bool)

	// Save overwrites the stored record with token.
	Save(ctx context.Context, token domain.AccessToken) error

	// Clear removes the stored record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Location describes where the record lives (path or DSN).
	Location() string
}
