// Command tramtid shows live tram departures for a Västtrafik stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	configfile "github.com/custodia-labs/tramtid/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tramtid/internal/adapters/driven/oauth"
	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tramtid/internal/adapters/driven/vasttrafik"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/cli"
	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/core/services"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		return cli.ExitUsage
	}

	dir, err := configfile.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	configStore, err := configfile.NewConfigStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return cli.ExitUsage
	}
	settingsService := services.NewSettingsService(configStore, os.LookupEnv)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}
	loc, err := settings.Display.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}
	clock := func() time.Time { return time.Now().In(loc) }

	store, closeStore := newCredentialStore(settings, dir)
	defer closeStore()

	httpClient := &http.Client{Timeout: settings.HTTP.Timeout()}
	tokens := services.NewTokenBroker(store, newAuthorizer(settings, httpClient))
	transit := vasttrafik.NewClient(settings.API.DataURL(), vasttrafik.WithTimeout(settings.HTTP.Timeout()))
	departures := services.NewDepartureService(tokens, transit).WithClock(clock)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Settings:   settingsService,
		Tokens:     tokens,
		Departures: departures,
		Clock:      clock,
	})

	return cli.Execute()
}

// newCredentialStore opens the configured backend. A database that cannot be
// opened falls back to an in-memory store so lookups still work.
func newCredentialStore(settings *domain.AppSettings, dir string) (driven.CredentialStore, func()) {
	path := settings.Credentials.Path
	if path == "" {
		path = filepath.Join(dir, settings.Credentials.Backend.DefaultFileName())
	}

	switch settings.Credentials.Backend {
	case domain.CredentialBackendSQLite:
		store, err := sqlite.NewStore(path)
		if err != nil {
			logger.Warn("could not open credential database; token will not be persisted",
				"path", path, "error", err.Error())
			return memory.NewCredentialStore(), func() {}
		}
		return store, closeQuietly(store)
	default:
		return file.NewCredentialStore(path), func() {}
	}
}

// newAuthorizer builds the client-credentials authorizer. Missing credentials
// surface as a configuration error the first time a token is needed.
func newAuthorizer(settings *domain.AppSettings, httpClient *http.Client) driven.Authorizer {
	if err := settings.RequireCredentials(); err != nil {
		return failingAuthorizer(err)
	}

	authorizer, err := oauth.NewClientCredentials(oauth.Config{
		ClientID:     settings.Auth.ClientID,
		ClientSecret: settings.Auth.ClientSecret,
		TokenURL:     settings.API.TokenURL(),
		HTTPClient:   httpClient,
	})
	if err != nil {
		return failingAuthorizer(err)
	}
	return authorizer
}

func failingAuthorizer(err error) driven.Authorizer {
	return driven.AuthorizerFunc(func(context.Context) (*domain.AccessToken, error) {
		return nil, err
	})
}

func closeQuietly(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Debug("close failed", "error", err.Error())
		}
	}
}
