package driven

import (
	"context"
	"net/http"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// Transport sends HTTP requests. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransitClient queries the transit operator's API with a valid token.
// Transport failures are returned as errors matching domain.ErrTransport;
// they are never reported as an empty result.
type TransitClient interface {
	// ResolveStop returns the highest-ranked stop area for name.
	// Returns domain.ErrNotFound when the search has no results and
	// domain.ErrMalformedResponse when the result has no identifier.
	ResolveStop(ctx context.Context, name string, token *domain.AccessToken) (domain.StopArea, error)

	// FetchDepartures returns up to domain.DepartureLimit departures in upstream
	// order. platform filters by platform when non-empty.
	FetchDepartures(ctx context.Context, gid string, token *domain.AccessToken, platform string) ([]domain.Departure, error)

	// FetchJourneys returns up to domain.JourneyLimit itineraries.
	FetchJourneys(ctx context.Context, originGID, destinationGID string, token *domain.AccessToken) ([]domain.Journey, error)
}
