package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// DepartureService answers departure and journey questions for the CLI.
type DepartureService interface {
	// Board resolves the stop, fetches its departures and computes countdowns.
	// An empty board with a nil error means the stop has no upcoming departures.
	Board(ctx context.Context, query domain.StopQuery, platform string) (*domain.Board, error)

	// Recount recomputes every countdown on board for now, without network.
	Recount(board *domain.Board, now time.Time) *domain.Board

	// Journeys resolves both stop names and returns itineraries between them.
	Journeys(ctx context.Context, from, to domain.StopQuery) ([]domain.Journey, error)
}
