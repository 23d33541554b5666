package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/core/ports/driving"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Ensure DepartureService implements the interface.
var _ driving.DepartureService = (*DepartureService)(nil)

// DepartureService runs the lookup pipeline: token, stop, departures, countdowns.
// Each step is one sequential network call.
type DepartureService struct {
	tokens  driving.TokenService
	transit driven.TransitClient
	now     func() time.Time
}

// NewDepartureService creates a departure service.
func NewDepartureService(tokens driving.TokenService, transit driven.TransitClient) *DepartureService {
	return &DepartureService{
		tokens:  tokens,
		transit: transit,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock used for countdowns.
// The clock decides the timezone the countdown is read in.
func (s *DepartureService) WithClock(now func() time.Time) *DepartureService {
	s.now = now
	return s
}

// Board resolves query, fetches its departures and computes a countdown for each.
func (s *DepartureService) Board(ctx context.Context, query domain.StopQuery, platform string) (*domain.Board, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	token, err := s.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	stop, err := s.transit.ResolveStop(ctx, query.Name, token)
	if err != nil {
		s.dropRejected(ctx, err)
		return nil, fmt.Errorf("resolve stop %q: %w", query.Name, err)
	}
	logger.Info("stop resolved", "component", "departures", "name", query.Name, "gid", stop.GID)

	departures, err := s.transit.FetchDepartures(ctx, stop.GID, token, platform)
	if err != nil {
		s.dropRejected(ctx, err)
		return nil, fmt.Errorf("fetch departures for %s: %w", stop.GID, err)
	}
	logger.Debug("departures fetched", "component", "departures", "count", len(departures))

	now := s.now()
	board := &domain.Board{
		Stop:       stop,
		Platform:   platform,
		Departures: make([]domain.DepartureCountdown, 0, len(departures)),
		FetchedAt:  now,
	}
	for _, dep := range departures {
		entry, err := countdownFor(dep, now)
		if err != nil {
			return nil, fmt.Errorf("departure of line %s: %w", dep.Line, err)
		}
		board.Departures = append(board.Departures, entry)
	}
	return board, nil
}

// Recount returns a copy of board with every countdown recomputed for now.
// Times were validated when the board was fetched; one that no longer parses
// keeps its previous countdown.
func (s *DepartureService) Recount(board *domain.Board, now time.Time) *domain.Board {
	if board == nil {
		return nil
	}
	out := *board
	out.Departures = make([]domain.DepartureCountdown, len(board.Departures))
	for i, entry := range board.Departures {
		if updated, err := countdownFor(entry.Departure, now); err == nil {
			entry = updated
		}
		out.Departures[i] = entry
	}
	return &out
}

// Journeys resolves both stops and returns itineraries between them.
func (s *DepartureService) Journeys(ctx context.Context, from, to domain.StopQuery) ([]domain.Journey, error) {
	if err := from.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	token, err := s.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	origin, err := s.transit.ResolveStop(ctx, from.Name, token)
	if err != nil {
		s.dropRejected(ctx, err)
		return nil, fmt.Errorf("resolve origin %q: %w", from.Name, err)
	}
	destination, err := s.transit.ResolveStop(ctx, to.Name, token)
	if err != nil {
		s.dropRejected(ctx, err)
		return nil, fmt.Errorf("resolve destination %q: %w", to.Name, err)
	}

	journeys, err := s.transit.FetchJourneys(ctx, origin.GID, destination.GID, token)
	if err != nil {
		s.dropRejected(ctx, err)
		return nil, fmt.Errorf("fetch journeys: %w", err)
	}
	return journeys, nil
}

// dropRejected clears the stored token after the API refused it, so the next
// lookup requests a new one instead of reusing it until it expires.
func (s *DepartureService) dropRejected(ctx context.Context, err error) {
	if !errors.Is(err, domain.ErrAuthorization) {
		return
	}
	if ferr := s.tokens.Forget(ctx); ferr != nil {
		logger.Warn("could not clear rejected access token",
			"component", "departures", "location", s.tokens.Location(), "error", ferr.Error())
		return
	}
	logger.Warn("access token rejected; cleared stored token", "component", "departures")
}

func countdownFor(dep domain.Departure, now time.Time) (domain.DepartureCountdown, error) {
	countdown, err := domain.CountdownTo(dep.EstimatedTime, now)
	if err != nil {
		return domain.DepartureCountdown{}, err
	}
	return domain.DepartureCountdown{
		Departure: dep,
		Countdown: countdown,
		Display:   countdown.String(),
	}, nil
}
