// Package messages defines Bubbletea message types for the live board.
package messages

import (
	"time"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// Tick is sent once a second to recompute countdowns.
type Tick struct {
	Now time.Time
}

// RefreshRequested asks the board to fetch departures now.
type RefreshRequested struct{}

// BoardLoaded carries the result of a departures fetch.
type BoardLoaded struct {
	Board *domain.Board
	Err   error
}
