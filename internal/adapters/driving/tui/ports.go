// Package tui provides the live departure board for tramtid.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tramtid/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Departures fetches boards and recomputes countdowns.
	Departures driving.DepartureService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(departures driving.DepartureService) *Ports {
	return &Ports{Departures: departures}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Departures == nil {
		return ErrMissingDepartureService
	}
	return nil
}
