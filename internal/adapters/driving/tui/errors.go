package tui

import "errors"

// ErrMissingDepartureService is returned when the departure service is not provided.
var ErrMissingDepartureService = errors.New("tui: departure service is required")

// ErrMissingStop is returned when the board has no stop to show.
var ErrMissingStop = errors.New("tui: stop name is required")
