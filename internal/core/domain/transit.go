package domain

import (
	"fmt"
	"strings"
	"time"
)

// DepartureLimit is the number of departures requested per stop.
const DepartureLimit = 5

// JourneyLimit is the number of itineraries requested per journey search.
const JourneyLimit = 3

// StopQuery is the free-text stop name supplied by the user.
type StopQuery struct {
	Name string
}

// Validate checks the query has a non-blank name.
func (q StopQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("%w: stop name is required", ErrInvalidInput)
	}
	return nil
}

// StopArea is a stop resolved to the transit API's canonical identifier.
type StopArea struct {
	// GID is the stop-area identifier used by departure and journey endpoints.
	GID string `json:"gid"`
	// Name is the upstream display name, when provided.
	Name string `json:"name,omitempty"`
}

// Departure is one upcoming departure at a stop area.
type Departure struct {
	Line      string `json:"line"`
	Direction string `json:"direction"`
	Platform  string `json:"platform,omitempty"`
	// EstimatedTime is the estimated (or else planned) time as sent upstream.
	EstimatedTime string `json:"estimated_time"`
}

// DepartureCountdown pairs a departure with its computed countdown.
type DepartureCountdown struct {
	Departure Departure `json:"departure"`
	Countdown Countdown `json:"-"`
	// Display is the countdown text ("HH:MM:SS" or "now").
	Display string `json:"countdown"`
}

// Board is the result of one departure lookup.
type Board struct {
	Stop       StopArea             `json:"stop"`
	Platform   string               `json:"platform,omitempty"`
	Departures []DepartureCountdown `json:"departures"`
	FetchedAt  time.Time            `json:"fetched_at"`
}

// IsEmpty reports a successful lookup that returned no departures.
func (b *Board) IsEmpty() bool {
	return len(b.Departures) == 0
}

// JourneyLeg is one ride within an itinerary.
type JourneyLeg struct {
	Line          string `json:"line"`
	Direction     string `json:"direction"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

// Journey is an itinerary between two stop areas.
type Journey struct {
	Legs []JourneyLeg `json:"legs"`
}

// DepartureTime returns the first leg's departure time, or empty for a walk-only journey.
func (j Journey) DepartureTime() string {
	if len(j.Legs) == 0 {
		return ""
	}
	return j.Legs[0].DepartureTime
}

// ArrivalTime returns the last leg's arrival time.
func (j Journey) ArrivalTime() string {
	if len(j.Legs) == 0 {
		return ""
	}
	return j.Legs[len(j.Legs)-1].ArrivalTime
}

// Lines lists the line names ridden, in order.
func (j Journey) Lines() []string {
	lines := make([]string, 0, len(j.Legs))
	for _, leg := range j.Legs {
		lines = append(lines, leg.Line)
	}
	return lines
}
