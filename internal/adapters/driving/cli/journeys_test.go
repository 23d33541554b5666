package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

func TestJourneysCmd_Use(t *testing.T) {
	assert.Equal(t, "journeys", journeysCmd.Use)
	assert.NotNil(t, journeysCmd.Flags().Lookup("from"))
	assert.NotNil(t, journeysCmd.Flags().Lookup("to"))
}

func TestJourneys_Output(t *testing.T) {
	mock := &MockDepartureService{JourneysResult: []domain.Journey{
		{Legs: []domain.JourneyLeg{
			{Line: "6", Origin: "Brunnsparken", Destination: "Järntorget",
				DepartureTime: "2025-03-14T10:05:00+01:00", ArrivalTime: "2025-03-14T10:11:00+01:00"},
			{Line: "11", Origin: "Järntorget", Destination: "Saltholmen",
				DepartureTime: "2025-03-14T10:14:00+01:00", ArrivalTime: "2025-03-14T10:38:00+01:00"},
		}},
	}}
	withServices(t, Services{Departures: mock})

	out, err := executeCommand(t, "journeys", "--from", "Brunnsparken", "--to", "Saltholmen")

	require.NoError(t, err)
	assert.Equal(t, "Brunnsparken", mock.LastFrom.Name)
	assert.Equal(t, "Saltholmen", mock.LastTo.Name)
	assert.Contains(t, out, "1. 10:05 -> 10:38  (6, 11)")
	assert.Contains(t, out, "Järntorget")
}

func TestJourneys_NoneFound(t *testing.T) {
	withServices(t, Services{Departures: &MockDepartureService{}})

	out, err := executeCommand(t, "journeys", "--from", "A", "--to", "B")

	require.NoError(t, err)
	assert.Contains(t, out, "No journeys found.")
}

func TestJourneys_JSONEmptyList(t *testing.T) {
	withServices(t, Services{Departures: &MockDepartureService{}})

	out, err := executeCommand(t, "journeys", "--from", "A", "--to", "B", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestJourneys_MissingDestinationIsUsageError(t *testing.T) {
	withServices(t, Services{Departures: &MockDepartureService{}})

	_, err := executeCommand(t, "journeys", "--from", "Brunnsparken")

	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestJourneys_ErrorPropagates(t *testing.T) {
	mock := &MockDepartureService{JourneysErr: fmt.Errorf("resolve destination %q: %w", "Nowhere", domain.ErrNotFound)}
	withServices(t, Services{Departures: mock})

	_, err := executeCommand(t, "journeys", "--from", "Brunnsparken", "--to", "Nowhere")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestClockTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-03-14T10:05:00+01:00", "10:05"},
		{"2025-03-14T23:59:59.0000000+01:00", "23:59"},
		{"10:05", "10:05"},
		{"", ""},
		{"2025-03-14T1", "2025-03-14T1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, clockTime(tt.input))
		})
	}
}
