package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

var (
	journeyFrom string
	journeyTo   string
	journeyJSON bool
)

var journeysCmd = &cobra.Command{
	Use:   "journeys",
	Short: "Find trips between two stops",
	Long: `Resolve both stop names and list the next itineraries between them.

Each itinerary shows its departure and arrival time and the lines ridden.`,
	Example: `  tramtid journeys --from Brunnsparken --to Saltholmen`,
	Args:    cobra.NoArgs,
	RunE:    runJourneys,
}

func init() {
	journeysCmd.Flags().StringVar(&journeyFrom, "from", "", "origin stop name")
	journeysCmd.Flags().StringVar(&journeyTo, "to", "", "destination stop name")
	journeysCmd.Flags().BoolVar(&journeyJSON, "json", false, "print the journeys as JSON")
	_ = journeysCmd.MarkFlagRequired("from")
	_ = journeysCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(journeysCmd)
}

func runJourneys(cmd *cobra.Command, _ []string) error {
	if departureService == nil {
		return errors.New("departure service not configured")
	}

	journeys, err := departureService.Journeys(cmd.Context(),
		domain.StopQuery{Name: journeyFrom}, domain.StopQuery{Name: journeyTo})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if journeyJSON {
		if journeys == nil {
			journeys = []domain.Journey{}
		}
		return printJSON(out, journeys)
	}
	return printJourneys(out, journeys)
}

func printJourneys(w io.Writer, journeys []domain.Journey) error {
	if len(journeys) == 0 {
		_, err := fmt.Fprintln(w, "No journeys found.")
		return err
	}

	for i, j := range journeys {
		fmt.Fprintf(w, "%d. %s -> %s  (%s)\n", i+1,
			clockTime(j.DepartureTime()), clockTime(j.ArrivalTime()), strings.Join(j.Lines(), ", "))
		for _, leg := range j.Legs {
			fmt.Fprintf(w, "   %-4s %s %s -> %s %s\n",
				leg.Line, clockTime(leg.DepartureTime), leg.Origin, clockTime(leg.ArrivalTime), leg.Destination)
		}
	}
	return nil
}

// clockTime trims an upstream timestamp to HH:MM, or returns it unchanged.
func clockTime(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+6 {
		return ts[i+1 : i+6]
	}
	return ts
}
