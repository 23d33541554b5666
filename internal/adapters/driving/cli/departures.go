package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/views/board"
	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// runProgram runs a bubbletea model. Replaced in tests.
var runProgram = func(model tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(model, opts...).Run()
}

func runDepartures(cmd *cobra.Command, _ []string) error {
	if departureService == nil {
		return errors.New("departure service not configured")
	}
	query := domain.StopQuery{Name: stopName}

	if watch {
		return runWatch(cmd, query)
	}

	result, err := departureService.Board(cmd.Context(), query, platform)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return printJSON(out, result)
	case isTerminal(out):
		_, err := fmt.Fprintln(out, board.Render(styles.DefaultStyles(), result))
		return err
	default:
		return printBoardPlain(out, result)
	}
}

func runWatch(cmd *cobra.Command, query domain.StopQuery) error {
	app, err := tui.NewApp(tui.NewPorts(departureService), tui.Options{
		Query:    query,
		Platform: platform,
		Clock:    clock,
	})
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	app.WithContext(cmd.Context())

	if _, err := runProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("board error: %w", err)
	}

	return app.Err()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBoardPlain(w io.Writer, b *domain.Board) error {
	name := b.Stop.Name
	if name == "" {
		name = b.Stop.GID
	}
	fmt.Fprintf(w, "Departures from %s\n", name)

	if b.IsEmpty() {
		_, err := fmt.Fprintln(w, "No upcoming departures.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tDIRECTION\tPLATFORM\tDEPARTS IN")
	for _, d := range b.Departures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			d.Departure.Line, d.Departure.Direction, d.Departure.Platform, d.Display)
	}
	return tw.Flush()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}
