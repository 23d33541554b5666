// Package board renders a departure board with lipgloss.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// SoonThreshold is the remaining time under which a countdown is highlighted.
const SoonThreshold = 2 * time.Minute

const (
	lineWidth      = 6
	directionWidth = 28
	platformWidth  = 8
)

// Render draws board as a bordered table.
func Render(s *styles.Styles, board *domain.Board) string {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if board == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(title(board)))
	b.WriteString("\n\n")

	if board.IsEmpty() {
		b.WriteString(s.Muted.Render("No upcoming departures."))
		return s.Border.Render(b.String())
	}

	b.WriteString(s.Subtitle.Render(row("Line", "Towards", "Platform", "Departs")))
	for _, d := range board.Departures {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(lineWidth).Render(s.Line.Render(d.Departure.Line)),
			s.Normal.Width(directionWidth).Render(truncate(d.Departure.Direction, directionWidth-1)),
			s.Muted.Width(platformWidth).Render(d.Departure.Platform),
			countdownStyle(s, d.Countdown).Render(d.Display),
		))
	}

	return s.Border.Render(b.String())
}

func title(board *domain.Board) string {
	name := board.Stop.Name
	if name == "" {
		name = board.Stop.GID
	}
	if board.Platform != "" {
		return fmt.Sprintf("%s, platform %s", name, board.Platform)
	}
	return name
}

func row(line, direction, platform, departs string) string {
	return fmt.Sprintf("%-*s%-*s%-*s%s", lineWidth, line, directionWidth, direction, platformWidth, platform, departs)
}

func countdownStyle(s *styles.Styles, c domain.Countdown) lipgloss.Style {
	switch {
	case c.IsNow():
		return s.Now
	case c.Remaining < SoonThreshold:
		return s.Soon
	default:
		return s.Countdown
	}
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
