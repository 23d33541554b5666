package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tramtid/internal/adapters/driving/tui/views/board"
	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// DefaultRefreshInterval is how often the board is fetched again.
const DefaultRefreshInterval = 30 * time.Second

// Options configures the live board.
type Options struct {
	Query    domain.StopQuery
	Platform string
	// RefreshInterval between fetches. Zero means DefaultRefreshInterval.
	RefreshInterval time.Duration
	// Clock supplies the time countdowns are measured against. Nil means time.Now.
	Clock func() time.Time
}

// App is the live departure board following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	opts   Options
	styles *styles.Styles
	keymap *keymap.KeyMap

	status  *status.Bar
	spinner spinner.Model
	help    help.Model

	// board is the last successfully fetched board, recounted every tick.
	board *domain.Board

	// err is the last fetch error; the board keeps showing stale data.
	err error

	// fatal ends the program; Err reports it after Run returns.
	fatal error

	loading     bool
	lastAttempt time.Time
	showHelp    bool
	width       int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the live board.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if err := opts.Query.Validate(); err != nil {
		return nil, ErrMissingStop
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		opts:    opts,
		styles:  s,
		keymap:  km,
		status:  status.NewBar(s, km),
		spinner: sp,
		help:    help.New(),
		width:   80,
	}, nil
}

// WithContext sets the context used for fetches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("tramtid - "+a.opts.Query.Name),
		a.spinner.Tick,
		a.fetch(),
		a.tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.status.SetWidth(msg.Width)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Refresh):
			if a.loading {
				return a, nil
			}
			return a, a.fetch()
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.showHelp = !a.showHelp
		}
		return a, nil

	case messages.RefreshRequested:
		if a.loading {
			return a, nil
		}
		return a, a.fetch()

	case messages.Tick:
		if a.board != nil {
			a.board = a.ports.Departures.Recount(a.board, msg.Now)
		}
		if !a.loading && msg.Now.Sub(a.lastAttempt) >= a.opts.RefreshInterval {
			return a, tea.Batch(a.fetch(), a.tick())
		}
		return a, a.tick()

	case messages.BoardLoaded:
		a.loading = false
		if msg.Err != nil {
			return a, a.handleError(msg.Err)
		}
		a.err = nil
		a.board = msg.Board
		a.status.SetState(status.StateLive)
		a.status.SetUpdatedAt(msg.Board.FetchedAt)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	switch {
	case a.board != nil:
		b.WriteString(board.Render(a.styles, a.board))
	case a.err != nil:
		b.WriteString(a.styles.Error.Render(a.err.Error()))
	default:
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
		b.WriteString(a.styles.Muted.Render("Looking up " + a.opts.Query.Name))
	}
	b.WriteString("\n")

	if a.showHelp {
		b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
		b.WriteString("\n")
	}
	b.WriteString(a.status.View())

	return b.String()
}

// Board returns the board currently displayed.
func (a *App) Board() *domain.Board {
	return a.board
}

// Err returns the error that ended the program, if any.
func (a *App) Err() error {
	return a.fatal
}

func (a *App) fetch() tea.Cmd {
	a.loading = true
	a.lastAttempt = a.opts.Clock()
	a.status.SetState(status.StateLoading)

	ctx := a.ctx
	departures := a.ports.Departures
	query := a.opts.Query
	platform := a.opts.Platform
	return func() tea.Msg {
		b, err := departures.Board(ctx, query, platform)
		return messages.BoardLoaded{Board: b, Err: err}
	}
}

func (a *App) tick() tea.Cmd {
	clock := a.opts.Clock
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return messages.Tick{Now: clock()}
	})
}

// handleError keeps transient failures on screen and quits on the rest.
func (a *App) handleError(err error) tea.Cmd {
	if isFatal(err) {
		a.fatal = err
		return tea.Quit
	}

	logger.Warn("refresh failed", "component", "tui", "error", err)
	a.err = err
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
	return nil
}

func isFatal(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, domain.ErrAuthorization) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrMalformedResponse) ||
		errors.Is(err, context.Canceled)
}
