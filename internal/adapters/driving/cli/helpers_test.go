package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

var cliNow = time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC)

// MockDepartureService records calls and returns canned results.
type MockDepartureService struct {
	BoardResult    *domain.Board
	BoardErr       error
	JourneysResult []domain.Journey
	JourneysErr    error

	BoardCalls   int
	LastQuery    domain.StopQuery
	LastPlatform string
	LastFrom     domain.StopQuery
	LastTo       domain.StopQuery
}

func (m *MockDepartureService) Board(_ context.Context, query domain.StopQuery, platform string) (*domain.Board, error) {
	m.BoardCalls++
	m.LastQuery = query
	m.LastPlatform = platform
	return m.BoardResult, m.BoardErr
}

func (m *MockDepartureService) Recount(board *domain.Board, _ time.Time) *domain.Board {
	return board
}

func (m *MockDepartureService) Journeys(_ context.Context, from, to domain.StopQuery) ([]domain.Journey, error) {
	m.LastFrom = from
	m.LastTo = to
	return m.JourneysResult, m.JourneysErr
}

// MockTokenService returns a fixed state.
type MockTokenService struct {
	State     domain.TokenState
	Token     *domain.AccessToken
	ForgetErr error
	Forgotten bool
}

func (m *MockTokenService) GetValidToken(context.Context) (*domain.AccessToken, error) {
	return m.Token, nil
}

func (m *MockTokenService) Status(context.Context) (domain.TokenState, *domain.AccessToken) {
	return m.State, m.Token
}

func (m *MockTokenService) Forget(context.Context) error {
	if m.ForgetErr != nil {
		return m.ForgetErr
	}
	m.Forgotten = true
	return nil
}

func (m *MockTokenService) Location() string {
	return "/tmp/tramtid/accessToken.json"
}

// withServices installs services for one test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	if s.Clock == nil {
		s.Clock = func() time.Time { return cliNow }
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(Services{}) })
}

// resetFlags clears flag values left over from earlier executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
