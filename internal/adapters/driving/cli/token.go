package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or clear the stored access token",
	Long: `The access token is reused until it expires. These commands look at
the stored token without contacting the authorization server.`,
	Args: cobra.NoArgs,
	RunE: runTokenStatus,
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the stored token is still valid",
	Args:  cobra.NoArgs,
	RunE:  runTokenStatus,
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	Long:  `Remove the stored token so the next lookup requests a new one.`,
	Args:  cobra.NoArgs,
	RunE:  runTokenClear,
}

func init() {
	tokenCmd.AddCommand(tokenStatusCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenStatus(cmd *cobra.Command, _ []string) error {
	if tokenService == nil {
		return errors.New("token service not configured")
	}

	now := clock()
	state, token := tokenService.Status(cmd.Context())

	cmd.Printf("Location: %s\n", tokenService.Location())
	cmd.Printf("State: %s\n", state)

	switch state {
	case domain.StoredTokenValid:
		cmd.Printf("Expires: %s (in %s)\n",
			token.ExpiresAt.In(now.Location()).Format(time.RFC3339),
			token.ExpiresIn(now).Truncate(time.Second))
	case domain.StoredTokenExpired:
		if token.ExpiresAt.IsZero() {
			cmd.Println("Expires: unknown")
		} else {
			cmd.Printf("Expired: %s\n", token.ExpiresAt.In(now.Location()).Format(time.RFC3339))
		}
		cmd.Println("A new token will be requested on the next lookup.")
	default:
		cmd.Println("A token will be requested on the next lookup.")
	}
	return nil
}

func runTokenClear(cmd *cobra.Command, _ []string) error {
	if tokenService == nil {
		return errors.New("token service not configured")
	}

	if err := tokenService.Forget(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	cmd.Printf("Removed stored token from %s\n", tokenService.Location())
	return nil
}
