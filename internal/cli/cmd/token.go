package cmd

import (
	"fmt"

	"github.com/nookcoder/inventory-gateway/config"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/spf13/cobra"
)

var tokenEmail string

// tokenCmd signs a token locally with the configured secret, for curl
// sessions against a dev server.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed access token for an email",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envName)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("ACCESS_SECRET_TOKEN is required")
		}

		tok, err := auth.NewJWTService(cfg.JWT.Secret).
			IssueToken(map[string]any{"email": tokenEmail})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email to embed in the token")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}
