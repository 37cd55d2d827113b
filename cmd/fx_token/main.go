// Command fx_token mints bearer tokens for the currency exchange API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fx_token",
		Short:         "Mint API tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newMintCmd(config.LoadConfig))
	return rootCmd
}

func newMintCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		role   string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint <username>",
		Short: "Print a signed token for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			token, err := utils.GenerateJWT(args[0], domain.Role(role), cfg.JWTSecret, expiry, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "token role (USER or ADMIN)")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")
	return cmd
}
