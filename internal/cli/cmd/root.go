package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envName string

var rootCmd = &cobra.Command{
	Use:   "inventory-gateway",
	Short: "HTTP gateway for the inventory management platform",
	Long:  "Token issuance, role-gated inventory routes and payment intents over a document store.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", os.Getenv("APP_ENV"), "config environment (config/envs/<env>.yaml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
