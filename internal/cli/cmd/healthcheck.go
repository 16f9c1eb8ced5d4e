package cmd

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var healthURL string

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a running server's /health endpoint",
	Long:  "Exits non-zero unless the server answers 200. Suitable as a container HEALTHCHECK.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return probe(cmd.OutOrStdout(), &http.Client{Timeout: 5 * time.Second}, healthURL)
	},
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthURL, "url", "http://localhost:5000/health", "health endpoint to probe")
	rootCmd.AddCommand(healthcheckCmd)
}

func probe(out io.Writer, client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: %d %s", resp.StatusCode, body)
	}
	fmt.Fprintf(out, "%s\n", body)
	return nil
}
