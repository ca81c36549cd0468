package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Long:  `Report server, database, and OCR engine status.`,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	config, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	status, err := client.GetHealth()
	if err != nil {
		formatter.PrintError(fmt.Errorf("server at %s is unreachable: %w", config.ServerURL, err))
		os.Exit(1)
	}

	if config.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	}

	switch status.Status {
	case "healthy":
		formatter.PrintSuccess(fmt.Sprintf("Server is healthy (database: %s, OCR: %s)", status.Database, status.OCR.Backend))
	case "degraded":
		formatter.PrintInfo(fmt.Sprintf("Server is degraded: %s", status.Message))
	default:
		formatter.PrintError(fmt.Errorf("server is unhealthy: %s", status.Message))
		os.Exit(1)
	}
	return nil
}
