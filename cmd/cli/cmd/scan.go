package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliapi "label-scanner/internal/cli"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image-path>",
	Short: "Scan a shipping label image",
	Long: `Upload a shipping label photo to the server for OCR, barcode detection,
and recipient matching. The result is stored in scan history.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("cannot read image file: %w", err)
	}

	config, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	if err := client.HealthCheck(); err != nil {
		formatter.PrintError(fmt.Errorf("cannot connect to server at %s: %w", config.ServerURL, err))
		os.Exit(1)
	}

	spinner := cliapi.NewProgressSpinner("Scanning label", config.NoColor || config.Quiet)
	spinner.Start()
	scan, err := client.CreateScan(imagePath)
	spinner.Stop()
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if !config.Quiet {
		formatter.PrintSuccess(fmt.Sprintf("Scan %d created", scan.ID))
	}
	if err := formatter.PrintScan(scan); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
