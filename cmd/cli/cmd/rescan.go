package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliapi "label-scanner/internal/cli"
)

var rescanForce bool

var rescanCmd = &cobra.Command{
	Use:   "rescan <scan-id>",
	Short: "Re-run OCR and matching for a scan",
	Long: `Re-run OCR, barcode detection, and recipient matching on a scan's stored
image. Rescans are rate limited to once per 5 minutes per scan unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRescan,
}

func init() {
	rootCmd.AddCommand(rescanCmd)
	rescanCmd.Flags().BoolVar(&rescanForce, "force", false, "Bypass the rescan rate limit")
}

func runRescan(cmd *cobra.Command, args []string) error {
	id, err := validateAndParseID(args[0])
	if err != nil {
		return err
	}

	config, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	spinner := cliapi.NewProgressSpinner(fmt.Sprintf("Rescanning scan %d", id), config.NoColor || config.Quiet)
	spinner.Start()
	scan, err := client.RescanScan(id, rescanForce)
	spinner.Stop()
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if !config.Quiet {
		formatter.PrintSuccess(fmt.Sprintf("Scan %d rescanned", scan.ID))
	}
	if err := formatter.PrintScan(scan); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
