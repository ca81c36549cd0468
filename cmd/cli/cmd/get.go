package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <scan-id>",
	Short: "Show details for a scan",
	Long:  `Show the extracted fields, barcode, ranked matches, and raw OCR text for a scan.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := validateAndParseID(args[0])
	if err != nil {
		return err
	}

	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	scan, err := client.GetScan(id)
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if err := formatter.PrintScan(scan); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
