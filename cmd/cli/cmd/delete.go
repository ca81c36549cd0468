package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <scan-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a scan",
	Long:    `Delete a scan from history along with its stored label image.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := validateAndParseID(args[0])
	if err != nil {
		return err
	}

	config, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	if err := client.DeleteScan(id); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if !config.Quiet {
		formatter.PrintSuccess(fmt.Sprintf("Scan %d deleted", id))
	}
	return nil
}
