package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	listLimit       int
	listInteractive bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List scan history",
	Long:    `List scans from the server's history, newest first.`,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Maximum number of scans to show (0 = server default)")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "Browse scans in an interactive table")
}

func runList(cmd *cobra.Command, args []string) error {
	config, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	scans, err := client.GetScans(listLimit)
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if listInteractive {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			formatter.PrintInfo("Interactive mode requires a terminal, falling back to table output")
		} else {
			return runInteractiveTable(config, client, scans)
		}
	}

	if err := formatter.PrintScans(scans); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
