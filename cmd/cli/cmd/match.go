package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <text>...",
	Short: "Match free text against the recipient directory",
	Long: `Run field extraction and recipient matching on text without uploading an
image. Useful for pasting OCR output from another tool or testing how a
label would match. Nothing is stored in history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	result, err := client.MatchText(text)
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if err := formatter.PrintTextResult(result); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
