package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "List the recipient directory",
	Long:  `List every recipient known to the server, active or not.`,
	RunE:  runRecipients,
}

var recipientsMatchCmd = &cobra.Command{
	Use:   "match <query>...",
	Short: "Rank directory recipients against a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecipientsMatch,
}

func init() {
	rootCmd.AddCommand(recipientsCmd)
	recipientsCmd.AddCommand(recipientsMatchCmd)
}

func runRecipients(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	recipients, err := client.GetRecipients()
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if err := formatter.PrintRecipients(recipients); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}

func runRecipientsMatch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	candidates, err := client.MatchRecipients(query)
	if err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}

	if err := formatter.PrintCandidates(candidates); err != nil {
		formatter.PrintError(err)
		os.Exit(1)
	}
	return nil
}
