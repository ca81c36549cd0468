package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"label-scanner/internal/database"
	"label-scanner/internal/parser"
)

// OutputFormatter handles different output formats
type OutputFormatter struct {
	format   string
	quiet    bool
	useColor bool

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(format string, quiet bool) *OutputFormatter {
	return NewOutputFormatterWithColor(format, quiet, false)
}

// NewOutputFormatterWithColor creates a formatter with explicit color control
func NewOutputFormatterWithColor(format string, quiet, noColor bool) *OutputFormatter {
	useColor := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	return &OutputFormatter{
		format:       format,
		quiet:        quiet,
		useColor:     useColor,
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		infoStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// PrintScans prints a list of scans
func (f *OutputFormatter) PrintScans(scans []database.Scan) error {
	if f.quiet {
		for _, scan := range scans {
			fmt.Printf("%d\n", scan.ID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(scans)
	case "table":
		return f.printScansTable(scans)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintScan prints a single scan with its ranked matches
func (f *OutputFormatter) PrintScan(scan *database.Scan) error {
	if f.quiet {
		fmt.Printf("%d\n", scan.ID)
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(scan)
	case "table":
		return f.printScanDetail(scan)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintCandidates prints ranked match candidates
func (f *OutputFormatter) PrintCandidates(candidates []parser.MatchCandidate) error {
	if f.quiet {
		for _, candidate := range candidates {
			fmt.Println(candidate.Recipient)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(candidates)
	case "table":
		return f.printCandidatesTable(candidates)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintTextResult prints the analysis of directly submitted text
func (f *OutputFormatter) PrintTextResult(result *TextMatchResult) error {
	if f.quiet {
		for _, candidate := range result.Matches {
			fmt.Println(candidate.Recipient)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(result)
	case "table":
		fmt.Printf("Recipient: %s\n", result.RecipientName)
		fmt.Printf("Apartment: %s\n", result.Apartment)
		fmt.Println()
		return f.printCandidatesTable(result.Matches)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintRecipients prints the recipient directory
func (f *OutputFormatter) PrintRecipients(recipients []database.Recipient) error {
	if f.quiet {
		for _, recipient := range recipients {
			fmt.Println(recipient.FullName)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(recipients)
	case "table":
		return f.printRecipientsTable(recipients)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if f.quiet {
		return
	}
	if f.useColor {
		fmt.Println(f.successStyle.Render("✓ " + message))
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if f.quiet {
		return
	}
	if f.useColor {
		fmt.Fprintln(os.Stderr, f.errorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))
	} else {
		fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
	}
}

// PrintInfo prints an informational message
func (f *OutputFormatter) PrintInfo(message string) {
	if f.quiet {
		return
	}
	if f.useColor {
		fmt.Println(f.infoStyle.Render("ℹ " + message))
	} else {
		fmt.Printf("ℹ %s\n", message)
	}
}

func (f *OutputFormatter) printScansTable(scans []database.Scan) error {
	if len(scans) == 0 {
		fmt.Println("No scans found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tRECIPIENT\tAPARTMENT\tBARCODE\tRESCANS\tCREATED")
	for _, scan := range scans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			scan.ID,
			truncate(scan.RecipientName, 25),
			scan.Apartment,
			truncate(scan.Barcode, 22),
			scan.RescanCount,
			scan.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

func (f *OutputFormatter) printScanDetail(scan *database.Scan) error {
	fmt.Printf("Scan ID: %d\n", scan.ID)
	fmt.Printf("Recipient: %s\n", scan.RecipientName)
	fmt.Printf("Apartment: %s\n", scan.Apartment)
	if scan.Barcode != "" {
		fmt.Printf("Barcode: %s\n", scan.Barcode)
	}
	fmt.Printf("Image: %s\n", scan.ImagePath)
	fmt.Printf("Created: %s\n", scan.CreatedAt.Format("2006-01-02 15:04:05"))
	if scan.LastRescan != nil {
		fmt.Printf("Last Rescan: %s (%d total)\n",
			scan.LastRescan.Format("2006-01-02 15:04:05"), scan.RescanCount)
	}

	if len(scan.Matches) > 0 {
		fmt.Println("\nRanked matches:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  RANK\tRECIPIENT\tSCORE\tTYPE")
		for _, match := range scan.Matches {
			fmt.Fprintf(w, "  %d\t%s\t%.1f\t%s\n",
				match.Position, match.Recipient, match.Score, match.MatchType)
		}
		w.Flush()
	}

	if scan.ExtractedText != "" {
		fmt.Println("\nExtracted text:")
		fmt.Println(scan.ExtractedText)
	}

	return nil
}

func (f *OutputFormatter) printCandidatesTable(candidates []parser.MatchCandidate) error {
	if len(candidates) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "RANK\tRECIPIENT\tSCORE\tTYPE")
	for i, candidate := range candidates {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\n",
			i+1, candidate.Recipient, candidate.Score, candidate.Type)
	}

	return nil
}

func (f *OutputFormatter) printRecipientsTable(recipients []database.Recipient) error {
	if len(recipients) == 0 {
		fmt.Println("No recipients found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tACTIVE")
	for _, recipient := range recipients {
		active := "yes"
		if !recipient.Active {
			active = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", recipient.ID, recipient.FullName, active)
	}

	return nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
