package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"label-scanner/internal/database"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if err != nil {
		t.Fatalf("print failed: %v", err)
	}
	return buf.String()
}

func TestOutputFormatterPrintScans(t *testing.T) {
	scans := []database.Scan{
		{
			ID:            1,
			RecipientName: "Ellen Bataglia",
			Apartment:     "3B",
			Barcode:       "1Z999AA10123456784",
			CreatedAt:     time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            2,
			RecipientName: "Mary Johnson",
			Apartment:     "Not found",
			RescanCount:   1,
			CreatedAt:     time.Date(2025, 12, 2, 11, 0, 0, 0, time.UTC),
		},
	}

	tests := []struct {
		name     string
		format   string
		quiet    bool
		contains []string
	}{
		{
			name:     "table format",
			format:   "table",
			quiet:    false,
			contains: []string{"ID", "RECIPIENT", "APARTMENT", "Ellen Bataglia", "3B", "Mary Johnson"},
		},
		{
			name:     "json format",
			format:   "json",
			quiet:    false,
			contains: []string{`"id":1`, `"recipient_name":"Ellen Bataglia"`, `"apartment":"3B"`},
		},
		{
			name:     "quiet mode",
			format:   "table",
			quiet:    true,
			contains: []string{"1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewOutputFormatter(tt.format, tt.quiet)
			output := captureStdout(t, func() error {
				return formatter.PrintScans(scans)
			})

			for _, expected := range tt.contains {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain '%s', got:\n%s", expected, output)
				}
			}
		})
	}
}

func TestOutputFormatterPrintScan_ShowsMatches(t *testing.T) {
	scan := &database.Scan{
		ID:            3,
		RecipientName: "Ellen Bataglia",
		Apartment:     "3B",
		ExtractedText: "To: Ellen Bataglia\nApt 3B",
		CreatedAt:     time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
		Matches: []database.ScanMatch{
			{Position: 1, Recipient: "Ellen Bataglia", Score: 100, MatchType: "full"},
			{Position: 2, Recipient: "Ellen Johnson", Score: 30, MatchType: "partial"},
		},
	}

	formatter := NewOutputFormatter("table", false)
	output := captureStdout(t, func() error {
		return formatter.PrintScan(scan)
	})

	for _, expected := range []string{"Ellen Bataglia", "Ranked matches", "full", "Ellen Johnson", "partial"} {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestOutputFormatterPrintSuccess_Quiet(t *testing.T) {
	formatter := NewOutputFormatterWithColor("table", true, true)
	output := captureStdout(t, func() error {
		formatter.PrintSuccess("done")
		return nil
	})

	if output != "" {
		t.Errorf("Expected no output in quiet mode, got '%s'", output)
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this string is too long", 10, "this st..."},
		{"ab", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
