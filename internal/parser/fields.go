package parser

import (
	"regexp"
	"strings"
)

// NotFound is the sentinel value used when a field could not be extracted.
// Fields are always one of: a non-empty extracted value, or this literal.
const NotFound = "Not found"

// ExtractedFields holds the recipient details pulled from a label's OCR text.
type ExtractedFields struct {
	RecipientName string `json:"recipient_name"`
	Apartment     string `json:"apartment"`
}

var (
	// Explicit recipient labels like "To: Jane Doe" or "ATTN: J. Smith"
	nameLabelRegex = regexp.MustCompile(`(?i)^(To:|Recipient:|Deliver to:|Attention:|ATTN:)`)

	// Fallback shape: two or more Title-Case words on their own line
	titleCaseRegex = regexp.MustCompile(`^[A-Z][a-z]*(\s+[A-Z][a-z]*)+$`)

	// Unit designator followed by an alphanumeric/hyphen token, e.g. "Apt. 4B"
	unitRegex = regexp.MustCompile(`(?i)(Apt|Apartment|Unit|Suite|#)\s*\.?\s*([\dA-Za-z-]+)`)

	// Address-list shape like "123A, Main Street"
	addressUnitRegex = regexp.MustCompile(`(\d+[A-Za-z]?)\s*,`)
)

// ExtractFields scans OCR text line by line and pulls out a recipient name
// and apartment/unit token using ordered pattern rules.
//
// Name detection: a line starting with an explicit label (To:, Recipient:,
// Deliver to:, Attention:, ATTN:) always sets the name, overwriting any
// earlier Title-Case fallback guess. Without a label, the first line shaped
// like a Title-Case multi-word name is used as a fallback.
//
// Apartment detection: a unit designator (Apt, Apartment, Unit, Suite, #)
// captures the following token; otherwise a leading "123A," digit group in
// an address line is used. Unlike the name, the last matching line wins.
//
// The function is pure and total: empty or garbage input yields NotFound
// for both fields, never an error.
func ExtractFields(ocrText string) ExtractedFields {
	var foundName, foundApartment string

	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if nameLabelRegex.MatchString(line) {
			foundName = strings.TrimSpace(nameLabelRegex.ReplaceAllString(line, ""))
		} else if foundName == "" && titleCaseRegex.MatchString(line) {
			foundName = line
		}

		if m := unitRegex.FindStringSubmatch(line); m != nil {
			foundApartment = m[2]
		} else if m := addressUnitRegex.FindStringSubmatch(line); m != nil {
			foundApartment = m[1]
		}
	}

	fields := ExtractedFields{
		RecipientName: foundName,
		Apartment:     foundApartment,
	}
	if fields.RecipientName == "" {
		fields.RecipientName = NotFound
	}
	if fields.Apartment == "" {
		fields.Apartment = NotFound
	}
	return fields
}
