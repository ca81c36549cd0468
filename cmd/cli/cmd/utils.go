package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// validateAndParseID validates and parses a scan ID argument
func validateAndParseID(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, fmt.Errorf("scan ID cannot be empty")
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid scan ID '%s': must be a number", arg)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid scan ID '%d': must be positive", id)
	}
	return id, nil
}
