package invoice

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPrefix  = "INV"
	DefaultNetDays = 30
	maxPrefixLen   = 10
)

// FormatNumber builds a sequence-based invoice number, e.g. "INV-007".
func FormatNumber(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// ValidPrefix reports whether a numbering prefix is 1-10 characters of
// letters, digits, dashes or underscores.
func ValidPrefix(prefix string) bool {
	if prefix == "" || len(prefix) > maxPrefixLen {
		return false
	}

	for _, r := range prefix {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '-' && r != '_' {
			return false
		}
	}

	return true
}

// NormalizePrefix upper-cases and trims a prefix the way the backend stores it.
func NormalizePrefix(prefix string) string {
	return strings.ToUpper(strings.TrimSpace(prefix))
}

// DefaultDueDate is the Net 30 due date for an issue date.
func DefaultDueDate(issue time.Time) time.Time {
	return issue.AddDate(0, 0, DefaultNetDays)
}
