package account

import (
	"errors"
	"fmt"

	"alphadash/internal/domain/record"
)

// Suffix closes every generated account label.
const Suffix = "号"

// Domain errors
var (
	ErrAccountLimit    = errors.New("account limit reached for current tier")
	ErrLastAccount     = errors.New("at least one account must remain")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidCount    = errors.New("account count must be positive")
	ErrInvalidUser     = errors.New("user id is required")
)

// DefaultLabels is the account set of a user who never changed it.
func DefaultLabels() []string {
	return []string{Label(1)}
}

// Label returns the label of account number n.
func Label(n int) string {
	return fmt.Sprintf("%d%s", n, Suffix)
}

// Sequence returns 1号..n号.
func Sequence(n int) []string {
	labels := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		labels = append(labels, Label(i))
	}
	return labels
}

// NextLabel returns the label after the highest numbered one in labels.
func NextLabel(labels []string) string {
	highest := 0
	for _, l := range labels {
		if n := record.AccountNumber(l); n > highest {
			highest = n
		}
	}
	return Label(highest + 1)
}

// Normalize drops blanks and duplicates while keeping order. An empty result
// falls back to DefaultLabels.
func Normalize(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) == 0 {
		return DefaultLabels()
	}
	return out
}
