// Package formnumber owns the PREFIX-NNNNN identifier scheme: recognising
// canonical numbers, recovering a project prefix from free-form legacy
// numbers, and drawing fresh numbers that no other record holds.
package formnumber

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	dErrors "leadcrm/pkg/domain-errors"
)

const (
	// UnknownPrefix is returned by ExtractPrefix for blank input.
	UnknownPrefix = "UNK"

	// MinSuffix and MaxSuffix bound the numeric part, both inclusive.
	MinSuffix = 10000
	MaxSuffix = 99999

	minPrefixLen = 2
	maxPrefixLen = 5
)

var (
	canonicalPattern = regexp.MustCompile(`^[A-Z]{2,5}-\d{5}$`)
	prefixPattern    = regexp.MustCompile(`^[A-Z]{2,5}$`)
)

// IsCanonical reports whether s is already in PREFIX-NNNNN form.
func IsCanonical(s string) bool {
	return canonicalPattern.MatchString(s)
}

// Format renders a form number from a prefix and a suffix.
func Format(prefix string, suffix int) string {
	return fmt.Sprintf("%s-%05d", strings.ToUpper(prefix), suffix)
}

// NormalizePrefix trims and upper-cases a project prefix.
func NormalizePrefix(prefix string) string {
	return strings.ToUpper(strings.TrimSpace(prefix))
}

// ValidatePrefix checks an already-normalized prefix is 2 to 5 letters A-Z.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return dErrors.NewValidation("prefix is required", "prefix")
	}
	if !prefixPattern.MatchString(prefix) {
		return dErrors.NewValidation(
			fmt.Sprintf("prefix must be %d to %d letters A-Z", minPrefixLen, maxPrefixLen), "prefix")
	}
	return nil
}

// ExtractPrefix recovers the project prefix from a form number.
//
// Known prefixes are tried longest first, so "ST" never shadows "STAR".
// With no known match the text before the first hyphen is used, and failing
// that the first three characters.
func ExtractPrefix(formNumber string, known []string) string {
	upper := strings.ToUpper(strings.TrimSpace(formNumber))
	if upper == "" {
		return UnknownPrefix
	}

	for _, p := range longestFirst(known) {
		if strings.HasPrefix(upper, p) {
			return p
		}
	}

	if before, _, ok := strings.Cut(upper, "-"); ok {
		return before
	}

	if runes := []rune(upper); len(runes) > 3 {
		return string(runes[:3])
	}
	return upper
}

// longestFirst upper-cases, de-duplicates and orders prefixes by descending
// length, breaking ties alphabetically so the result is deterministic.
func longestFirst(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = NormalizePrefix(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return out
}
