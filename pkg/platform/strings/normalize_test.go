package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "mixed case duplicates", input: []string{" Walk_In ", "walk_in", "Newspaper"}, expected: []string{"walk_in", "newspaper"}},
		{name: "drops blanks", input: []string{"", "  ", "hoarding"}, expected: []string{"hoarding"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DedupeAndTrimLower(tc.input))
		})
	}
}

func TestDigitHelpers(t *testing.T) {
	assert.True(t, IsDigitsLen("400001", 6))
	assert.False(t, IsDigitsLen("40001", 6))
	assert.False(t, IsDigitsLen("40000a", 6))
	assert.False(t, IsDigits(""))
	assert.Equal(t, "9876543210", StripSpaces(" 98765 43210 "))
}

func TestBlankHelpers(t *testing.T) {
	assert.Equal(t, "Lower Parel", CollapseSpace("  Lower   Parel "))
	assert.True(t, Blank(" \t"))
	assert.True(t, AnyBlank("a", " "))
	assert.False(t, AnyBlank("a", "b"))
}
