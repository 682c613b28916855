package domain

import (
	"slices"
	"strings"
)

// Choice is an allowed value for an enumerated field together with its display label.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Choices is an ordered set of allowed values.
type Choices []Choice

// Valid reports whether v is one of the allowed values.
func (c Choices) Valid(v string) bool {
	return slices.ContainsFunc(c, func(ch Choice) bool { return ch.Value == v })
}

// Label returns the display label for v, or v itself if unknown.
func (c Choices) Label(v string) string {
	for _, ch := range c {
		if ch.Value == v {
			return ch.Label
		}
	}
	return v
}

// Values lists the allowed values in order.
func (c Choices) Values() []string {
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = ch.Value
	}
	return out
}

// Normalize lowercases and trims v so wire values match stored choice values.
func Normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
