package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"tab replaced", "hello\tworld", "hello world"},
		{"newline replaced", "line1\nline2", "line1 line2"},
		{"trimmed", "  padded  ", "padded"},
		{"only whitespace", " \t\n ", ""},
		{"comma kept", "a,b", "a,b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeValue(tc.in))
		})
	}
}

func TestSanitizeValue_Idempotent(t *testing.T) {
	inputs := []string{"hello\tworld", "a\nb", "  x  ", "plain"}
	for _, in := range inputs {
		once := SanitizeValue(in)
		assert.Equal(t, once, SanitizeValue(once))
	}
}

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma replaced", "Doe, Jane", "Doe  Jane"},
		{"tab replaced", "a\tb", "a b"},
		{"newline replaced", "a\nb", "a b"},
		{"clean value untouched", "jane@example.org", "jane@example.org"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeIdentity(tc.in))
		})
	}
}
