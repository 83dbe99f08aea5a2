package archive

import "strings"

// space is the substitution character for stripped delimiters.
const space = " "

// SanitizeValue strips record-delimiter characters from an answer value:
// newlines and tabs become a single space, and surrounding whitespace is
// trimmed. Applying it twice yields the same result.
func SanitizeValue(v string) string {
	v = strings.ReplaceAll(v, "\n", space)
	v = strings.ReplaceAll(v, delimiter, space)
	return strings.TrimSpace(v)
}

// SanitizeIdentity cleans identity fields (username, email, device id), which
// additionally must not carry commas.
func SanitizeIdentity(v string) string {
	if strings.Contains(v, delimiter) {
		v = strings.ReplaceAll(v, delimiter, space)
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ",", space)
	}
	if strings.Contains(v, "\n") {
		v = strings.ReplaceAll(v, "\n", space)
	}
	return v
}
