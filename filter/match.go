package filter

import (
	"bytes"
	"strings"
)

// matchEquality performs case-insensitive equality matching between two
// byte slices. This is the fallback when the schema has no rule for the
// attribute.
func matchEquality(a, b []byte) bool {
	return bytes.EqualFold(a, b)
}

// matchSubstring checks if a value matches a substring filter pattern.
// The pattern consists of optional initial, any (middle), and final components.
func matchSubstring(value []byte, initial []byte, any [][]byte, final []byte) bool {
	valueLower := bytes.ToLower(value)
	pos := 0

	if len(initial) > 0 {
		initialLower := bytes.ToLower(initial)
		if !bytes.HasPrefix(valueLower, initialLower) {
			return false
		}
		pos = len(initial)
	}

	for _, substr := range any {
		if len(substr) == 0 {
			continue
		}
		substrLower := bytes.ToLower(substr)
		idx := bytes.Index(valueLower[pos:], substrLower)
		if idx < 0 {
			return false
		}
		pos += idx + len(substr)
	}

	if len(final) > 0 {
		finalLower := bytes.ToLower(final)
		if !bytes.HasSuffix(valueLower[pos:], finalLower) {
			return false
		}
	}

	return true
}

// matchGreaterOrEqual performs case-insensitive lexicographic comparison.
func matchGreaterOrEqual(value, threshold []byte) bool {
	return bytes.Compare(bytes.ToLower(value), bytes.ToLower(threshold)) >= 0
}

// matchLessOrEqual performs case-insensitive lexicographic comparison.
func matchLessOrEqual(value, threshold []byte) bool {
	return bytes.Compare(bytes.ToLower(value), bytes.ToLower(threshold)) <= 0
}

// matchApprox compares whitespace-collapsed, case-folded values.
func matchApprox(a, b []byte) bool {
	return bytes.Equal(normalizeForApprox(a), normalizeForApprox(b))
}

// normalizeForApprox converts to lowercase and collapses runs of
// whitespace to a single space.
func normalizeForApprox(value []byte) []byte {
	s := strings.ToLower(string(value))

	var result strings.Builder
	inWhitespace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !inWhitespace {
				result.WriteRune(' ')
				inWhitespace = true
			}
		} else {
			result.WriteRune(r)
			inWhitespace = false
		}
	}

	return []byte(strings.TrimSpace(result.String()))
}
