package filter

import (
	"errors"
	"strings"
)

// Parser errors
var (
	ErrEmptyFilter      = errors.New("empty filter")
	ErrInvalidFilter    = errors.New("invalid filter syntax")
	ErrUnbalancedParens = errors.New("unbalanced parentheses")
	ErrMissingAttribute = errors.New("missing attribute name")
	ErrInvalidEscape    = errors.New("invalid escape sequence")
)

// Parse parses an LDAP filter string into a Filter structure.
// Supports RFC 4515 filter syntax:
//   - (attr=value)     - equality
//   - (attr=*)         - presence
//   - (attr=*val*)     - substring
//   - (attr>=value)    - greater or equal
//   - (attr<=value)    - less or equal
//   - (attr~=value)    - approximate match
//   - (&(f1)(f2)...)   - AND
//   - (|(f1)(f2)...)   - OR
//   - (!(filter))      - NOT
//
// Assertion values may carry \xx hex escapes for the reserved characters.
func Parse(filterStr string) (*Filter, error) {
	filterStr = strings.TrimSpace(filterStr)
	if filterStr == "" {
		return nil, ErrEmptyFilter
	}

	return parseFilter(filterStr)
}

func parseFilter(s string) (*Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyFilter
	}

	// Must start and end with parentheses
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		// Try wrapping simple filters
		if !strings.Contains(s, "(") {
			s = "(" + s + ")"
		} else {
			return nil, ErrInvalidFilter
		}
	}

	// Remove outer parentheses
	inner := s[1 : len(s)-1]
	if inner == "" {
		return nil, ErrEmptyFilter
	}

	// Check for composite filters
	switch inner[0] {
	case '&':
		return parseAndFilter(inner[1:])
	case '|':
		return parseOrFilter(inner[1:])
	case '!':
		return parseNotFilter(inner[1:])
	default:
		return parseSimpleFilter(inner)
	}
}

func parseAndFilter(s string) (*Filter, error) {
	children, err := parseFilterList(s)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, ErrInvalidFilter
	}
	return NewAndFilter(children...), nil
}

func parseOrFilter(s string) (*Filter, error) {
	children, err := parseFilterList(s)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, ErrInvalidFilter
	}
	return NewOrFilter(children...), nil
}

func parseNotFilter(s string) (*Filter, error) {
	s = strings.TrimSpace(s)
	child, err := parseFilter(s)
	if err != nil {
		return nil, err
	}
	return NewNotFilter(child), nil
}

func parseFilterList(s string) ([]*Filter, error) {
	var filters []*Filter
	s = strings.TrimSpace(s)

	for len(s) > 0 {
		if s[0] != '(' {
			return nil, ErrInvalidFilter
		}

		// Find matching closing paren
		depth := 0
		end := -1
		for i, c := range s {
			if c == '(' {
				depth++
			} else if c == ')' {
				depth--
				if depth == 0 {
					end = i
					break
				}
			}
		}

		if end == -1 {
			return nil, ErrUnbalancedParens
		}

		filterStr := s[:end+1]
		f, err := parseFilter(filterStr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)

		s = strings.TrimSpace(s[end+1:])
	}

	return filters, nil
}

func parseSimpleFilter(s string) (*Filter, error) {
	// Check for different operators
	if idx := strings.Index(s, ">="); idx > 0 {
		attr := strings.TrimSpace(s[:idx])
		value, err := unescapeValue(s[idx+2:])
		if err != nil {
			return nil, err
		}
		if attr == "" {
			return nil, ErrMissingAttribute
		}
		return NewGreaterOrEqualFilter(attr, value), nil
	}

	if idx := strings.Index(s, "<="); idx > 0 {
		attr := strings.TrimSpace(s[:idx])
		value, err := unescapeValue(s[idx+2:])
		if err != nil {
			return nil, err
		}
		if attr == "" {
			return nil, ErrMissingAttribute
		}
		return NewLessOrEqualFilter(attr, value), nil
	}

	if idx := strings.Index(s, "~="); idx > 0 {
		attr := strings.TrimSpace(s[:idx])
		value, err := unescapeValue(s[idx+2:])
		if err != nil {
			return nil, err
		}
		if attr == "" {
			return nil, ErrMissingAttribute
		}
		return NewApproxMatchFilter(attr, value), nil
	}

	// Equality or substring or presence
	idx := strings.Index(s, "=")
	if idx <= 0 {
		return nil, ErrInvalidFilter
	}

	attr := strings.TrimSpace(s[:idx])
	value := s[idx+1:]

	if attr == "" {
		return nil, ErrMissingAttribute
	}

	// Presence filter: (attr=*)
	if value == "*" {
		return NewPresentFilter(attr), nil
	}

	// Check for substring filter
	if strings.Contains(value, "*") {
		return parseSubstringFilter(attr, value)
	}

	// Simple equality
	v, err := unescapeValue(value)
	if err != nil {
		return nil, err
	}
	return NewEqualityFilter(attr, v), nil
}

func parseSubstringFilter(attr, value string) (*Filter, error) {
	parts := strings.Split(value, "*")

	sf := &SubstringFilter{
		Attribute: attr,
	}

	for i, part := range parts {
		if part == "" {
			continue
		}

		unescaped, err := unescapeValue(part)
		if err != nil {
			return nil, err
		}

		switch {
		case i == 0:
			sf.Initial = unescaped
		case i == len(parts)-1:
			sf.Final = unescaped
		default:
			sf.Any = append(sf.Any, unescaped)
		}
	}

	return NewSubstringFilter(sf), nil
}

// unescapeValue decodes \xx hex escapes from an assertion value.
func unescapeValue(s string) ([]byte, error) {
	if !strings.Contains(s, "\\") {
		return []byte(s), nil
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out = append(out, s[i])
			continue
		}
		if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
			return nil, ErrInvalidEscape
		}
		out = append(out, hexValue(s[i+1])<<4|hexValue(s[i+2]))
		i += 2
	}
	return out, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
