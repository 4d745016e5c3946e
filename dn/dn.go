// Package dn models LDAP Distinguished Names as typed RDN sequences and
// provides schema-aware normalization and comparison on top of the schema
// registries.
package dn

import (
	"errors"
	"sort"
	"strings"

	"github.com/KilimcininKorOglu/dizin/schema"
)

// DN parsing errors.
var (
	ErrEmptyDN           = errors.New("DN cannot be empty")
	ErrInvalidRDN        = errors.New("invalid RDN format")
	ErrEmptyRDNComponent = errors.New("empty RDN component")
	ErrTrailingEscape    = errors.New("trailing escape character")
)

// AVA is a single attribute type and value assertion inside an RDN.
type AVA struct {
	Type  string
	Value string
}

// RDN is one relative distinguished name: one AVA, or several joined with
// '+' for multi-valued RDNs.
type RDN []AVA

// DN is a distinguished name, leaf RDN first.
//
// Example: "uid=alice,ou=users,dc=example,dc=com" has four RDNs with
// RDNs[0] being uid=alice.
type DN struct {
	RDNs []RDN
}

// Parse parses a DN string. Escaped separators ("\\,", "\\+", "\\=") and hex
// escapes ("\\2C") inside values are handled; values are stored unescaped.
// An empty string is the root DSE and parses to a DN with no RDNs.
func Parse(s string) (*DN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return &DN{}, nil
	}

	parts, err := splitEscaped(s, ',')
	if err != nil {
		return nil, err
	}

	d := &DN{RDNs: make([]RDN, 0, len(parts))}
	for _, part := range parts {
		rdn, err := parseRDN(part)
		if err != nil {
			return nil, err
		}
		d.RDNs = append(d.RDNs, rdn)
	}
	return d, nil
}

func parseRDN(s string) (RDN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyRDNComponent
	}

	avaParts, err := splitEscaped(s, '+')
	if err != nil {
		return nil, err
	}

	rdn := make(RDN, 0, len(avaParts))
	for _, avaStr := range avaParts {
		eq, err := indexEscaped(avaStr, '=')
		if err != nil {
			return nil, err
		}
		if eq == -1 {
			return nil, ErrInvalidRDN
		}
		attrType := strings.TrimSpace(avaStr[:eq])
		if attrType == "" {
			return nil, ErrInvalidRDN
		}
		value, err := unescape(strings.TrimSpace(avaStr[eq+1:]))
		if err != nil {
			return nil, err
		}
		rdn = append(rdn, AVA{Type: attrType, Value: value})
	}
	return rdn, nil
}

// String renders the DN in RFC 4514 form, escaping special characters in
// values.
func (d *DN) String() string {
	rdns := make([]string, len(d.RDNs))
	for i, rdn := range d.RDNs {
		rdns[i] = rdn.String()
	}
	return strings.Join(rdns, ",")
}

// String renders one RDN, joining multi-valued assertions with '+'.
func (r RDN) String() string {
	avas := make([]string, len(r))
	for i, ava := range r {
		avas[i] = ava.Type + "=" + escape(ava.Value)
	}
	return strings.Join(avas, "+")
}

// IsRoot reports whether the DN is the empty root DSE name.
func (d *DN) IsRoot() bool { return len(d.RDNs) == 0 }

// Depth returns the number of RDNs.
func (d *DN) Depth() int { return len(d.RDNs) }

// RDN returns the leaf RDN, or nil for the root DSE.
func (d *DN) RDN() RDN {
	if len(d.RDNs) == 0 {
		return nil
	}
	return d.RDNs[0]
}

// Parent returns the DN with the leaf RDN removed. The parent of the root
// DSE is the root DSE itself.
func (d *DN) Parent() *DN {
	if len(d.RDNs) <= 1 {
		return &DN{}
	}
	return &DN{RDNs: d.RDNs[1:]}
}

// IsDescendantOf reports whether d sits strictly below ancestor.
//
// Example:
//
//	uid=alice,ou=users,dc=example,dc=com is a descendant of dc=example,dc=com
func (d *DN) IsDescendantOf(ancestor *DN) bool {
	n := len(ancestor.RDNs)
	if len(d.RDNs) <= n {
		return false
	}
	offset := len(d.RDNs) - n
	for i := 0; i < n; i++ {
		if !equalRDNFold(d.RDNs[offset+i], ancestor.RDNs[i]) {
			return false
		}
	}
	return true
}

// IsDirectChildOf reports whether d is exactly one level below parent.
func (d *DN) IsDirectChildOf(parent *DN) bool {
	return len(d.RDNs) == len(parent.RDNs)+1 && d.IsDescendantOf(parent)
}

// Equal compares two DNs case-insensitively, without schema knowledge.
// Use Normalize for schema-aware comparison.
func (d *DN) Equal(other *DN) bool {
	if len(d.RDNs) != len(other.RDNs) {
		return false
	}
	for i := range d.RDNs {
		if !equalRDNFold(d.RDNs[i], other.RDNs[i]) {
			return false
		}
	}
	return true
}

func equalRDNFold(a, b RDN) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i].Type, b[i].Type) || !strings.EqualFold(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// Normalize renders the canonical form of the DN: attribute types are
// replaced by their registered primary name in lower case, and each value
// is normalized by the equality matching rule of its attribute type.
// Unknown attribute types fall back to lower-casing the type and case-folded
// value comparison. Multi-valued RDNs are ordered by type, so equivalent
// DNs always normalize to the same string.
func (d *DN) Normalize(r *schema.Registries) (string, error) {
	rdns := make([]string, len(d.RDNs))
	for i, rdn := range d.RDNs {
		avas := make([]string, len(rdn))
		for j, ava := range rdn {
			attrType := strings.ToLower(ava.Type)
			value := ava.Value

			if at, err := r.AttributeType(ava.Type); err == nil {
				attrType = strings.ToLower(at.Name())
				if eq := at.EffectiveEquality(); eq != nil && eq.Normalizer() != nil {
					normalized, err := eq.Normalizer().Normalize(value)
					if err != nil {
						return "", err
					}
					value = normalized
				} else {
					value = strings.ToLower(value)
				}
			} else {
				value = strings.ToLower(value)
			}
			avas[j] = attrType + "=" + escape(value)
		}
		sort.Strings(avas)
		rdns[i] = strings.Join(avas, "+")
	}
	return strings.Join(rdns, ","), nil
}

// Normalize parses and normalizes a DN string against the registries.
func Normalize(s string, r *schema.Registries) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	return d.Normalize(r)
}

// Compare reports whether two DN strings name the same entry under the
// schema in r.
func Compare(a, b string, r *schema.Registries) (bool, error) {
	na, err := Normalize(a, r)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b, r)
	if err != nil {
		return false, err
	}
	return na == nb, nil
}

// splitEscaped splits s on sep, honoring backslash escapes.
func splitEscaped(s string, sep byte) ([]string, error) {
	var parts []string
	var current strings.Builder
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			current.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			current.WriteByte(c)
			escaped = true
			continue
		}
		if c == sep {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	if escaped {
		return nil, ErrTrailingEscape
	}
	parts = append(parts, current.String())
	return parts, nil
}

// indexEscaped returns the index of the first unescaped occurrence of sep.
func indexEscaped(s string, sep byte) (int, error) {
	escaped := false
	for i := 0; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		if s[i] == '\\' {
			escaped = true
			continue
		}
		if s[i] == sep {
			return i, nil
		}
	}
	if escaped {
		return -1, ErrTrailingEscape
	}
	return -1, nil
}

const hexDigits = "0123456789abcdef"

// unescape resolves backslash escapes in an attribute value: "\\2C" style
// hex pairs and single escaped characters.
func unescape(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", ErrTrailingEscape
		}
		if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(hexVal(s[i+1])<<4 | hexVal(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i+1])
		i++
	}
	return b.String(), nil
}

// escape renders a value with RFC 4514 escaping: leading/trailing spaces,
// leading '#', and the special characters ",+\"\\<>;=".
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' && (i == 0 || i == len(s)-1):
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '#' && i == 0:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == ',' || c == '+' || c == '"' || c == '\\' || c == '<' || c == '>' || c == ';' || c == '=':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20:
			b.WriteByte('\\')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xF])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
