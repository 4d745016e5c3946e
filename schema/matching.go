package schema

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// NormalizeFunc maps an attribute value to its canonical matching form.
type NormalizeFunc func(value string) (string, error)

// Normalizer wraps the value normalization step of a matching rule.
// Normalizers carry the OID of the matching rule they serve, so this
// category does not take part in the global OID namespace.
type Normalizer struct {
	object

	fn NormalizeFunc
}

// NewNormalizer creates an unlocked Normalizer for the matching rule with
// the given OID.
func NewNormalizer(oid string, fn NormalizeFunc, names ...string) *Normalizer {
	return &Normalizer{
		object: newObject(CategoryNormalizer, oid, names...),
		fn:     fn,
	}
}

// Normalize returns the canonical form of the value. A normalizer without
// a function returns the value unchanged.
func (n *Normalizer) Normalize(value string) (string, error) {
	if n.fn == nil {
		return value, nil
	}
	return n.fn(value)
}

// Copy returns a detached, unlocked copy. The normalize function is shared
// with the original; normalize functions are stateless.
func (n *Normalizer) Copy() Object {
	return &Normalizer{
		object: n.copyBase(),
		fn:     n.fn,
	}
}

// CompareFunc compares two normalized values, returning a negative, zero,
// or positive result.
type CompareFunc func(a, b string) int

// Comparator wraps the value comparison step of a matching rule. Like
// normalizers, comparators carry the OID of the matching rule they serve.
type Comparator struct {
	object

	fn CompareFunc
}

// NewComparator creates an unlocked Comparator for the matching rule with
// the given OID.
func NewComparator(oid string, fn CompareFunc, names ...string) *Comparator {
	return &Comparator{
		object: newObject(CategoryComparator, oid, names...),
		fn:     fn,
	}
}

// Compare compares two normalized values. A comparator without a function
// compares byte-wise.
func (c *Comparator) Compare(a, b string) int {
	if c.fn == nil {
		return compareBytes(a, b)
	}
	return c.fn(a, b)
}

// Copy returns a detached, unlocked copy. The compare function is shared
// with the original; compare functions are stateless.
func (c *Comparator) Copy() Object {
	return &Comparator{
		object: c.copyBase(),
		fn:     c.fn,
	}
}

// NoOpNormalizer returns the default normalizer substituted during linking
// when no normalizer is registered for a matching rule: it leaves values
// unchanged.
func NoOpNormalizer(oid string) *Normalizer {
	n := NewNormalizer(oid, nil)
	n.lock()
	return n
}

// EqualityComparator returns the default comparator substituted during
// linking when no comparator is registered for a matching rule: plain
// byte-wise comparison.
func EqualityComparator(oid string) *Comparator {
	c := NewComparator(oid, compareBytes)
	c.lock()
	return c
}

func compareBytes(a, b string) int {
	return strings.Compare(a, b)
}

// caseFolder performs full Unicode case folding, the canonical form used
// by the caseIgnore rule family.
var caseFolder = cases.Fold()

// NormalizeCaseIgnore is the normalization for the caseIgnore rule family:
// Unicode case folding plus insignificant-space handling (leading and
// trailing spaces removed, inner runs collapsed to a single space).
func NormalizeCaseIgnore(value string) (string, error) {
	return squashSpaces(caseFolder.String(value)), nil
}

// NormalizeCaseExact is the normalization for the caseExact rule family:
// only insignificant spaces are removed, case is preserved.
func NormalizeCaseExact(value string) (string, error) {
	return squashSpaces(value), nil
}

// NormalizeCaseIgnoreIA5 folds ASCII case and squashes spaces, per the
// caseIgnoreIA5 rules for IA5 (ASCII) strings.
func NormalizeCaseIgnoreIA5(value string) (string, error) {
	return squashSpaces(strings.ToLower(value)), nil
}

// NormalizeNumericString removes all spaces, per the numericString rules.
func NormalizeNumericString(value string) (string, error) {
	return strings.ReplaceAll(value, " ", ""), nil
}

// NormalizeTelephoneNumber removes spaces and hyphens, the separators that
// are insignificant in telephone numbers.
func NormalizeTelephoneNumber(value string) (string, error) {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, value), nil
}

// NormalizeOID trims spaces and folds case; OIDs and descriptors are
// matched case-insensitively by objectIdentifierMatch.
func NormalizeOID(value string) (string, error) {
	return strings.ToLower(strings.TrimSpace(value)), nil
}

// NormalizeDistinguishedName performs a string-level DN normalization:
// case folding plus removal of insignificant spaces around RDN separators.
// Full schema-aware DN normalization lives in the dn package; this form is
// what distinguishedNameMatch applies when only the registries are at hand.
func NormalizeDistinguishedName(value string) (string, error) {
	folded := caseFolder.String(value)
	parts := splitUnescaped(folded, ',')
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ","), nil
}

// NormalizeGeneralizedTime rewrites a generalized time value into the
// canonical UTC form with second precision, so that byte-wise comparison
// orders values chronologically. Values that do not parse are returned
// unchanged.
func NormalizeGeneralizedTime(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range generalizedTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC().Format("20060102150405Z"), nil
		}
	}
	return trimmed, nil
}

// NormalizeUUID rewrites a UUID value into the canonical lower-case
// hyphenated form. Values that do not parse are folded to lower case.
func NormalizeUUID(value string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value)), nil
	}
	return u.String(), nil
}

// CompareInteger compares two integer strings numerically. Values that do
// not parse as integers fall back to byte-wise comparison.
func CompareInteger(a, b string) int {
	na, aok := parseIntString(a)
	nb, bok := parseIntString(b)
	if !aok || !bok {
		return compareBytes(a, b)
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

func parseIntString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
		if s == "" {
			return 0, false
		}
	}
	var n int64
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// squashSpaces trims the value and collapses every inner run of spaces to
// a single space.
func squashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitUnescaped splits s on sep, ignoring separators preceded by a
// backslash.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var current strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			current.WriteByte(ch)
			escaped = false
		case ch == '\\':
			current.WriteByte(ch)
			escaped = true
		case ch == sep:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	parts = append(parts, current.String())
	return parts
}
