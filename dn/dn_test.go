package dn

import (
	"errors"
	"testing"

	"github.com/KilimcininKorOglu/dizin/schema"
)

func TestParse(t *testing.T) {
	d, err := Parse("uid=alice,ou=users,dc=example,dc=com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if d.Depth() != 4 {
		t.Errorf("expected depth 4, got %d", d.Depth())
	}
	if d.RDN().String() != "uid=alice" {
		t.Errorf("expected leaf uid=alice, got %s", d.RDN().String())
	}
	if d.RDNs[3][0].Type != "dc" || d.RDNs[3][0].Value != "com" {
		t.Errorf("unexpected root RDN: %+v", d.RDNs[3])
	}
}

func TestParseRoot(t *testing.T) {
	d, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !d.IsRoot() {
		t.Error("empty string should parse to the root DSE")
	}
	if d.String() != "" {
		t.Errorf("root DSE should render empty, got %q", d.String())
	}
}

func TestParseEscapedValue(t *testing.T) {
	d, err := Parse(`cn=Smith\, John,dc=example,dc=com`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", d.Depth())
	}
	if d.RDNs[0][0].Value != "Smith, John" {
		t.Errorf("expected unescaped value, got %q", d.RDNs[0][0].Value)
	}
	// Rendering escapes the comma again.
	if d.RDN().String() != `cn=Smith\, John` {
		t.Errorf("unexpected rendering: %s", d.RDN().String())
	}
}

func TestParseHexEscape(t *testing.T) {
	d, err := Parse(`cn=a\2Cb,dc=com`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.RDNs[0][0].Value != "a,b" {
		t.Errorf("expected hex escape resolved, got %q", d.RDNs[0][0].Value)
	}
}

func TestParseMultiValuedRDN(t *testing.T) {
	d, err := Parse("cn=John+sn=Smith,dc=example,dc=com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rdn := d.RDN()
	if len(rdn) != 2 {
		t.Fatalf("expected 2 AVAs, got %d", len(rdn))
	}
	if rdn[0].Type != "cn" || rdn[1].Type != "sn" {
		t.Errorf("unexpected AVAs: %+v", rdn)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		dn   string
		want error
	}{
		{"no-equals,dc=com", ErrInvalidRDN},
		{"=value,dc=com", ErrInvalidRDN},
		{"cn=a,,dc=com", ErrEmptyRDNComponent},
		{`cn=trailing\`, ErrTrailingEscape},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.dn); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q): expected %v, got %v", tt.dn, tt.want, err)
		}
	}
}

func TestParentAndChild(t *testing.T) {
	d, err := Parse("uid=alice,ou=users,dc=example,dc=com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	parent := d.Parent()
	if parent.String() != "ou=users,dc=example,dc=com" {
		t.Errorf("unexpected parent: %s", parent.String())
	}

	base, err := Parse("dc=example,dc=com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !d.IsDescendantOf(base) {
		t.Error("expected descendant of base")
	}
	if d.IsDirectChildOf(base) {
		t.Error("alice is two levels below base")
	}
	if !parent.IsDirectChildOf(base) {
		t.Error("ou=users should be a direct child of base")
	}
	if base.IsDescendantOf(d) {
		t.Error("base is not below alice")
	}
}

func TestEqualFold(t *testing.T) {
	a, _ := Parse("CN=Admin,DC=Example,DC=Com")
	b, _ := Parse("cn=admin,dc=example,dc=com")
	c, _ := Parse("cn=other,dc=example,dc=com")

	if !a.Equal(b) {
		t.Error("case difference should not matter")
	}
	if a.Equal(c) {
		t.Error("different values must not be equal")
	}
}

func TestNormalizeWithSchema(t *testing.T) {
	r, err := schema.Bootstrap()
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	// commonName is an alias of cn; caseIgnoreMatch folds the value and
	// collapses inner spaces.
	got, err := Normalize("commonName=Jane   Doe, DC=Example, DC=com", r)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "cn=jane doe,dc=example,dc=com" {
		t.Errorf("got %q", got)
	}

	equal, err := Compare("CN=Jane Doe,dc=example,dc=com", "commonname=jane  doe,DC=EXAMPLE,dc=com", r)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !equal {
		t.Error("expected schema-aware comparison to match")
	}

	// Unknown attribute types degrade to lower-casing.
	got, err = Normalize("xy=Value,dc=com", r)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "xy=value,dc=com" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeOrdersMultiValuedRDN(t *testing.T) {
	r, err := schema.Bootstrap()
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	a, err := Normalize("sn=Smith+cn=John,dc=com", r)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	b, err := Normalize("cn=John+sn=Smith,dc=com", r)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if a != b {
		t.Errorf("AVA order should not matter: %q vs %q", a, b)
	}
}
