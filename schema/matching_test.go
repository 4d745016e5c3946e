package schema

import "testing"

func TestNormalizeCaseIgnore(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"Hello World", "hello world"},
		{"  spaced   out  ", "spaced out"},
		{"already lower", "already lower"},
		{"", ""},
	}

	for _, tt := range tests {
		result, err := NormalizeCaseIgnore(tt.value)
		if err != nil {
			t.Fatalf("NormalizeCaseIgnore(%q) returned error: %v", tt.value, err)
		}
		if result != tt.expected {
			t.Errorf("NormalizeCaseIgnore(%q) = %q, want %q", tt.value, result, tt.expected)
		}
	}
}

func TestNormalizeCaseExact(t *testing.T) {
	result, err := NormalizeCaseExact("  Hello   World  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", result)
	}
}

func TestNormalizeTelephoneNumber(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"+1 555 123-4567", "+15551234567"},
		{"(030) 12 34 56", "(030)123456"},
	}

	for _, tt := range tests {
		result, err := NormalizeTelephoneNumber(tt.value)
		if err != nil {
			t.Fatalf("NormalizeTelephoneNumber(%q) returned error: %v", tt.value, err)
		}
		if result != tt.expected {
			t.Errorf("NormalizeTelephoneNumber(%q) = %q, want %q", tt.value, result, tt.expected)
		}
	}
}

func TestNormalizeDistinguishedName(t *testing.T) {
	result, err := NormalizeDistinguishedName("CN=Admin , DC=Example, DC=Com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "cn=admin,dc=example,dc=com" {
		t.Errorf("got %q", result)
	}
}

func TestNormalizeGeneralizedTime(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"20240115103000Z", "20240115103000Z"},
		{"20240115123000+0200", "20240115103000Z"},
		{"not a time", "not a time"},
	}

	for _, tt := range tests {
		result, err := NormalizeGeneralizedTime(tt.value)
		if err != nil {
			t.Fatalf("NormalizeGeneralizedTime(%q) returned error: %v", tt.value, err)
		}
		if result != tt.expected {
			t.Errorf("NormalizeGeneralizedTime(%q) = %q, want %q", tt.value, result, tt.expected)
		}
	}
}

func TestNormalizeUUID(t *testing.T) {
	result, err := NormalizeUUID("550E8400-E29B-41D4-A716-446655440000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("got %q", result)
	}
}

func TestCompareInteger(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1", "2", -1},
		{"10", "9", 1},
		{"-5", "3", -1},
		{"42", "42", 0},
		{"007", "7", 0},
	}

	for _, tt := range tests {
		result := CompareInteger(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("CompareInteger(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
		}
	}
}

func TestMatchingRuleMatch(t *testing.T) {
	r := baseRegistries(t)

	mr, err := r.MatchingRule("caseIgnoreMatch")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	cmp, err := mr.Match("Hello  World", "hello world")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if cmp != 0 {
		t.Errorf("expected equal after normalization, got %d", cmp)
	}

	cmp, err = mr.Match("alpha", "beta")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if cmp >= 0 {
		t.Errorf("expected alpha < beta, got %d", cmp)
	}
}

func TestNoOpNormalizerAndEqualityComparator(t *testing.T) {
	n := NoOpNormalizer("2.5.13.99")
	out, err := n.Normalize("UnChanged  Value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "UnChanged  Value" {
		t.Errorf("no-op normalizer altered the value: %q", out)
	}
	if !n.Locked() {
		t.Error("default normalizer should be locked")
	}

	c := EqualityComparator("2.5.13.99")
	if c.Compare("a", "a") != 0 {
		t.Error("expected equal bytes to compare 0")
	}
	if c.Compare("a", "b") >= 0 {
		t.Error("expected a < b")
	}
	if !c.Locked() {
		t.Error("default comparator should be locked")
	}
}
