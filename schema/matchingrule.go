package schema

// MatchingRule defines how attribute values are compared for equality,
// ordering, and substring matching operations.
//
// Besides its declared syntax, a matching rule is linked to the Normalizer
// and Comparator registered under the rule's own OID. When none is
// registered, linking substitutes a no-op normalizer and a byte-wise
// equality comparator so that value comparison degrades gracefully instead
// of failing directory operations outright.
type MatchingRule struct {
	object

	syntaxOID string

	syntax     *LdapSyntax
	normalizer *Normalizer
	comparator *Comparator
}

// NewMatchingRule creates an unlocked MatchingRule with the given OID and
// names.
func NewMatchingRule(oid string, names ...string) *MatchingRule {
	return &MatchingRule{
		object: newObject(CategoryMatchingRule, oid, names...),
	}
}

// SyntaxOID returns the OID of the syntax this rule applies to.
func (mr *MatchingRule) SyntaxOID() string { return mr.syntaxOID }

// Syntax returns the resolved syntax, or nil before linking or when the
// relation did not resolve.
func (mr *MatchingRule) Syntax() *LdapSyntax { return mr.syntax }

// Normalizer returns the rule's normalizer. Never nil after linking.
func (mr *MatchingRule) Normalizer() *Normalizer { return mr.normalizer }

// Comparator returns the rule's comparator. Never nil after linking.
func (mr *MatchingRule) Comparator() *Comparator { return mr.comparator }

// SetSyntaxOID sets the syntax reference. Fails on a locked object.
func (mr *MatchingRule) SetSyntaxOID(oid string) error {
	if err := mr.checkMutable(); err != nil {
		return err
	}
	mr.syntaxOID = oid
	return nil
}

// Match normalizes both values with the rule's normalizer and compares them
// with the rule's comparator. It reports whether the values match and,
// for ordering rules, returns a negative, zero, or positive comparison
// result. Safe to call on an unlinked rule, falling back to byte-wise
// comparison.
func (mr *MatchingRule) Match(a, b string) (int, error) {
	na, err := mr.normalize(a)
	if err != nil {
		return 0, err
	}
	nb, err := mr.normalize(b)
	if err != nil {
		return 0, err
	}
	if mr.comparator != nil {
		return mr.comparator.Compare(na, nb), nil
	}
	return compareBytes(na, nb), nil
}

func (mr *MatchingRule) normalize(s string) (string, error) {
	if mr.normalizer == nil {
		return s, nil
	}
	return mr.normalizer.Normalize(s)
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (mr *MatchingRule) Copy() Object {
	return &MatchingRule{
		object:    mr.copyBase(),
		syntaxOID: mr.syntaxOID,
	}
}

// MatchingRuleUse lists the attribute types a matching rule may be applied
// to in extensible match filters. Per RFC 4512 a matching rule use carries
// the same OID as the matching rule it describes, so this category does not
// take part in the global OID namespace.
type MatchingRuleUse struct {
	object

	appliesOIDs []string

	matchingRule *MatchingRule
	applies      []*AttributeType
}

// NewMatchingRuleUse creates an unlocked MatchingRuleUse with the given OID
// and names. The OID must be that of the described matching rule.
func NewMatchingRuleUse(oid string, names ...string) *MatchingRuleUse {
	return &MatchingRuleUse{
		object: newObject(CategoryMatchingRuleUse, oid, names...),
	}
}

// AppliesOIDs returns the OIDs or names of the applicable attribute types.
func (mru *MatchingRuleUse) AppliesOIDs() []string { return mru.appliesOIDs }

// MatchingRule returns the resolved matching rule, or nil before linking.
func (mru *MatchingRuleUse) MatchingRule() *MatchingRule { return mru.matchingRule }

// Applies returns the resolved applicable attribute types. Empty before
// linking.
func (mru *MatchingRuleUse) Applies() []*AttributeType { return mru.applies }

// SetAppliesOIDs sets the applicable attribute type references.
// Fails on a locked object.
func (mru *MatchingRuleUse) SetAppliesOIDs(oids []string) error {
	if err := mru.checkMutable(); err != nil {
		return err
	}
	mru.appliesOIDs = oids
	return nil
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (mru *MatchingRuleUse) Copy() Object {
	return &MatchingRuleUse{
		object:      mru.copyBase(),
		appliesOIDs: append([]string(nil), mru.appliesOIDs...),
	}
}
