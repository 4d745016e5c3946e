package schema

// LdapSyntax represents an LDAP syntax definition. Syntaxes define the
// format of attribute values; the actual grammar matching is delegated to
// the SyntaxChecker registered under the same OID and linked by the
// registries.
type LdapSyntax struct {
	object

	humanReadable bool

	checker *SyntaxChecker
}

// NewLdapSyntax creates an unlocked LdapSyntax with the given OID and
// description. Syntaxes are human-readable unless marked otherwise.
func NewLdapSyntax(oid, description string) *LdapSyntax {
	s := &LdapSyntax{
		object:        newObject(CategoryLdapSyntax, oid),
		humanReadable: true,
	}
	s.description = description
	return s
}

// HumanReadable reports whether values of this syntax are human-readable.
func (s *LdapSyntax) HumanReadable() bool { return s.humanReadable }

// SetHumanReadable sets the human-readable flag. Fails on a locked object.
func (s *LdapSyntax) SetHumanReadable(humanReadable bool) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.humanReadable = humanReadable
	return nil
}

// Checker returns the resolved syntax checker, or nil before linking or
// when no checker is registered for the syntax's OID.
func (s *LdapSyntax) Checker() *SyntaxChecker { return s.checker }

// Validate checks the value against the linked syntax checker. Values of a
// syntax without a checker are accepted.
func (s *LdapSyntax) Validate(value []byte) bool {
	if s.checker == nil {
		return true
	}
	return s.checker.Check(value)
}

// Copy returns a detached, unlocked copy with the checker reference
// cleared.
func (s *LdapSyntax) Copy() Object {
	return &LdapSyntax{
		object:        s.copyBase(),
		humanReadable: s.humanReadable,
	}
}

// CheckFunc validates a value against a syntax grammar.
type CheckFunc func(value []byte) bool

// SyntaxChecker wraps the grammar matcher for one syntax. Checkers carry
// the OID of the syntax they validate, so this category does not take part
// in the global OID namespace.
type SyntaxChecker struct {
	object

	fn CheckFunc
}

// NewSyntaxChecker creates an unlocked SyntaxChecker for the syntax with
// the given OID.
func NewSyntaxChecker(oid string, fn CheckFunc, names ...string) *SyntaxChecker {
	return &SyntaxChecker{
		object: newObject(CategorySyntaxChecker, oid, names...),
		fn:     fn,
	}
}

// Check reports whether the value is valid for the syntax. A checker
// without a function accepts every value.
func (sc *SyntaxChecker) Check(value []byte) bool {
	if sc.fn == nil {
		return true
	}
	return sc.fn(value)
}

// Copy returns a detached, unlocked copy. The check function is shared
// with the original; check functions are stateless.
func (sc *SyntaxChecker) Copy() Object {
	return &SyntaxChecker{
		object: sc.copyBase(),
		fn:     sc.fn,
	}
}
