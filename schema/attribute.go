package schema

// AttributeUsage defines how an attribute is used in the directory.
// This determines whether the attribute is user-modifiable and its scope.
type AttributeUsage int

const (
	// UserApplications indicates a user attribute that applications can read
	// and write. This is the default usage for most attributes.
	UserApplications AttributeUsage = iota

	// DirectoryOperation indicates an operational attribute used by the
	// directory for its own purposes. These are typically read-only for users.
	DirectoryOperation

	// DistributedOperation indicates an operational attribute that is shared
	// across multiple directory servers in a distributed environment.
	DistributedOperation

	// DSAOperation indicates an operational attribute specific to a single
	// Directory System Agent (DSA). These are local to each server.
	DSAOperation
)

// String returns the string representation of the AttributeUsage.
func (u AttributeUsage) String() string {
	switch u {
	case UserApplications:
		return "userApplications"
	case DirectoryOperation:
		return "directoryOperation"
	case DistributedOperation:
		return "distributedOperation"
	case DSAOperation:
		return "dSAOperation"
	default:
		return "unknown"
	}
}

// IsOperational returns true if this usage indicates an operational attribute.
func (u AttributeUsage) IsOperational() bool {
	return u != UserApplications
}

// AttributeType represents an LDAP attribute type definition.
//
// The superior, matching rule, and syntax relations are carried twice: as
// the OID strings taken from the textual definition, and as live references
// resolved by Registries.Link. Before linking only the OID strings are set.
type AttributeType struct {
	object

	superiorOID  string
	equalityOID  string
	orderingOID  string
	substringOID string
	syntaxOID    string
	singleValue  bool
	collective   bool
	noUserMod    bool
	usage        AttributeUsage

	superior  *AttributeType
	equality  *MatchingRule
	ordering  *MatchingRule
	substring *MatchingRule
	syntax    *LdapSyntax
}

// NewAttributeType creates an unlocked AttributeType with the given OID and
// names. The default usage is UserApplications.
func NewAttributeType(oid string, names ...string) *AttributeType {
	return &AttributeType{
		object: newObject(CategoryAttributeType, oid, names...),
		usage:  UserApplications,
	}
}

// SuperiorOID returns the OID or name of the parent attribute type.
func (at *AttributeType) SuperiorOID() string { return at.superiorOID }

// EqualityOID returns the OID or name of the equality matching rule.
func (at *AttributeType) EqualityOID() string { return at.equalityOID }

// OrderingOID returns the OID or name of the ordering matching rule.
func (at *AttributeType) OrderingOID() string { return at.orderingOID }

// SubstringOID returns the OID or name of the substring matching rule.
func (at *AttributeType) SubstringOID() string { return at.substringOID }

// SyntaxOID returns the OID of the attribute's syntax.
func (at *AttributeType) SyntaxOID() string { return at.syntaxOID }

// Superior returns the resolved parent attribute type, or nil before
// linking or when the relation did not resolve.
func (at *AttributeType) Superior() *AttributeType { return at.superior }

// Equality returns the resolved equality matching rule, or nil.
func (at *AttributeType) Equality() *MatchingRule { return at.equality }

// Ordering returns the resolved ordering matching rule, or nil.
func (at *AttributeType) Ordering() *MatchingRule { return at.ordering }

// Substring returns the resolved substring matching rule, or nil.
func (at *AttributeType) Substring() *MatchingRule { return at.substring }

// Syntax returns the resolved syntax, or nil.
func (at *AttributeType) Syntax() *LdapSyntax { return at.syntax }

// SingleValue returns true if the attribute can have only one value.
func (at *AttributeType) SingleValue() bool { return at.singleValue }

// Collective returns true if the attribute is collective.
func (at *AttributeType) Collective() bool { return at.collective }

// NoUserModification returns true if users cannot modify the attribute.
func (at *AttributeType) NoUserModification() bool { return at.noUserMod }

// Usage returns how the attribute is used.
func (at *AttributeType) Usage() AttributeUsage { return at.usage }

// IsOperational returns true if this is an operational attribute.
func (at *AttributeType) IsOperational() bool { return at.usage.IsOperational() }

// IsUserAttribute returns true if this is a user-modifiable attribute.
func (at *AttributeType) IsUserAttribute() bool {
	return at.usage == UserApplications && !at.noUserMod
}

// SetSuperiorOID sets the parent attribute type reference.
// Fails on a locked object.
func (at *AttributeType) SetSuperiorOID(oid string) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.superiorOID = oid
	return nil
}

// SetEqualityOID sets the equality matching rule reference.
// Fails on a locked object.
func (at *AttributeType) SetEqualityOID(oid string) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.equalityOID = oid
	return nil
}

// SetOrderingOID sets the ordering matching rule reference.
// Fails on a locked object.
func (at *AttributeType) SetOrderingOID(oid string) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.orderingOID = oid
	return nil
}

// SetSubstringOID sets the substring matching rule reference.
// Fails on a locked object.
func (at *AttributeType) SetSubstringOID(oid string) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.substringOID = oid
	return nil
}

// SetSyntaxOID sets the syntax reference. Fails on a locked object.
func (at *AttributeType) SetSyntaxOID(oid string) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.syntaxOID = oid
	return nil
}

// SetSingleValue sets the SINGLE-VALUE flag. Fails on a locked object.
func (at *AttributeType) SetSingleValue(single bool) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.singleValue = single
	return nil
}

// SetCollective sets the COLLECTIVE flag. Fails on a locked object.
func (at *AttributeType) SetCollective(collective bool) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.collective = collective
	return nil
}

// SetNoUserModification sets the NO-USER-MODIFICATION flag.
// Fails on a locked object.
func (at *AttributeType) SetNoUserModification(noUserMod bool) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.noUserMod = noUserMod
	return nil
}

// SetUsage sets the attribute usage. Fails on a locked object.
func (at *AttributeType) SetUsage(usage AttributeUsage) error {
	if err := at.checkMutable(); err != nil {
		return err
	}
	at.usage = usage
	return nil
}

// EffectiveSyntax returns the attribute's own syntax, or the nearest syntax
// inherited through the superior chain. Returns nil when nothing resolved.
// Cycles in the superior chain are tolerated.
func (at *AttributeType) EffectiveSyntax() *LdapSyntax {
	seen := make(map[string]bool)
	for cur := at; cur != nil && !seen[cur.OID()]; cur = cur.superior {
		seen[cur.OID()] = true
		if cur.syntax != nil {
			return cur.syntax
		}
	}
	return nil
}

// EffectiveEquality returns the attribute's own equality matching rule, or
// the nearest one inherited through the superior chain.
func (at *AttributeType) EffectiveEquality() *MatchingRule {
	seen := make(map[string]bool)
	for cur := at; cur != nil && !seen[cur.OID()]; cur = cur.superior {
		seen[cur.OID()] = true
		if cur.equality != nil {
			return cur.equality
		}
	}
	return nil
}

// EffectiveOrdering returns the attribute's own ordering matching rule, or
// the nearest one inherited through the superior chain.
func (at *AttributeType) EffectiveOrdering() *MatchingRule {
	seen := make(map[string]bool)
	for cur := at; cur != nil && !seen[cur.OID()]; cur = cur.superior {
		seen[cur.OID()] = true
		if cur.ordering != nil {
			return cur.ordering
		}
	}
	return nil
}

// EffectiveSubstring returns the attribute's own substring matching rule, or
// the nearest one inherited through the superior chain.
func (at *AttributeType) EffectiveSubstring() *MatchingRule {
	seen := make(map[string]bool)
	for cur := at; cur != nil && !seen[cur.OID()]; cur = cur.superior {
		seen[cur.OID()] = true
		if cur.substring != nil {
			return cur.substring
		}
	}
	return nil
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (at *AttributeType) Copy() Object {
	return &AttributeType{
		object:       at.copyBase(),
		superiorOID:  at.superiorOID,
		equalityOID:  at.equalityOID,
		orderingOID:  at.orderingOID,
		substringOID: at.substringOID,
		syntaxOID:    at.syntaxOID,
		singleValue:  at.singleValue,
		collective:   at.collective,
		noUserMod:    at.noUserMod,
		usage:        at.usage,
	}
}
