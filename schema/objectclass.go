package schema

// ObjectClassKind represents the type of an LDAP object class.
// LDAP defines three kinds of object classes: abstract, structural, and
// auxiliary.
type ObjectClassKind int

const (
	// ObjectClassAbstract represents an abstract object class.
	// Abstract classes cannot be instantiated directly and serve as
	// templates for other object classes.
	ObjectClassAbstract ObjectClassKind = iota

	// ObjectClassStructural represents a structural object class.
	// Every entry must have exactly one structural object class.
	ObjectClassStructural

	// ObjectClassAuxiliary represents an auxiliary object class.
	// Auxiliary classes provide additional attributes to entries
	// and can be combined with structural classes.
	ObjectClassAuxiliary
)

// String returns the string representation of the ObjectClassKind.
func (k ObjectClassKind) String() string {
	switch k {
	case ObjectClassAbstract:
		return "ABSTRACT"
	case ObjectClassStructural:
		return "STRUCTURAL"
	case ObjectClassAuxiliary:
		return "AUXILIARY"
	default:
		return "UNKNOWN"
	}
}

// ObjectClass represents an LDAP object class definition. Object classes
// define the set of attributes that entries of that class must have (MUST)
// and may have (MAY).
type ObjectClass struct {
	object

	superiorOIDs []string
	kind         ObjectClassKind
	mustOIDs     []string
	mayOIDs      []string

	superiors []*ObjectClass
	must      []*AttributeType
	may       []*AttributeType
}

// NewObjectClass creates an unlocked ObjectClass with the given OID and
// names. The default kind is ObjectClassStructural.
func NewObjectClass(oid string, names ...string) *ObjectClass {
	return &ObjectClass{
		object: newObject(CategoryObjectClass, oid, names...),
		kind:   ObjectClassStructural,
	}
}

// SuperiorOIDs returns the OIDs or names of the parent object classes.
func (oc *ObjectClass) SuperiorOIDs() []string { return oc.superiorOIDs }

// MustOIDs returns the OIDs or names of the required attribute types.
func (oc *ObjectClass) MustOIDs() []string { return oc.mustOIDs }

// MayOIDs returns the OIDs or names of the optional attribute types.
func (oc *ObjectClass) MayOIDs() []string { return oc.mayOIDs }

// Kind returns whether the class is abstract, structural, or auxiliary.
func (oc *ObjectClass) Kind() ObjectClassKind { return oc.kind }

// Superiors returns the resolved parent object classes. Empty before
// linking.
func (oc *ObjectClass) Superiors() []*ObjectClass { return oc.superiors }

// Must returns the resolved required attribute types. Empty before linking.
func (oc *ObjectClass) Must() []*AttributeType { return oc.must }

// May returns the resolved optional attribute types. Empty before linking.
func (oc *ObjectClass) May() []*AttributeType { return oc.may }

// IsAbstract returns true if this is an abstract object class.
func (oc *ObjectClass) IsAbstract() bool { return oc.kind == ObjectClassAbstract }

// IsStructural returns true if this is a structural object class.
func (oc *ObjectClass) IsStructural() bool { return oc.kind == ObjectClassStructural }

// IsAuxiliary returns true if this is an auxiliary object class.
func (oc *ObjectClass) IsAuxiliary() bool { return oc.kind == ObjectClassAuxiliary }

// SetKind sets the object class kind. Fails on a locked object.
func (oc *ObjectClass) SetKind(kind ObjectClassKind) error {
	if err := oc.checkMutable(); err != nil {
		return err
	}
	oc.kind = kind
	return nil
}

// SetSuperiorOIDs sets the parent class references. Fails on a locked
// object.
func (oc *ObjectClass) SetSuperiorOIDs(oids []string) error {
	if err := oc.checkMutable(); err != nil {
		return err
	}
	oc.superiorOIDs = oids
	return nil
}

// SetMustOIDs sets the required attribute references. Fails on a locked
// object.
func (oc *ObjectClass) SetMustOIDs(oids []string) error {
	if err := oc.checkMutable(); err != nil {
		return err
	}
	oc.mustOIDs = oids
	return nil
}

// SetMayOIDs sets the optional attribute references. Fails on a locked
// object.
func (oc *ObjectClass) SetMayOIDs(oids []string) error {
	if err := oc.checkMutable(); err != nil {
		return err
	}
	oc.mayOIDs = oids
	return nil
}

// HasMustAttribute checks if the given attribute name or OID is in the
// class's own MUST list. Inherited attributes are not considered.
func (oc *ObjectClass) HasMustAttribute(attr string) bool {
	return containsFold(oc.mustOIDs, attr)
}

// HasMayAttribute checks if the given attribute name or OID is in the
// class's own MAY list. Inherited attributes are not considered.
func (oc *ObjectClass) HasMayAttribute(attr string) bool {
	return containsFold(oc.mayOIDs, attr)
}

// AllowsAttribute checks if the given attribute is allowed (either MUST or
// MAY) by this object class, ignoring inheritance.
func (oc *ObjectClass) AllowsAttribute(attr string) bool {
	return oc.HasMustAttribute(attr) || oc.HasMayAttribute(attr)
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (oc *ObjectClass) Copy() Object {
	return &ObjectClass{
		object:       oc.copyBase(),
		superiorOIDs: append([]string(nil), oc.superiorOIDs...),
		kind:         oc.kind,
		mustOIDs:     append([]string(nil), oc.mustOIDs...),
		mayOIDs:      append([]string(nil), oc.mayOIDs...),
	}
}
