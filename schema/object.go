package schema

import (
	"fmt"
	"strings"
)

// Category identifies the kind of a schema object. Every object carries its
// category so that the registries can dispatch registration, linking, and
// lookup without inspecting the concrete type.
type Category int

const (
	// CategoryAttributeType identifies attribute type definitions.
	CategoryAttributeType Category = iota
	// CategoryObjectClass identifies object class definitions.
	CategoryObjectClass
	// CategoryMatchingRule identifies matching rule definitions.
	CategoryMatchingRule
	// CategoryLdapSyntax identifies syntax definitions.
	CategoryLdapSyntax
	// CategorySyntaxChecker identifies syntax checker implementations.
	CategorySyntaxChecker
	// CategoryNormalizer identifies normalizer implementations.
	CategoryNormalizer
	// CategoryComparator identifies comparator implementations.
	CategoryComparator
	// CategoryNameForm identifies name form definitions.
	CategoryNameForm
	// CategoryDitContentRule identifies DIT content rule definitions.
	CategoryDitContentRule
	// CategoryMatchingRuleUse identifies matching rule use definitions.
	CategoryMatchingRuleUse
	// CategoryDitStructureRule identifies DIT structure rule definitions.
	CategoryDitStructureRule
)

// String returns the human-readable name of the category.
func (c Category) String() string {
	switch c {
	case CategoryAttributeType:
		return "attributeType"
	case CategoryObjectClass:
		return "objectClass"
	case CategoryMatchingRule:
		return "matchingRule"
	case CategoryLdapSyntax:
		return "ldapSyntax"
	case CategorySyntaxChecker:
		return "syntaxChecker"
	case CategoryNormalizer:
		return "normalizer"
	case CategoryComparator:
		return "comparator"
	case CategoryNameForm:
		return "nameForm"
	case CategoryDitContentRule:
		return "dITContentRule"
	case CategoryMatchingRuleUse:
		return "matchingRuleUse"
	case CategoryDitStructureRule:
		return "dITStructureRule"
	default:
		return "unknown"
	}
}

// Object is implemented by every schema object variant: AttributeType,
// ObjectClass, MatchingRule, LdapSyntax, SyntaxChecker, Normalizer,
// Comparator, NameForm, DitContentRule, MatchingRuleUse, and
// DitStructureRule.
//
// Objects are created unlocked, populated with the OID strings of the
// definitions they refer to, and handed to Registries.Register. Registration
// resolves the OID strings into live references and locks the object.
// A locked object rejects all mutation until the registries unlock it again
// inside a controlled bracket.
type Object interface {
	// OID returns the dotted-decimal identifier of the object. For a
	// DitStructureRule this is the decimal string form of its rule ID.
	OID() string
	// Name returns the primary short name, or the OID if the object has
	// no names.
	Name() string
	// Names returns all short names in registration order.
	Names() []string
	// Description returns the DESC field of the definition.
	Description() string
	// Obsolete reports whether the definition is marked OBSOLETE.
	Obsolete() bool
	// SchemaName returns the name of the schema module the object
	// belongs to.
	SchemaName() string
	// Extensions returns the X- extensions of the definition.
	Extensions() map[string][]string
	// Category returns the object's category tag.
	Category() Category
	// Locked reports whether the object is registered and immutable.
	Locked() bool
	// Copy returns a detached, unlocked copy of the object. All resolved
	// references are cleared; OID strings, names, and flags are preserved,
	// so the copy can be linked into a different set of registries.
	Copy() Object

	base() *object
}

// object carries the fields common to all schema object variants.
// Concrete variants embed it by value.
type object struct {
	oid         string
	names       []string
	description string
	obsolete    bool
	schemaName  string
	extensions  map[string][]string
	locked      bool
	category    Category
}

func newObject(category Category, oid string, names ...string) object {
	return object{
		oid:      oid,
		names:    names,
		category: category,
	}
}

func (o *object) base() *object { return o }

// OID returns the object's dotted-decimal identifier.
func (o *object) OID() string { return o.oid }

// Name returns the primary name, or the OID when no name is set.
func (o *object) Name() string {
	if len(o.names) > 0 {
		return o.names[0]
	}
	return o.oid
}

// Names returns all names of the object in order.
func (o *object) Names() []string { return o.names }

// Description returns the object's description.
func (o *object) Description() string { return o.description }

// Obsolete reports whether the object is marked obsolete.
func (o *object) Obsolete() bool { return o.obsolete }

// SchemaName returns the schema module this object belongs to.
func (o *object) SchemaName() string { return o.schemaName }

// Extensions returns the vendor extensions of the object.
func (o *object) Extensions() map[string][]string { return o.extensions }

// Category returns the object's category tag.
func (o *object) Category() Category { return o.category }

// Locked reports whether the object is currently immutable.
func (o *object) Locked() bool { return o.locked }

// HasName reports whether name matches one of the object's names,
// compared case-insensitively.
func (o *object) HasName(name string) bool {
	for _, n := range o.names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// checkMutable returns ErrLockedObject when the object is locked.
func (o *object) checkMutable() error {
	if o.locked {
		return fmt.Errorf("%s %s: %w", o.category, o.Name(), ErrLockedObject)
	}
	return nil
}

// SetDescription sets the description. Fails on a locked object.
func (o *object) SetDescription(desc string) error {
	if err := o.checkMutable(); err != nil {
		return err
	}
	o.description = desc
	return nil
}

// SetObsolete sets the obsolete flag. Fails on a locked object.
func (o *object) SetObsolete(obsolete bool) error {
	if err := o.checkMutable(); err != nil {
		return err
	}
	o.obsolete = obsolete
	return nil
}

// SetSchemaName tags the object with the schema module it belongs to.
// Fails on a locked object.
func (o *object) SetSchemaName(name string) error {
	if err := o.checkMutable(); err != nil {
		return err
	}
	o.schemaName = name
	return nil
}

// AddName appends an alias name, ignoring case-insensitive duplicates.
// Fails on a locked object.
func (o *object) AddName(name string) error {
	if err := o.checkMutable(); err != nil {
		return err
	}
	if !o.HasName(name) {
		o.names = append(o.names, name)
	}
	return nil
}

// SetExtension sets a vendor extension. Fails on a locked object.
func (o *object) SetExtension(key string, values ...string) error {
	if err := o.checkMutable(); err != nil {
		return err
	}
	if o.extensions == nil {
		o.extensions = make(map[string][]string)
	}
	o.extensions[key] = values
	return nil
}

// lock marks the object immutable. Called by the registries at the end of
// every linking bracket.
func (o *object) lock() { o.locked = true }

// unlock opens the object for mutation. Only the registries call this, at
// the start of a linking bracket.
func (o *object) unlock() { o.locked = false }

// setPrimaryName makes name the first entry of the name list, inserting it
// when absent. Used by rename, which runs inside an unlock bracket.
func (o *object) setPrimaryName(name string) {
	names := make([]string, 0, len(o.names)+1)
	names = append(names, name)
	for _, n := range o.names {
		if !strings.EqualFold(n, name) {
			names = append(names, n)
		}
	}
	o.names = names
}

// containsFold reports whether list contains s, compared case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// copyBase returns an unlocked value copy of the shared fields with the
// name list and extension map detached from the original.
func (o *object) copyBase() object {
	c := *o
	c.locked = false
	if o.names != nil {
		c.names = append([]string(nil), o.names...)
	}
	if o.extensions != nil {
		c.extensions = make(map[string][]string, len(o.extensions))
		for k, v := range o.extensions {
			c.extensions[k] = append([]string(nil), v...)
		}
	}
	return c
}
