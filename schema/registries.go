package schema

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
)

// Registries is the aggregate registry: one category registry per schema
// object category, the shared name table, and the usage graph recording
// which object refers to which. It is the single entry point for
// registering, linking, and looking up schema objects.
//
// Registries is not safe for concurrent mutation. The intended pattern is
// single-writer, many-reader: either serialize all mutating calls
// externally, or build a full Copy, link against the copy, and atomically
// publish the new *Registries to readers.
type Registries struct {
	names *NameTable

	attributeTypes   *registry[*AttributeType]
	objectClasses    *registry[*ObjectClass]
	matchingRules    *registry[*MatchingRule]
	syntaxes         *registry[*LdapSyntax]
	syntaxCheckers   *registry[*SyntaxChecker]
	normalizers      *registry[*Normalizer]
	comparators      *registry[*Comparator]
	nameForms        *registry[*NameForm]
	contentRules     *registry[*DitContentRule]
	structureRules   *registry[*DitStructureRule]
	matchingRuleUses *registry[*MatchingRuleUse]

	// Usage graph. Both maps are kept mirror images of each other:
	// usedBy[b][a] exists exactly when using[a][b] does. Edges are keyed
	// by (category, OID) pairs rather than bare OIDs because RFC 4512
	// legitimately reuses an OID across categories (a matching rule use
	// shares its rule's OID, a content rule its structural class's);
	// bare OIDs would alias distinct edges into one.
	using  map[Reference]map[Reference]struct{}
	usedBy map[Reference]map[Reference]struct{}

	// relaxed suppresses mandatory-relation errors during linking.
	// Unresolved relations are still left nil and optional defaulting is
	// unchanged; the errors are just not reported.
	relaxed bool
}

// NewRegistries creates an empty aggregate registry.
func NewRegistries() *Registries {
	names := NewNameTable()
	return &Registries{
		names:            names,
		attributeTypes:   newRegistry[*AttributeType](CategoryAttributeType, names),
		objectClasses:    newRegistry[*ObjectClass](CategoryObjectClass, names),
		matchingRules:    newRegistry[*MatchingRule](CategoryMatchingRule, names),
		syntaxes:         newRegistry[*LdapSyntax](CategoryLdapSyntax, names),
		syntaxCheckers:   newRegistry[*SyntaxChecker](CategorySyntaxChecker, nil),
		normalizers:      newRegistry[*Normalizer](CategoryNormalizer, nil),
		comparators:      newRegistry[*Comparator](CategoryComparator, nil),
		nameForms:        newRegistry[*NameForm](CategoryNameForm, names),
		contentRules:     newRegistry[*DitContentRule](CategoryDitContentRule, nil),
		structureRules:   newRegistry[*DitStructureRule](CategoryDitStructureRule, names),
		matchingRuleUses: newRegistry[*MatchingRuleUse](CategoryMatchingRuleUse, nil),
		using:            make(map[Reference]map[Reference]struct{}),
		usedBy:           make(map[Reference]map[Reference]struct{}),
	}
}

// Names returns the shared name table.
func (r *Registries) Names() *NameTable { return r.names }

// Relaxed reports whether mandatory-relation checks are suppressed.
func (r *Registries) Relaxed() bool { return r.relaxed }

// SetRelaxed toggles relaxed mode. In relaxed mode linking leaves
// unresolved mandatory relations nil without reporting consistency errors.
func (r *Registries) SetRelaxed(relaxed bool) { r.relaxed = relaxed }

// AttributeType looks up an attribute type by OID or name.
func (r *Registries) AttributeType(nameOrOID string) (*AttributeType, error) {
	return r.attributeTypes.Get(nameOrOID)
}

// ObjectClass looks up an object class by OID or name.
func (r *Registries) ObjectClass(nameOrOID string) (*ObjectClass, error) {
	return r.objectClasses.Get(nameOrOID)
}

// MatchingRule looks up a matching rule by OID or name.
func (r *Registries) MatchingRule(nameOrOID string) (*MatchingRule, error) {
	return r.matchingRules.Get(nameOrOID)
}

// Syntax looks up a syntax by OID.
func (r *Registries) Syntax(oid string) (*LdapSyntax, error) {
	return r.syntaxes.Get(oid)
}

// SyntaxChecker looks up a syntax checker by the OID of its syntax.
func (r *Registries) SyntaxChecker(oid string) (*SyntaxChecker, error) {
	return r.syntaxCheckers.Get(oid)
}

// Normalizer looks up a normalizer by the OID of its matching rule.
func (r *Registries) Normalizer(oid string) (*Normalizer, error) {
	return r.normalizers.Get(oid)
}

// Comparator looks up a comparator by the OID of its matching rule.
func (r *Registries) Comparator(oid string) (*Comparator, error) {
	return r.comparators.Get(oid)
}

// NameForm looks up a name form by OID or name.
func (r *Registries) NameForm(nameOrOID string) (*NameForm, error) {
	return r.nameForms.Get(nameOrOID)
}

// DitContentRule looks up a DIT content rule by the OID of its structural
// class, or by the rule's own name.
func (r *Registries) DitContentRule(nameOrOID string) (*DitContentRule, error) {
	return r.contentRules.Get(nameOrOID)
}

// DitStructureRule looks up a DIT structure rule by rule ID.
func (r *Registries) DitStructureRule(ruleID int) (*DitStructureRule, error) {
	return r.structureRules.Get(strconv.Itoa(ruleID))
}

// MatchingRuleUse looks up a matching rule use by the OID of its matching
// rule, or by the use's own name.
func (r *Registries) MatchingRuleUse(nameOrOID string) (*MatchingRuleUse, error) {
	return r.matchingRuleUses.Get(nameOrOID)
}

// AttributeTypes iterates the registered attribute types in insertion
// order.
func (r *Registries) AttributeTypes() iter.Seq[*AttributeType] {
	return r.attributeTypes.Iterate()
}

// ObjectClasses iterates the registered object classes in insertion order.
func (r *Registries) ObjectClasses() iter.Seq[*ObjectClass] {
	return r.objectClasses.Iterate()
}

// MatchingRules iterates the registered matching rules in insertion order.
func (r *Registries) MatchingRules() iter.Seq[*MatchingRule] {
	return r.matchingRules.Iterate()
}

// Syntaxes iterates the registered syntaxes in insertion order.
func (r *Registries) Syntaxes() iter.Seq[*LdapSyntax] {
	return r.syntaxes.Iterate()
}

// All iterates every registered schema object, category by category in
// linking order, each category in insertion order.
func (r *Registries) All() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, it := range r.allByCategory() {
			for obj := range it {
				if !yield(obj) {
					return
				}
			}
		}
	}
}

// allByCategory returns one Object sequence per category, ordered so that
// linking an empty target set in this order resolves forward references
// within each pass as far as possible: leaf categories first, dependent
// categories later.
func (r *Registries) allByCategory() []iter.Seq[Object] {
	return []iter.Seq[Object]{
		asObjects(r.syntaxCheckers.Iterate()),
		asObjects(r.normalizers.Iterate()),
		asObjects(r.comparators.Iterate()),
		asObjects(r.syntaxes.Iterate()),
		asObjects(r.matchingRules.Iterate()),
		asObjects(r.attributeTypes.Iterate()),
		asObjects(r.objectClasses.Iterate()),
		asObjects(r.matchingRuleUses.Iterate()),
		asObjects(r.nameForms.Iterate()),
		asObjects(r.contentRules.Iterate()),
		asObjects(r.structureRules.Iterate()),
	}
}

func asObjects[T Object](seq iter.Seq[T]) iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for obj := range seq {
			if !yield(obj) {
				return
			}
		}
	}
}

// Reference identifies one schema object in the usage graph.
type Reference struct {
	Category Category
	OID      string
}

// RefOf returns the usage graph key of obj.
func RefOf(obj Object) Reference {
	return Reference{Category: obj.Category(), OID: obj.OID()}
}

// String returns the reference in "category:oid" form.
func (ref Reference) String() string {
	return ref.Category.String() + ":" + ref.OID
}

// AddReference records that user refers to used. The edge is stored
// mirrored in both directions and adding it twice is a no-op.
func (r *Registries) AddReference(user, used Object) {
	r.addEdge(RefOf(user), RefOf(used))
}

// DelReference removes the mirrored edge between user and used. Removing
// an absent edge is a no-op.
func (r *Registries) DelReference(user, used Object) {
	r.delEdge(RefOf(user), RefOf(used))
}

func (r *Registries) addEdge(user, used Reference) {
	if r.using[user] == nil {
		r.using[user] = make(map[Reference]struct{})
	}
	r.using[user][used] = struct{}{}
	if r.usedBy[used] == nil {
		r.usedBy[used] = make(map[Reference]struct{})
	}
	r.usedBy[used][user] = struct{}{}
}

func (r *Registries) delEdge(user, used Reference) {
	if set := r.using[user]; set != nil {
		delete(set, used)
		if len(set) == 0 {
			delete(r.using, user)
		}
	}
	if set := r.usedBy[used]; set != nil {
		delete(set, user)
		if len(set) == 0 {
			delete(r.usedBy, used)
		}
	}
}

// GetUsing returns the references obj holds to other objects, sorted.
func (r *Registries) GetUsing(obj Object) []Reference {
	return sortedRefs(r.using[RefOf(obj)])
}

// GetUsedBy returns the references other objects hold to obj, sorted. A
// non-empty result means removing obj would leave dangling references;
// whether to refuse the removal is the caller's policy, not the
// registry's.
func (r *Registries) GetUsedBy(obj Object) []Reference {
	return sortedRefs(r.usedBy[RefOf(obj)])
}

func sortedRefs(set map[Reference]struct{}) []Reference {
	if len(set) == 0 {
		return nil
	}
	refs := make([]Reference, 0, len(set))
	for ref := range set {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].String() < refs[j].String() })
	return refs
}

// Register adds the object to its category registry and links it. A
// duplicate OID or name fails the whole registration and leaves existing
// state untouched. Consistency errors found while linking are appended to
// errs; the object is still registered and locked, with the unresolved
// relations left nil.
func (r *Registries) Register(obj Object, errs *ErrorList) error {
	if err := r.put(obj); err != nil {
		return err
	}
	r.Link(obj, errs)
	return nil
}

// Deregister unlinks the object and removes it from its category registry,
// releasing its OID and names. The object ends unlocked with its resolved
// references cleared; its OID-string fields are preserved, so it can be
// registered again later.
func (r *Registries) Deregister(obj Object, errs *ErrorList) error {
	r.Unlink(obj, errs)
	if err := r.remove(obj); err != nil {
		return err
	}
	obj.base().unlock()
	return nil
}

func (r *Registries) put(obj Object) error {
	switch t := obj.(type) {
	case *AttributeType:
		return r.attributeTypes.Put(t)
	case *ObjectClass:
		return r.objectClasses.Put(t)
	case *MatchingRule:
		return r.matchingRules.Put(t)
	case *LdapSyntax:
		return r.syntaxes.Put(t)
	case *SyntaxChecker:
		return r.syntaxCheckers.Put(t)
	case *Normalizer:
		return r.normalizers.Put(t)
	case *Comparator:
		return r.comparators.Put(t)
	case *NameForm:
		return r.nameForms.Put(t)
	case *DitContentRule:
		return r.contentRules.Put(t)
	case *DitStructureRule:
		return r.structureRules.Put(t)
	case *MatchingRuleUse:
		return r.matchingRuleUses.Put(t)
	default:
		return fmt.Errorf("unsupported schema object %T", obj)
	}
}

func (r *Registries) remove(obj Object) error {
	switch t := obj.(type) {
	case *AttributeType:
		return r.attributeTypes.Remove(t.OID())
	case *ObjectClass:
		return r.objectClasses.Remove(t.OID())
	case *MatchingRule:
		return r.matchingRules.Remove(t.OID())
	case *LdapSyntax:
		return r.syntaxes.Remove(t.OID())
	case *SyntaxChecker:
		return r.syntaxCheckers.Remove(t.OID())
	case *Normalizer:
		return r.normalizers.Remove(t.OID())
	case *Comparator:
		return r.comparators.Remove(t.OID())
	case *NameForm:
		return r.nameForms.Remove(t.OID())
	case *DitContentRule:
		return r.contentRules.Remove(t.OID())
	case *DitStructureRule:
		return r.structureRules.Remove(t.OID())
	case *MatchingRuleUse:
		return r.matchingRuleUses.Remove(t.OID())
	default:
		return fmt.Errorf("unsupported schema object %T", obj)
	}
}

// Link resolves the object's OID-string relations into live references and
// records the usage edges. It dispatches to the linker for the object's
// category, bracketing the call in unlock/relock so the object always ends
// locked, even when the linker fails half way. Unresolvable mandatory
// relations are reported into errs unless relaxed mode is on; unresolvable
// optional relations are replaced by their documented defaults. One bad
// definition never aborts the linking of the rest of a bulk load.
func (r *Registries) Link(obj Object, errs *ErrorList) {
	b := obj.base()
	b.unlock()
	defer b.lock()
	if l, ok := linkers[obj.Category()]; ok {
		l.link(r, obj, errs)
	}
}

// Unlink is the inverse of Link: it removes exactly the usage edges linking
// added for this object and clears the resolved references. OID-string
// fields are left untouched. The object ends locked; Deregister unlocks it
// after removal.
func (r *Registries) Unlink(obj Object, errs *ErrorList) {
	b := obj.base()
	b.unlock()
	defer b.lock()
	if l, ok := linkers[obj.Category()]; ok {
		l.unlink(r, obj, errs)
	}
}

// RenameSchema retags every object of the schema module oldName with
// newName. References are untouched; no relinking happens. Returns the
// number of retagged objects.
func (r *Registries) RenameSchema(oldName, newName string) int {
	n := 0
	for obj := range r.All() {
		if obj.SchemaName() != oldName {
			continue
		}
		b := obj.base()
		wasLocked := b.locked
		b.locked = false
		b.schemaName = newName
		b.locked = wasLocked
		n++
	}
	return n
}

// Copy builds a fully detached copy of the registries: every object is
// deep-copied unlocked, re-registered against a fresh name table, and
// relinked. Consistency errors produced by relinking are appended to errs.
// The copy is the foundation of the copy-then-swap update pattern: mutate
// the copy freely, then publish it to readers in one assignment.
func (r *Registries) Copy(errs *ErrorList) (*Registries, error) {
	c := NewRegistries()
	c.relaxed = r.relaxed
	for obj := range r.All() {
		if err := c.put(obj.Copy()); err != nil {
			return nil, err
		}
	}
	for obj := range c.All() {
		c.Link(obj, errs)
	}
	return c, nil
}
