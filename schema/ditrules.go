package schema

import "strconv"

// NameForm restricts which attribute types may appear in the RDN of entries
// of a given structural object class.
type NameForm struct {
	object

	objectClassOID string
	mustOIDs       []string
	mayOIDs        []string

	objectClass *ObjectClass
	must        []*AttributeType
	may         []*AttributeType
}

// NewNameForm creates an unlocked NameForm with the given OID and names.
func NewNameForm(oid string, names ...string) *NameForm {
	return &NameForm{
		object: newObject(CategoryNameForm, oid, names...),
	}
}

// ObjectClassOID returns the OID or name of the governed structural class.
func (nf *NameForm) ObjectClassOID() string { return nf.objectClassOID }

// MustOIDs returns the OIDs or names of the required naming attributes.
func (nf *NameForm) MustOIDs() []string { return nf.mustOIDs }

// MayOIDs returns the OIDs or names of the optional naming attributes.
func (nf *NameForm) MayOIDs() []string { return nf.mayOIDs }

// ObjectClass returns the resolved structural class, or nil before linking.
func (nf *NameForm) ObjectClass() *ObjectClass { return nf.objectClass }

// Must returns the resolved required naming attributes.
func (nf *NameForm) Must() []*AttributeType { return nf.must }

// May returns the resolved optional naming attributes.
func (nf *NameForm) May() []*AttributeType { return nf.may }

// SetObjectClassOID sets the governed structural class reference.
// Fails on a locked object.
func (nf *NameForm) SetObjectClassOID(oid string) error {
	if err := nf.checkMutable(); err != nil {
		return err
	}
	nf.objectClassOID = oid
	return nil
}

// SetMustOIDs sets the required naming attribute references.
// Fails on a locked object.
func (nf *NameForm) SetMustOIDs(oids []string) error {
	if err := nf.checkMutable(); err != nil {
		return err
	}
	nf.mustOIDs = oids
	return nil
}

// SetMayOIDs sets the optional naming attribute references.
// Fails on a locked object.
func (nf *NameForm) SetMayOIDs(oids []string) error {
	if err := nf.checkMutable(); err != nil {
		return err
	}
	nf.mayOIDs = oids
	return nil
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (nf *NameForm) Copy() Object {
	return &NameForm{
		object:         nf.copyBase(),
		objectClassOID: nf.objectClassOID,
		mustOIDs:       append([]string(nil), nf.mustOIDs...),
		mayOIDs:        append([]string(nil), nf.mayOIDs...),
	}
}

// DitContentRule constrains the content of entries of one structural object
// class: which auxiliary classes they may carry and which attributes are
// required, allowed, or precluded. Per RFC 4512 a content rule carries the
// OID of the structural class it governs, so this category does not take
// part in the global OID namespace.
type DitContentRule struct {
	object

	auxOIDs  []string
	mustOIDs []string
	mayOIDs  []string
	notOIDs  []string

	structural *ObjectClass
	aux        []*ObjectClass
	must       []*AttributeType
	may        []*AttributeType
	not        []*AttributeType
}

// NewDitContentRule creates an unlocked DitContentRule. The OID must be
// that of the governed structural object class.
func NewDitContentRule(oid string, names ...string) *DitContentRule {
	return &DitContentRule{
		object: newObject(CategoryDitContentRule, oid, names...),
	}
}

// AuxOIDs returns the OIDs or names of the permitted auxiliary classes.
func (dcr *DitContentRule) AuxOIDs() []string { return dcr.auxOIDs }

// MustOIDs returns the OIDs or names of the additionally required
// attribute types.
func (dcr *DitContentRule) MustOIDs() []string { return dcr.mustOIDs }

// MayOIDs returns the OIDs or names of the additionally allowed attribute
// types.
func (dcr *DitContentRule) MayOIDs() []string { return dcr.mayOIDs }

// NotOIDs returns the OIDs or names of the precluded attribute types.
func (dcr *DitContentRule) NotOIDs() []string { return dcr.notOIDs }

// StructuralClass returns the resolved governed structural class, or nil
// before linking.
func (dcr *DitContentRule) StructuralClass() *ObjectClass { return dcr.structural }

// Aux returns the resolved permitted auxiliary classes.
func (dcr *DitContentRule) Aux() []*ObjectClass { return dcr.aux }

// Must returns the resolved required attribute types.
func (dcr *DitContentRule) Must() []*AttributeType { return dcr.must }

// May returns the resolved allowed attribute types.
func (dcr *DitContentRule) May() []*AttributeType { return dcr.may }

// Not returns the resolved precluded attribute types.
func (dcr *DitContentRule) Not() []*AttributeType { return dcr.not }

// SetAuxOIDs sets the permitted auxiliary class references.
// Fails on a locked object.
func (dcr *DitContentRule) SetAuxOIDs(oids []string) error {
	if err := dcr.checkMutable(); err != nil {
		return err
	}
	dcr.auxOIDs = oids
	return nil
}

// SetMustOIDs sets the required attribute references. Fails on a locked
// object.
func (dcr *DitContentRule) SetMustOIDs(oids []string) error {
	if err := dcr.checkMutable(); err != nil {
		return err
	}
	dcr.mustOIDs = oids
	return nil
}

// SetMayOIDs sets the allowed attribute references. Fails on a locked
// object.
func (dcr *DitContentRule) SetMayOIDs(oids []string) error {
	if err := dcr.checkMutable(); err != nil {
		return err
	}
	dcr.mayOIDs = oids
	return nil
}

// SetNotOIDs sets the precluded attribute references. Fails on a locked
// object.
func (dcr *DitContentRule) SetNotOIDs(oids []string) error {
	if err := dcr.checkMutable(); err != nil {
		return err
	}
	dcr.notOIDs = oids
	return nil
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (dcr *DitContentRule) Copy() Object {
	return &DitContentRule{
		object:   dcr.copyBase(),
		auxOIDs:  append([]string(nil), dcr.auxOIDs...),
		mustOIDs: append([]string(nil), dcr.mustOIDs...),
		mayOIDs:  append([]string(nil), dcr.mayOIDs...),
		notOIDs:  append([]string(nil), dcr.notOIDs...),
	}
}

// DitStructureRule constrains where entries governed by a name form may sit
// in the tree, relative to its superior structure rules. Structure rules
// are the one category identified by an integer rule ID instead of an OID;
// the embedded OID field holds the decimal form of the rule ID so that the
// usage graph and the registries can treat all categories uniformly.
type DitStructureRule struct {
	object

	ruleID      int
	nameFormOID string
	superiorIDs []int

	nameForm  *NameForm
	superiors []*DitStructureRule
}

// NewDitStructureRule creates an unlocked DitStructureRule with the given
// rule ID and names.
func NewDitStructureRule(ruleID int, names ...string) *DitStructureRule {
	return &DitStructureRule{
		object: newObject(CategoryDitStructureRule, strconv.Itoa(ruleID), names...),
		ruleID: ruleID,
	}
}

// RuleID returns the integer identifier of the structure rule.
func (dsr *DitStructureRule) RuleID() int { return dsr.ruleID }

// NameFormOID returns the OID or name of the governing name form.
func (dsr *DitStructureRule) NameFormOID() string { return dsr.nameFormOID }

// SuperiorIDs returns the rule IDs of the superior structure rules.
func (dsr *DitStructureRule) SuperiorIDs() []int { return dsr.superiorIDs }

// NameForm returns the resolved name form, or nil before linking.
func (dsr *DitStructureRule) NameForm() *NameForm { return dsr.nameForm }

// Superiors returns the resolved superior structure rules.
func (dsr *DitStructureRule) Superiors() []*DitStructureRule { return dsr.superiors }

// SetNameFormOID sets the governing name form reference. Fails on a locked
// object.
func (dsr *DitStructureRule) SetNameFormOID(oid string) error {
	if err := dsr.checkMutable(); err != nil {
		return err
	}
	dsr.nameFormOID = oid
	return nil
}

// SetSuperiorIDs sets the superior structure rule references.
// Fails on a locked object.
func (dsr *DitStructureRule) SetSuperiorIDs(ids []int) error {
	if err := dsr.checkMutable(); err != nil {
		return err
	}
	dsr.superiorIDs = ids
	return nil
}

// Copy returns a detached, unlocked copy with all resolved references
// cleared.
func (dsr *DitStructureRule) Copy() Object {
	return &DitStructureRule{
		object:      dsr.copyBase(),
		ruleID:      dsr.ruleID,
		nameFormOID: dsr.nameFormOID,
		superiorIDs: append([]int(nil), dsr.superiorIDs...),
	}
}
