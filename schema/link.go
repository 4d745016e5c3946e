package schema

import (
	"fmt"
	"strconv"
)

// linker pairs the link and unlink algorithms for one category. The
// dispatch table below is consulted once per object by Registries.Link and
// Registries.Unlink; categories without cross-references carry no entry.
type linker struct {
	link   func(r *Registries, obj Object, errs *ErrorList)
	unlink func(r *Registries, obj Object, errs *ErrorList)
}

var linkers = map[Category]linker{
	CategoryAttributeType: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkAttributeType(obj.(*AttributeType), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkAttributeType(obj.(*AttributeType)) },
	},
	CategoryObjectClass: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkObjectClass(obj.(*ObjectClass), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkObjectClass(obj.(*ObjectClass)) },
	},
	CategoryMatchingRule: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkMatchingRule(obj.(*MatchingRule), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkMatchingRule(obj.(*MatchingRule)) },
	},
	CategoryLdapSyntax: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkLdapSyntax(obj.(*LdapSyntax), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkLdapSyntax(obj.(*LdapSyntax)) },
	},
	CategoryNameForm: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkNameForm(obj.(*NameForm), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkNameForm(obj.(*NameForm)) },
	},
	CategoryDitContentRule: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkDitContentRule(obj.(*DitContentRule), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkDitContentRule(obj.(*DitContentRule)) },
	},
	CategoryDitStructureRule: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkDitStructureRule(obj.(*DitStructureRule), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkDitStructureRule(obj.(*DitStructureRule)) },
	},
	CategoryMatchingRuleUse: {
		link:   func(r *Registries, obj Object, errs *ErrorList) { r.linkMatchingRuleUse(obj.(*MatchingRuleUse), errs) },
		unlink: func(r *Registries, obj Object, _ *ErrorList) { r.unlinkMatchingRuleUse(obj.(*MatchingRuleUse)) },
	},
	// SyntaxChecker, Normalizer, and Comparator carry no outgoing
	// references. They still pass through Link so registration leaves
	// them locked like every other category.
	CategorySyntaxChecker: {link: linkNothing, unlink: unlinkNothing},
	CategoryNormalizer:    {link: linkNothing, unlink: unlinkNothing},
	CategoryComparator:    {link: linkNothing, unlink: unlinkNothing},
}

func linkNothing(*Registries, Object, *ErrorList)   {}
func unlinkNothing(*Registries, Object, *ErrorList) {}

// mandatory reports a relation that failed to resolve, unless relaxed mode
// suppresses it.
func (r *Registries) mandatory(errs *ErrorList, src Object, relation, target string) {
	if r.relaxed {
		return
	}
	errs.Add(&ConsistencyError{Source: src, Relation: relation, Target: target})
}

func (r *Registries) linkAttributeType(at *AttributeType, errs *ErrorList) {
	if at.superiorOID != "" {
		if sup, err := r.AttributeType(at.superiorOID); err == nil {
			at.superior = sup
			r.AddReference(at, sup)
		} else {
			r.mandatory(errs, at, "SUP", at.superiorOID)
		}
	}
	if at.equalityOID != "" {
		if mr, err := r.MatchingRule(at.equalityOID); err == nil {
			at.equality = mr
			r.AddReference(at, mr)
		} else {
			r.mandatory(errs, at, "EQUALITY", at.equalityOID)
		}
	}
	if at.orderingOID != "" {
		if mr, err := r.MatchingRule(at.orderingOID); err == nil {
			at.ordering = mr
			r.AddReference(at, mr)
		} else {
			r.mandatory(errs, at, "ORDERING", at.orderingOID)
		}
	}
	if at.substringOID != "" {
		if mr, err := r.MatchingRule(at.substringOID); err == nil {
			at.substring = mr
			r.AddReference(at, mr)
		} else {
			r.mandatory(errs, at, "SUBSTR", at.substringOID)
		}
	}
	if at.syntaxOID != "" {
		if syn, err := r.Syntax(at.syntaxOID); err == nil {
			at.syntax = syn
			r.AddReference(at, syn)
		} else {
			r.mandatory(errs, at, "SYNTAX", at.syntaxOID)
		}
	}
}

func (r *Registries) unlinkAttributeType(at *AttributeType) {
	if at.superior != nil {
		r.DelReference(at, at.superior)
		at.superior = nil
	}
	if at.equality != nil {
		r.DelReference(at, at.equality)
		at.equality = nil
	}
	if at.ordering != nil {
		r.DelReference(at, at.ordering)
		at.ordering = nil
	}
	if at.substring != nil {
		r.DelReference(at, at.substring)
		at.substring = nil
	}
	if at.syntax != nil {
		r.DelReference(at, at.syntax)
		at.syntax = nil
	}
}

func (r *Registries) linkObjectClass(oc *ObjectClass, errs *ErrorList) {
	// Linking an already-linked class starts from scratch so the resolved
	// slices never accumulate duplicates. AddReference is idempotent.
	oc.superiors = nil
	oc.must = nil
	oc.may = nil
	for _, supOID := range oc.superiorOIDs {
		if sup, err := r.ObjectClass(supOID); err == nil {
			oc.superiors = append(oc.superiors, sup)
			r.AddReference(oc, sup)
		} else {
			r.mandatory(errs, oc, "SUP", supOID)
		}
	}
	for _, mustOID := range oc.mustOIDs {
		if at, err := r.AttributeType(mustOID); err == nil {
			oc.must = append(oc.must, at)
			r.AddReference(oc, at)
		} else {
			r.mandatory(errs, oc, "MUST", mustOID)
		}
	}
	for _, mayOID := range oc.mayOIDs {
		if at, err := r.AttributeType(mayOID); err == nil {
			oc.may = append(oc.may, at)
			r.AddReference(oc, at)
		} else {
			r.mandatory(errs, oc, "MAY", mayOID)
		}
	}
}

func (r *Registries) unlinkObjectClass(oc *ObjectClass) {
	for _, sup := range oc.superiors {
		r.DelReference(oc, sup)
	}
	oc.superiors = nil
	for _, at := range oc.must {
		r.DelReference(oc, at)
	}
	oc.must = nil
	for _, at := range oc.may {
		r.DelReference(oc, at)
	}
	oc.may = nil
}

func (r *Registries) linkMatchingRule(mr *MatchingRule, errs *ErrorList) {
	if syn, err := r.Syntax(mr.syntaxOID); err == nil {
		mr.syntax = syn
		r.AddReference(mr, syn)
	} else {
		r.mandatory(errs, mr, "SYNTAX", mr.syntaxOID)
	}

	// Normalizer and comparator are optional relations resolved by the
	// rule's own OID. A miss is not an error: matching degrades to the
	// no-op normalizer and byte-wise equality.
	if n, err := r.Normalizer(mr.OID()); err == nil {
		mr.normalizer = n
		r.AddReference(mr, n)
	} else {
		mr.normalizer = NoOpNormalizer(mr.OID())
	}
	if c, err := r.Comparator(mr.OID()); err == nil {
		mr.comparator = c
		r.AddReference(mr, c)
	} else {
		mr.comparator = EqualityComparator(mr.OID())
	}
}

func (r *Registries) unlinkMatchingRule(mr *MatchingRule) {
	if mr.syntax != nil {
		r.DelReference(mr, mr.syntax)
		mr.syntax = nil
	}
	// Defaulted normalizers and comparators are not registered objects;
	// only registered ones contributed an edge.
	if mr.normalizer != nil {
		if r.normalizers.Contains(mr.normalizer.OID()) {
			r.DelReference(mr, mr.normalizer)
		}
		mr.normalizer = nil
	}
	if mr.comparator != nil {
		if r.comparators.Contains(mr.comparator.OID()) {
			r.DelReference(mr, mr.comparator)
		}
		mr.comparator = nil
	}
}

func (r *Registries) linkLdapSyntax(s *LdapSyntax, errs *ErrorList) {
	if sc, err := r.SyntaxChecker(s.OID()); err == nil {
		s.checker = sc
		r.AddReference(s, sc)
	} else {
		r.mandatory(errs, s, "X-SYNTAX-CHECKER", s.OID())
	}
}

func (r *Registries) unlinkLdapSyntax(s *LdapSyntax) {
	if s.checker != nil {
		r.DelReference(s, s.checker)
		s.checker = nil
	}
}

func (r *Registries) linkNameForm(nf *NameForm, errs *ErrorList) {
	nf.must = nil
	nf.may = nil
	if oc, err := r.ObjectClass(nf.objectClassOID); err == nil {
		if !oc.IsStructural() && !r.relaxed {
			errs.Add(fmt.Errorf("nameForm %s: object class %q is %s, not STRUCTURAL",
				nf.Name(), nf.objectClassOID, oc.Kind()))
		}
		nf.objectClass = oc
		r.AddReference(nf, oc)
	} else {
		r.mandatory(errs, nf, "OC", nf.objectClassOID)
	}
	for _, mustOID := range nf.mustOIDs {
		if at, err := r.AttributeType(mustOID); err == nil {
			nf.must = append(nf.must, at)
			r.AddReference(nf, at)
		} else {
			r.mandatory(errs, nf, "MUST", mustOID)
		}
	}
	for _, mayOID := range nf.mayOIDs {
		if at, err := r.AttributeType(mayOID); err == nil {
			nf.may = append(nf.may, at)
			r.AddReference(nf, at)
		} else {
			r.mandatory(errs, nf, "MAY", mayOID)
		}
	}
}

func (r *Registries) unlinkNameForm(nf *NameForm) {
	if nf.objectClass != nil {
		r.DelReference(nf, nf.objectClass)
		nf.objectClass = nil
	}
	for _, at := range nf.must {
		r.DelReference(nf, at)
	}
	nf.must = nil
	for _, at := range nf.may {
		r.DelReference(nf, at)
	}
	nf.may = nil
}

func (r *Registries) linkDitContentRule(dcr *DitContentRule, errs *ErrorList) {
	dcr.aux = nil
	dcr.must = nil
	dcr.may = nil
	dcr.not = nil
	// A content rule shares the OID of the structural class it governs.
	if oc, err := r.ObjectClass(dcr.OID()); err == nil {
		if !oc.IsStructural() && !r.relaxed {
			errs.Add(fmt.Errorf("dITContentRule %s: object class %s is %s, not STRUCTURAL",
				dcr.Name(), oc.Name(), oc.Kind()))
		}
		dcr.structural = oc
		r.AddReference(dcr, oc)
	} else {
		r.mandatory(errs, dcr, "OC", dcr.OID())
	}
	for _, auxOID := range dcr.auxOIDs {
		if oc, err := r.ObjectClass(auxOID); err == nil {
			if !oc.IsAuxiliary() && !r.relaxed {
				errs.Add(fmt.Errorf("dITContentRule %s: AUX class %q is %s, not AUXILIARY",
					dcr.Name(), auxOID, oc.Kind()))
			}
			dcr.aux = append(dcr.aux, oc)
			r.AddReference(dcr, oc)
		} else {
			r.mandatory(errs, dcr, "AUX", auxOID)
		}
	}
	for _, mustOID := range dcr.mustOIDs {
		if at, err := r.AttributeType(mustOID); err == nil {
			dcr.must = append(dcr.must, at)
			r.AddReference(dcr, at)
		} else {
			r.mandatory(errs, dcr, "MUST", mustOID)
		}
	}
	for _, mayOID := range dcr.mayOIDs {
		if at, err := r.AttributeType(mayOID); err == nil {
			dcr.may = append(dcr.may, at)
			r.AddReference(dcr, at)
		} else {
			r.mandatory(errs, dcr, "MAY", mayOID)
		}
	}
	for _, notOID := range dcr.notOIDs {
		if at, err := r.AttributeType(notOID); err == nil {
			dcr.not = append(dcr.not, at)
			r.AddReference(dcr, at)
		} else {
			r.mandatory(errs, dcr, "NOT", notOID)
		}
	}
}

func (r *Registries) unlinkDitContentRule(dcr *DitContentRule) {
	if dcr.structural != nil {
		r.DelReference(dcr, dcr.structural)
		dcr.structural = nil
	}
	for _, oc := range dcr.aux {
		r.DelReference(dcr, oc)
	}
	dcr.aux = nil
	for _, at := range dcr.must {
		r.DelReference(dcr, at)
	}
	dcr.must = nil
	for _, at := range dcr.may {
		r.DelReference(dcr, at)
	}
	dcr.may = nil
	for _, at := range dcr.not {
		r.DelReference(dcr, at)
	}
	dcr.not = nil
}

func (r *Registries) linkDitStructureRule(dsr *DitStructureRule, errs *ErrorList) {
	dsr.superiors = nil
	if nf, err := r.NameForm(dsr.nameFormOID); err == nil {
		dsr.nameForm = nf
		r.AddReference(dsr, nf)
	} else {
		r.mandatory(errs, dsr, "FORM", dsr.nameFormOID)
	}
	for _, supID := range dsr.superiorIDs {
		if sup, err := r.DitStructureRule(supID); err == nil {
			dsr.superiors = append(dsr.superiors, sup)
			r.AddReference(dsr, sup)
		} else {
			r.mandatory(errs, dsr, "SUP", strconv.Itoa(supID))
		}
	}
}

func (r *Registries) unlinkDitStructureRule(dsr *DitStructureRule) {
	if dsr.nameForm != nil {
		r.DelReference(dsr, dsr.nameForm)
		dsr.nameForm = nil
	}
	for _, sup := range dsr.superiors {
		r.DelReference(dsr, sup)
	}
	dsr.superiors = nil
}

func (r *Registries) linkMatchingRuleUse(mru *MatchingRuleUse, errs *ErrorList) {
	mru.applies = nil
	// A matching rule use shares the OID of the rule it describes.
	if mr, err := r.MatchingRule(mru.OID()); err == nil {
		mru.matchingRule = mr
		r.AddReference(mru, mr)
	} else {
		r.mandatory(errs, mru, "OID", mru.OID())
	}
	for _, appliesOID := range mru.appliesOIDs {
		if at, err := r.AttributeType(appliesOID); err == nil {
			mru.applies = append(mru.applies, at)
			r.AddReference(mru, at)
		} else {
			r.mandatory(errs, mru, "APPLIES", appliesOID)
		}
	}
}

func (r *Registries) unlinkMatchingRuleUse(mru *MatchingRuleUse) {
	if mru.matchingRule != nil {
		r.DelReference(mru, mru.matchingRule)
		mru.matchingRule = nil
	}
	for _, at := range mru.applies {
		r.DelReference(mru, at)
	}
	mru.applies = nil
}
