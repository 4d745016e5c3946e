package schema

import (
	"sort"
	"strconv"
	"strings"
)

// Definition renders the attribute type as an RFC 4512 definition string.
func (at *AttributeType) Definition() string {
	var b defBuilder
	b.open(at.oid)
	b.names(at.names)
	b.desc(at.description)
	b.obsolete(at.obsolete)
	b.kv("SUP", at.superiorOID)
	b.kv("EQUALITY", at.equalityOID)
	b.kv("ORDERING", at.orderingOID)
	b.kv("SUBSTR", at.substringOID)
	b.kv("SYNTAX", at.syntaxOID)
	b.flag("SINGLE-VALUE", at.singleValue)
	b.flag("COLLECTIVE", at.collective)
	b.flag("NO-USER-MODIFICATION", at.noUserMod)
	if at.usage != UserApplications {
		b.kv("USAGE", at.usage.String())
	}
	b.extensions(at.extensions)
	return b.close()
}

// Definition renders the object class as an RFC 4512 definition string.
func (oc *ObjectClass) Definition() string {
	var b defBuilder
	b.open(oc.oid)
	b.names(oc.names)
	b.desc(oc.description)
	b.obsolete(oc.obsolete)
	b.oidList("SUP", oc.superiorOIDs)
	b.raw(oc.kind.String())
	b.oidList("MUST", oc.mustOIDs)
	b.oidList("MAY", oc.mayOIDs)
	b.extensions(oc.extensions)
	return b.close()
}

// Definition renders the matching rule as an RFC 4512 definition string.
func (mr *MatchingRule) Definition() string {
	var b defBuilder
	b.open(mr.oid)
	b.names(mr.names)
	b.desc(mr.description)
	b.obsolete(mr.obsolete)
	b.kv("SYNTAX", mr.syntaxOID)
	b.extensions(mr.extensions)
	return b.close()
}

// Definition renders the syntax as an RFC 4512 definition string.
func (s *LdapSyntax) Definition() string {
	var b defBuilder
	b.open(s.oid)
	b.desc(s.description)
	ext := s.extensions
	if !s.humanReadable && ext["X-NOT-HUMAN-READABLE"] == nil {
		ext = map[string][]string{"X-NOT-HUMAN-READABLE": {"TRUE"}}
		for k, v := range s.extensions {
			ext[k] = v
		}
	}
	b.extensions(ext)
	return b.close()
}

// Definition renders the name form as an RFC 4512 definition string.
func (nf *NameForm) Definition() string {
	var b defBuilder
	b.open(nf.oid)
	b.names(nf.names)
	b.desc(nf.description)
	b.obsolete(nf.obsolete)
	b.kv("OC", nf.objectClassOID)
	b.oidList("MUST", nf.mustOIDs)
	b.oidList("MAY", nf.mayOIDs)
	b.extensions(nf.extensions)
	return b.close()
}

// Definition renders the content rule as an RFC 4512 definition string.
func (dcr *DitContentRule) Definition() string {
	var b defBuilder
	b.open(dcr.oid)
	b.names(dcr.names)
	b.desc(dcr.description)
	b.obsolete(dcr.obsolete)
	b.oidList("AUX", dcr.auxOIDs)
	b.oidList("MUST", dcr.mustOIDs)
	b.oidList("MAY", dcr.mayOIDs)
	b.oidList("NOT", dcr.notOIDs)
	b.extensions(dcr.extensions)
	return b.close()
}

// Definition renders the structure rule as an RFC 4512 definition string.
func (dsr *DitStructureRule) Definition() string {
	var b defBuilder
	b.open(strconv.Itoa(dsr.ruleID))
	b.names(dsr.names)
	b.desc(dsr.description)
	b.obsolete(dsr.obsolete)
	b.kv("FORM", dsr.nameFormOID)
	if len(dsr.superiorIDs) > 0 {
		ids := make([]string, len(dsr.superiorIDs))
		for i, id := range dsr.superiorIDs {
			ids[i] = strconv.Itoa(id)
		}
		b.oidList("SUP", ids)
	}
	b.extensions(dsr.extensions)
	return b.close()
}

// Definition renders the matching rule use as an RFC 4512 definition string.
func (mru *MatchingRuleUse) Definition() string {
	var b defBuilder
	b.open(mru.oid)
	b.names(mru.names)
	b.desc(mru.description)
	b.obsolete(mru.obsolete)
	b.oidList("APPLIES", mru.appliesOIDs)
	b.extensions(mru.extensions)
	return b.close()
}

// defBuilder assembles the "( oid ... )" form shared by all definitions.
type defBuilder struct {
	sb strings.Builder
}

func (b *defBuilder) open(oid string) {
	b.sb.WriteString("( ")
	b.sb.WriteString(oid)
}

func (b *defBuilder) close() string {
	b.sb.WriteString(" )")
	return b.sb.String()
}

func (b *defBuilder) raw(s string) {
	if s == "" {
		return
	}
	b.sb.WriteString(" ")
	b.sb.WriteString(s)
}

func (b *defBuilder) kv(keyword, value string) {
	if value == "" {
		return
	}
	b.raw(keyword)
	b.raw(value)
}

func (b *defBuilder) flag(keyword string, set bool) {
	if set {
		b.raw(keyword)
	}
}

func (b *defBuilder) obsolete(set bool) {
	b.flag("OBSOLETE", set)
}

func (b *defBuilder) desc(description string) {
	if description == "" {
		return
	}
	b.raw("DESC")
	b.raw("'" + description + "'")
}

func (b *defBuilder) names(names []string) {
	switch len(names) {
	case 0:
	case 1:
		b.kv("NAME", "'"+names[0]+"'")
	default:
		quoted := make([]string, len(names))
		for i, name := range names {
			quoted[i] = "'" + name + "'"
		}
		b.kv("NAME", "( "+strings.Join(quoted, " ")+" )")
	}
}

func (b *defBuilder) oidList(keyword string, oids []string) {
	switch len(oids) {
	case 0:
	case 1:
		b.kv(keyword, oids[0])
	default:
		b.kv(keyword, "( "+strings.Join(oids, " $ ")+" )")
	}
}

func (b *defBuilder) extensions(exts map[string][]string) {
	if len(exts) == 0 {
		return
	}
	keys := make([]string, 0, len(exts))
	for k := range exts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vals := exts[k]
		quoted := make([]string, len(vals))
		for i, v := range vals {
			quoted[i] = "'" + v + "'"
		}
		switch len(quoted) {
		case 0:
		case 1:
			b.kv(k, quoted[0])
		default:
			b.kv(k, "( "+strings.Join(quoted, " ")+" )")
		}
	}
}
