// Package entry models LDAP entries and validates them against the schema
// registries.
package entry

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// Entry represents an LDAP entry: a DN plus a multi-valued attribute map.
type Entry struct {
	DN         string
	Attributes map[string][][]byte
}

// New creates an Entry with the given DN and a freshly assigned entryUUID.
func New(dn string) *Entry {
	e := &Entry{
		DN:         dn,
		Attributes: make(map[string][][]byte),
	}
	e.SetStringAttribute("entryUUID", uuid.NewString())
	return e
}

// SetAttribute sets an attribute to the given values, replacing any
// existing ones.
func (e *Entry) SetAttribute(name string, values ...[]byte) {
	e.Attributes[name] = values
}

// SetStringAttribute sets an attribute from string values.
func (e *Entry) SetStringAttribute(name string, values ...string) {
	byteValues := make([][]byte, len(values))
	for i, v := range values {
		byteValues[i] = []byte(v)
	}
	e.Attributes[name] = byteValues
}

// AddAttribute appends values to an attribute.
func (e *Entry) AddAttribute(name string, values ...[]byte) {
	e.Attributes[name] = append(e.Attributes[name], values...)
}

// GetAttribute returns the raw values of an attribute, matching the name
// case-insensitively.
func (e *Entry) GetAttribute(name string) [][]byte {
	if values, ok := e.Attributes[name]; ok {
		return values
	}
	for attr, values := range e.Attributes {
		if strings.EqualFold(attr, name) {
			return values
		}
	}
	return nil
}

// GetAll returns all values of an attribute as strings.
func (e *Entry) GetAll(name string) []string {
	values := e.GetAttribute(name)
	if values == nil {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = string(v)
	}
	return result
}

// GetFirst returns the first value of an attribute, or "" when absent.
func (e *Entry) GetFirst(name string) string {
	values := e.GetAttribute(name)
	if len(values) == 0 {
		return ""
	}
	return string(values[0])
}

// Has reports whether the entry carries at least one value for the
// attribute.
func (e *Entry) Has(name string) bool {
	return len(e.GetAttribute(name)) > 0
}

// Delete removes an attribute, matching the name case-insensitively.
func (e *Entry) Delete(name string) {
	for attr := range e.Attributes {
		if strings.EqualFold(attr, name) {
			delete(e.Attributes, attr)
		}
	}
}

// UUID returns the entryUUID value, or "" when the entry has none.
func (e *Entry) UUID() string {
	return e.GetFirst("entryUUID")
}

// Clone creates a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := &Entry{
		DN:         e.DN,
		Attributes: make(map[string][][]byte, len(e.Attributes)),
	}
	for k, v := range e.Attributes {
		values := make([][]byte, len(v))
		for i, val := range v {
			values[i] = append([]byte(nil), val...)
		}
		clone.Attributes[k] = values
	}
	return clone
}

// ModificationType represents the type of modification operation.
type ModificationType int

const (
	// ModAdd adds values to an attribute.
	ModAdd ModificationType = iota
	// ModDelete removes values from an attribute.
	ModDelete
	// ModReplace replaces all values of an attribute.
	ModReplace
)

// Modification represents a single modification to an entry.
type Modification struct {
	Type   ModificationType
	Attr   string
	Values [][]byte
}

// NewModification creates a Modification from raw values.
func NewModification(modType ModificationType, attr string, values ...[]byte) *Modification {
	return &Modification{Type: modType, Attr: attr, Values: values}
}

// NewStringModification creates a Modification from string values.
func NewStringModification(modType ModificationType, attr string, values ...string) *Modification {
	byteValues := make([][]byte, len(values))
	for i, v := range values {
		byteValues[i] = []byte(v)
	}
	return &Modification{Type: modType, Attr: attr, Values: byteValues}
}

// Apply applies one modification to the entry.
func (e *Entry) Apply(mod *Modification) {
	switch mod.Type {
	case ModAdd:
		e.AddAttribute(mod.Attr, mod.Values...)

	case ModDelete:
		if len(mod.Values) == 0 {
			e.Delete(mod.Attr)
			return
		}
		existing := e.GetAttribute(mod.Attr)
		kept := make([][]byte, 0, len(existing))
		for _, ev := range existing {
			remove := false
			for _, dv := range mod.Values {
				if bytes.Equal(ev, dv) {
					remove = true
					break
				}
			}
			if !remove {
				kept = append(kept, ev)
			}
		}
		if len(kept) == 0 {
			e.Delete(mod.Attr)
		} else {
			e.SetAttribute(mod.Attr, kept...)
		}

	case ModReplace:
		if len(mod.Values) == 0 {
			e.Delete(mod.Attr)
		} else {
			e.SetAttribute(mod.Attr, mod.Values...)
		}
	}
}
