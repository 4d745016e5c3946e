package schema

import (
	"fmt"
	"strings"
)

// NameTable is the bidirectional map between short names and OIDs shared by
// every registry that takes part in the global OID namespace. It is the
// single source of truth for OID and name uniqueness: an OID can be reserved
// once, and a name can only ever point at one OID, regardless of which
// category the owning object belongs to.
//
// Names are matched case-insensitively but returned in their registered
// spelling.
type NameTable struct {
	oids  map[string][]string // OID -> names in registration order
	names map[string]string   // lowercased name -> OID
}

// NewNameTable creates an empty name table.
func NewNameTable() *NameTable {
	return &NameTable{
		oids:  make(map[string][]string),
		names: make(map[string]string),
	}
}

// Reserve claims the OID. It fails with ErrDuplicateIdentity when the OID is
// already reserved, whether or not any names are bound to it.
func (t *NameTable) Reserve(oid string) error {
	if oid == "" {
		return ErrMissingOID
	}
	if _, ok := t.oids[oid]; ok {
		return fmt.Errorf("OID %s: %w", oid, ErrDuplicateIdentity)
	}
	t.oids[oid] = nil
	return nil
}

// Register binds name to oid. Re-registering an existing name to the same
// OID is a no-op; binding it to a different OID fails with
// ErrDuplicateIdentity. Registering a name implicitly reserves the OID.
func (t *NameTable) Register(name, oid string) error {
	if oid == "" {
		return ErrMissingOID
	}
	lower := strings.ToLower(name)
	if bound, ok := t.names[lower]; ok {
		if bound == oid {
			return nil
		}
		return fmt.Errorf("name %q already bound to %s: %w", name, bound, ErrDuplicateIdentity)
	}
	t.names[lower] = oid
	t.oids[oid] = append(t.oids[oid], name)
	return nil
}

// Unregister releases the OID and every name bound to it. Unknown OIDs are
// ignored.
func (t *NameTable) Unregister(oid string) {
	for _, name := range t.oids[oid] {
		delete(t.names, strings.ToLower(name))
	}
	delete(t.oids, oid)
}

// Resolve maps an OID or a name to the registered OID. It fails with
// ErrNotFound when neither an exact OID nor a known name matches.
func (t *NameTable) Resolve(nameOrOID string) (string, error) {
	if _, ok := t.oids[nameOrOID]; ok {
		return nameOrOID, nil
	}
	if oid, ok := t.names[strings.ToLower(nameOrOID)]; ok {
		return oid, nil
	}
	return "", fmt.Errorf("%q: %w", nameOrOID, ErrNotFound)
}

// Contains reports whether nameOrOID resolves to a registered OID.
func (t *NameTable) Contains(nameOrOID string) bool {
	_, err := t.Resolve(nameOrOID)
	return err == nil
}

// NamesOf returns the names bound to oid in registration order.
func (t *NameTable) NamesOf(oid string) []string {
	return t.oids[oid]
}

// Rename makes newPrimary the first name of oid, binding it when it is not
// bound yet. It fails with ErrNotFound for an unknown OID and with
// ErrDuplicateIdentity when newPrimary belongs to a different OID. Existing
// aliases are kept.
func (t *NameTable) Rename(oid, newPrimary string) error {
	names, ok := t.oids[oid]
	if !ok {
		return fmt.Errorf("OID %s: %w", oid, ErrNotFound)
	}
	lower := strings.ToLower(newPrimary)
	if bound, ok := t.names[lower]; ok && bound != oid {
		return fmt.Errorf("name %q already bound to %s: %w", newPrimary, bound, ErrDuplicateIdentity)
	}
	t.names[lower] = oid

	reordered := make([]string, 0, len(names)+1)
	reordered = append(reordered, newPrimary)
	for _, n := range names {
		if !strings.EqualFold(n, newPrimary) {
			reordered = append(reordered, n)
		}
	}
	t.oids[oid] = reordered
	return nil
}
