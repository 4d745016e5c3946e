package schema

import (
	"fmt"
	"iter"
	"strings"
)

// registry stores the live objects of one schema category keyed by OID.
//
// Registries for identity-bearing categories share one NameTable, which
// enforces global OID and name uniqueness. Categories whose objects reuse
// the OID of the object they serve (syntax checkers, normalizers,
// comparators, content rules, matching rule uses) run detached from the
// table and keep a private name index instead.
type registry[T Object] struct {
	category Category
	names    *NameTable // nil for detached registries
	local    map[string]string
	objects  map[string]T
	order    []string
}

func newRegistry[T Object](category Category, names *NameTable) *registry[T] {
	r := &registry[T]{
		category: category,
		names:    names,
		objects:  make(map[string]T),
	}
	if names == nil {
		r.local = make(map[string]string)
	}
	return r
}

// Put adds the object to the registry and registers its names. It fails
// with ErrDuplicateIdentity when the OID or any name is already taken, in
// which case nothing is registered.
func (r *registry[T]) Put(obj T) error {
	oid := obj.OID()
	if oid == "" {
		return fmt.Errorf("%s: %w", r.category, ErrMissingOID)
	}
	if r.names != nil {
		if err := r.names.Reserve(oid); err != nil {
			return err
		}
		for _, name := range obj.Names() {
			if err := r.names.Register(name, oid); err != nil {
				r.names.Unregister(oid)
				return err
			}
		}
	} else {
		if _, ok := r.objects[oid]; ok {
			return fmt.Errorf("%s OID %s: %w", r.category, oid, ErrDuplicateIdentity)
		}
		for _, name := range obj.Names() {
			lower := strings.ToLower(name)
			if bound, ok := r.local[lower]; ok && bound != oid {
				return fmt.Errorf("%s name %q already bound to %s: %w", r.category, name, bound, ErrDuplicateIdentity)
			}
		}
		for _, name := range obj.Names() {
			r.local[strings.ToLower(name)] = oid
		}
	}
	r.objects[oid] = obj
	r.order = append(r.order, oid)
	return nil
}

// resolve maps nameOrOID to an OID known to this registry.
func (r *registry[T]) resolve(nameOrOID string) (string, bool) {
	if _, ok := r.objects[nameOrOID]; ok {
		return nameOrOID, true
	}
	if r.names != nil {
		oid, err := r.names.Resolve(nameOrOID)
		if err != nil {
			return "", false
		}
		_, ok := r.objects[oid]
		return oid, ok
	}
	oid, ok := r.local[strings.ToLower(nameOrOID)]
	return oid, ok
}

// Get returns the object registered under the OID or name. It fails with
// ErrNotFound when nothing in this category matches, including when the
// identifier belongs to an object of a different category.
func (r *registry[T]) Get(nameOrOID string) (T, error) {
	if oid, ok := r.resolve(nameOrOID); ok {
		return r.objects[oid], nil
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", r.category, nameOrOID, ErrNotFound)
}

// Contains reports whether the OID or name is registered in this category.
func (r *registry[T]) Contains(nameOrOID string) bool {
	_, ok := r.resolve(nameOrOID)
	return ok
}

// Remove unregisters the object with the given OID and releases its names.
func (r *registry[T]) Remove(oid string) error {
	if _, ok := r.objects[oid]; !ok {
		return fmt.Errorf("%s %q: %w", r.category, oid, ErrNotFound)
	}
	if r.names != nil {
		r.names.Unregister(oid)
	} else {
		for name, bound := range r.local {
			if bound == oid {
				delete(r.local, name)
			}
		}
	}
	delete(r.objects, oid)
	for i, o := range r.order {
		if o == oid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rename makes newName the primary name of the object currently known as
// oldName, propagating the change through the name table.
func (r *registry[T]) Rename(oldName, newName string) error {
	obj, err := r.Get(oldName)
	if err != nil {
		return err
	}
	oid := obj.OID()
	if r.names != nil {
		if err := r.names.Rename(oid, newName); err != nil {
			return err
		}
	} else {
		lower := strings.ToLower(newName)
		if bound, ok := r.local[lower]; ok && bound != oid {
			return fmt.Errorf("%s name %q already bound to %s: %w", r.category, newName, bound, ErrDuplicateIdentity)
		}
		r.local[lower] = oid
	}
	b := obj.base()
	wasLocked := b.locked
	b.locked = false
	b.setPrimaryName(newName)
	b.locked = wasLocked
	return nil
}

// Len returns the number of registered objects.
func (r *registry[T]) Len() int { return len(r.objects) }

// Iterate returns the registered objects in insertion order. The sequence
// is restartable and reflects the registry content at the time each
// iteration runs.
func (r *registry[T]) Iterate() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, oid := range r.order {
			if obj, ok := r.objects[oid]; ok {
				if !yield(obj) {
					return
				}
			}
		}
	}
}
