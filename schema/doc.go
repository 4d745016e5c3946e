// Package schema models an LDAP directory schema as a set of linked
// registries.
//
// Every schema element (attribute types, object classes, matching rules,
// syntaxes, name forms, DIT content rules, DIT structure rules, matching
// rule uses, plus the function objects backing value checking, normalization
// and comparison) lives in a per-category registry. The Registries aggregate
// owns the shared OID and name table, and resolves the textual OID
// references of a definition into live pointers when the element is
// registered. Cross references are tracked in a bidirectional usage graph,
// so a caller can always ask what an element uses and what uses it.
//
// Registered elements are locked; mutation requires taking them out of the
// registries first. Registration and linking collect recoverable problems
// (such as references to elements that are not registered yet) into error
// lists instead of failing outright, which keeps a half-consistent schema
// loadable and inspectable.
//
// Bootstrap returns registries seeded with the standard schema; LoadSchema
// adds definitions from LDIF.
package schema
