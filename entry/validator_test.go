package entry

import (
	"testing"

	"github.com/KilimcininKorOglu/dizin/schema"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	r, err := schema.Bootstrap()
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return NewValidator(r)
}

func validPerson() *Entry {
	e := New("cn=Jane Doe,dc=example,dc=com")
	e.SetAttribute("objectClass", [][]byte{[]byte("top"), []byte("person")}...)
	e.SetStringAttribute("cn", "Jane Doe")
	e.SetStringAttribute("sn", "Doe")
	return e
}

func TestValidateEntryAccepts(t *testing.T) {
	v := newTestValidator(t)
	if err := v.ValidateEntry(validPerson()); err != nil {
		t.Errorf("ValidateEntry: %v", err)
	}
}

func TestValidateEntryRequiresObjectClass(t *testing.T) {
	v := newTestValidator(t)
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("cn", "test")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrObjectClassViolation {
		t.Errorf("expected objectClass violation, got %v", err)
	}
}

func TestValidateEntryUnknownObjectClass(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()
	e.AddAttribute("objectClass", []byte("nonexistentClass"))

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrObjectClassViolation || verr.Attr != "nonexistentClass" {
		t.Errorf("expected unknown objectClass error, got %v", err)
	}
}

func TestValidateEntryRequiresStructural(t *testing.T) {
	v := newTestValidator(t)
	e := New("dc=example,dc=com")
	e.SetStringAttribute("objectClass", "top")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrObjectClassViolation {
		t.Errorf("expected structural violation, got %v", err)
	}
}

func TestValidateEntryMissingRequired(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()
	e.Delete("sn")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrMissingRequiredAttribute || verr.Attr != "sn" {
		t.Errorf("expected missing sn, got %v", err)
	}
}

func TestValidateEntryInheritedMust(t *testing.T) {
	v := newTestValidator(t)

	// organizationalPerson inherits MUST cn and sn from person.
	e := New("cn=Jane Doe,dc=example,dc=com")
	e.SetAttribute("objectClass", [][]byte{[]byte("organizationalPerson")}...)
	e.SetStringAttribute("cn", "Jane Doe")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrMissingRequiredAttribute {
		t.Errorf("expected inherited MUST violation, got %v", err)
	}

	e.SetStringAttribute("sn", "Doe")
	if err := v.ValidateEntry(e); err != nil {
		t.Errorf("ValidateEntry: %v", err)
	}
}

func TestValidateEntryDisallowedAttribute(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()
	e.SetStringAttribute("mail", "jane@example.com")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrUndefinedAttributeType || verr.Attr != "mail" {
		t.Errorf("expected disallowed attribute mail, got %v", err)
	}
}

func TestValidateEntryAllowsOperational(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()
	e.SetStringAttribute("createTimestamp", "20260101120000Z")

	if err := v.ValidateEntry(e); err != nil {
		t.Errorf("operational attribute rejected: %v", err)
	}
}

func TestValidateEntryAttributeAlias(t *testing.T) {
	v := newTestValidator(t)
	e := New("cn=Jane Doe,dc=example,dc=com")
	e.SetAttribute("objectClass", [][]byte{[]byte("person")}...)
	e.SetStringAttribute("commonName", "Jane Doe")
	e.SetStringAttribute("surname", "Doe")

	if err := v.ValidateEntry(e); err != nil {
		t.Errorf("alias names rejected: %v", err)
	}
}

func TestValidateEntrySingleValue(t *testing.T) {
	v := newTestValidator(t)

	e := New("dc=example,dc=com")
	e.SetAttribute("objectClass", [][]byte{[]byte("domain")}...)
	e.SetAttribute("dc", [][]byte{[]byte("example"), []byte("other")}...)

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrSingleValueViolation || verr.Attr != "dc" {
		t.Errorf("expected single-value violation for dc, got %v", err)
	}
}

func TestValidateEntrySyntax(t *testing.T) {
	v := newTestValidator(t)

	e := New("uid=jdoe,dc=example,dc=com")
	e.SetAttribute("objectClass", [][]byte{[]byte("account"), []byte("posixAccount")}...)
	e.SetStringAttribute("uid", "jdoe")
	e.SetStringAttribute("cn", "Jane Doe")
	e.SetStringAttribute("uidNumber", "not-a-number")
	e.SetStringAttribute("gidNumber", "1000")
	e.SetStringAttribute("homeDirectory", "/home/jdoe")

	err := v.ValidateEntry(e)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrInvalidAttributeSyntax || verr.Attr != "uidNumber" {
		t.Errorf("expected syntax violation for uidNumber, got %v", err)
	}

	e.SetStringAttribute("uidNumber", "1000")
	if err := v.ValidateEntry(e); err != nil {
		t.Errorf("ValidateEntry: %v", err)
	}
}

func TestValidateModifications(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()

	mods := []*Modification{
		NewStringModification(ModAdd, "description", "engineer"),
	}
	if err := v.ValidateModifications(e, mods); err != nil {
		t.Errorf("ValidateModifications: %v", err)
	}
	if e.Has("description") {
		t.Error("validation mutated the original entry")
	}
}

func TestValidateModificationsNoUserModification(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()

	mods := []*Modification{
		NewStringModification(ModReplace, "createTimestamp", "20260101120000Z"),
	}
	err := v.ValidateModifications(e, mods)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrNoUserModification {
		t.Errorf("expected no-user-modification error, got %v", err)
	}
}

func TestValidateModificationsDeleteRequired(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()

	mods := []*Modification{
		NewModification(ModDelete, "sn"),
	}
	err := v.ValidateModifications(e, mods)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrMissingRequiredAttribute {
		t.Errorf("expected missing required attribute after delete, got %v", err)
	}
}

func TestValidateModificationsSyntax(t *testing.T) {
	v := newTestValidator(t)
	e := validPerson()

	mods := []*Modification{
		NewStringModification(ModAdd, "telephoneNumber", "not a phone %%%"),
	}
	err := v.ValidateModifications(e, mods)
	verr, ok := err.(*ValidationError)
	if !ok || verr.Code != ErrInvalidAttributeSyntax {
		t.Errorf("expected syntax violation, got %v", err)
	}
}

func TestValidateEntryMutualSuperiorsTerminate(t *testing.T) {
	regs := schema.NewRegistries()
	errs := &schema.ErrorList{}

	first := schema.NewObjectClass("1.3.6.1.4.1.18060.0.9.1", "firstClass")
	if err := first.SetSuperiorOIDs([]string{"secondClass"}); err != nil {
		t.Fatalf("SetSuperiorOIDs: %v", err)
	}
	if err := regs.Register(first, errs); err != nil {
		t.Fatalf("Register firstClass: %v", err)
	}
	second := schema.NewObjectClass("1.3.6.1.4.1.18060.0.9.2", "secondClass")
	if err := second.SetSuperiorOIDs([]string{"firstClass"}); err != nil {
		t.Fatalf("SetSuperiorOIDs: %v", err)
	}
	if err := regs.Register(second, errs); err != nil {
		t.Fatalf("Register secondClass: %v", err)
	}

	// firstClass registered before secondClass existed, so its SUP stayed
	// unresolved above. The copy relinks with both classes present and
	// closes the superior loop between them.
	cp, err := regs.Copy(errs)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	a, err := cp.ObjectClass("firstClass")
	if err != nil {
		t.Fatalf("ObjectClass firstClass: %v", err)
	}
	if len(a.Superiors()) != 1 || len(a.Superiors()[0].Superiors()) != 1 {
		t.Fatalf("expected mutual superiors, got %v", a.Superiors())
	}

	v := NewValidator(cp)
	e := New("cn=loop,dc=example,dc=com")
	e.SetStringAttribute("objectClass", "firstClass")
	if err := v.ValidateEntry(e); err != nil {
		t.Errorf("ValidateEntry: %v", err)
	}
}
