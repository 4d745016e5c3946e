package entry

import (
	"bytes"
	"testing"
)

func TestNewEntrySetsUUID(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	if e.DN != "cn=test,dc=example,dc=com" {
		t.Errorf("DN = %q", e.DN)
	}
	if e.UUID() == "" {
		t.Error("expected entryUUID to be set")
	}
	other := New("cn=other,dc=example,dc=com")
	if e.UUID() == other.UUID() {
		t.Error("expected distinct UUIDs")
	}
}

func TestAttributeAccessIsCaseInsensitive(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("objectClass", "person")
	e.SetStringAttribute("cn", "test")

	if got := e.GetFirst("OBJECTCLASS"); got != "person" {
		t.Errorf("GetFirst(OBJECTCLASS) = %q, want person", got)
	}
	if !e.Has("CN") {
		t.Error("Has(CN) = false")
	}
	if e.Has("sn") {
		t.Error("Has(sn) = true for absent attribute")
	}
}

func TestAddAttributeAppends(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("objectClass", "top")
	e.AddAttribute("objectClass", []byte("person"))

	values := e.GetAll("objectClass")
	if len(values) != 2 || values[0] != "top" || values[1] != "person" {
		t.Errorf("GetAll(objectClass) = %v", values)
	}
}

func TestDeleteAttribute(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("description", "something")
	e.Delete("DESCRIPTION")
	if e.Has("description") {
		t.Error("attribute survived Delete")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("cn", "test")

	clone := e.Clone()
	clone.SetStringAttribute("cn", "changed")
	clone.SetStringAttribute("sn", "new")

	if got := e.GetFirst("cn"); got != "test" {
		t.Errorf("original cn = %q after clone mutation", got)
	}
	if e.Has("sn") {
		t.Error("attribute added to clone leaked into original")
	}
}

func TestApplyAdd(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("cn", "test")

	e.Apply(NewStringModification(ModAdd, "cn", "alias"))
	values := e.GetAll("cn")
	if len(values) != 2 || values[1] != "alias" {
		t.Errorf("cn = %v after add", values)
	}
}

func TestApplyReplace(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetStringAttribute("mail", "old@example.com")

	e.Apply(NewStringModification(ModReplace, "mail", "new@example.com"))
	if got := e.GetFirst("mail"); got != "new@example.com" {
		t.Errorf("mail = %q after replace", got)
	}

	e.Apply(NewModification(ModReplace, "mail"))
	if e.Has("mail") {
		t.Error("empty replace should remove the attribute")
	}
}

func TestApplyDelete(t *testing.T) {
	e := New("cn=test,dc=example,dc=com")
	e.SetAttribute("member", [][]byte{[]byte("cn=a"), []byte("cn=b"), []byte("cn=c")}...)

	e.Apply(NewStringModification(ModDelete, "member", "cn=b"))
	values := e.GetAttribute("member")
	if len(values) != 2 {
		t.Fatalf("member has %d values after delete", len(values))
	}
	for _, v := range values {
		if bytes.Equal(v, []byte("cn=b")) {
			t.Error("deleted value still present")
		}
	}

	e.Apply(NewModification(ModDelete, "member"))
	if e.Has("member") {
		t.Error("empty delete should remove the attribute")
	}
}
