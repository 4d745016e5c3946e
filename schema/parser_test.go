package schema

import (
	"errors"
	"testing"
)

func TestParseAttributeType(t *testing.T) {
	def := "( 2.5.4.3 NAME ( 'cn' 'commonName' ) DESC 'RFC4519: common name' " +
		"SUP name EQUALITY caseIgnoreMatch SUBSTR caseIgnoreSubstringsMatch " +
		"SYNTAX 1.3.6.1.4.1.1466.115.121.1.15{32768} )"

	at, err := ParseAttributeType(def)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if at.OID() != "2.5.4.3" {
		t.Errorf("expected OID 2.5.4.3, got %s", at.OID())
	}
	if at.Name() != "cn" {
		t.Errorf("expected name cn, got %s", at.Name())
	}
	if !at.HasName("commonname") {
		t.Error("expected case-insensitive alias commonName")
	}
	if at.Description() != "RFC4519: common name" {
		t.Errorf("unexpected description: %q", at.Description())
	}
	if at.SuperiorOID() != "name" {
		t.Errorf("expected SUP name, got %s", at.SuperiorOID())
	}
	if at.EqualityOID() != "caseIgnoreMatch" {
		t.Errorf("unexpected equality: %s", at.EqualityOID())
	}
	if at.SubstringOID() != "caseIgnoreSubstringsMatch" {
		t.Errorf("unexpected substring: %s", at.SubstringOID())
	}
	// Length constraint is dropped from the syntax OID.
	if at.SyntaxOID() != "1.3.6.1.4.1.1466.115.121.1.15" {
		t.Errorf("unexpected syntax: %s", at.SyntaxOID())
	}
	if at.Locked() {
		t.Error("parsed objects must start unlocked")
	}
}

func TestParseAttributeTypeOperational(t *testing.T) {
	def := "( 2.5.18.1 NAME 'createTimestamp' EQUALITY generalizedTimeMatch " +
		"SYNTAX 1.3.6.1.4.1.1466.115.121.1.24 SINGLE-VALUE NO-USER-MODIFICATION " +
		"USAGE directoryOperation )"

	at, err := ParseAttributeType(def)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !at.SingleValue() {
		t.Error("expected SINGLE-VALUE")
	}
	if !at.NoUserModification() {
		t.Error("expected NO-USER-MODIFICATION")
	}
	if at.Usage() != DirectoryOperation {
		t.Errorf("expected directoryOperation, got %v", at.Usage())
	}
	if !at.IsOperational() {
		t.Error("expected operational attribute")
	}
}

func TestParseObjectClass(t *testing.T) {
	def := "( 2.5.6.6 NAME 'person' SUP top STRUCTURAL MUST ( sn $ cn ) " +
		"MAY ( userPassword $ telephoneNumber $ seeAlso $ description ) )"

	oc, err := ParseObjectClass(def)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if oc.OID() != "2.5.6.6" {
		t.Errorf("expected OID 2.5.6.6, got %s", oc.OID())
	}
	if oc.Name() != "person" {
		t.Errorf("expected name person, got %s", oc.Name())
	}
	if !oc.IsStructural() {
		t.Errorf("expected STRUCTURAL, got %v", oc.Kind())
	}
	if len(oc.SuperiorOIDs()) != 1 || oc.SuperiorOIDs()[0] != "top" {
		t.Errorf("unexpected superiors: %v", oc.SuperiorOIDs())
	}
	if len(oc.MustOIDs()) != 2 {
		t.Errorf("expected 2 MUST attributes, got %v", oc.MustOIDs())
	}
	if len(oc.MayOIDs()) != 4 {
		t.Errorf("expected 4 MAY attributes, got %v", oc.MayOIDs())
	}
}

func TestParseObjectClassKinds(t *testing.T) {
	tests := []struct {
		def  string
		kind ObjectClassKind
	}{
		{"( 2.5.6.0 NAME 'top' ABSTRACT MUST objectClass )", ObjectClassAbstract},
		{"( 2.5.6.6 NAME 'person' SUP top STRUCTURAL MUST cn )", ObjectClassStructural},
		{"( 1.3.6.1.4.1.1466.344 NAME 'dcObject' SUP top AUXILIARY MUST dc )", ObjectClassAuxiliary},
	}

	for _, tt := range tests {
		oc, err := ParseObjectClass(tt.def)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if oc.Kind() != tt.kind {
			t.Errorf("%s: expected %v, got %v", oc.Name(), tt.kind, oc.Kind())
		}
	}
}

func TestParseMatchingRule(t *testing.T) {
	mr, err := ParseMatchingRule("( 2.5.13.2 NAME 'caseIgnoreMatch' SYNTAX 1.3.6.1.4.1.1466.115.121.1.15 )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if mr.OID() != "2.5.13.2" {
		t.Errorf("unexpected OID: %s", mr.OID())
	}
	if mr.Name() != "caseIgnoreMatch" {
		t.Errorf("unexpected name: %s", mr.Name())
	}
	if mr.SyntaxOID() != "1.3.6.1.4.1.1466.115.121.1.15" {
		t.Errorf("unexpected syntax: %s", mr.SyntaxOID())
	}
}

func TestParseLdapSyntax(t *testing.T) {
	syn, err := ParseLdapSyntax("( 1.3.6.1.4.1.1466.115.121.1.15 DESC 'Directory String' )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if syn.Description() != "Directory String" {
		t.Errorf("unexpected description: %q", syn.Description())
	}
	if !syn.HumanReadable() {
		t.Error("expected human readable by default")
	}

	syn, err = ParseLdapSyntax("( 1.3.6.1.4.1.1466.115.121.1.40 DESC 'Octet String' X-NOT-HUMAN-READABLE 'TRUE' )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if syn.HumanReadable() {
		t.Error("expected X-NOT-HUMAN-READABLE to clear the flag")
	}
	if vals := syn.Extensions()["X-NOT-HUMAN-READABLE"]; len(vals) != 1 || vals[0] != "TRUE" {
		t.Errorf("extension not recorded: %v", syn.Extensions())
	}
}

func TestParseNameForm(t *testing.T) {
	nf, err := ParseNameForm("( 1.3.6.1.1.10.15.1 NAME 'uddiBusinessEntityNameForm' OC uddiBusinessEntity MUST ( uddiBusinessKey ) )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if nf.ObjectClassOID() != "uddiBusinessEntity" {
		t.Errorf("unexpected OC: %s", nf.ObjectClassOID())
	}
	if len(nf.MustOIDs()) != 1 || nf.MustOIDs()[0] != "uddiBusinessKey" {
		t.Errorf("unexpected MUST: %v", nf.MustOIDs())
	}
}

func TestParseDitContentRule(t *testing.T) {
	dcr, err := ParseDitContentRule("( 2.5.6.6 NAME 'personRule' AUX ( posixAccount $ dcObject ) MUST uid MAY description NOT telephoneNumber )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(dcr.AuxOIDs()) != 2 {
		t.Errorf("unexpected AUX: %v", dcr.AuxOIDs())
	}
	if len(dcr.NotOIDs()) != 1 || dcr.NotOIDs()[0] != "telephoneNumber" {
		t.Errorf("unexpected NOT: %v", dcr.NotOIDs())
	}
}

func TestParseDitStructureRule(t *testing.T) {
	dsr, err := ParseDitStructureRule("( 2 NAME 'uddiContactStructureRule' FORM uddiContactNameForm SUP 1 )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if dsr.RuleID() != 2 {
		t.Errorf("expected rule ID 2, got %d", dsr.RuleID())
	}
	if dsr.NameFormOID() != "uddiContactNameForm" {
		t.Errorf("unexpected FORM: %s", dsr.NameFormOID())
	}
	if len(dsr.SuperiorIDs()) != 1 || dsr.SuperiorIDs()[0] != 1 {
		t.Errorf("unexpected SUP: %v", dsr.SuperiorIDs())
	}

	if _, err := ParseDitStructureRule("( x NAME 'bad' )"); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParseMatchingRuleUse(t *testing.T) {
	mru, err := ParseMatchingRuleUse("( 2.5.13.2 NAME 'caseIgnoreMatch' APPLIES ( cn $ sn $ description ) )")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(mru.AppliesOIDs()) != 3 {
		t.Errorf("unexpected APPLIES: %v", mru.AppliesOIDs())
	}
}

func TestParseMalformedDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want error
	}{
		{"no parens", "2.5.4.3 NAME 'cn'", ErrInvalidDefinition},
		{"empty", "(  )", ErrMissingDefOID},
		{"unterminated quote", "( 2.5.4.3 NAME 'cn )", ErrUnterminatedString},
		{"unterminated parens", "( 2.5.4.3 NAME ( 'cn' )", ErrUnterminatedParens},
	}

	for _, tt := range tests {
		_, err := ParseAttributeType(tt.def)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}
