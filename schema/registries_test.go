package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseRegistries builds registries holding a minimal consistent core: the
// directory string syntax with its checker, caseIgnoreMatch with a
// registered normalizer, and the cn attribute type.
func baseRegistries(t *testing.T) *Registries {
	t.Helper()
	r := NewRegistries()
	errs := &ErrorList{}

	require.NoError(t, r.Register(NewSyntaxChecker(SyntaxDirectoryString, CheckDirectoryString), errs))
	require.NoError(t, r.Register(NewNormalizer("2.5.13.2", NormalizeCaseIgnore), errs))
	require.NoError(t, r.Register(NewLdapSyntax(SyntaxDirectoryString, "Directory String"), errs))

	mr := NewMatchingRule("2.5.13.2", "caseIgnoreMatch")
	require.NoError(t, mr.SetSyntaxOID(SyntaxDirectoryString))
	require.NoError(t, r.Register(mr, errs))

	cn := NewAttributeType("2.5.4.3", "cn")
	require.NoError(t, cn.SetEqualityOID("caseIgnoreMatch"))
	require.NoError(t, cn.SetSyntaxOID(SyntaxDirectoryString))
	require.NoError(t, r.Register(cn, errs))

	require.NoError(t, errs.Err(), "base schema must link cleanly")
	return r
}

func TestRegisterLinksAndLocks(t *testing.T) {
	r := baseRegistries(t)

	cn, err := r.AttributeType("cn")
	require.NoError(t, err)
	assert.True(t, cn.Locked())

	mr, err := r.MatchingRule("caseIgnoreMatch")
	require.NoError(t, err)
	assert.Same(t, mr, cn.Equality())

	syn, err := r.Syntax(SyntaxDirectoryString)
	require.NoError(t, err)
	assert.Same(t, syn, cn.Syntax())

	// Both directions of the usage graph carry the edge.
	assert.Contains(t, r.GetUsing(cn), RefOf(mr))
	assert.Contains(t, r.GetUsing(cn), RefOf(syn))
	assert.Contains(t, r.GetUsedBy(mr), RefOf(cn))
	assert.Contains(t, r.GetUsedBy(syn), RefOf(cn))
}

func TestRegisterCollectsMissingRelations(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	sn := NewAttributeType("2.5.4.4", "sn")
	require.NoError(t, sn.SetEqualityOID("caseExactMatch")) // not registered
	require.NoError(t, sn.SetSyntaxOID(SyntaxDirectoryString))
	require.NoError(t, r.Register(sn, errs))

	require.Equal(t, 1, errs.Len())
	var ce *ConsistencyError
	require.ErrorAs(t, errs.Err(), &ce)
	assert.Equal(t, "EQUALITY", ce.Relation)
	assert.Equal(t, "caseExactMatch", ce.Target)
	assert.ErrorIs(t, errs.Err(), ErrNotFound)

	// The object is still registered and locked; only the unresolved
	// relation is nil. The OID string survives for a later relink.
	got, err := r.AttributeType("sn")
	require.NoError(t, err)
	assert.True(t, got.Locked())
	assert.Nil(t, got.Equality())
	assert.Equal(t, "caseExactMatch", got.EqualityOID())
	assert.NotNil(t, got.Syntax())
}

func TestRelaxedModeSuppressesConsistencyErrors(t *testing.T) {
	r := baseRegistries(t)
	r.SetRelaxed(true)
	errs := &ErrorList{}

	sn := NewAttributeType("2.5.4.4", "sn")
	require.NoError(t, sn.SetEqualityOID("caseExactMatch"))
	require.NoError(t, r.Register(sn, errs))

	assert.Equal(t, 0, errs.Len())
	got, err := r.AttributeType("sn")
	require.NoError(t, err)
	assert.Nil(t, got.Equality())
	assert.True(t, got.Locked())
}

func TestMatchingRuleOptionalDefaults(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	// No normalizer or comparator registered under 2.5.13.5: the rule
	// falls back to the no-op normalizer and byte-wise equality without
	// reporting an error or recording an edge.
	mr := NewMatchingRule("2.5.13.5", "caseExactMatch")
	require.NoError(t, mr.SetSyntaxOID(SyntaxDirectoryString))
	require.NoError(t, r.Register(mr, errs))
	require.NoError(t, errs.Err())

	require.NotNil(t, mr.Normalizer())
	require.NotNil(t, mr.Comparator())
	assert.True(t, mr.Normalizer().Locked())

	syn, err := r.Syntax(SyntaxDirectoryString)
	require.NoError(t, err)
	assert.Equal(t, []Reference{RefOf(syn)}, r.GetUsing(mr))

	// A missing syntax is mandatory: exactly one error, defaults still
	// applied.
	errs = &ErrorList{}
	orphan := NewMatchingRule("2.5.13.99")
	require.NoError(t, orphan.SetSyntaxOID("1.2.3.4"))
	require.NoError(t, r.Register(orphan, errs))
	assert.Equal(t, 1, errs.Len())
	assert.Nil(t, orphan.Syntax())
	assert.NotNil(t, orphan.Normalizer())
	assert.NotNil(t, orphan.Comparator())
}

func TestDeregisterClearsEdgesAndUnlocks(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	cn, err := r.AttributeType("cn")
	require.NoError(t, err)
	mr, err := r.MatchingRule("caseIgnoreMatch")
	require.NoError(t, err)

	require.NoError(t, r.Deregister(cn, errs))
	require.NoError(t, errs.Err())

	assert.False(t, cn.Locked())
	assert.Nil(t, cn.Equality())
	assert.Equal(t, "caseIgnoreMatch", cn.EqualityOID())
	assert.Empty(t, r.GetUsedBy(mr))
	assert.Empty(t, r.GetUsing(cn))

	_, err = r.AttributeType("cn")
	assert.ErrorIs(t, err, ErrNotFound)

	// The released OID and names can be registered again.
	require.NoError(t, r.Register(cn, errs))
	require.NoError(t, errs.Err())
	assert.True(t, cn.Locked())
	assert.NotNil(t, cn.Equality())
}

func TestRelinkDoesNotDuplicateReferences(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	top := NewObjectClass("2.5.6.0", "top")
	require.NoError(t, top.SetKind(ObjectClassAbstract))
	require.NoError(t, r.Register(top, errs))

	desc := NewAttributeType("2.5.4.13", "description")
	require.NoError(t, desc.SetEqualityOID("caseIgnoreMatch"))
	require.NoError(t, desc.SetSyntaxOID(SyntaxDirectoryString))
	require.NoError(t, r.Register(desc, errs))

	person := NewObjectClass("2.5.6.6", "person")
	require.NoError(t, person.SetSuperiorOIDs([]string{"top"}))
	require.NoError(t, person.SetMustOIDs([]string{"cn"}))
	require.NoError(t, person.SetMayOIDs([]string{"description"}))
	require.NoError(t, r.Register(person, errs))
	require.NoError(t, errs.Err())

	// Linking an already-linked object replaces the resolved references
	// instead of appending to them.
	r.Link(person, errs)
	require.NoError(t, errs.Err())

	assert.Len(t, person.Superiors(), 1)
	assert.Len(t, person.Must(), 1)
	assert.Len(t, person.May(), 1)
	assert.Contains(t, r.GetUsedBy(top), RefOf(person))
}

func TestDeregisterReferencedAttributeType(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	person := NewObjectClass("2.5.6.6", "person")
	require.NoError(t, person.SetMustOIDs([]string{"cn"}))
	require.NoError(t, r.Register(person, errs))
	require.NoError(t, errs.Err())

	cn, err := r.AttributeType("cn")
	require.NoError(t, err)

	// The usage graph reports the dangling reference the removal would
	// leave behind; refusing the removal is the caller's policy.
	usedBy := r.GetUsedBy(cn)
	require.NotEmpty(t, usedBy)
	assert.Contains(t, usedBy, RefOf(person))

	require.NoError(t, r.Deregister(cn, errs))
	require.NoError(t, errs.Err())
	_, err = r.AttributeType("cn")
	assert.ErrorIs(t, err, ErrNotFound)

	// The removal only severed cn's outgoing edges. The inbound edge and
	// person's resolved pointer survive until person is relinked.
	assert.Contains(t, r.GetUsedBy(cn), RefOf(person))
	require.Len(t, person.Must(), 1)
	assert.Same(t, cn, person.Must()[0])
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	dup := NewAttributeType("2.5.4.3", "commonName2")
	err := r.Register(dup, errs)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// A fresh OID reusing a taken name is also rejected, and the failed
	// registration must not leak the new OID into the name table.
	named := NewAttributeType("2.5.4.99", "cn")
	err = r.Register(named, errs)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	_, err = r.AttributeType("2.5.4.99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisteredObjectRejectsMutation(t *testing.T) {
	r := baseRegistries(t)

	cn, err := r.AttributeType("cn")
	require.NoError(t, err)
	assert.ErrorIs(t, cn.SetDescription("x"), ErrLockedObject)
	assert.ErrorIs(t, cn.SetSingleValue(true), ErrLockedObject)

	// Deregister, mutate, register again.
	errs := &ErrorList{}
	require.NoError(t, r.Deregister(cn, errs))
	require.NoError(t, cn.SetDescription("common name"))
	require.NoError(t, r.Register(cn, errs))
	assert.Equal(t, "common name", cn.Description())
}

func TestSharedOIDAcrossCategories(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	// A matching rule use carries the OID of the rule it describes. The
	// two objects must coexist and their graph edges must stay distinct.
	mru := NewMatchingRuleUse("2.5.13.2", "caseIgnoreMatchUse")
	require.NoError(t, mru.SetAppliesOIDs([]string{"cn"}))
	require.NoError(t, r.Register(mru, errs))
	require.NoError(t, errs.Err())

	mr, err := r.MatchingRule("2.5.13.2")
	require.NoError(t, err)
	cn, err := r.AttributeType("cn")
	require.NoError(t, err)

	assert.Contains(t, r.GetUsing(mru), RefOf(mr))
	assert.Contains(t, r.GetUsing(mru), RefOf(cn))
	assert.Contains(t, r.GetUsedBy(mr), RefOf(mru))

	// Removing the use must not disturb the rule's own edges.
	require.NoError(t, r.Deregister(mru, errs))
	assert.Contains(t, r.GetUsedBy(mr), RefOf(cn))
	assert.NotContains(t, r.GetUsedBy(mr), RefOf(mru))
}

func TestNameFormRequiresStructuralClass(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	aux := NewObjectClass("2.5.6.100", "auxThing")
	require.NoError(t, aux.SetKind(ObjectClassAuxiliary))
	require.NoError(t, r.Register(aux, errs))
	require.NoError(t, errs.Err())

	nf := NewNameForm("1.2.3.100", "auxForm")
	require.NoError(t, nf.SetObjectClassOID("auxThing"))
	require.NoError(t, nf.SetMustOIDs([]string{"cn"}))
	require.NoError(t, r.Register(nf, errs))
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Err().Error(), "STRUCTURAL")

	// Relaxed mode accepts the same shape.
	r2 := baseRegistries(t)
	r2.SetRelaxed(true)
	errs2 := &ErrorList{}
	aux2 := NewObjectClass("2.5.6.100", "auxThing")
	require.NoError(t, aux2.SetKind(ObjectClassAuxiliary))
	require.NoError(t, r2.Register(aux2, errs2))
	nf2 := NewNameForm("1.2.3.100", "auxForm")
	require.NoError(t, nf2.SetObjectClassOID("auxThing"))
	require.NoError(t, r2.Register(nf2, errs2))
	assert.Equal(t, 0, errs2.Len())
}

func TestDitStructureRuleLookupByID(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	oc := NewObjectClass("2.5.6.50", "thing")
	require.NoError(t, r.Register(oc, errs))
	nf := NewNameForm("1.2.3.50", "thingForm")
	require.NoError(t, nf.SetObjectClassOID("thing"))
	require.NoError(t, nf.SetMustOIDs([]string{"cn"}))
	require.NoError(t, r.Register(nf, errs))

	root := NewDitStructureRule(1, "rootRule")
	require.NoError(t, root.SetNameFormOID("thingForm"))
	require.NoError(t, r.Register(root, errs))

	child := NewDitStructureRule(2, "childRule")
	require.NoError(t, child.SetNameFormOID("thingForm"))
	require.NoError(t, child.SetSuperiorIDs([]int{1}))
	require.NoError(t, r.Register(child, errs))
	require.NoError(t, errs.Err())

	got, err := r.DitStructureRule(2)
	require.NoError(t, err)
	require.Len(t, got.Superiors(), 1)
	assert.Same(t, root, got.Superiors()[0])
	assert.Contains(t, r.GetUsedBy(root), RefOf(child))

	_, err = r.DitStructureRule(7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameSchema(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	at := NewAttributeType("1.2.3.4", "custom")
	at.schemaName = "inetorgperson"
	require.NoError(t, r.Register(at, errs))

	n := r.RenameSchema("inetorgperson", "people")
	assert.Equal(t, 1, n)
	assert.Equal(t, "people", at.SchemaName())
	assert.True(t, at.Locked())

	assert.Equal(t, 0, r.RenameSchema("absent", "x"))
}

func TestCopyIsDetached(t *testing.T) {
	r := baseRegistries(t)
	errs := &ErrorList{}

	cp, err := r.Copy(errs)
	require.NoError(t, err)
	require.NoError(t, errs.Err())

	orig, err := r.AttributeType("cn")
	require.NoError(t, err)
	copied, err := cp.AttributeType("cn")
	require.NoError(t, err)

	assert.NotSame(t, orig, copied)
	assert.True(t, copied.Locked())
	assert.Equal(t, orig.EqualityOID(), copied.EqualityOID())

	// Resolved references in the copy point into the copy.
	copiedMr, err := cp.MatchingRule("caseIgnoreMatch")
	require.NoError(t, err)
	assert.Same(t, copiedMr, copied.Equality())
	assert.NotSame(t, orig.Equality(), copied.Equality())

	// Mutating the copy leaves the original untouched.
	require.NoError(t, cp.Deregister(copied, errs))
	_, err = cp.AttributeType("cn")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.AttributeType("cn")
	assert.NoError(t, err)
}

func TestIterationOrderIsInsertionOrder(t *testing.T) {
	r := NewRegistries()
	errs := &ErrorList{}
	oids := []string{"1.1.3", "1.1.1", "1.1.2"}
	for _, oid := range oids {
		require.NoError(t, r.Register(NewLdapSyntax(oid, ""), errs))
	}
	// Checkers are absent, so linking reported one error per syntax.
	assert.Equal(t, len(oids), errs.Len())

	var got []string
	for syn := range r.Syntaxes() {
		got = append(got, syn.OID())
	}
	assert.Equal(t, oids, got)
}

func TestErrorListJoins(t *testing.T) {
	errs := &ErrorList{}
	assert.NoError(t, errs.Err())
	errs.Add(ErrNotFound)
	errs.Add(ErrLockedObject)
	assert.Equal(t, 2, errs.Len())
	assert.True(t, errors.Is(errs.Err(), ErrNotFound))
	assert.True(t, errors.Is(errs.Err(), ErrLockedObject))
}
