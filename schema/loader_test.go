package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLDIF = `dn: cn=custom,cn=schema
objectClass: subschema
cn: custom
attributeTypes: ( 1.3.6.1.4.1.99999.1.1 NAME 'projectCode'
  EQUALITY caseIgnoreMatch
  SYNTAX 1.3.6.1.4.1.1466.115.121.1.15 SINGLE-VALUE )
attributeTypes: ( 1.3.6.1.4.1.99999.1.2 NAME 'projectLead'
  EQUALITY distinguishedNameMatch
  SYNTAX 1.3.6.1.4.1.1466.115.121.1.12 )
objectClasses: ( 1.3.6.1.4.1.99999.2.1 NAME 'project' SUP top STRUCTURAL
  MUST ( cn $ projectCode ) MAY ( projectLead $ description ) )
`

func TestLoadSchema(t *testing.T) {
	r, err := Bootstrap()
	require.NoError(t, err)

	require.NoError(t, r.LoadSchema(strings.NewReader(testLDIF), "custom"))

	at, err := r.AttributeType("projectCode")
	require.NoError(t, err)
	assert.Equal(t, "custom", at.SchemaName())
	assert.True(t, at.SingleValue())
	assert.True(t, at.Locked())
	require.NotNil(t, at.Equality())
	assert.Equal(t, "caseIgnoreMatch", at.Equality().Name())

	oc, err := r.ObjectClass("project")
	require.NoError(t, err)
	assert.Len(t, oc.Must(), 2)
	assert.Len(t, oc.May(), 2)

	// The loaded class holds graph edges into the bootstrap schema.
	top, err := r.ObjectClass("top")
	require.NoError(t, err)
	assert.Contains(t, r.GetUsedBy(top), RefOf(oc))
}

func TestLoadSchemaCollectsParseAndLinkErrors(t *testing.T) {
	r, err := Bootstrap()
	require.NoError(t, err)

	ldif := `attributeTypes: ( broken definition
attributeTypes: ( 1.3.6.1.4.1.99999.1.3 NAME 'orphan'
  EQUALITY noSuchMatch SYNTAX 1.3.6.1.4.1.1466.115.121.1.15 )
`
	err = r.LoadSchema(strings.NewReader(ldif), "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.ErrorIs(t, err, ErrNotFound)

	// The definition after the broken one was still processed.
	at, lookupErr := r.AttributeType("orphan")
	require.NoError(t, lookupErr)
	assert.Nil(t, at.Equality())
	assert.Equal(t, "noSuchMatch", at.EqualityOID())
}

func TestLoadSchemaDuplicateIsFatal(t *testing.T) {
	r, err := Bootstrap()
	require.NoError(t, err)

	ldif := `attributeTypes: ( 2.5.4.3 NAME 'clash' SYNTAX 1.3.6.1.4.1.1466.115.121.1.15 )
`
	err = r.LoadSchema(strings.NewReader(ldif), "dup")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestLoadSchemaBase64Value(t *testing.T) {
	r, err := Bootstrap()
	require.NoError(t, err)

	// "( 1.3.6.1.4.1.99999.3.1 NAME 'b64attr' SYNTAX 1.3.6.1.4.1.1466.115.121.1.15 )"
	ldif := "attributeTypes:: KCAxLjMuNi4xLjQuMS45OTk5OS4zLjEgTkFNRSAnYjY0YXR0cicgU1lOVEFYIDEuMy42LjEuNC4xLjE0NjYuMTE1LjEyMS4xLjE1ICk=\n"
	require.NoError(t, r.LoadSchema(strings.NewReader(ldif), "b64"))

	_, err = r.AttributeType("b64attr")
	assert.NoError(t, err)
}

func TestLoadSchemaFileMissing(t *testing.T) {
	r := NewRegistries()
	err := r.LoadSchemaFile("/nonexistent/schema.ldif")
	assert.ErrorIs(t, err, ErrSchemaFileNotFound)
}
