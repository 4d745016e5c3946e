package entry

import (
	"fmt"
	"strings"

	"github.com/KilimcininKorOglu/dizin/schema"
)

// Validation error codes
const (
	// ErrObjectClassViolation indicates an object class constraint violation.
	ErrObjectClassViolation = iota
	// ErrUndefinedAttributeType indicates an attribute type is not defined in the schema.
	ErrUndefinedAttributeType
	// ErrInvalidAttributeSyntax indicates an attribute value does not match its syntax.
	ErrInvalidAttributeSyntax
	// ErrMissingRequiredAttribute indicates a required (MUST) attribute is missing.
	ErrMissingRequiredAttribute
	// ErrSingleValueViolation indicates a single-value attribute has multiple values.
	ErrSingleValueViolation
	// ErrNoUserModification indicates an attempt to modify a read-only attribute.
	ErrNoUserModification
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    int
	Message string
	Attr    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Attr)
	}
	return e.Message
}

func validationError(code int, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func validationErrorAttr(code int, message, attr string) *ValidationError {
	return &ValidationError{Code: code, Message: message, Attr: attr}
}

// Validator validates entries against the schema registries.
type Validator struct {
	registries *schema.Registries
}

// NewValidator creates a Validator over the given registries.
func NewValidator(r *schema.Registries) *Validator {
	return &Validator{registries: r}
}

// Registries returns the registries the validator checks against.
func (v *Validator) Registries() *schema.Registries {
	return v.registries
}

// ValidateEntry validates an entry against the schema.
// It checks:
//  1. The entry has an objectClass attribute
//  2. At least one object class is structural
//  3. All required (MUST) attributes are present, superiors included
//  4. Every attribute is allowed by MUST or MAY, or is operational
//  5. Single-value attributes carry at most one value
//  6. Attribute values match their effective syntax
func (v *Validator) ValidateEntry(e *Entry) error {
	if e == nil {
		return validationError(ErrObjectClassViolation, "entry is nil")
	}

	classes := e.GetAll("objectClass")
	if len(classes) == 0 {
		return validationError(ErrObjectClassViolation, "objectClass required")
	}

	// MUST and MAY sets keyed by attribute type OID, so every alias of an
	// attribute satisfies the same slot.
	must := make(map[string]*schema.AttributeType)
	may := make(map[string]*schema.AttributeType)
	seen := make(map[string]bool)
	hasStructural := false

	for _, className := range classes {
		oc, err := v.registries.ObjectClass(className)
		if err != nil {
			return validationErrorAttr(ErrObjectClassViolation, "unknown objectClass", className)
		}
		if oc.IsStructural() {
			hasStructural = true
		}
		collectAttributes(oc, must, may, seen)
	}

	if !hasStructural {
		return validationError(ErrObjectClassViolation, "at least one structural objectClass required")
	}

	for _, at := range must {
		if !v.hasAttribute(e, at) {
			return validationErrorAttr(ErrMissingRequiredAttribute, "missing required attribute", at.Name())
		}
	}

	for attr := range e.Attributes {
		if strings.EqualFold(attr, "objectClass") {
			continue
		}
		at, err := v.registries.AttributeType(attr)
		if err != nil {
			return validationErrorAttr(ErrUndefinedAttributeType, "undefined attribute type", attr)
		}
		if must[at.OID()] == nil && may[at.OID()] == nil && !at.IsOperational() {
			return validationErrorAttr(ErrUndefinedAttributeType, "attribute not allowed by objectClass", attr)
		}
	}

	for attr, values := range e.Attributes {
		if at, err := v.registries.AttributeType(attr); err == nil {
			if at.SingleValue() && len(values) > 1 {
				return validationErrorAttr(ErrSingleValueViolation, "single-value attribute has multiple values", attr)
			}
		}
	}

	for attr, values := range e.Attributes {
		if err := v.validateSyntax(attr, values); err != nil {
			return err
		}
	}

	return nil
}

// ValidateModifications applies the modifications to a copy of the entry
// and validates the result. NO-USER-MODIFICATION attributes reject any
// change.
func (v *Validator) ValidateModifications(e *Entry, mods []*Modification) error {
	if e == nil {
		return validationError(ErrObjectClassViolation, "entry is nil")
	}

	modified := e.Clone()
	for _, mod := range mods {
		at, err := v.registries.AttributeType(mod.Attr)
		if err == nil && at.NoUserModification() {
			return validationErrorAttr(ErrNoUserModification, "attribute is read-only", mod.Attr)
		}

		modified.Apply(mod)

		if err == nil && at.SingleValue() && len(modified.GetAttribute(mod.Attr)) > 1 {
			return validationErrorAttr(ErrSingleValueViolation, "single-value attribute has multiple values", mod.Attr)
		}
		if mod.Type == ModAdd || mod.Type == ModReplace {
			if err := v.validateSyntax(mod.Attr, mod.Values); err != nil {
				return err
			}
		}
	}

	return v.ValidateEntry(modified)
}

// collectAttributes gathers the MUST and MAY attribute types of oc and all
// of its superiors. The seen set stops the walk on cyclic superior chains.
func collectAttributes(oc *schema.ObjectClass, must, may map[string]*schema.AttributeType, seen map[string]bool) {
	if seen[oc.OID()] {
		return
	}
	seen[oc.OID()] = true
	for _, sup := range oc.Superiors() {
		collectAttributes(sup, must, may, seen)
	}
	for _, at := range oc.Must() {
		must[at.OID()] = at
	}
	for _, at := range oc.May() {
		may[at.OID()] = at
	}
}

// hasAttribute reports whether the entry carries the attribute under any of
// its names or its OID.
func (v *Validator) hasAttribute(e *Entry, at *schema.AttributeType) bool {
	if e.Has(at.OID()) {
		return true
	}
	for _, name := range at.Names() {
		if e.Has(name) {
			return true
		}
	}
	return false
}

// validateSyntax checks every value against the attribute's effective
// syntax. Unknown attributes and syntaxes without a checker are skipped.
func (v *Validator) validateSyntax(attr string, values [][]byte) error {
	at, err := v.registries.AttributeType(attr)
	if err != nil {
		return nil
	}
	syn := at.EffectiveSyntax()
	if syn == nil {
		return nil
	}
	for _, value := range values {
		if !syn.Validate(value) {
			return validationErrorAttr(ErrInvalidAttributeSyntax, "invalid attribute syntax", attr)
		}
	}
	return nil
}
