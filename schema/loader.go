package schema

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader errors
var (
	ErrSchemaFileNotFound = errors.New("schema file not found")
	ErrInvalidLDIF        = errors.New("invalid LDIF format")
)

// LoadSchemaFile reads an LDIF schema file and registers its definitions.
// The file name without extension becomes the schema name of every
// definition it contains.
func (r *Registries) LoadSchemaFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrSchemaFileNotFound)
		}
		return err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r.LoadSchema(file, name)
}

// LoadSchema reads LDIF-formatted schema entries from reader and registers
// every definition under the given schema name.
//
// Example LDIF schema entry:
//
//	dn: cn=schema
//	objectClass: subschema
//	ldapSyntaxes: ( 1.3.6.1.4.1.1466.115.121.1.15 DESC 'Directory String' )
//	attributeTypes: ( 2.5.4.0 NAME 'objectClass' EQUALITY objectIdentifierMatch ... )
//	objectClasses: ( 2.5.6.0 NAME 'top' ABSTRACT MUST objectClass )
//
// A duplicate OID or name aborts the load. Parse failures and unresolved
// schema relations are collected and returned joined after the whole input
// has been consumed, so one bad definition does not hide the rest.
func (r *Registries) LoadSchema(reader io.Reader, schemaName string) error {
	errs := &ErrorList{}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentAttr string
	var currentBase64 bool
	var currentValue strings.Builder

	flush := func() error {
		if currentAttr == "" {
			return nil
		}
		attr := currentAttr
		value := strings.TrimSpace(currentValue.String())
		isBase64 := currentBase64
		currentAttr = ""
		currentBase64 = false
		currentValue.Reset()

		if value == "" {
			return nil
		}
		if isBase64 {
			decoded, err := base64.StdEncoding.DecodeString(value)
			if err != nil {
				errs.Add(fmt.Errorf("%s: %v: %w", attr, err, ErrInvalidLDIF))
				return nil
			}
			value = string(decoded)
		}
		return r.registerDefinition(attr, value, schemaName, errs)
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" || strings.HasPrefix(line, "#") {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		// Continuation lines start with a space or tab.
		if line[0] == ' ' || line[0] == '\t' {
			currentValue.WriteString(" ")
			currentValue.WriteString(strings.TrimLeft(line, " \t"))
			continue
		}

		if err := flush(); err != nil {
			return err
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}
		attrName := strings.TrimSpace(line[:colonIdx])
		attrValue := line[colonIdx+1:]

		// attribute:: value means the value is base64 encoded.
		if strings.HasPrefix(attrValue, ":") {
			currentBase64 = true
			attrValue = attrValue[1:]
		}

		currentAttr = attrName
		currentValue.WriteString(strings.TrimSpace(attrValue))
	}
	if err := flush(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return errs.Err()
}

// registerDefinition parses one schema definition value and registers it.
// Attributes that do not carry definitions (dn, objectClass, cn, ...) are
// skipped. The returned error is fatal; recoverable problems go to errs.
func (r *Registries) registerDefinition(attr, value, schemaName string, errs *ErrorList) error {
	var obj Object
	var err error

	switch strings.ToLower(attr) {
	case "ldapsyntaxes":
		obj, err = ParseLdapSyntax(value)
	case "matchingrules":
		obj, err = ParseMatchingRule(value)
	case "attributetypes":
		obj, err = ParseAttributeType(value)
	case "objectclasses":
		obj, err = ParseObjectClass(value)
	case "nameforms":
		obj, err = ParseNameForm(value)
	case "ditcontentrules":
		obj, err = ParseDitContentRule(value)
	case "ditstructurerules":
		obj, err = ParseDitStructureRule(value)
	case "matchingruleuses", "matchingruleuse":
		obj, err = ParseMatchingRuleUse(value)
	default:
		return nil
	}
	if err != nil {
		errs.Add(err)
		return nil
	}

	obj.base().schemaName = schemaName
	if err := r.Register(obj, errs); err != nil {
		return fmt.Errorf("schema %s: %w", schemaName, err)
	}
	return nil
}
