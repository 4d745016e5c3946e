package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parser errors
var (
	ErrInvalidDefinition  = errors.New("invalid schema definition")
	ErrMissingDefOID      = errors.New("missing OID in definition")
	ErrUnterminatedString = errors.New("unterminated quoted string")
	ErrUnterminatedParens = errors.New("unterminated parentheses")
)

// ParseAttributeType parses an RFC 4512 attribute type definition.
// Format: ( OID NAME 'name' SUP superior EQUALITY rule SYNTAX oid SINGLE-VALUE ... )
func ParseAttributeType(s string) (*AttributeType, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	at := NewAttributeType(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.description = unquote(tokens[i])
		case "OBSOLETE":
			at.obsolete = true
		case "SUP":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.superiorOID = unquote(tokens[i])
		case "EQUALITY":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.equalityOID = unquote(tokens[i])
		case "ORDERING":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.orderingOID = unquote(tokens[i])
		case "SUBSTR":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.substringOID = unquote(tokens[i])
		case "SYNTAX":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			// Syntax may include a length constraint like
			// "1.3.6.1.4.1.1466.115.121.1.15{256}"
			at.syntaxOID = parseSyntaxOID(tokens[i])
		case "SINGLE-VALUE":
			at.singleValue = true
		case "COLLECTIVE":
			at.collective = true
		case "NO-USER-MODIFICATION":
			at.noUserMod = true
		case "USAGE":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("attribute type %s: %w", at.OID(), ErrInvalidDefinition)
			}
			at.usage = parseUsage(tokens[i])
		default:
			i = parseExtension(&at.object, tokens, i)
		}
		i++
	}
	return at, nil
}

// ParseObjectClass parses an RFC 4512 object class definition.
// Format: ( OID NAME 'name' SUP superior KIND MUST (a $ b) MAY (c) )
func ParseObjectClass(s string) (*ObjectClass, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	oc := NewObjectClass(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("object class %s: %w", oc.OID(), ErrInvalidDefinition)
			}
			oc.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("object class %s: %w", oc.OID(), ErrInvalidDefinition)
			}
			oc.description = unquote(tokens[i])
		case "OBSOLETE":
			oc.obsolete = true
		case "SUP":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("object class %s: %w", oc.OID(), ErrInvalidDefinition)
			}
			oc.superiorOIDs = parseOIDList(tokens[i])
		case "ABSTRACT":
			oc.kind = ObjectClassAbstract
		case "STRUCTURAL":
			oc.kind = ObjectClassStructural
		case "AUXILIARY":
			oc.kind = ObjectClassAuxiliary
		case "MUST":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("object class %s: %w", oc.OID(), ErrInvalidDefinition)
			}
			oc.mustOIDs = parseOIDList(tokens[i])
		case "MAY":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("object class %s: %w", oc.OID(), ErrInvalidDefinition)
			}
			oc.mayOIDs = parseOIDList(tokens[i])
		default:
			i = parseExtension(&oc.object, tokens, i)
		}
		i++
	}
	return oc, nil
}

// ParseMatchingRule parses an RFC 4512 matching rule definition.
// Format: ( OID NAME 'name' SYNTAX syntaxOID )
func ParseMatchingRule(s string) (*MatchingRule, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	mr := NewMatchingRule(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule %s: %w", mr.OID(), ErrInvalidDefinition)
			}
			mr.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule %s: %w", mr.OID(), ErrInvalidDefinition)
			}
			mr.description = unquote(tokens[i])
		case "OBSOLETE":
			mr.obsolete = true
		case "SYNTAX":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule %s: %w", mr.OID(), ErrInvalidDefinition)
			}
			mr.syntaxOID = parseSyntaxOID(tokens[i])
		default:
			i = parseExtension(&mr.object, tokens, i)
		}
		i++
	}
	return mr, nil
}

// ParseLdapSyntax parses an RFC 4512 syntax definition.
// Format: ( OID DESC 'description' X-NOT-HUMAN-READABLE 'TRUE' )
func ParseLdapSyntax(s string) (*LdapSyntax, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	syn := NewLdapSyntax(tokens[0], "")
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("syntax %s: %w", syn.OID(), ErrInvalidDefinition)
			}
			syn.description = unquote(tokens[i])
		default:
			i = parseExtension(&syn.object, tokens, i)
		}
		i++
	}
	if vals := syn.extensions["X-NOT-HUMAN-READABLE"]; len(vals) > 0 && strings.EqualFold(vals[0], "TRUE") {
		syn.humanReadable = false
	}
	return syn, nil
}

// ParseNameForm parses an RFC 4512 name form definition.
// Format: ( OID NAME 'name' OC class MUST (a $ b) MAY (c) )
func ParseNameForm(s string) (*NameForm, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	nf := NewNameForm(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("name form %s: %w", nf.OID(), ErrInvalidDefinition)
			}
			nf.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("name form %s: %w", nf.OID(), ErrInvalidDefinition)
			}
			nf.description = unquote(tokens[i])
		case "OBSOLETE":
			nf.obsolete = true
		case "OC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("name form %s: %w", nf.OID(), ErrInvalidDefinition)
			}
			nf.objectClassOID = unquote(tokens[i])
		case "MUST":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("name form %s: %w", nf.OID(), ErrInvalidDefinition)
			}
			nf.mustOIDs = parseOIDList(tokens[i])
		case "MAY":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("name form %s: %w", nf.OID(), ErrInvalidDefinition)
			}
			nf.mayOIDs = parseOIDList(tokens[i])
		default:
			i = parseExtension(&nf.object, tokens, i)
		}
		i++
	}
	return nf, nil
}

// ParseDitContentRule parses an RFC 4512 DIT content rule definition.
// Format: ( OID NAME 'name' AUX (a $ b) MUST (c) MAY (d) NOT (e) )
func ParseDitContentRule(s string) (*DitContentRule, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	dcr := NewDitContentRule(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.description = unquote(tokens[i])
		case "OBSOLETE":
			dcr.obsolete = true
		case "AUX":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.auxOIDs = parseOIDList(tokens[i])
		case "MUST":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.mustOIDs = parseOIDList(tokens[i])
		case "MAY":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.mayOIDs = parseOIDList(tokens[i])
		case "NOT":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("content rule %s: %w", dcr.OID(), ErrInvalidDefinition)
			}
			dcr.notOIDs = parseOIDList(tokens[i])
		default:
			i = parseExtension(&dcr.object, tokens, i)
		}
		i++
	}
	return dcr, nil
}

// ParseDitStructureRule parses an RFC 4512 DIT structure rule definition.
// Format: ( ruleID NAME 'name' FORM nameForm SUP ( 1 2 ) )
func ParseDitStructureRule(s string) (*DitStructureRule, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	ruleID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("structure rule: bad rule ID %q: %w", tokens[0], ErrInvalidDefinition)
	}
	dsr := NewDitStructureRule(ruleID)
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("structure rule %d: %w", ruleID, ErrInvalidDefinition)
			}
			dsr.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("structure rule %d: %w", ruleID, ErrInvalidDefinition)
			}
			dsr.description = unquote(tokens[i])
		case "OBSOLETE":
			dsr.obsolete = true
		case "FORM":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("structure rule %d: %w", ruleID, ErrInvalidDefinition)
			}
			dsr.nameFormOID = unquote(tokens[i])
		case "SUP":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("structure rule %d: %w", ruleID, ErrInvalidDefinition)
			}
			for _, id := range strings.Fields(strings.ReplaceAll(tokens[i], "$", " ")) {
				sup, err := strconv.Atoi(id)
				if err != nil {
					return nil, fmt.Errorf("structure rule %d: bad SUP %q: %w", ruleID, id, ErrInvalidDefinition)
				}
				dsr.superiorIDs = append(dsr.superiorIDs, sup)
			}
		default:
			i = parseExtension(&dsr.object, tokens, i)
		}
		i++
	}
	return dsr, nil
}

// ParseMatchingRuleUse parses an RFC 4512 matching rule use definition.
// Format: ( OID NAME 'name' APPLIES (a $ b) )
func ParseMatchingRuleUse(s string) (*MatchingRuleUse, error) {
	tokens, err := defTokens(s)
	if err != nil {
		return nil, err
	}
	mru := NewMatchingRuleUse(tokens[0])
	i := 1
	for i < len(tokens) {
		keyword := strings.ToUpper(tokens[i])
		switch keyword {
		case "NAME":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule use %s: %w", mru.OID(), ErrInvalidDefinition)
			}
			mru.names = parseNames(tokens[i])
		case "DESC":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule use %s: %w", mru.OID(), ErrInvalidDefinition)
			}
			mru.description = unquote(tokens[i])
		case "OBSOLETE":
			mru.obsolete = true
		case "APPLIES":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("matching rule use %s: %w", mru.OID(), ErrInvalidDefinition)
			}
			mru.appliesOIDs = parseOIDList(tokens[i])
		default:
			i = parseExtension(&mru.object, tokens, i)
		}
		i++
	}
	return mru, nil
}

// defTokens strips the outer parentheses of a definition and tokenizes the
// body, verifying that an OID token is present.
func defTokens(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, ErrInvalidDefinition
	}
	tokens, err := tokenize(strings.TrimSpace(s[1 : len(s)-1]))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrMissingDefOID
	}
	return tokens, nil
}

// parseExtension consumes an X- extension keyword and its value when
// tokens[i] is one, recording it on obj. Unknown non-extension keywords
// are skipped. Returns the index of the last consumed token.
func parseExtension(obj *object, tokens []string, i int) int {
	keyword := strings.ToUpper(tokens[i])
	if !strings.HasPrefix(keyword, "X-") || i+1 >= len(tokens) {
		return i
	}
	if obj.extensions == nil {
		obj.extensions = make(map[string][]string)
	}
	obj.extensions[keyword] = parseNames(tokens[i+1])
	return i + 1
}

// tokenize splits a schema definition into tokens, handling quoted strings
// and parentheses.
func tokenize(s string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false
	parenDepth := 0

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inQuote {
			current.WriteByte(ch)
			if ch == '\'' {
				inQuote = false
			}
			continue
		}

		switch ch {
		case '\'':
			inQuote = true
			current.WriteByte(ch)
		case '(':
			if parenDepth > 0 {
				current.WriteByte(ch)
			}
			parenDepth++
		case ')':
			parenDepth--
			if parenDepth > 0 {
				current.WriteByte(ch)
			} else if parenDepth == 0 && current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case ' ', '\t', '\n', '\r':
			if parenDepth > 0 {
				current.WriteByte(ch)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case '$':
			if parenDepth > 0 {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}

	if inQuote {
		return nil, ErrUnterminatedString
	}
	if parenDepth != 0 {
		return nil, ErrUnterminatedParens
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// parseNames parses a NAME value which can be a single quoted string or a
// list. Examples: 'cn' or ( 'cn' 'commonName' )
func parseNames(s string) []string {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "'") {
		var names []string
		inQuote := false
		var current strings.Builder

		for i := 0; i < len(s); i++ {
			ch := s[i]
			if ch == '\'' {
				if inQuote {
					if current.Len() > 0 {
						names = append(names, current.String())
						current.Reset()
					}
				}
				inQuote = !inQuote
			} else if inQuote {
				current.WriteByte(ch)
			}
		}
		return names
	}

	// Single unquoted name
	return []string{s}
}

// parseOIDList parses a list of OIDs or names.
// Examples: cn or ( cn $ sn $ 2.5.4.3 )
func parseOIDList(s string) []string {
	parts := strings.Split(strings.TrimSpace(s), "$")
	var oids []string
	for _, part := range parts {
		part = unquote(strings.TrimSpace(part))
		if part != "" {
			oids = append(oids, part)
		}
	}
	return oids
}

// unquote removes surrounding single quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// parseSyntaxOID extracts the OID from a syntax specification, dropping a
// length constraint like "1.3.6.1.4.1.1466.115.121.1.15{256}".
func parseSyntaxOID(s string) string {
	s = unquote(s)
	if idx := strings.Index(s, "{"); idx != -1 {
		return s[:idx]
	}
	return s
}

// parseUsage parses an attribute usage value.
func parseUsage(s string) AttributeUsage {
	switch strings.ToLower(unquote(s)) {
	case "userapplications":
		return UserApplications
	case "directoryoperation":
		return DirectoryOperation
	case "distributedoperation":
		return DistributedOperation
	case "dsaoperation":
		return DSAOperation
	default:
		return UserApplications
	}
}
