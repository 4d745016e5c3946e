package schema

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common LDAP syntax OIDs as constants for convenience.
const (
	// SyntaxDirectoryString is the OID for Directory String syntax (UTF-8 string).
	SyntaxDirectoryString = "1.3.6.1.4.1.1466.115.121.1.15"

	// SyntaxDN is the OID for Distinguished Name syntax.
	SyntaxDN = "1.3.6.1.4.1.1466.115.121.1.12"

	// SyntaxInteger is the OID for Integer syntax.
	SyntaxInteger = "1.3.6.1.4.1.1466.115.121.1.27"

	// SyntaxBoolean is the OID for Boolean syntax.
	SyntaxBoolean = "1.3.6.1.4.1.1466.115.121.1.7"

	// SyntaxOctetString is the OID for Octet String syntax (binary data).
	SyntaxOctetString = "1.3.6.1.4.1.1466.115.121.1.40"

	// SyntaxGeneralizedTime is the OID for Generalized Time syntax.
	SyntaxGeneralizedTime = "1.3.6.1.4.1.1466.115.121.1.24"

	// SyntaxOID is the OID for OID syntax.
	SyntaxOID = "1.3.6.1.4.1.1466.115.121.1.38"

	// SyntaxTelephoneNumber is the OID for Telephone Number syntax.
	SyntaxTelephoneNumber = "1.3.6.1.4.1.1466.115.121.1.50"

	// SyntaxIA5String is the OID for IA5 String syntax (ASCII).
	SyntaxIA5String = "1.3.6.1.4.1.1466.115.121.1.26"

	// SyntaxPrintableString is the OID for Printable String syntax.
	SyntaxPrintableString = "1.3.6.1.4.1.1466.115.121.1.44"

	// SyntaxNumericString is the OID for Numeric String syntax.
	SyntaxNumericString = "1.3.6.1.4.1.1466.115.121.1.36"

	// SyntaxBitString is the OID for Bit String syntax.
	SyntaxBitString = "1.3.6.1.4.1.1466.115.121.1.6"

	// SyntaxPostalAddress is the OID for Postal Address syntax.
	SyntaxPostalAddress = "1.3.6.1.4.1.1466.115.121.1.41"

	// SyntaxNameAndOptionalUID is the OID for Name And Optional UID syntax.
	SyntaxNameAndOptionalUID = "1.3.6.1.4.1.1466.115.121.1.34"

	// SyntaxUUID is the OID for UUID syntax.
	SyntaxUUID = "1.3.6.1.1.16.1"
)

// Grammar matchers for the common syntaxes. Each matches one value against
// one syntax; they are wrapped into SyntaxChecker objects by Bootstrap.

// CheckDirectoryString validates a Directory String: a non-empty, valid
// UTF-8 string.
func CheckDirectoryString(value []byte) bool {
	return len(value) > 0 && utf8.Valid(value)
}

// CheckInteger validates an Integer value: an optionally signed decimal
// number.
func CheckInteger(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	start := 0
	if value[0] == '-' || value[0] == '+' {
		start = 1
		if len(value) == 1 {
			return false
		}
	}
	for i := start; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// CheckBoolean validates a Boolean value: "TRUE" or "FALSE".
func CheckBoolean(value []byte) bool {
	s := string(value)
	return s == "TRUE" || s == "FALSE"
}

// CheckOctetString validates an Octet String. Any byte sequence is valid.
func CheckOctetString(value []byte) bool {
	return true
}

// CheckIA5String validates an IA5 String: all bytes in the ASCII range.
func CheckIA5String(value []byte) bool {
	for _, b := range value {
		if b > 127 {
			return false
		}
	}
	return true
}

// CheckPrintableString validates a Printable String.
func CheckPrintableString(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	for _, b := range value {
		if !isPrintableChar(b) {
			return false
		}
	}
	return true
}

// isPrintableChar checks if a byte is a valid printable string character.
func isPrintableChar(b byte) bool {
	// A-Z, a-z, 0-9, space, and special characters: '()+,-./:=?
	if b >= 'A' && b <= 'Z' {
		return true
	}
	if b >= 'a' && b <= 'z' {
		return true
	}
	if b >= '0' && b <= '9' {
		return true
	}
	switch b {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

// CheckNumericString validates a Numeric String: digits and spaces only.
func CheckNumericString(value []byte) bool {
	for _, b := range value {
		if b != ' ' && (b < '0' || b > '9') {
			return false
		}
	}
	return true
}

// CheckTelephoneNumber validates a Telephone Number.
func CheckTelephoneNumber(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	for _, b := range value {
		if !isTelephoneChar(b) {
			return false
		}
	}
	return true
}

// isTelephoneChar checks if a byte is a valid telephone number character.
func isTelephoneChar(b byte) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	switch b {
	case ' ', '-', '(', ')', '+', '.':
		return true
	}
	return false
}

// CheckOID validates an OID value: either a dotted-decimal OID or a
// descriptor (keystring starting with a letter).
func CheckOID(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	if value[0] >= '0' && value[0] <= '9' {
		return isNumericOID(string(value))
	}
	return isKeystring(string(value))
}

func isNumericOID(s string) bool {
	lastDot := true // leading digit required after every dot
	digits := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			lastDot = false
			digits++
		case s[i] == '.':
			if lastDot {
				return false
			}
			lastDot = true
		default:
			return false
		}
	}
	return !lastDot && digits > 0
}

func isKeystring(s string) bool {
	if len(s) == 0 {
		return false
	}
	first := s[0]
	if !(first >= 'a' && first <= 'z') && !(first >= 'A' && first <= 'Z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-' {
			continue
		}
		return false
	}
	return true
}

// generalizedTimeLayouts are the RFC 4517 Generalized Time forms accepted
// by CheckGeneralizedTime, most precise first.
var generalizedTimeLayouts = []string{
	"20060102150405.999999999Z0700",
	"20060102150405Z0700",
	"200601021504Z0700",
	"2006010215Z0700",
}

// CheckGeneralizedTime validates a Generalized Time value such as
// "20060102150405Z" or "20060102150405.123+0200".
func CheckGeneralizedTime(value []byte) bool {
	s := string(value)
	for _, layout := range generalizedTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// CheckDN validates a Distinguished Name value at the string level: empty
// (the root DSE) or a sequence of attr=value pairs separated by commas.
// Schema-aware DN validation lives in the dn package.
func CheckDN(value []byte) bool {
	s := string(value)
	if s == "" {
		return true
	}
	for _, rdn := range splitUnescaped(s, ',') {
		if !checkRDN(rdn) {
			return false
		}
	}
	return true
}

func checkRDN(rdn string) bool {
	for _, ava := range splitUnescaped(rdn, '+') {
		parts := splitUnescaped(ava, '=')
		if len(parts) != 2 {
			return false
		}
		if !CheckOID([]byte(trimSpace(parts[0]))) {
			return false
		}
	}
	return true
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}

// CheckBitString validates a Bit String value such as '0101'B.
func CheckBitString(value []byte) bool {
	s := string(value)
	if len(s) < 3 || s[0] != '\'' || s[len(s)-2] != '\'' || s[len(s)-1] != 'B' {
		return false
	}
	for i := 1; i < len(s)-2; i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}

// CheckUUID validates a UUID value in the RFC 4122 string form.
func CheckUUID(value []byte) bool {
	_, err := uuid.Parse(string(value))
	return err == nil
}
