// Package password implements the userPassword hashing schemes used in
// directory entries. Stored values carry an RFC 2307 style scheme prefix,
// for example {SSHA256}base64-of-hash-and-salt.
package password

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"hash"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported scheme prefixes.
const (
	// SchemeSHA is the plain SHA-1 scheme prefix.
	SchemeSHA = "{SHA}"
	// SchemeSSHA is the salted SHA-1 scheme prefix.
	SchemeSSHA = "{SSHA}"
	// SchemeSHA256 is the plain SHA-256 scheme prefix.
	SchemeSHA256 = "{SHA256}"
	// SchemeSSHA256 is the salted SHA-256 scheme prefix.
	SchemeSSHA256 = "{SSHA256}"
	// SchemeSHA512 is the plain SHA-512 scheme prefix.
	SchemeSHA512 = "{SHA512}"
	// SchemeSSHA512 is the salted SHA-512 scheme prefix.
	SchemeSSHA512 = "{SSHA512}"
	// SchemeBcrypt is the bcrypt scheme prefix.
	SchemeBcrypt = "{BCRYPT}"
	// SchemeCleartext indicates a cleartext password (for testing only).
	SchemeCleartext = "{CLEARTEXT}"
)

const saltLength = 16

var (
	// ErrMismatch is returned when the password does not match.
	ErrMismatch = errors.New("password: mismatch")
	// ErrInvalidFormat is returned when the stored value cannot be decoded.
	ErrInvalidFormat = errors.New("password: invalid stored format")
	// ErrUnsupportedScheme is returned when the scheme is not supported.
	ErrUnsupportedScheme = errors.New("password: unsupported scheme")
)

// Verify verifies a plaintext password against a stored value. A stored
// value without a scheme prefix is compared as cleartext.
// Returns nil if the password matches.
func Verify(plaintext, stored string) error {
	if stored == "" {
		return ErrInvalidFormat
	}

	schemeEnd := strings.Index(stored, "}")
	if schemeEnd == -1 || !strings.HasPrefix(stored, "{") {
		if subtle.ConstantTimeCompare([]byte(plaintext), []byte(stored)) == 1 {
			return nil
		}
		return ErrMismatch
	}

	scheme := strings.ToUpper(stored[:schemeEnd+1])
	encoded := stored[schemeEnd+1:]

	switch scheme {
	case SchemeCleartext:
		if subtle.ConstantTimeCompare([]byte(plaintext), []byte(encoded)) == 1 {
			return nil
		}
		return ErrMismatch

	case SchemeSHA:
		return verifyPlain(plaintext, encoded, sha1.New)

	case SchemeSSHA:
		return verifySalted(plaintext, encoded, sha1.New)

	case SchemeSHA256:
		return verifyPlain(plaintext, encoded, sha256.New)

	case SchemeSSHA256:
		return verifySalted(plaintext, encoded, sha256.New)

	case SchemeSHA512:
		return verifyPlain(plaintext, encoded, sha512.New)

	case SchemeSSHA512:
		return verifySalted(plaintext, encoded, sha512.New)

	case SchemeBcrypt:
		if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrMismatch
			}
			return ErrInvalidFormat
		}
		return nil

	default:
		return ErrUnsupportedScheme
	}
}

// Hash creates a stored password value using the given scheme. Salted
// schemes generate a fresh random salt on every call.
func Hash(plaintext, scheme string) (string, error) {
	scheme = strings.ToUpper(scheme)

	switch scheme {
	case SchemeCleartext:
		return SchemeCleartext + plaintext, nil

	case SchemeSHA:
		return hashPlain(plaintext, SchemeSHA, sha1.New), nil

	case SchemeSSHA:
		return hashSalted(plaintext, SchemeSSHA, sha1.New)

	case SchemeSHA256:
		return hashPlain(plaintext, SchemeSHA256, sha256.New), nil

	case SchemeSSHA256:
		return hashSalted(plaintext, SchemeSSHA256, sha256.New)

	case SchemeSHA512:
		return hashPlain(plaintext, SchemeSHA512, sha512.New), nil

	case SchemeSSHA512:
		return hashSalted(plaintext, SchemeSSHA512, sha512.New)

	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return SchemeBcrypt + string(h), nil

	default:
		return "", ErrUnsupportedScheme
	}
}

// Scheme returns the upper-cased scheme prefix of a stored value, or the
// empty string when the value has none.
func Scheme(stored string) string {
	if !strings.HasPrefix(stored, "{") {
		return ""
	}
	end := strings.Index(stored, "}")
	if end == -1 {
		return ""
	}
	return strings.ToUpper(stored[:end+1])
}

func verifyPlain(plaintext, encoded string, newHash func() hash.Hash) error {
	storedHash, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ErrInvalidFormat
	}

	h := newHash()
	if len(storedHash) != h.Size() {
		return ErrInvalidFormat
	}

	h.Write([]byte(plaintext))
	if subtle.ConstantTimeCompare(h.Sum(nil), storedHash) == 1 {
		return nil
	}
	return ErrMismatch
}

// verifySalted checks a salted hash stored as base64(hash || salt).
func verifySalted(plaintext, encoded string, newHash func() hash.Hash) error {
	storedData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ErrInvalidFormat
	}

	h := newHash()
	if len(storedData) <= h.Size() {
		return ErrInvalidFormat
	}

	storedHash := storedData[:h.Size()]
	salt := storedData[h.Size():]

	h.Write([]byte(plaintext))
	h.Write(salt)
	if subtle.ConstantTimeCompare(h.Sum(nil), storedHash) == 1 {
		return nil
	}
	return ErrMismatch
}

func hashPlain(plaintext, scheme string, newHash func() hash.Hash) string {
	h := newHash()
	h.Write([]byte(plaintext))
	return scheme + base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func hashSalted(plaintext, scheme string, newHash func() hash.Hash) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	h := newHash()
	h.Write([]byte(plaintext))
	h.Write(salt)

	data := append(h.Sum(nil), salt...)
	return scheme + base64.StdEncoding.EncodeToString(data), nil
}
