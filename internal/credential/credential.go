// Package credential derives verifiable secrets from passwords. The
// concrete key-derivation algorithm is an interchangeable strategy; the
// engine only requires that Derive(password, salt) is deterministic and
// that equal outputs imply matching credentials.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

// Verifier produces salts and derives secrets from passwords. Derive must
// be deterministic for a given (password, salt) pair and computationally
// expensive enough to resist brute force.
type Verifier interface {
	NewSalt() ([]byte, error)
	Derive(password string, salt []byte) []byte
}

// PBKDF2 implements Verifier using PBKDF2 with HMAC-SHA256.
type PBKDF2 struct {
	Iterations int // work factor
	KeyLen     int // derived secret length in bytes
	SaltLen    int // salt length in bytes
}

// NewPBKDF2 returns a PBKDF2 verifier with the given iteration count and
// 16-byte salts and keys.
func NewPBKDF2(iterations int) PBKDF2 {
	return PBKDF2{Iterations: iterations, KeyLen: 16, SaltLen: 16}
}

// NewSalt returns cryptographically random salt bytes.
func (p PBKDF2) NewSalt() ([]byte, error) {
	b := make([]byte, p.SaltLen)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Derive computes the secret for the given password and salt.
func (p PBKDF2) Derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeyLen, sha256.New)
}

// Match compares a stored secret against one freshly derived from the
// supplied password in constant time.
func Match(v Verifier, stored []byte, password string, salt []byte) bool {
	derived := v.Derive(password, salt)
	return subtle.ConstantTimeCompare(stored, derived) == 1
}
