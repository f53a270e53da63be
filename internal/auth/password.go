// Package auth holds credential hashing and the signed session cookie that
// carries the logged-in user's identity between requests.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// passwordKey condenses password to a fixed 44-byte input so bcrypt's
// 72-byte limit never rejects or truncates a password.
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	key := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(key, sum[:])
	return key
}

// HashPassword returns the bcrypt hash of password. Passwords of any length
// are accepted.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(passwordKey(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), passwordKey(password)) == nil
}

var (
	decoyHashOnce sync.Once
	decoyHash     []byte
)

// CheckPasswordDecoy burns the same bcrypt work as CheckPassword against a
// throwaway hash. Call it when the login is unknown so response timing does
// not reveal whether the account exists.
func CheckPasswordDecoy(password string) {
	decoyHashOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword(passwordKey("travel-diary-decoy"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, passwordKey(password))
}
