// Package securex implements credential handling for bidder accounts:
// salted password hashing and verification, username/email validation,
// and a small display sanitizer.
//
// Stored credentials use the format "salt:digest" where both parts are
// base64-encoded and digest = SHA-256(salt || password). Parameterized
// queries remain the sole SQL-injection defense; SanitizeForDisplay only
// neutralizes markup when values are rendered later.
package securex

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	saltLength = 16
	delimiter  = ":"
)

var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,6}$`)

// HashPassword hashes a password with a fresh 16-byte random salt and
// returns the stored form "salt_b64:digest_b64".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation error: %w", err)
	}

	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	digest := h.Sum(nil)

	return base64.StdEncoding.EncodeToString(salt) + delimiter +
		base64.StdEncoding.EncodeToString(digest), nil
}

// CheckPassword verifies a password against a stored "salt:digest" value.
// It fails closed: any malformed input (wrong part count, undecodable
// base64) yields false rather than an error. The digest comparison is
// constant time.
func CheckPassword(password, stored string) bool {
	parts := strings.Split(stored, delimiter)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	digest, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	candidate := h.Sum(nil)

	return subtle.ConstantTimeCompare(digest, candidate) == 1
}

// IsValidEmail reports whether s has a conventional local@domain.tld
// shape, case-insensitive.
func IsValidEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// IsValidPassword reports whether s is at least 8 characters long and
// contains at least one digit, one lowercase and one uppercase letter.
func IsValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}

// SanitizeForDisplay escapes '<' and '>' so user-supplied text cannot
// inject markup when rendered. It is not a general encoder.
func SanitizeForDisplay(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
