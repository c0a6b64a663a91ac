package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the minimum password rules: at least 8
// characters with an upper-case letter, a lower-case letter and a digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain an upper-case letter, a lower-case letter and a digit")
	}
	return nil
}

// HashAnswer hashes a security answer with HMAC-SHA256. Answers are normalized
// (trimmed, lower-cased) so casing and stray whitespace never lock a user out.
func HashAnswer(secret, answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyAnswer reports whether the given answer matches the stored hash.
func VerifyAnswer(secret, answer, storedHash string) bool {
	return hmac.Equal([]byte(HashAnswer(secret, answer)), []byte(storedHash))
}

// EmailDigest produces a deterministic HMAC-SHA256 digest of an email address.
// The digest is stored alongside the encrypted email so accounts can be looked
// up without decrypting every record.
func EmailDigest(secret, email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
