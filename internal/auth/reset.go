package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL bounds how long a recovery link stays usable.
const ResetTokenTTL = 30 * time.Minute

// NewResetToken generates a one-time recovery secret with 256 bits of
// entropy. Only its hash is ever persisted; the plaintext goes out by email
// and is gone.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ResetExpiry returns the absolute expiry for a token issued now.
func ResetExpiry(now time.Time) time.Time {
	return now.UTC().Add(ResetTokenTTL)
}
