package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashEmail returns the hex SHA-256 of the trimmed, lowercased address,
// so logs can correlate signups without storing the email itself
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}
