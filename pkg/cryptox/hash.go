package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// IdentityHash derives the lookup key for an account from its login
// identifier. Identifiers are case-insensitive, so the input is lowercased
// before hashing. The plaintext identifier never reaches the account lookup.
func IdentityHash(identifier string) string {
	return SHA256Hex(strings.ToLower(strings.TrimSpace(identifier)))
}
