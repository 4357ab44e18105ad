package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken derives the session-store key for a refresh token. Only the
// digest is ever persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
