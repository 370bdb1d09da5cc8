package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const placeholderEntropyBytes = 32

type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher. Costs outside bcrypt's range fall back
// to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash of a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify compares a plaintext password with a stored hash. A malformed hash
// counts as a mismatch.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Placeholder returns the hash of a random secret that is discarded right
// away. It fills the credential of accounts created through federated login.
func (h *Hasher) Placeholder() (string, error) {
	b := make([]byte, placeholderEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate placeholder secret: %w", err)
	}
	// bcrypt only reads the first 72 bytes; 43 base64 chars stay below that.
	return h.Hash(base64.RawURLEncoding.EncodeToString(b))
}
