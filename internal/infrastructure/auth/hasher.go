package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptSecretHasher hashes client secrets for storage.
type BcryptSecretHasher struct {
	cost int
}

func NewBcryptSecretHasher(cost int) *BcryptSecretHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptSecretHasher{cost: cost}
}

func (h *BcryptSecretHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret hash: %w", err)
	}
	return string(hash), nil
}

// Verify returns a generic error regardless of the actual cause so a
// caller cannot distinguish a wrong secret from a malformed hash.
func (h *BcryptSecretHasher) Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return fmt.Errorf("secret verification failed")
	}
	return nil
}
