package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on a
// modern server — negligible for the rare requests that present a key,
// brutal for offline brute-forcing if the hash ever leaks.
const defaultCost = 12

// KeyService hashes and verifies shared secrets with bcrypt. Sign-in goes
// through GitHub OAuth, so there are no user passwords here; this protects
// the operational endpoints (the score-update trigger) with a deploy-time
// key. Only the bcrypt hash of the key is ever stored in configuration.
//
// It's a struct rather than free functions so the cost can be lowered in
// tests — cost 4 hashes in microseconds instead of hundreds of milliseconds.
type KeyService struct {
	cost int
}

// NewKeyService creates a KeyService with the default cost.
func NewKeyService() *KeyService {
	return &KeyService{cost: defaultCost}
}

// NewKeyServiceWithCost creates a KeyService with a custom bcrypt cost.
// Intended for tests; do not use a cost below defaultCost in production.
func NewKeyServiceWithCost(cost int) *KeyService {
	return &KeyService{cost: cost}
}

// Hash hashes a plaintext key with bcrypt. The output embeds the salt and
// cost, so the single string is all that needs storing.
//
// bcrypt silently truncates inputs longer than 72 bytes; we reject them
// explicitly so callers aren't surprised.
func (k *KeyService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: key must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), k.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing key: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext key against a stored bcrypt hash. Returns nil on
// match. bcrypt.CompareHashAndPassword compares in constant time, so response
// timing leaks nothing about how close a guess was.
func (k *KeyService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid key")
		}
		return fmt.Errorf("auth: comparing key hash: %w", err)
	}
	return nil
}
