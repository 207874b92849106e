package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinCost is the minimum bcrypt cost (4)
	MinCost = bcrypt.MinCost
	// DefaultCost is the recommended bcrypt cost (12)
	DefaultCost = 12
	// MaxCost is the maximum bcrypt cost (31)
	MaxCost            = bcrypt.MaxCost
	errPasswordEmpty   = "password cannot be empty"
	errHashPasswordFmt = "failed to hash password: %w"
	errGetHashCostFmt  = "failed to get hash cost: %w"
)

// Hash generates a bcrypt hash of the password
func Hash(password string) (string, error) {
	return hashWithCost(password, DefaultCost)
}

// Verify checks if the password matches the hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NeedsRehash checks if the hash needs to be rehashed with a higher cost
func NeedsRehash(hash string, cost int) (bool, error) {
	hashCost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, fmt.Errorf(errGetHashCostFmt, err)
	}

	return hashCost < cost, nil
}

func hashWithCost(password string, cost int) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf(errPasswordEmpty)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf(errHashPasswordFmt, err)
	}

	return string(bytes), nil
}

// BcryptVerifier is a one-way credential verifier backed by bcrypt.
// The zero value hashes with DefaultCost.
type BcryptVerifier struct {
	Cost int
}

// NewBcryptVerifier returns a verifier hashing at the given cost.
// Costs outside bcrypt's range fall back to DefaultCost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < MinCost || cost > MaxCost {
		cost = DefaultCost
	}
	return &BcryptVerifier{Cost: cost}
}

// Matches reports whether plaintext hashes to hash.
func (v *BcryptVerifier) Matches(plaintext, hash string) bool {
	return Verify(plaintext, hash)
}

// Hash returns the bcrypt hash of plaintext.
func (v *BcryptVerifier) Hash(plaintext string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	return hashWithCost(plaintext, cost)
}
