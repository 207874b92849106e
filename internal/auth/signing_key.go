package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
)

const (
	minSecretLength          = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2
	generatedKeyBytes        = 64
	keyIDFingerprintBytes    = 8
)

// SigningKey is the process-wide MAC key shared by token issuance and
// validation. Build it once at startup and pass the same instance to
// every consumer.
type SigningKey struct {
	secret     []byte
	kid        string
	generated  bool
	weakReason string
}

// LoadSigningKey builds the signing key from the configured secret. A secret
// failing the strength check is replaced by a random key that lives only as
// long as the process: tokens signed before a restart stop validating.
// Callers should log WeakReason when Generated reports true.
func LoadSigningKey(secret, kid string) (*SigningKey, error) {
	return loadSigningKey(secret, kid, rand.Reader)
}

func loadSigningKey(secret, kid string, random io.Reader) (*SigningKey, error) {
	key := &SigningKey{secret: []byte(secret)}

	if reason := secretWeakness(secret); reason != "" {
		generated := make([]byte, generatedKeyBytes)
		if _, err := io.ReadFull(random, generated); err != nil {
			return nil, fmt.Errorf(msgGenerateKeyFailed, err)
		}
		key.secret = generated
		key.generated = true
		key.weakReason = reason
	}

	key.kid = kid
	if key.kid == "" {
		sum := sha256.Sum256(key.secret)
		key.kid = hex.EncodeToString(sum[:keyIDFingerprintBytes])
	}

	return key, nil
}

// KeyID identifies the key in token headers and the published key set.
func (k *SigningKey) KeyID() string { return k.kid }

// Algorithm is the JWS algorithm the key signs with.
func (k *SigningKey) Algorithm() string { return jwt.SigningMethodHS256.Alg() }

// Generated reports whether the configured secret was replaced.
func (k *SigningKey) Generated() bool { return k.generated }

// WeakReason says why the configured secret was replaced, or "".
func (k *SigningKey) WeakReason() string { return k.weakReason }

func secretWeakness(secret string) string {
	switch {
	case secret == "":
		return weakReasonEmpty
	case len(secret) < minSecretLength:
		return weakReasonTooShort
	case !hasMinimumEntropy(secret):
		return weakReasonLowEntropy
	}
	return ""
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}
