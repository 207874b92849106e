package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Reason classifies why a token failed validation. It is for logs and
// tests only and is never shown to the caller.
type Reason string

const (
	ReasonMalformed    Reason = "MALFORMED"
	ReasonBadSignature Reason = "BAD_SIGNATURE"
	ReasonExpired      Reason = "EXPIRED"
	ReasonNoSubject    Reason = "NO_SUBJECT"
)

var ErrInvalidToken = errors.New("invalid token")

// ValidationError is the single failure type returned by Validate.
type ValidationError struct {
	Reason Reason
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(msgTokenInvalidFmt, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidToken
}

// ReasonOf returns the validation failure reason carried by err, or "".
func ReasonOf(err error) Reason {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ""
}

// Claims carry the subject and timestamps only. Roles are re-resolved on
// every request and never read from a token.
type Claims struct {
	jwt.RegisteredClaims
}

// Token is a signed bearer token and the instants it was issued for.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type JWTService struct {
	key    *SigningKey
	expiry time.Duration
	now    func() time.Time
}

type Option func(*JWTService)

// WithClock replaces time.Now for issuance and validation.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(key *SigningKey, expiry time.Duration, opts ...Option) *JWTService {
	s := &JWTService{
		key:    key,
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expiry is the fixed lifetime of issued tokens.
func (s *JWTService) Expiry() time.Duration { return s.expiry }

// Issue signs a token for an already authenticated subject.
func (s *JWTService) Issue(subject string) (Token, error) {
	return s.IssueAt(subject, s.now())
}

// IssueAt signs a token whose lifetime starts at issuedAt. Every token gets
// a fresh jti so two tokens for one subject never coincide.
func (s *JWTService) IssueAt(subject string, issuedAt time.Time) (Token, error) {
	if subject == "" {
		return Token{}, errors.New(msgEmptySubject)
	}

	expiresAt := issuedAt.Add(s.expiry)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = s.key.kid

	signed, err := token.SignedString(s.key.secret)
	if err != nil {
		return Token{}, fmt.Errorf(msgSignTokenFailed, err)
	}

	return Token{
		Value:     signed,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate returns the token's subject. It runs parse, signature, expiry
// and subject checks in that order and fails with a *ValidationError
// naming the first failed step. It never panics on hostile input.
func (s *JWTService) Validate(tokenString string) (subject string, err error) {
	defer func() {
		if r := recover(); r != nil {
			subject, err = "", &ValidationError{Reason: ReasonMalformed, Err: fmt.Errorf("%v", r)}
		}
	}()

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", &ValidationError{Reason: classify(err), Err: err}
	}

	if claims.Subject == "" {
		return "", &ValidationError{Reason: ReasonNoSubject}
	}

	return claims.Subject, nil
}

// ExpiryOf reports when a correctly signed token expires, even if it already
// has. Tokens that cannot be parsed or verified, or carry no expiry, report
// the Unix epoch so callers always see them as expired. Times are in UTC.
func (s *JWTService) ExpiryOf(tokenString string) (expiry time.Time) {
	expired := time.Unix(0, 0).UTC()
	defer func() {
		if recover() != nil {
			expiry = expired
		}
	}()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return expired
	}

	return claims.ExpiresAt.Time.UTC()
}

func (s *JWTService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
	}
	return s.key.secret, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonMalformed
	}
}
