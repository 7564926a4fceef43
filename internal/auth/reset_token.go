package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultResetTokenTTL is how long an issued password-reset token stays valid.
const DefaultResetTokenTTL = 1800 * time.Second

// ErrInvalidToken is returned for every verification failure: bad signature,
// tampered payload, expiry, wrong algorithm, malformed subject. Callers must
// not distinguish between these causes in user-facing output.
var ErrInvalidToken = errors.New("invalid or expired token")

// ResetTokenService issues and verifies signed, time-limited password-reset
// tokens. Tokens are self-contained: nothing is persisted, and a token stays
// valid until its expiry regardless of how many times it is verified.
type ResetTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ResetTokenOption customizes a ResetTokenService.
type ResetTokenOption func(*ResetTokenService)

// WithTTL overrides the default token lifetime.
func WithTTL(ttl time.Duration) ResetTokenOption {
	return func(s *ResetTokenService) { s.ttl = ttl }
}

// WithClock overrides the time source; used by tests to simulate expiry.
func WithClock(now func() time.Time) ResetTokenOption {
	return func(s *ResetTokenService) { s.now = now }
}

// NewResetTokenService creates a service signing with the given secret.
func NewResetTokenService(secret string, opts ...ResetTokenOption) *ResetTokenService {
	s := &ResetTokenService{
		secret: []byte(secret),
		ttl:    DefaultResetTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured token lifetime.
func (s *ResetTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token bound to the given user id, expiring after the
// configured TTL.
func (s *ResetTokenService) Issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the embedded user
// id. Any failure collapses into ErrInvalidToken.
func (s *ResetTokenService) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}

	return uint(userID), nil
}
