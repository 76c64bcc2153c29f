package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification errors. Handlers translate these to HTTP statuses,
// so every failure mode stays distinguishable.
var (
	// ErrMalformed indicates the token does not have the compact
	// header.payload.signature shape or a segment is not decodable
	ErrMalformed = errors.New("malformed token")

	// ErrInvalidSignature indicates the signature does not match the key
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrUnsupportedAlgorithm indicates the token header names an
	// algorithm other than HS512
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrExpired indicates the token expiry instant has passed
	ErrExpired = errors.New("token expired")
)

// KeySize is the size of the HMAC-SHA512 signing key in bytes
const KeySize = 64

// Claims represents the token payload: the subject's user ID and the
// registered expiry claim, nothing else
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Service signs and verifies access and refresh tokens under a single
// process-wide symmetric HS512 key. Both token kinds share the same
// structure and differ only in the TTL applied at issuance, so callers
// must know which kind they expect.
type Service struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option configures optional Service behavior
type Option func(*Service)

// WithClock overrides the time source used for issuing and verifying
// tokens. Tests use it to make expiry deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new token service.
// The refresh TTL must exceed the access TTL; this is an invariant of
// the rotation protocol, not a convention.
func NewService(key []byte, accessTTL, refreshTTL time.Duration, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key cannot be empty")
	}
	if accessTTL <= 0 {
		return nil, fmt.Errorf("access token TTL must be positive, got %v", accessTTL)
	}
	if refreshTTL <= accessTTL {
		return nil, fmt.Errorf("refresh token TTL (%v) must exceed access token TTL (%v)", refreshTTL, accessTTL)
	}

	s := &Service{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// NewRandomKey generates a cryptographically random HS512 signing key.
// A key generated this way lives only in process memory: every token
// becomes unverifiable after a restart.
func NewRandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return key, nil
}

// IssueAccess creates a new short-lived access token for the user
func (s *Service) IssueAccess(userID string) (string, error) {
	return s.issue(userID, s.accessTTL)
}

// IssueRefresh creates a new long-lived refresh token for the user.
// Persisting it on the user record is the caller's responsibility.
func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.issue(userID, s.refreshTTL)
}

func (s *Service) issue(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token signature, algorithm and expiry and
// returns the carried claims. Signature and algorithm are checked
// before any claim is trusted; expiry uses the same clock as issuance.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.NewParser(
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	).ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Принимаем только HS512, все остальные алгоритмы отклоняются
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, ErrUnsupportedAlgorithm
		}
		return s.key, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedAlgorithm):
			return nil, ErrUnsupportedAlgorithm
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
	}

	return claims, nil
}

// Decode parses the token payload without verifying anything.
// Callers must have verified the token beforehand or must not trust
// the returned claims.
func (s *Service) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return claims, nil
}

// VerifySignature checks only the algorithm and the signature over the
// raw signing input (everything before the final delimiter), skipping
// claim validation. Used when possession of a validly signed token
// matters independently of its expiry.
func (s *Service) VerifySignature(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrMalformed
	}

	parser := jwt.NewParser()

	tok, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	alg, _ := tok.Header["alg"].(string)
	if alg != jwt.SigningMethodHS512.Alg() {
		return ErrUnsupportedAlgorithm
	}

	signature, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	signingInput := strings.Join(parts[0:2], ".")
	if err := jwt.SigningMethodHS512.Verify(signingInput, signature, s.key); err != nil {
		return ErrInvalidSignature
	}

	return nil
}
