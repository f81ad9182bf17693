// Package auth provides bearer-token verification and password hashing for
// the journal API.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs email + password to /auth/register or /auth/login
//  2. Server checks the bcrypt hash and issues a signed JWT access token
//  3. Client sends it back on every call: Authorization: Bearer <token>
//  4. RequireAuth validates the token and puts the user ID in the request
//     context; handlers read it with UserIDFromContext
//
// WHY JWT?
// JWT (JSON Web Token) is stateless: the server doesn't need to store session
// data. All the information needed (user ID, expiry) is inside the signed token.
// The signature ensures nobody can tamper with it without the secret key.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"userID","userId":"userID","exp":1234567890,...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is written to the "iss" claim and checked when a token carries one.
const Issuer = "training-journal"

// DefaultTokenTTL is how long an access token stays valid when no TTL is
// configured: seven days.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Verification failures. RequireAuth maps each one to its own error code.
var (
	ErrNoToken      = errors.New("auth: no token")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations. Keep it safe, rotate it
// periodically in production.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero ttl means DefaultTokenTTL.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload.
//
// The user ID is written twice: in the standard "sub" claim and in a custom
// "userId" field. Validate accepts either, so tokens minted by older clients
// that only carry "userId" keep working. When both are present "sub" wins.
// Those older tokens also carry no "iss", so the issuer is only compared
// when one is present.
type claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// TTL returns the lifetime of tokens issued by Generate.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate creates and signs a new access token for the given userID using
// the configured lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Tests use a negative duration to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    Issuer,
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the principal's
// user ID.
//
// VALIDATION CHECKS:
//   - Signature is valid and the algorithm is HS256 (prevents "alg": "none"
//     and algorithm confusion attacks)
//   - Token is not expired, and does carry an expiry
//   - Issuer, when present, matches "training-journal"
//   - "sub" or "userId" holds a non-empty string after trimming
//
// Errors are ErrTokenExpired for an expired but otherwise well-formed token
// and ErrInvalidToken for everything else. Both wrap the library's reason.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	if c.Issuer != "" && c.Issuer != Issuer {
		return "", fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, c.Issuer)
	}

	return subjectOf(c)
}

func subjectOf(c *claims) (string, error) {
	if sub := strings.TrimSpace(c.Subject); sub != "" {
		return sub, nil
	}
	if id := strings.TrimSpace(c.UserID); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: token has no subject", ErrInvalidToken)
}
