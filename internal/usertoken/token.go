package usertoken

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is the lifetime of an issued token.
	DefaultTTL = 24 * time.Hour
	// DefaultLeeway is clock skew tolerance for token validation.
	DefaultLeeway = 30 * time.Second
)

// ErrInvalidToken is returned when a token fails signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by an access token. The shared signing secret is the sole
// trust anchor: any holder can mint tokens, so it must never be logged.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer issues HS256 tokens bound to a user identity.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a signer with the shared secret. TTL defaults to 24h.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl}, nil
}

// Sign mints a token embedding user id, username, and expiry.
func (s *Signer) Sign(userID, username string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verifier validates HS256 tokens against the shared secret.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier creates a verifier for tokens minted with the same secret.
func NewVerifier(secret string, leeway time.Duration) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &Verifier{secret: []byte(secret), leeway: leeway}, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (v *Verifier) Verify(token string) (Claims, error) {
	claims := Claims{}
	token = strings.TrimSpace(token)
	if token == "" {
		return claims, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unsupported signing method")
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.UserID) == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts a bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}
