// Package auth issues and verifies the development API's bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	defaultTTL    = 24 * time.Hour
	defaultIssuer = "storefront-devapi"
)

// Claims defines the token payload
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens and remembers revoked ones until they expire.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewIssuer(cfg config.AuthConfig) (*Issuer, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &Issuer{
		secret:  []byte(cfg.JWTSecret),
		ttl:     ttl,
		issuer:  issuer,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue creates a signed token for the user.
func (i *Issuer) Issue(userID, username string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse verifies signature, expiry, issuer and revocation.
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, gone := i.revoked[claims.ID]; gone {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke rejects the token from now on.
func (i *Issuer) Revoke(c *Claims) {
	if c == nil || c.ID == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	for id, exp := range i.revoked {
		if exp.Before(now) {
			delete(i.revoked, id)
		}
	}
	exp := now.Add(i.ttl)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	i.revoked[c.ID] = exp
}
