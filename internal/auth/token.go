// Package auth issues and validates portal session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the session token is also accepted from.
const CookieName = "portal_token"

type Claims struct {
	UID   string     `json:"uid"`
	Email string     `json:"email"`
	Name  string     `json:"name,omitempty"`
	Role  model.Role `json:"role"`
	Area  string     `json:"area,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for user. It returns the token and its expiry.
func (m *TokenManager) Issue(user *model.User) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := Claims{
		UID:   user.UID,
		Email: user.Email,
		Name:  user.DisplayName,
		Role:  user.Role,
		Area:  user.Area,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expires, nil
}

// Parse validates a signed token and returns its claims. Any failure is
// reported as ErrAuthentication.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session expired", apperror.ErrAuthentication)
		}
		return nil, fmt.Errorf("%w: invalid token", apperror.ErrAuthentication)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, fmt.Errorf("%w: invalid token", apperror.ErrAuthentication)
	}
	return claims, nil
}

// User rebuilds the session user carried by the claims.
func (c *Claims) User() model.User {
	return model.User{UID: c.UID, Email: c.Email, DisplayName: c.Name, Role: c.Role, Area: c.Area}
}
