package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators carried in the "type" claim. An access token can
// never pass refresh verification (and vice versa): the secrets differ and the
// type claim is checked on top.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies access/refresh tokens. Access and refresh
// tokens use separate secrets and TTLs. Refresh tokens are not rotated or
// tracked server side; a refresh token stays valid until its expiry.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Claims is the payload of both token kinds. Subject carries the user id;
// Email is only set on access tokens.
type Claims struct {
	Email     string `json:"email,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the tokens issued on login.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func (m *JWTManager) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	return m.sign(&Claims{Email: email, TokenType: TokenTypeAccess}, userID, m.AccessSecret, m.AccessTTL)
}

func (m *JWTManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return m.sign(&Claims{TokenType: TokenTypeRefresh}, userID, m.RefreshSecret, m.RefreshTTL)
}

// GeneratePair issues both tokens. The two signatures are independent; there
// is no shared state between them.
func (m *JWTManager) GeneratePair(userID, email string) (TokenPair, error) {
	access, aexp, err := m.GenerateAccessToken(userID, email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := m.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

func (m *JWTManager) sign(claims *Claims, userID string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret, TokenTypeAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.RefreshSecret, TokenTypeRefresh)
}

func parseToken(tokenStr string, secret []byte, wantType string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
