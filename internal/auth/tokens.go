package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"savings/internal/core"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload for a member session. TokenID doubles as the
// server-side session key so logout can revoke the token before it expires.
type Claims struct {
	MemberID string
	Name     string
	Role     core.Role
	TokenID  string
}

// TokenIssuer mints and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Mint signs a fresh token for the member and returns it with its claims.
func (t *TokenIssuer) Mint(memberID, name string, role core.Role) (string, Claims, error) {
	claims := Claims{
		MemberID: memberID,
		Name:     name,
		Role:     role,
		TokenID:  uuid.NewString(),
	}
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  claims.MemberID,
		"name": claims.Name,
		"role": string(claims.Role),
		"jti":  claims.TokenID,
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	})
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse validates a token string and extracts its claims. Expired tokens,
// wrong signatures and foreign signing methods all map to ErrInvalidToken.
func (t *TokenIssuer) Parse(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	claims := Claims{
		MemberID: stringClaim(mc, "sub"),
		Name:     stringClaim(mc, "name"),
		Role:     core.Role(stringClaim(mc, "role")),
		TokenID:  stringClaim(mc, "jti"),
	}
	if claims.MemberID == "" || claims.TokenID == "" {
		return Claims{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
