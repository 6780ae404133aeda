package auth

import (
	"errors"
	"testing"
	"time"

	"savings/internal/core"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("open-sesame", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "open-sesame"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestMintAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, minted, err := issuer.Mint("m1", "Ann", core.RoleAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if minted.TokenID == "" {
		t.Fatal("minted claims missing token id")
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.MemberID != "m1" || claims.Name != "Ann" || claims.Role != core.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenID != minted.TokenID {
		t.Fatalf("token id changed across parse: %q vs %q", claims.TokenID, minted.TokenID)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)
	expired := NewTokenIssuer("test-secret", -time.Minute)

	foreign, _, err := other.Mint("m1", "Ann", core.RoleMember)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	stale, _, err := expired.Mint("m1", "Ann", core.RoleMember)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
