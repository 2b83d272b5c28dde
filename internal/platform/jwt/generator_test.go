package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
	}{
		{"operator", "operator", time.Hour},
		{"ci job", "ci", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const secret = "test-secret"
			gen := NewGenerator(secret, tt.expiration)

			tokenStr, err := gen.GenerateToken(tt.subject)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				t.Fatalf("expected valid token, got err=%v", err)
			}
			sub, _ := token.Claims.GetSubject()
			if sub != tt.subject {
				t.Errorf("expected subject %q, got %q", tt.subject, sub)
			}
			exp, _ := token.Claims.GetExpirationTime()
			iat, _ := token.Claims.GetIssuedAt()
			if got := exp.Sub(iat.Time); got != tt.expiration {
				t.Errorf("expected lifetime %v, got %v", tt.expiration, got)
			}
		})
	}
}

// TestGenerator_EmptySecret は空のシークレットでトークン生成が拒否されることを検証します。
func TestGenerator_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("", time.Hour).GenerateToken("operator")
	if !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
