package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "recruiter")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "recruiter" {
		t.Errorf("Username = %q, want %q", claims.Username, "recruiter")
	}
}

func TestParseRejects(t *testing.T) {
	good := NewTokenIssuer("correct-secret", time.Hour)
	validToken, err := good.Issue(42, "recruiter")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	expired, err := NewTokenIssuer("correct-secret", -time.Minute).Issue(42, "recruiter")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{name: "garbage", issuer: good, token: "not-a-valid-token"},
		{name: "wrong secret", issuer: NewTokenIssuer("wrong-secret", time.Hour), token: validToken},
		{name: "expired", issuer: good, token: expired},
		{name: "wrong issuer", issuer: good, token: signWith(t, "correct-secret", "someone-else", tokenAudience, 42)},
		{name: "wrong audience", issuer: good, token: signWith(t, "correct-secret", tokenIssuer, "other-api", 42)},
		{name: "missing user", issuer: good, token: signWith(t, "correct-secret", tokenIssuer, tokenAudience, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func signWith(t *testing.T, secret, iss, aud string, userID int64) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    iss,
			Audience:  jwt.ClaimStrings{aud},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return s
}
