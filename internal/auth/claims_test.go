package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-0123456789"

func TestIdentityToken_RoundTrip(t *testing.T) {
	raw, err := SignIdentityToken(testSecret, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_123", Issuer: "idp"},
		Email:            "kj@example.com",
		FirstName:        "Kara",
	}, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ParseIdentityToken(testSecret, "idp", raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims.IdentityID() != "user_123" || claims.Profile().Email != "kj@example.com" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestParseIdentityToken_Rejects(t *testing.T) {
	valid := IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user_123", Issuer: "idp"}}

	good, _ := SignIdentityToken(testSecret, valid, time.Hour)
	wrongSecret, _ := SignIdentityToken("another-secret-0123456", valid, time.Hour)
	expired, _ := SignIdentityToken(testSecret, valid, -time.Minute)
	noSubject, _ := SignIdentityToken(testSecret, IdentityClaims{}, time.Hour)

	tests := []struct {
		name   string
		raw    string
		issuer string
	}{
		{"wrong secret", wrongSecret, ""},
		{"expired", expired, ""},
		{"wrong issuer", good, "other"},
		{"no subject", noSubject, ""},
		{"garbage", "not-a-token", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseIdentityToken(testSecret, tc.issuer, tc.raw)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
