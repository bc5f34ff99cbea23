package services_test

import (
	"testing"
	"time"

	"vela-casino/internal/services"
)

func TestJWTService(t *testing.T) {
	svc := services.NewJWTService("test-secret", time.Hour)

	token, claims, err := svc.GenerateToken("nova")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if claims.SessionID == "" {
		t.Error("Token should carry a session id")
	}

	parsed, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if parsed.Username != "nova" || parsed.SessionID != claims.SessionID {
		t.Errorf("Unexpected claims: %+v", parsed)
	}

	other := services.NewJWTService("other-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Token signed with another secret should be rejected")
	}

	svc.Revoke(claims.SessionID, claims.ExpiresAt.Time)
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Revoked session should be rejected")
	}
	if n := svc.PruneRevoked(time.Now()); n != 0 {
		t.Errorf("Unexpired revocation should be kept, pruned %d", n)
	}
	if n := svc.PruneRevoked(time.Now().Add(2 * time.Hour)); n != 1 {
		t.Errorf("Expired revocation should be pruned, pruned %d", n)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := services.NewJWTService("test-secret", -time.Minute)

	token, _, err := svc.GenerateToken("nova")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Expired token should be rejected")
	}
}
