package auth

import (
	"testing"
	"time"
)

const testSecret = "unit-test-signing-key"

func testUser() *User {
	return &User{ID: 42, Username: "asha", Role: RoleUser}
}

func TestSignAndParseTokenRoundTrip(t *testing.T) {
	token, err := SignToken(testSecret, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "asha" || claims.Role != RoleUser {
		t.Errorf("claims = %+v, want id=42 username=asha role=user", claims)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want 42", claims.Subject)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken(testSecret, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if _, err := ParseToken("some-other-secret", token); err == nil {
		t.Error("expected signature verification to fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := SignToken(testSecret, testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseToken(testSecret, tok); err == nil {
			t.Errorf("ParseToken(%q) should fail", tok)
		}
	}
}

func TestAdminRoleSurvivesRoundTrip(t *testing.T) {
	admin := &User{ID: 1, Username: "admin", Role: RoleAdmin}
	token, err := SignToken(testSecret, admin, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestNewResetToken(t *testing.T) {
	raw, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(raw) != 64 { // 32 random bytes hex-encoded
		t.Errorf("raw token length = %d, want 64", len(raw))
	}
	if hash != HashResetToken(raw) {
		t.Error("stored hash must match re-hashing the raw token")
	}
	if hash == raw {
		t.Error("hash must differ from the raw token")
	}

	// Two tokens must not collide.
	raw2, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if raw == raw2 {
		t.Error("consecutive reset tokens should differ")
	}
}

func TestHashResetTokenIsDeterministic(t *testing.T) {
	if HashResetToken("abc") != HashResetToken("abc") {
		t.Error("hashing the same token twice must agree")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Error("different tokens must hash differently")
	}
}
