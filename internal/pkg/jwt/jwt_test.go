package jwt

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("user-1", "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sess-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("user-1", "sess-1", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := Parse(tok); err == nil {
			t.Errorf("Parse(%q) accepted", tok)
		}
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign("user-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	SetSecret("different-secret")
	t.Cleanup(func() { secret = []byte(defaultSecret) })

	if _, err := Parse(token); err == nil {
		t.Fatal("token signed with old secret accepted")
	}
}
