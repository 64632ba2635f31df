package extensions

import (
	"context"
	"testing"
)

func TestStaticAuthProvider_Validate(t *testing.T) {
	t.Run("returns configured identity for any token", func(t *testing.T) {
		p := &StaticAuthProvider{Info: AuthInfo{UserID: "u42", Role: RoleAlumni}}

		info, err := p.Validate(context.Background(), "whatever")
		if err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
		if info.UserID != "u42" {
			t.Errorf("UserID = %q, want %q", info.UserID, "u42")
		}
		if !info.IsAlumni() {
			t.Error("expected IsAlumni() to be true for ALUMNI role")
		}
	})

	t.Run("empty config falls back to local-user", func(t *testing.T) {
		p := &StaticAuthProvider{}

		info, err := p.Validate(context.Background(), "")
		if err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
		if info.UserID != "local-user" {
			t.Errorf("UserID = %q, want %q", info.UserID, "local-user")
		}
		if info.IsAlumni() {
			t.Error("expected IsAlumni() to be false for empty role")
		}
	})
}

func TestStaticTokenSource_Token(t *testing.T) {
	src := &StaticTokenSource{Value: "tok-123"}

	tok, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if tok != "tok-123" {
		t.Errorf("Token = %q, want %q", tok, "tok-123")
	}
}
