package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenService_IssueAndVerify_Roundtrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(1, "admin@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("UserID = %d, want 1", claims.UserID)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "admin@example.com")
	}
}

// 期限切れトークンは署名が正しくてもErrTokenExpiredで拒否されることを検証
func TestTokenService_Verify_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", -1*time.Second)

	token, err := svc.Issue(1, "admin@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify error = %v, want ErrTokenExpired", err)
	}
}

// 署名シークレットが異なるトークンはErrTokenInvalidで拒否されることを検証
func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenService("right-secret", time.Hour)
	verifier := NewTokenService("wrong-secret", time.Hour)

	token, err := issuer.Issue(1, "admin@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.Verify("not.a.jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

// 期限切れと署名不正が区別可能な失敗種別であることを検証
func TestTokenService_Verify_ExpiredAndInvalidAreDistinct(t *testing.T) {
	if errors.Is(ErrTokenExpired, ErrTokenInvalid) {
		t.Error("ErrTokenExpired and ErrTokenInvalid must be distinct")
	}
}
