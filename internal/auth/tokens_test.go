package auth

import (
	"context"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	base := []ServiceOption{WithIssuer("test-issuer")}
	svc, err := NewService(NewMemoryUserStore(), "access-secret", "refresh-secret", append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.IssueAccessToken("a@x.com", []Role{RoleBasic})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	principal, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if principal.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", principal.Email)
	}
	if len(principal.Roles) != 1 || principal.Roles[0] != RoleBasic {
		t.Fatalf("unexpected roles: %v", principal.Roles)
	}
}

func TestExpiredAccessTokenFails(t *testing.T) {
	now := time.Now()
	clock := &now
	svc := newTestService(t, WithAccessTTL(time.Minute), WithClock(func() time.Time { return *clock }))

	token, _, err := svc.IssueAccessToken("a@x.com", []Role{RoleBasic})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	later := now.Add(2 * time.Minute)
	clock = &later
	if _, err := svc.VerifyAccessToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyAccessTokenUniformFailure(t *testing.T) {
	svc := newTestService(t)

	foreign, err := NewService(NewMemoryUserStore(), "other-access", "other-refresh", WithIssuer("test-issuer"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	badSig, _, err := foreign.IssueAccessToken("a@x.com", []Role{RoleBasic})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-jwt",
		"bad signature": badSig,
	} {
		if _, err := svc.VerifyAccessToken(token); err != ErrInvalidToken {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestRefreshTokenRejectedByAccessVerifier(t *testing.T) {
	svc := newTestService(t)
	refresh, _, err := svc.IssueRefreshToken(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if _, err := svc.VerifyAccessToken(refresh); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for refresh token, got %v", err)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	token, _, err := svc.IssueRefreshToken(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	principal, err := svc.VerifyRefreshToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if principal.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", principal.Email)
	}

	// Revocation wins even though the token has not expired.
	if err := svc.RevokeRefreshToken(ctx, token); err != nil {
		t.Fatalf("RevokeRefreshToken: %v", err)
	}
	if _, err := svc.VerifyRefreshToken(ctx, token); err != ErrRefreshUntracked {
		t.Fatalf("expected ErrRefreshUntracked after revoke, got %v", err)
	}

	// Revoking again is a no-op, not an error.
	if err := svc.RevokeRefreshToken(ctx, token); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestRefreshTokenNeverIssuedIsUntracked(t *testing.T) {
	svc := newTestService(t)
	foreign, err := NewService(NewMemoryUserStore(), "access-secret2", "refresh-secret2", WithIssuer("test-issuer"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, _, err := foreign.IssueRefreshToken(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if _, err := svc.VerifyRefreshToken(context.Background(), token); err != ErrRefreshUntracked {
		t.Fatalf("expected ErrRefreshUntracked, got %v", err)
	}
}

func TestExpiredRefreshTokenEvictedFromSet(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	clock := &now
	svc := newTestService(t, WithRefreshTTL(time.Hour), WithClock(func() time.Time { return *clock }))

	token, _, err := svc.IssueRefreshToken(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if n, _ := svc.ActiveRefreshTokens(ctx); n != 1 {
		t.Fatalf("expected 1 tracked token, got %d", n)
	}

	later := now.Add(2 * time.Hour)
	clock = &later

	// Stale entry: expired but still tracked. Verification fails and
	// self-cleans the set.
	if _, err := svc.VerifyRefreshToken(ctx, token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if n, _ := svc.ActiveRefreshTokens(ctx); n != 0 {
		t.Fatalf("expected empty refresh set after eviction, got %d", n)
	}

	// Second attempt now reports the token as untracked.
	if _, err := svc.VerifyRefreshToken(ctx, token); err != ErrRefreshUntracked {
		t.Fatalf("expected ErrRefreshUntracked, got %v", err)
	}
}

func TestDecodeUnverified(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()
	expired := newTestService(t, WithAccessTTL(time.Nanosecond), WithClock(func() time.Time { return now }))

	token, _, err := expired.IssueAccessToken("a@x.com", []Role{RoleAdmin, RoleBasic})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	principal, ok := svc.DecodeUnverified(token)
	if !ok {
		t.Fatal("expected claims from unverified decode")
	}
	if principal.Email != "a@x.com" || len(principal.Roles) != 2 {
		t.Fatalf("unexpected claims: %+v", principal)
	}

	if _, ok := svc.DecodeUnverified("junk"); ok {
		t.Fatal("expected decode failure for junk token")
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(nil, "a", "b"); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewService(NewMemoryUserStore(), "", "b"); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewService(NewMemoryUserStore(), "same", "same"); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}
