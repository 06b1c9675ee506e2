package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload shared by access and refresh tokens. Access
// tokens carry the role set; refresh tokens identify the account only.
type Claims struct {
	Roles     []string `json:"roles,omitempty"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived access token for the given account.
// It is stateless: validity is a function of signature and expiry alone.
func (s *Service) IssueAccessToken(email string, roles []Role) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", time.Time{}, ErrInvalidInput
	}
	now := s.now().UTC()
	exp := now.Add(s.accessTTL)
	claims := Claims{
		Roles:     roleStrings(roles),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefreshToken signs a long-lived refresh token and inserts it into the
// active refresh set, which is what later makes revocation possible.
func (s *Service) IssueRefreshToken(ctx context.Context, email string) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", time.Time{}, ErrInvalidInput
	}
	now := s.now().UTC()
	exp := now.Add(s.refreshTTL)
	claims := Claims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.refresh.Add(ctx, signed); err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyAccessToken checks signature and expiry against the access secret.
// Every failure collapses into ErrInvalidToken.
func (s *Service) VerifyAccessToken(token string) (Principal, error) {
	return s.parseToken(token, s.accessSecret, tokenTypeAccess)
}

// VerifyRefreshToken requires the token to be present in the active refresh
// set and to verify against the refresh secret. A tracked token that fails
// verification is evicted from the set as a side effect. Membership is
// re-checked after verification so a revocation racing this call wins.
func (s *Service) VerifyRefreshToken(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrTokenMissing
	}
	present, err := s.refresh.Contains(ctx, token)
	if err != nil {
		return Principal{}, err
	}
	if !present {
		return Principal{}, ErrRefreshUntracked
	}
	principal, perr := s.parseToken(token, s.refreshSecret, tokenTypeRefresh)
	if perr != nil {
		if rerr := s.refresh.Remove(ctx, token); rerr != nil {
			return Principal{}, rerr
		}
		return Principal{}, ErrInvalidToken
	}
	present, err = s.refresh.Contains(ctx, token)
	if err != nil {
		return Principal{}, err
	}
	if !present {
		return Principal{}, ErrRefreshUntracked
	}
	return principal, nil
}

// RevokeRefreshToken removes the token from the active refresh set.
// Revoking an untracked token is a no-op.
func (s *Service) RevokeRefreshToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.refresh.Remove(ctx, token)
}

// DecodeUnverified extracts claims without checking signature or expiry.
// Suitable only for best-effort contextual lookups, never for authorization.
func (s *Service) DecodeUnverified(token string) (Principal, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, false
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Principal{}, false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, false
	}
	return Principal{Email: claims.Subject, Roles: NormalizeRoles(claims.Roles)}, true
}

func (s *Service) parseToken(token string, secret []byte, wantType string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return Principal{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Email: claims.Subject, Roles: NormalizeRoles(claims.Roles)}, nil
}
