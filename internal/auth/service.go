package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"projecthub.org/internal/ids"
)

const (
	defaultIssuer     = "projecthub"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour * 14
)

// Service implements the token lifecycle and account operations. Access and
// refresh tokens use distinct secrets and TTLs so a leaked access token has a
// bounded blast radius and either secret can be rotated independently.
type Service struct {
	users   UserStore
	refresh RefreshTokenStore

	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) error {
		if v := strings.TrimSpace(issuer); v != "" {
			s.issuer = v
		}
		return nil
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.accessTTL = ttl
		}
		return nil
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// WithRefreshStore replaces the in-memory active refresh set, e.g. with a
// store shared across instances.
func WithRefreshStore(store RefreshTokenStore) ServiceOption {
	return func(s *Service) error {
		if store == nil {
			return errors.New("auth: refresh store is nil")
		}
		s.refresh = store
		return nil
	}
}

// NewService constructs a Service over the given user store and signing
// secrets. The two secrets must be set and must differ.
func NewService(users UserStore, accessSecret, refreshSecret string, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	accessSecret = strings.TrimSpace(accessSecret)
	refreshSecret = strings.TrimSpace(refreshSecret)
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("auth: both signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	svc := &Service{
		users:         users,
		refresh:       NewMemoryRefreshSet(),
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        defaultIssuer,
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Register creates a new account with the basic role. Registering an email
// that already exists fails with ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Roles:        []Role{RoleBasic},
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates credentials and mints a token pair. Unknown email and
// password mismatch both fail with the same ErrUnauthorized so the response
// cannot be used to probe which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, ErrUnauthorized
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	access, accessExp, err := s.IssueAccessToken(user.Email, user.Roles)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.IssueRefreshToken(ctx, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh verifies a refresh token and mints a fresh access token from the
// live account record. A still-valid token for a deleted account fails with
// ErrNotFound. The refresh token itself is left in place; it keeps working
// until logout or expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	principal, err := s.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	user, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.IssueAccessToken(user.Email, user.Roles)
}

// Logout revokes the refresh token. It succeeds whether or not the token was
// being tracked.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.RevokeRefreshToken(ctx, refreshToken)
}

// Authenticate verifies an access token and returns the claims principal.
func (s *Service) Authenticate(token string) (Principal, error) {
	return s.VerifyAccessToken(token)
}

// ResolveUser re-resolves verified claims against the user store. Mandatory
// on endpoints that echo or mutate account data: it rejects still-valid
// tokens for accounts that no longer exist.
func (s *Service) ResolveUser(ctx context.Context, principal Principal) (*User, error) {
	return s.users.FindByEmail(ctx, principal.Email)
}

// Users exposes the underlying account store to resource handlers.
func (s *Service) Users() UserStore {
	return s.users
}

// ActiveRefreshTokens reports the size of the active refresh set.
func (s *Service) ActiveRefreshTokens(ctx context.Context) (int, error) {
	return s.refresh.Len(ctx)
}
