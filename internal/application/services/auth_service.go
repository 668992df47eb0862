package services

import (
	"context"
	"encoding/json"
	"fmt"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// AuthService wraps the customer authentication endpoints. Credentials
// travel as cookies set by the backend; nothing here stores a token.
type AuthService struct {
	api apiclient.Requester
}

// NewAuthService creates an auth service over the given requester.
func NewAuthService(api apiclient.Requester) *AuthService {
	return &AuthService{api: api}
}

// userPayload accepts both {"user": {...}} and a bare user object.
type userPayload struct {
	domain.User
	Nested *domain.User `json:"user"`
}

func (p userPayload) user() domain.User {
	if p.Nested != nil {
		return *p.Nested
	}
	return p.User
}

func decodeUser(raw json.RawMessage) (domain.User, error) {
	p, err := decodeData[userPayload](raw)
	if err != nil {
		return domain.User{}, err
	}
	return p.user(), nil
}

// Login authenticates and returns the customer profile.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if err := creds.Validate(); err != nil {
		return domain.User{}, err
	}
	raw, err := s.api.Post(ctx, "/auth/login", creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("login failed: %w", err)
	}
	return decodeUser(raw)
}

// Register creates an account; the backend logs the new customer in.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if err := reg.Validate(); err != nil {
		return domain.User{}, err
	}
	raw, err := s.api.Post(ctx, "/auth/register", reg)
	if err != nil {
		return domain.User{}, fmt.Errorf("registration failed: %w", err)
	}
	return decodeUser(raw)
}

// Me returns the profile for the current session.
func (s *AuthService) Me(ctx context.Context) (domain.User, error) {
	raw, err := s.api.Get(ctx, "/auth/me")
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return decodeUser(raw)
}

// Logout ends the session server-side. A 401 here is never refreshed.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, err := s.api.Post(ctx, "/auth/logout", nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}
