package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/teamboard/internal/auth"
	"github.com/hnguyen/teamboard/internal/model"
)

// Session is the backend's response to a successful login or register.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// AuthService handles the authentication endpoints and keeps the token
// store in sync with the session lifecycle.
type AuthService struct {
	client *Client
	tokens auth.Store
}

// NewAuthService creates an auth service over the given client and
// token store. The store must be the same one the client reads from.
func NewAuthService(c *Client, tokens auth.Store) *AuthService {
	return &AuthService{client: c, tokens: tokens}
}

// Login exchanges credentials for a session and persists the token.
func (s *AuthService) Login(
	ctx context.Context,
	email, password string,
) (Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := s.client.Post(ctx, "/api/auth/login", body, &session); err != nil {
		return Session{}, fmt.Errorf("logging in: %w", err)
	}

	if err := s.tokens.Set(auth.ParseToken(session.Token)); err != nil {
		return Session{}, fmt.Errorf("storing session token: %w", err)
	}
	return session, nil
}

// Register creates an account, logs it in, and persists the token.
func (s *AuthService) Register(
	ctx context.Context,
	name, email, password string,
) (Session, error) {
	var session Session
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}
	if err := s.client.Post(ctx, "/api/auth/register", body, &session); err != nil {
		return Session{}, fmt.Errorf("registering: %w", err)
	}

	if err := s.tokens.Set(auth.ParseToken(session.Token)); err != nil {
		return Session{}, fmt.Errorf("storing session token: %w", err)
	}
	return session, nil
}

// Logout tells the backend to end the session and clears the stored
// token either way: a failed logout call must not leave a dead
// credential behind.
func (s *AuthService) Logout(ctx context.Context) error {
	postErr := s.client.Post(ctx, "/api/auth/logout", nil, nil)
	if _, err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	if postErr != nil {
		return fmt.Errorf("logging out: %w", postErr)
	}
	return nil
}

// Me fetches the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if err := s.client.Get(ctx, "/api/auth/me", nil, &user); err != nil {
		return model.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return user, nil
}

// ForgotPassword requests a password reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := s.client.Post(ctx, "/api/auth/forgot-password", body, nil); err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}
	return nil
}

// ResetPassword completes a password reset with the emailed token.
func (s *AuthService) ResetPassword(
	ctx context.Context,
	resetToken, newPassword string,
) error {
	body := map[string]string{
		"token":    resetToken,
		"password": newPassword,
	}
	if err := s.client.Post(ctx, "/api/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return nil
}
