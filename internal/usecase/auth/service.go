package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Service logs users in and resolves tokens back to users.
type Service struct {
	users  Users
	hasher *Bcrypt
	tokens *Tokens
}

// New creates an auth service.
func New(users Users, hasher *Bcrypt, tokens *Tokens) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", domain.NewValidation("You need an email")
	}
	if password == "" {
		return "", domain.NewValidation("You need a password")
	}

	q, err := document.Match("email", domuser.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	u, err := s.users.FindOneBy(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", &domain.NotFoundError{Kind: "user", Message: "No user with that email"}
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(u.Password, password); err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID)
}

// Issue signs a token for userID.
func (s *Service) Issue(userID string) (string, error) {
	return s.tokens.Issue(userID)
}

// Authenticate verifies token and loads its user. A token for a deleted
// user is unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (domuser.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return domuser.User{}, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domuser.User{}, domain.ErrUnauthorized
		}
		return domuser.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
