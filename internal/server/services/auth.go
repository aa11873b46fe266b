package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/cryptox"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string
	Password string
}

// AuthService handles registration and the session lifecycle:
//   - Register: create an account
//   - Login: verify Basic credentials and issue a session token
//   - Logout / CurrentUser: act on an issued token
type AuthService struct {
	users    users.Repository
	sessions *SessionService
	logger   logging.Logger
}

func NewAuthService(users users.Repository, sessions *SessionService, logger logging.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

// Register creates a user. Emails are compared as given.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if req.Email == "" {
		return nil, common.ErrMissingEmail
	}
	if req.Password == "" {
		return nil, common.ErrMissingPassword
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: cryptox.HashPassword(req.Password),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Login checks an Authorization header of the form "Basic base64(email:password)"
// and returns a fresh session token. Any credential problem is ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, authorization string) (string, error) {
	email, password, ok := parseBasic(authorization)
	if !ok {
		return "", common.ErrorUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}
	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	return s.sessions.Issue(ctx, user.ID)
}

func parseBasic(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(raw), ":")
}

// Logout revokes token. A token that does not resolve is ErrorUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.resolve(ctx, token); err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, token)
}

// CurrentUser returns the owner of token. A session whose user no longer
// exists is ErrorUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UserID resolves token without loading the user.
func (s *AuthService) UserID(ctx context.Context, token string) (string, error) {
	return s.resolve(ctx, token)
}

func (s *AuthService) resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	return userID, nil
}
