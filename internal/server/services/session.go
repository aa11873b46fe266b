// Package services contains server-side business logic: sessions,
// authentication, file metadata and store statistics. Callers hand in
// store handles through the constructors; nothing here is global.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// SessionService issues and resolves opaque session tokens.
// Sessions expire ttl after issue and are never extended.
type SessionService struct {
	store sessions.Store
	ttl   time.Duration
	now   timex.Clock
}

func NewSessionService(store sessions.Store, ttl time.Duration) *SessionService {
	return &SessionService{store: store, ttl: ttl, now: timex.SystemClock}
}

// Issue creates a session for userID and returns its token.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, error) {
	token, err := common.MakeRandHexString(common.SessionTokenSize)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	session := &models.Session{Token: token, UserID: userID, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user bound to token. Unknown, revoked and expired
// tokens all yield common.ErrorNotFound.
func (s *SessionService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorNotFound
	}

	session, err := s.store.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("find session: %w", err)
	}

	if session.Expired(s.now()) {
		_ = s.store.Delete(ctx, token)
		return "", common.ErrorNotFound
	}
	return session.UserID, nil
}

// Revoke drops the session. Revoking an unknown token is not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Sweep purges every session expired at the current time, including tokens
// nobody presented again.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done. A failed sweep is
// logged and retried on the next tick.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration, logger logging.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				logger.Warn(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "expired sessions removed", "count", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *SessionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
