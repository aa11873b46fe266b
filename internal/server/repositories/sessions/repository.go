// Package sessions stores opaque session tokens bound to users.
//
// Expiry is checked by the caller against Session.ExpiresAt. Expired rows
// are purged by DeleteExpired, which the server runs periodically. Backends
// with native TTL (Badger) drop keys on their own.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Store persists sessions. Find on an unknown token returns common.ErrorNotFound.
// Delete on an unknown token is not an error.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes every session that is expired at now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Ping(ctx context.Context) error
}
