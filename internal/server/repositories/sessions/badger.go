package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

const badgerKeyPrefix = "session:"

type badgerValue struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BadgerStore keeps sessions in an embedded Badger database and lets Badger
// evict them through per-key TTLs.
type BadgerStore struct {
	db  *badger.DB
	now timex.Clock
}

// OpenBadgerStore opens (or creates) a Badger database at path.
// An empty path opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", path, err)
	}
	return &BadgerStore{db: db, now: timex.SystemClock}, nil
}

func badgerKey(token string) []byte {
	return []byte(badgerKeyPrefix + token)
}

func (s *BadgerStore) Create(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	val, err := json.Marshal(badgerValue{UserID: session.UserID, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(badgerKey(session.Token), val).WithTTL(ttl))
	})
}

func (s *BadgerStore) Find(ctx context.Context, token string) (*models.Session, error) {
	var v badgerValue
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(token))
		if err != nil {
			return err
		}
		return item.Value(func(b []byte) error {
			return json.Unmarshal(b, &v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger error: %w", err)
	}
	return &models.Session{Token: token, UserID: v.UserID, ExpiresAt: v.ExpiresAt}, nil
}

func (s *BadgerStore) Delete(ctx context.Context, token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(token))
	})
}

// DeleteExpired removes sessions whose recorded expiry has passed at now.
// Keys past their Badger TTL are already invisible and are not counted.
func (s *BadgerStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var expired [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var v badgerValue
			if err := item.Value(func(b []byte) error { return json.Unmarshal(b, &v) }); err != nil {
				return err
			}
			if !now.Before(v.ExpiresAt) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("badger error: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range expired {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("badger error: %w", err)
	}
	return int64(len(expired)), nil
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
