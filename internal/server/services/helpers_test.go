package services

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/sessions"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingProducer struct {
	mu   sync.Mutex
	jobs []models.ThumbnailJob
	err  error
}

func (p *recordingProducer) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type env struct {
	clock    *fakeClock
	repos    *repomanager.InMemoryRepositoryManager
	store    *sessions.MemoryStore
	blobs    *blobstore.FSStore
	producer *recordingProducer
	sessions *SessionService
	auth     *AuthService
	files    *FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	repos := repomanager.NewInMemoryRepositoryManager()
	store := sessions.NewMemoryStore()
	blobs, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)

	ss := NewSessionService(store, 24*time.Hour)
	ss.now = clock.Now
	auth := NewAuthService(repos.Users(), ss, nopLogger{})
	producer := &recordingProducer{}

	return &env{
		clock:    clock,
		repos:    repos,
		store:    store,
		blobs:    blobs,
		producer: producer,
		sessions: ss,
		auth:     auth,
		files:    NewFileService(auth, repos.Files(), blobs, producer, nil, nopLogger{}),
	}
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

// login registers email and returns a session token for it.
func (e *env) login(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Register(ctx, RegisterRequest{Email: email, Password: "pw"})
	require.NoError(t, err)
	token, err := e.auth.Login(ctx, basicAuth(email, "pw"))
	require.NoError(t, err)
	return token
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

var errBoom = errors.New("boom")
