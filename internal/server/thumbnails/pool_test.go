package thumbnails

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/metrics"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedHandler struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string][]error
}

func (h *scriptedHandler) Handle(ctx context.Context, job models.ThumbnailJob) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.calls[job.FileID]
	h.calls[job.FileID] = n + 1
	if script := h.errs[job.FileID]; n < len(script) && script[n] != nil {
		return 0, script[n]
	}
	return 3, nil
}

func (h *scriptedHandler) count(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[id]
}

func startPool(t *testing.T, p *Pool) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("pool did not stop")
		}
	}
}

func TestPool_RendersEnqueuedImage(t *testing.T) {
	f := newFixture(t)
	img := f.addFile(t, models.KindImage, pngBytes(t, 640, 480))

	q := queue.NewMemoryQueue(queue.Options{})
	defer q.Close()
	reg := prometheus.NewRegistry()
	p := NewPool(q, f.h, PoolConfig{Workers: 2}, metrics.New(reg), nopLogger{})

	stop := startPool(t, p)
	defer stop()

	require.NoError(t, q.Enqueue(context.Background(), models.ThumbnailJob{FileID: img.ID, UserID: "u1"}))

	require.Eventually(t, func() bool {
		_, err := f.blobs.Get(context.Background(), blobstore.DerivativeRef(img.ContentRef, 100))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	expected := `
# HELP filesmanager_thumbnail_jobs_total Processed thumbnail jobs by result
# TYPE filesmanager_thumbnail_jobs_total counter
filesmanager_thumbnail_jobs_total{result="succeeded"} 1
`
	require.Eventually(t, func() bool {
		return testutil.GatherAndCompare(reg, strings.NewReader(expected), "filesmanager_thumbnail_jobs_total") == nil
	}, time.Second, 10*time.Millisecond)
}

func TestPool_RetriesTransientFailure(t *testing.T) {
	h := &scriptedHandler{
		calls: map[string]int{},
		errs:  map[string][]error{"f1": {errors.New("disk full")}},
	}
	q := queue.NewMemoryQueue(queue.Options{MaxAttempts: 3, RetryDelay: time.Millisecond})
	defer q.Close()
	p := NewPool(q, h, PoolConfig{Workers: 1, MaxAttempts: 3}, nil, nopLogger{})

	stop := startPool(t, p)
	defer stop()

	require.NoError(t, q.Enqueue(context.Background(), models.ThumbnailJob{FileID: "f1", UserID: "u1"}))

	require.Eventually(t, func() bool { return h.count("f1") == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestPool_FatalFailureIsNotRetried(t *testing.T) {
	h := &scriptedHandler{
		calls: map[string]int{},
		errs:  map[string][]error{"f1": {ErrFileNotFound}},
	}
	q := queue.NewMemoryQueue(queue.Options{MaxAttempts: 3, RetryDelay: time.Millisecond})
	defer q.Close()
	p := NewPool(q, h, PoolConfig{Workers: 1, MaxAttempts: 3}, nil, nopLogger{})

	stop := startPool(t, p)
	defer stop()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.ThumbnailJob{FileID: "f1", UserID: "u1"}))
	require.NoError(t, q.Enqueue(ctx, models.ThumbnailJob{FileID: "f2", UserID: "u1"}))

	require.Eventually(t, func() bool { return h.count("f2") == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.count("f1"))
}

func TestPool_StopsWhenQueueCloses(t *testing.T) {
	q := queue.NewMemoryQueue(queue.Options{})
	p := NewPool(q, &scriptedHandler{calls: map[string]int{}}, PoolConfig{Workers: 3}, nil, nopLogger{})

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	q.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop")
	}
}
