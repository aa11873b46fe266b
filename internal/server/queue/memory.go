package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// MemoryQueue is a buffered channel with delayed redelivery on Nack.
// Jobs do not survive a restart.
type MemoryQueue struct {
	opts   Options
	ch     chan *Delivery
	nextID atomic.Int64

	mu     sync.Mutex
	closed bool
	timers map[int64]*time.Timer
}

func NewMemoryQueue(opts Options) *MemoryQueue {
	opts = opts.withDefaults()
	return &MemoryQueue{
		opts:   opts,
		ch:     make(chan *Delivery, opts.Buffer),
		timers: make(map[int64]*time.Timer),
	}
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	d := &Delivery{ID: q.nextID.Add(1), Job: job}
	return q.push(d)
}

func (q *MemoryQueue) push(d *Delivery) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- d:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case d, ok := <-q.ch:
		if !ok {
			return nil, ErrQueueClosed
		}
		d.Attempt++
		return d, nil
	}
}

func (q *MemoryQueue) Ack(ctx context.Context, d *Delivery) error {
	return nil
}

func (q *MemoryQueue) Nack(ctx context.Context, d *Delivery, cause error, retry bool) error {
	if !retry || d.Attempt >= q.opts.MaxAttempts {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	redelivery := &Delivery{ID: d.ID, Job: d.Job, Attempt: d.Attempt}
	q.timers[d.ID] = time.AfterFunc(q.opts.RetryDelay, func() {
		q.mu.Lock()
		delete(q.timers, redelivery.ID)
		q.mu.Unlock()
		_ = q.push(redelivery)
	})
	return nil
}

// Len returns the number of deliveries waiting in the buffer.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

// Close stops pending redeliveries and makes Dequeue return ErrQueueClosed
// once the buffer is drained.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	close(q.ch)
}
