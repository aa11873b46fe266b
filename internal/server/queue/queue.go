// Package queue delivers thumbnail jobs to workers at least once.
//
// A delivery that is neither acked nor nacked is handed out again: by the
// in-memory queue only through Nack, by the Postgres queue also once the
// visibility timeout passes. Handlers must therefore be idempotent.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Delivery is one attempt at processing a job.
type Delivery struct {
	ID      int64
	Job     models.ThumbnailJob
	Attempt int
}

// Queue is the transport between the upload path and the worker pool.
type Queue interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
	// Dequeue blocks until a delivery is available or ctx is done.
	Dequeue(ctx context.Context) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	// Nack records cause. With retry set the job is redelivered after the
	// retry delay unless it has used up its attempts.
	Nack(ctx context.Context, d *Delivery, cause error, retry bool) error
}

// Options tune redelivery.
type Options struct {
	Buffer            int
	MaxAttempts       int
	RetryDelay        time.Duration
	PollInterval      time.Duration
	VisibilityTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Buffer <= 0 {
		o.Buffer = 100
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.VisibilityTimeout <= 0 {
		o.VisibilityTimeout = 5 * time.Minute
	}
	return o
}
