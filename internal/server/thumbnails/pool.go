package thumbnails

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/metrics"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"golang.org/x/sync/errgroup"
)

// JobHandler processes one job and reports how many derivatives it wrote.
type JobHandler interface {
	Handle(ctx context.Context, job models.ThumbnailJob) (int, error)
}

type PoolConfig struct {
	Workers     int
	MaxAttempts int
	// ErrorBackoff is the pause after a failed Dequeue.
	ErrorBackoff time.Duration
}

// Pool runs Workers goroutines that share one queue. Jobs are processed
// concurrently; the widths of a single job are not.
type Pool struct {
	queue   queue.Queue
	handler JobHandler
	cfg     PoolConfig
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewPool(q queue.Queue, h JobHandler, cfg PoolConfig, m *metrics.Metrics, logger logging.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Pool{queue: q, handler: h, cfg: cfg, metrics: m, logger: logger}
}

// Run blocks until ctx is cancelled or the queue is closed. Both end the
// pool cleanly and return nil.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info(ctx, "thumbnail workers started", "workers", p.cfg.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Workers; i++ {
		worker := i + 1
		g.Go(func() error {
			return p.work(ctx, worker)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
		err = nil
	}
	p.logger.Info(context.Background(), "thumbnail workers stopped")
	return err
}

func (p *Pool) work(ctx context.Context, worker int) error {
	logger := p.logger.With("worker", worker)

	for {
		d, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, queue.ErrQueueClosed) {
				return err
			}
			logger.Error(ctx, "dequeue failed", "error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.ErrorBackoff):
			}
			continue
		}

		p.process(ctx, logger, d)
	}
}

func (p *Pool) process(ctx context.Context, logger logging.Logger, d *queue.Delivery) {
	start := time.Now()
	logger = logger.With("job_id", d.ID, "file_id", d.Job.FileID, "attempt", d.Attempt)

	written, err := p.handler.Handle(ctx, d.Job)

	// Settle the delivery even when shutdown interrupted the job.
	settleCtx := context.WithoutCancel(ctx)

	if err == nil {
		if ackErr := p.queue.Ack(settleCtx, d); ackErr != nil {
			logger.Error(ctx, "ack failed", "error", ackErr)
		}
		result := metrics.JobSucceeded
		if written == 0 {
			result = metrics.JobSkipped
		}
		p.metrics.JobFinished(result, time.Since(start))
		logger.Info(ctx, "thumbnail job done", "written", written)
		return
	}

	retry := !IsFatal(err)
	if nackErr := p.queue.Nack(settleCtx, d, err, retry); nackErr != nil {
		logger.Error(ctx, "nack failed", "error", nackErr)
	}

	if retry && d.Attempt < p.cfg.MaxAttempts {
		p.metrics.JobFinished(metrics.JobRetried, time.Since(start))
		logger.Warn(ctx, "thumbnail job failed, will retry", "error", err, "max_attempts", p.cfg.MaxAttempts)
		return
	}
	p.metrics.JobFinished(metrics.JobFailed, time.Since(start))
	logger.Error(ctx, "thumbnail job failed", "error", err, "fatal", !retry)
}
