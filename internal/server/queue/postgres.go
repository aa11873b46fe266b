package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// Job statuses stored in thumbnail_jobs.status.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PostgresQueue keeps jobs in the thumbnail_jobs table so they survive
// restarts and can be shared by several worker processes. Rows are claimed
// with FOR UPDATE SKIP LOCKED.
type PostgresQueue struct {
	db   *sql.DB
	opts Options
	now  timex.Clock

	// wake lets an Enqueue in this process cut a Dequeue poll short.
	wake chan struct{}
}

func NewPostgresQueue(db *sql.DB, opts Options) *PostgresQueue {
	return &PostgresQueue{
		db:   db,
		opts: opts.withDefaults(),
		now:  timex.SystemClock,
		wake: make(chan struct{}, 1),
	}
}

func (q *PostgresQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	query := `
		INSERT INTO thumbnail_jobs (file_id, user_id, status, max_attempts, available_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := q.db.ExecContext(ctx, query, job.FileID, job.UserID, StatusPending, q.opts.MaxAttempts, q.now()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue polls for a claimable row every PollInterval until one is found or
// ctx is done.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	for {
		d, err := q.claim(ctx)
		if err != nil {
			return nil, err
		}
		if d != nil {
			return d, nil
		}

		timer := time.NewTimer(q.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// claim takes the oldest pending row whose delay has passed, or a processing
// row whose worker went silent for longer than the visibility timeout.
// Stale rows that already used all attempts are marked failed instead.
func (q *PostgresQueue) claim(ctx context.Context) (*Delivery, error) {
	var d *Delivery

	err := dbx.WithTx(ctx, q.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		now := q.now()
		query := `
			SELECT id, file_id, user_id, attempts, max_attempts
			FROM thumbnail_jobs
			WHERE (status = $1 AND available_at <= $2)
			   OR (status = $3 AND locked_at < $4)
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		`
		var (
			id                    int64
			job                   models.ThumbnailJob
			attempts, maxAttempts int
		)
		err := tx.QueryRowContext(ctx, query, StatusPending, now, StatusProcessing, now.Add(-q.opts.VisibilityTimeout)).
			Scan(&id, &job.FileID, &job.UserID, &attempts, &maxAttempts)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if attempts >= maxAttempts {
			_, err := tx.ExecContext(ctx, `
				UPDATE thumbnail_jobs
				SET status = $2, last_error = $3, locked_at = NULL, updated_at = $4
				WHERE id = $1
			`, id, StatusFailed, "visibility timeout exceeded", now)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE thumbnail_jobs
			SET status = $2, attempts = attempts + 1, locked_at = $3, updated_at = $3
			WHERE id = $1
		`, id, StatusProcessing, now)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		d = &Delivery{ID: id, Job: job, Attempt: attempts + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (q *PostgresQueue) Ack(ctx context.Context, d *Delivery) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE thumbnail_jobs
		SET status = $2, locked_at = NULL, last_error = NULL, updated_at = $3
		WHERE id = $1
	`, d.ID, StatusCompleted, q.now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (q *PostgresQueue) Nack(ctx context.Context, d *Delivery, cause error, retry bool) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	now := q.now()

	var err error
	if retry && d.Attempt < q.opts.MaxAttempts {
		_, err = q.db.ExecContext(ctx, `
			UPDATE thumbnail_jobs
			SET status = $2, last_error = $3, available_at = $4, locked_at = NULL, updated_at = $5
			WHERE id = $1
		`, d.ID, StatusPending, msg, now.Add(q.opts.RetryDelay), now)
	} else {
		_, err = q.db.ExecContext(ctx, `
			UPDATE thumbnail_jobs
			SET status = $2, last_error = $3, locked_at = NULL, updated_at = $4
			WHERE id = $1
		`, d.ID, StatusFailed, msg, now)
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
