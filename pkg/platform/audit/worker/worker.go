// Package worker relays outbox rows to Kafka.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fleetops/pkg/platform/audit/store/postgres"
)

// Outbox is the subset of the postgres audit store the relay needs.
type Outbox interface {
	FetchPending(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, entryID uuid.UUID, at time.Time) error
}

// Producer publishes a keyed record synchronously.
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// TxRunner runs fn inside a transaction carried by the context it passes.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Worker polls the outbox and publishes pending rows in creation order.
type Worker struct {
	outbox    Outbox
	producer  Producer
	topic     string
	interval  time.Duration
	batchSize int
	runInTx   TxRunner
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithTx makes each batch fetch-publish-mark cycle transactional.
func WithTx(run TxRunner) Option {
	return func(w *Worker) {
		w.runInTx = run
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(outbox Outbox, producer Producer, topic string, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		interval:  2 * time.Second,
		batchSize: 100,
		runInTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled. Batch failures are logged and retried on
// the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RelayOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many rows were delivered.
// A publish failure stops the batch so ordering is preserved.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := w.runInTx(ctx, func(ctx context.Context) error {
		entries, err := w.outbox.FetchPending(ctx, w.batchSize)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := w.producer.Publish(ctx, w.topic, []byte(entry.AggregateID), entry.Payload); err != nil {
				if published > 0 {
					// Commit what went out; the rest is retried next tick.
					w.logger.WarnContext(ctx, "outbox publish interrupted",
						"entry_id", entry.ID,
						"published", published,
						"error", err,
					)
					return nil
				}
				return fmt.Errorf("publish outbox entry %s: %w", entry.ID, err)
			}
			if err := w.outbox.MarkPublished(ctx, entry.ID, w.now().UTC()); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	return published, err
}
