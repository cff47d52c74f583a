package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/config"

	"go.uber.org/zap"
)

// OutboxPublisher delivers one stored event somewhere outside the process.
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// LoggingOutboxPublisher writes events to the log. It is the only sink the
// development API ships with.
type LoggingOutboxPublisher struct {
	Log *zap.Logger
}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType, payload string) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

// StaleClaimAge is how long a row may stay PROCESSING before another worker
// takes it back.
const StaleClaimAge = 5 * time.Minute

type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    OutboxPublisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	log          *zap.Logger
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher OutboxPublisher,
	cfg config.WorkerConfig,
	log *zap.Logger,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
		log:          log.Named("outbox"),
	}, nil
}

// Run polls until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.log.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending events and reports how many
// were published.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	if n, err := w.repository.RequeueStale(ctx, StaleClaimAge); err != nil {
		w.log.Warn("Requeue of stale outbox events failed", zap.Error(err))
	} else if n > 0 {
		w.log.Info("Requeued stale outbox events", zap.Int64("count", n))
	}

	events, err := w.repository.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.repository.Claim(ctx, event.ID); err != nil {
			if errors.Is(err, ErrNotClaimable) {
				w.log.Debug("Outbox event claimed elsewhere", zap.String("event_id", event.ID))
			} else {
				w.log.Warn("Outbox event claim failed", zap.String("event_id", event.ID), zap.Error(err))
			}
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
			w.log.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			if failErr := w.repository.MarkFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				w.log.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.repository.MarkPublished(ctx, event.ID); err != nil {
			w.log.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
