package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ErrNotClaimable is returned when an outbox row was claimed by another
// worker or left the expected status.
var ErrNotClaimable = errors.New("outbox event not claimable")

// OutboxRepository stores the order.placed and user.registered events the
// commerce API raises, in the transaction that changed the order or account.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Append writes events as PENDING rows. Inside a unit of work the rows join
// its transaction; otherwise they are written atomically on their own.
func (r *OutboxRepository) Append(ctx context.Context, events ...shared.DomainEvent) error {
	rows, err := outboxRows(events)
	if err != nil || len(rows) == 0 {
		return err
	}
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to append %d outbox events: %w", len(rows), err)
		}
		return nil
	})
}

func outboxRows(events []shared.DomainEvent) ([]*po.OutboxEventPO, error) {
	rows := make([]*po.OutboxEventPO, 0, len(events))
	for _, event := range events {
		if err := shared.ValidateEvent(event); err != nil {
			return nil, fmt.Errorf("invalid domain event: %w", err)
		}
		row, err := po.FromDomainEvent(event)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", event.EventName(), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Pending returns up to limit PENDING rows, oldest first.
func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var rows []*po.OutboxEventPO
	err := getDB(ctx, r.db).
		Where("status = ?", po.EventStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending outbox events: %w", err)
	}
	return rows, nil
}

// Claim moves one row from PENDING to PROCESSING. Only one worker wins.
func (r *OutboxRepository) Claim(ctx context.Context, id string) error {
	return r.transition(ctx, id, po.EventStatusPending, map[string]any{
		"status": po.EventStatusProcessing,
	})
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	return r.transition(ctx, id, po.EventStatusProcessing, map[string]any{
		"status": po.EventStatusPublished,
	})
}

// MarkFailed counts a failed delivery. The row goes back to PENDING until it
// has failed maxRetries times and then stays FAILED.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, maxRetries int) error {
	// MySQL assigns left to right, so IF sees the incremented count.
	res := getDB(ctx, r.db).Exec(
		"UPDATE outbox_events SET retry_count = retry_count + 1, status = IF(retry_count >= ?, ?, ?), updated_at = NOW() WHERE id = ? AND status = ?",
		maxRetries, po.EventStatusFailed, po.EventStatusPending, id, po.EventStatusProcessing,
	)
	if res.Error != nil {
		return fmt.Errorf("failed to record outbox failure for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotClaimable, id)
	}
	return nil
}

// RequeueStale returns rows stuck in PROCESSING for longer than age to
// PENDING. Such rows belong to a worker that stopped mid-delivery.
func (r *OutboxRepository) RequeueStale(ctx context.Context, age time.Duration) (int64, error) {
	res := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", po.EventStatusProcessing, time.Now().Add(-age)).
		Updates(map[string]any{
			"status":     po.EventStatusPending,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale outbox events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *OutboxRepository) transition(ctx context.Context, id string, from po.EventStatus, set map[string]any) error {
	set["updated_at"] = gorm.Expr("NOW()")
	res := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", id, from).
		Updates(set)
	if res.Error != nil {
		return fmt.Errorf("failed to update outbox event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotClaimable, id)
	}
	return nil
}
