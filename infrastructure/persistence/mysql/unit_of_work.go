package mysql

import (
	"context"
	"fmt"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/pkg/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and writes collected domain events to the
// outbox table inside the same transaction
type UnitOfWork struct {
	db               *gorm.DB
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	log              *zap.Logger
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, log *zap.Logger) *UnitOfWork {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnitOfWork{
		db:               db,
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.ForDatabase(),
		log:              log,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction and a fresh event buffer
// 2. Injects both into context for repositories and Collect to use
// 3. Executes the business function
// 4. Saves collected events to the outbox table (Outbox pattern)
// 5. Commits on success, rolls back on error
// 6. Automatically retries on retryable errors (deadlocks, lock wait timeouts)
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	executeOnce := func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		txCtx := persistence.ContextWithTx(ctx, tx)
		txCtx, events := persistence.ContextWithEvents(txCtx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		if err := u.outboxRepository.Append(txCtx, events.Events()...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save events to outbox: %w", err)
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

// Collect queues events for the outbox of the surrounding Execute.
func (u *UnitOfWork) Collect(ctx context.Context, events ...shared.DomainEvent) {
	if !persistence.CollectEvents(ctx, events...) {
		u.log.Warn("Events raised outside a unit of work were dropped", zap.Int("count", len(events)))
	}
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
