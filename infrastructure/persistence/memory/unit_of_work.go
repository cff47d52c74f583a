package memory

import (
	"context"
	"sync"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
)

// UnitOfWork serializes units of work over the in-memory repositories and
// publishes their events after fn succeeds. There is no rollback: callers
// check everything before the first write.
type UnitOfWork struct {
	mu        sync.Mutex
	publisher shared.DomainEventPublisher
	log       *zap.Logger
}

func NewUnitOfWork(publisher shared.DomainEventPublisher, log *zap.Logger) *UnitOfWork {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnitOfWork{publisher: publisher, log: log}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, buf := persistence.ContextWithEvents(ctx)

	u.mu.Lock()
	err := fn(ctx)
	u.mu.Unlock()
	if err != nil {
		return err
	}

	if u.publisher == nil {
		return nil
	}
	for _, event := range buf.Events() {
		if err := u.publisher.Publish(event); err != nil {
			u.log.Warn("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err))
		}
	}
	return nil
}

func (u *UnitOfWork) Collect(ctx context.Context, events ...shared.DomainEvent) {
	if !persistence.CollectEvents(ctx, events...) {
		u.log.Warn("Events raised outside a unit of work were dropped", zap.Int("count", len(events)))
	}
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
