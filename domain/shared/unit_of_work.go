package shared

import "context"

// UnitOfWork runs fn inside one storage transaction. Repositories called
// with the ctx passed to fn take part in it.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error

	// Collect queues events raised inside fn. They are delivered only if the
	// surrounding Execute commits.
	Collect(ctx context.Context, events ...DomainEvent)
}
