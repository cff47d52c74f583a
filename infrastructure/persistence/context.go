package persistence

import (
	"context"

	"storefront/domain/shared"

	"gorm.io/gorm"
)

// txKey is the context key for storing the transaction
type txKey struct{}

// requestIDKey is the context key for the inbound request id
type requestIDKey struct{}

// TxFromContext retrieves the GORM transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the GORM transaction attached
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ContextWithRequestID attaches the request id so SQL logs can be correlated.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id, or "" if none was attached.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// eventsKey is the context key for events collected inside a unit of work
type eventsKey struct{}

// EventBuffer holds the events raised inside one unit of work.
type EventBuffer struct {
	events []shared.DomainEvent
}

func (b *EventBuffer) Add(events ...shared.DomainEvent) {
	b.events = append(b.events, events...)
}

// Events returns the collected events in the order they were raised.
func (b *EventBuffer) Events() []shared.DomainEvent {
	return append([]shared.DomainEvent(nil), b.events...)
}

// ContextWithEvents attaches a fresh buffer.
func ContextWithEvents(ctx context.Context) (context.Context, *EventBuffer) {
	buf := &EventBuffer{}
	return context.WithValue(ctx, eventsKey{}, buf), buf
}

// CollectEvents adds events to the buffer in ctx. It reports false when ctx
// is not inside a unit of work.
func CollectEvents(ctx context.Context, events ...shared.DomainEvent) bool {
	buf, ok := ctx.Value(eventsKey{}).(*EventBuffer)
	if !ok {
		return false
	}
	buf.Add(events...)
	return true
}
