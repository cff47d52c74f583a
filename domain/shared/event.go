package shared

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DomainEvent is something views and other collaborators may react to.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// DomainEventPublisher fans events out to subscribed handlers.
type DomainEventPublisher interface {
	Publish(event DomainEvent) error
	Subscribe(eventName string, handler EventHandler) error
	Unsubscribe(eventName string, handler EventHandler) error
}

// EventHandler handles one kind of event.
type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

// EventPublishResult records the outcome of one Publish call.
type EventPublishResult struct {
	EventName   string    `json:"event_name"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// BaseEvent carries the fields every event shares. Embed it in concrete events.
type BaseEvent struct {
	Name        string    `json:"name"`
	AggregateID string    `json:"aggregate_id"`
	At          time.Time `json:"at"`
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{Name: name, AggregateID: aggregateID, At: time.Now()}
}

func (e BaseEvent) EventName() string      { return e.Name }
func (e BaseEvent) OccurredOn() time.Time  { return e.At }
func (e BaseEvent) GetAggregateID() string { return e.AggregateID }

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	aggregateID := event.GetAggregateID()
	if aggregateID == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	occurredOn := event.OccurredOn()
	if occurredOn.IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}

const maxPublishHistory = 1000

// EventBus is a synchronous in-process publisher. Handlers run on the
// publishing goroutine, in subscription order.
type EventBus struct {
	handlers  map[string][]EventHandler
	mu        sync.RWMutex
	history   []EventPublishResult
	muHistory sync.Mutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		history:  make([]EventPublishResult, 0),
	}
}

func (bus *EventBus) Publish(event DomainEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := append([]EventHandler(nil), bus.handlers[event.EventName()]...)
	bus.mu.RUnlock()

	result := EventPublishResult{
		EventName:   event.EventName(),
		Success:     true,
		PublishedAt: time.Now(),
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}
	if len(handlers) == 0 {
		result.Message = "no handlers registered for this event"
	}
	if len(errs) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("%d handlers failed", len(errs))
	}
	bus.record(result)

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handlers failed: %v", event.EventName(), len(errs), errs)
	}
	return nil
}

func (bus *EventBus) record(result EventPublishResult) {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()
	bus.history = append(bus.history, result)
	if len(bus.history) > maxPublishHistory {
		bus.history = bus.history[len(bus.history)-maxPublishHistory:]
	}
}

func (bus *EventBus) Subscribe(eventName string, handler EventHandler) error {
	if eventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}

	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	return nil
}

func (bus *EventBus) Unsubscribe(eventName string, handler EventHandler) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	handlers, exists := bus.handlers[eventName]
	if !exists {
		return nil
	}

	for i, h := range handlers {
		if h.Name() == handler.Name() {
			bus.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return nil
		}
	}

	return nil
}

func (bus *EventBus) GetPublishHistory() []EventPublishResult {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()

	history := make([]EventPublishResult, len(bus.history))
	copy(history, bus.history)
	return history
}

type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{
		name: name,
		fn:   fn,
	}
}

func (h *FuncHandler) Handle(event DomainEvent) error {
	return h.fn(event)
}

func (h *FuncHandler) Name() string {
	return h.name
}

// LoggingEventHandler writes every event it receives to a zap logger.
type LoggingEventHandler struct {
	log *zap.Logger
}

func NewLoggingEventHandler(log *zap.Logger) *LoggingEventHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingEventHandler{log: log}
}

func (h *LoggingEventHandler) Handle(event DomainEvent) error {
	h.log.Debug("event handled",
		zap.String("event", event.EventName()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Time("occurred_on", event.OccurredOn()))
	return nil
}

func (h *LoggingEventHandler) Name() string {
	return "logging-event-handler"
}
