// Package eventbus is the in-process domain event bus. Handlers for one event run
// sequentially in registration order; a failing handler is logged and counted but
// never stops delivery to the others or reaches the publisher.
package eventbus

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrkernel/domain/shared"
)

// DefaultHistorySize bounds the publish history.
const DefaultHistorySize = 1000

// PublishResult 事件发布结果（调试用）
type PublishResult struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Handlers    int       `json:"handlers"`
	Failed      []string  `json:"failed,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Success reports whether every handler completed without error.
func (r PublishResult) Success() bool { return len(r.Failed) == 0 }

// Option configures a Bus.
type Option func(*Bus)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics enables prometheus instrumentation. nil disables it.
func WithMetrics(m *Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

// WithHistorySize bounds History. Zero disables recording.
func WithHistorySize(n int) Option {
	return func(b *Bus) {
		if n >= 0 {
			b.historySize = n
		}
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// Bus 内存事件总线实现
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex

	history     []PublishResult
	historySize int
	muHistory   sync.Mutex

	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

var _ shared.EventPublisher = (*Bus)(nil)

// New creates an isolated bus. There is no process-wide instance; callers inject the bus
// where it is needed.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers:    make(map[string][]Handler),
		historySize: DefaultHistorySize,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for eventType. Handler names must be unique per event type.
func (b *Bus) Subscribe(eventType string, handler Handler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, h := range b.handlers[eventType] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventType)
		}
	}
	b.handlers[eventType] = append(slices.Clip(b.handlers[eventType]), handler)
	return nil
}

// Unsubscribe removes the named handler. Removing an unknown handler is a no-op.
func (b *Bus) Unsubscribe(eventType, handlerName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := slices.DeleteFunc(slices.Clone(b.handlers[eventType]), func(h Handler) bool {
		return h.Name() == handlerName
	})
	if len(remaining) == 0 {
		delete(b.handlers, eventType)
		return
	}
	b.handlers[eventType] = remaining
}

// Handlers returns the handlers registered for eventType in registration order.
func (b *Bus) Handlers(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.handlers[eventType])
}

// Publish delivers event to each of its handlers in turn. Only an invalid event is
// reported as an error.
func (b *Bus) Publish(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return err
	}

	handlers := b.Handlers(event.EventType())
	result := PublishResult{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		Handlers:    len(handlers),
		PublishedAt: b.now(),
	}

	for _, h := range handlers {
		start := time.Now()
		err := invoke(ctx, h, event)
		b.metrics.ObserveHandler(event.EventType(), time.Since(start))
		if err != nil {
			result.Failed = append(result.Failed, h.Name())
			b.metrics.IncHandlerFailure(event.EventType(), h.Name())
			b.logger.Error("event handler failed",
				zap.String("handler", h.Name()),
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID()),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
		}
	}

	b.metrics.IncPublished(event.EventType())
	b.record(result)
	return nil
}

// PublishAll publishes each event on its own goroutine and waits for all of them.
// Handlers of a single event remain sequential; no order holds across events.
func (b *Bus) PublishAll(ctx context.Context, events []shared.DomainEvent) error {
	var g errgroup.Group
	for _, event := range events {
		g.Go(func() error {
			return b.Publish(ctx, event)
		})
	}
	return g.Wait()
}

// History returns a copy of the most recent publish results, oldest first.
func (b *Bus) History() []PublishResult {
	b.muHistory.Lock()
	defer b.muHistory.Unlock()
	return slices.Clone(b.history)
}

func (b *Bus) record(result PublishResult) {
	if b.historySize == 0 {
		return
	}
	b.muHistory.Lock()
	defer b.muHistory.Unlock()

	b.history = append(b.history, result)
	if len(b.history) > b.historySize {
		b.history = slices.Clone(b.history[len(b.history)-b.historySize:])
	}
}

// invoke runs one handler, turning a panic into an error.
func invoke(ctx context.Context, h Handler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, event)
}
