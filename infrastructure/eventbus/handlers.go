package eventbus

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hrkernel/domain/shared"
)

// Handler 事件处理器接口
type Handler interface {
	// Handle 处理事件
	Handle(ctx context.Context, event shared.DomainEvent) error

	// Name 返回处理器名称，同一事件类型下必须唯一
	Name() string
}

// funcHandler 函数式事件处理器
type funcHandler struct {
	name string
	fn   func(context.Context, shared.DomainEvent) error
}

// HandlerFunc adapts fn into a named Handler.
func HandlerFunc(name string, fn func(ctx context.Context, event shared.DomainEvent) error) Handler {
	return &funcHandler{name: name, fn: fn}
}

func (h *funcHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

func (h *funcHandler) Name() string { return h.name }

// LoggingHandler 日志事件处理器：把每个事件写入日志
type LoggingHandler struct {
	logger *zap.Logger
}

func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event handled",
		zap.String("event_id", event.EventID()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Int64("aggregate_version", event.AggregateVersion()),
		zap.String("occurred_on", event.OccurredOn().Format(time.RFC3339Nano)),
	)
	return nil
}

func (h *LoggingHandler) Name() string { return "logging-event-handler" }
