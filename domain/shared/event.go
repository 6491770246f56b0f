package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent 领域事件
// 只能作为聚合修改的副作用产生，创建后不可变。
type DomainEvent interface {
	EventID() string
	EventType() string
	OccurredOn() time.Time
	AggregateID() string
	AggregateType() string
	AggregateVersion() int64
}

// EventBase carries the metadata every domain event shares. Concrete events embed it.
type EventBase struct {
	eventID       string
	eventType     string
	aggregateID   string
	aggregateType string
	version       int64
	occurredOn    time.Time
}

func NewEventBase(eventType, aggregateType, aggregateID string, version int64, occurredOn time.Time) EventBase {
	return EventBase{
		eventID:       uuid.NewString(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		version:       version,
		occurredOn:    occurredOn,
	}
}

func (e EventBase) EventID() string         { return e.eventID }
func (e EventBase) EventType() string       { return e.eventType }
func (e EventBase) OccurredOn() time.Time   { return e.occurredOn }
func (e EventBase) AggregateID() string     { return e.aggregateID }
func (e EventBase) AggregateType() string   { return e.aggregateType }
func (e EventBase) AggregateVersion() int64 { return e.version }

// EventPublisher 领域事件发布器接口
// 领域层定义接口，基础设施层（eventbus）提供实现
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}

// ValidateEvent 验证领域事件
func ValidateEvent(event DomainEvent) error {
	if isNilValue(event) {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventType() == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if event.EventID() == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	if event.AggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}
