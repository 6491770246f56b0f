package shared

import "time"

// Aggregate 聚合根接口
// 聚合根是一致性边界的入口点：
// 1. 有全局唯一标识
// 2. 维护聚合内部的不变量
// 3. 所有修改必须通过聚合根进行
// 4. 记录领域事件，由持久化协作者在保存后取出并发布
type Aggregate interface {
	AggregateID() string
	AggregateType() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int64

	// PersistedVersion 返回加载（或上次保存）时的版本号
	PersistedVersion() int64

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// AggregateRoot 聚合根基类：在实体之上增加单调递增的版本号与未提交事件缓冲区
type AggregateRoot[K comparable] struct {
	Entity[K]
	version          int64
	persistedVersion int64
	events           []DomainEvent
}

// NewAggregateRoot 创建新聚合根，版本从 0 开始
func NewAggregateRoot[K comparable](typeName string, id ID[K], clock Clock) (AggregateRoot[K], error) {
	entity, err := NewEntity(typeName, id, clock)
	if err != nil {
		return AggregateRoot[K]{}, err
	}
	return AggregateRoot[K]{Entity: entity}, nil
}

// RestoreAggregateRoot 从持久化快照重建聚合根，仅限仓储层使用
func RestoreAggregateRoot[K comparable](typeName string, id ID[K], version int64, createdAt, updatedAt time.Time, clock Clock) AggregateRoot[K] {
	return AggregateRoot[K]{
		Entity:           RestoreEntity(typeName, id, createdAt, updatedAt, clock),
		version:          version,
		persistedVersion: version,
	}
}

func (a *AggregateRoot[K]) AggregateID() string     { return a.ID().String() }
func (a *AggregateRoot[K]) AggregateType() string   { return a.TypeName() }
func (a *AggregateRoot[K]) Version() int64          { return a.version }
func (a *AggregateRoot[K]) PersistedVersion() int64 { return a.persistedVersion }

// IncrementVersion 每次已提交的变更版本号加 1
func (a *AggregateRoot[K]) IncrementVersion() {
	a.version++
}

// CheckVersion 乐观锁检查：期望版本与当前版本不一致时返回 ConcurrencyError
func (a *AggregateRoot[K]) CheckVersion(expected int64) error {
	if expected != a.version {
		return NewConcurrencyError(a.TypeName(), a.AggregateID(), expected, a.version)
	}
	return nil
}

// MarkPersisted records that the current version has been stored.
func (a *AggregateRoot[K]) MarkPersisted() {
	a.persistedVersion = a.version
}

// NewEvent builds event metadata stamped with the aggregate's identity and current version.
func (a *AggregateRoot[K]) NewEvent(eventType string) EventBase {
	return NewEventBase(eventType, a.TypeName(), a.AggregateID(), a.version, a.Now())
}

// RecordEvent 追加领域事件到未提交缓冲区
func (a *AggregateRoot[K]) RecordEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// UncommittedEvents 返回未提交事件的副本
func (a *AggregateRoot[K]) UncommittedEvents() []DomainEvent {
	events := make([]DomainEvent, len(a.events))
	copy(events, a.events)
	return events
}

func (a *AggregateRoot[K]) HasUncommittedEvents() bool { return len(a.events) > 0 }

// MarkEventsAsCommitted 一次性清空未提交事件，重复调用无副作用
func (a *AggregateRoot[K]) MarkEventsAsCommitted() {
	a.events = nil
}

// PullEvents 获取并清空聚合根的事件列表
func (a *AggregateRoot[K]) PullEvents() []DomainEvent {
	events := a.UncommittedEvents()
	a.MarkEventsAsCommitted()
	return events
}

// CloneRoot returns a copy whose event buffer is independent of a's.
func (a *AggregateRoot[K]) CloneRoot() AggregateRoot[K] {
	clone := *a
	clone.events = a.UncommittedEvents()
	return clone
}
