package shared

import (
	"time"

	"hrkernel/pkg/maybe"
)

// Clock supplies the current time to entities. Tests inject a fixed or stepping clock.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time { return time.Now().UTC() }

// Entity 实体基类
// 实体与值对象的区别：
// 1. 实体有唯一标识（ID），通过“类型 + 标识”判断相等性，与属性值无关
// 2. 每条修改路径都必须重新校验并刷新 updatedAt
// 3. 实体从不在内存中销毁，软删除只是一个状态标记
type Entity[K comparable] struct {
	id        ID[K]
	typeName  string
	createdAt time.Time
	updatedAt time.Time
	clock     Clock
}

// NewEntity 创建新实体，createdAt 与 updatedAt 相同
func NewEntity[K comparable](typeName string, id ID[K], clock Clock) (Entity[K], error) {
	if typeName == "" {
		return Entity[K]{}, NewValidationError("entity", "typeName", typeName, "entity type name cannot be empty")
	}
	if id.IsZero() {
		return Entity[K]{}, NewValidationError(typeName, "id", id.Value(), "entity id cannot be empty")
	}
	if clock == nil {
		clock = SystemClock
	}
	now := clock()
	return Entity[K]{
		id:        id,
		typeName:  typeName,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}, nil
}

// RestoreEntity 从持久化快照重建实体，仅限仓储层使用
func RestoreEntity[K comparable](typeName string, id ID[K], createdAt, updatedAt time.Time, clock Clock) Entity[K] {
	if clock == nil {
		clock = SystemClock
	}
	return Entity[K]{
		id:        id,
		typeName:  typeName,
		createdAt: createdAt,
		updatedAt: updatedAt,
		clock:     clock,
	}
}

func (e *Entity[K]) ID() ID[K]            { return e.id }
func (e *Entity[K]) TypeName() string     { return e.typeName }
func (e *Entity[K]) CreatedAt() time.Time { return e.createdAt }
func (e *Entity[K]) UpdatedAt() time.Time { return e.updatedAt }

// IsNew reports whether the entity has not been modified since construction.
func (e *Entity[K]) IsNew() bool { return e.createdAt.Equal(e.updatedAt) }

// Now reads the entity's clock.
func (e *Entity[K]) Now() time.Time { return e.clock() }

// Touch refreshes updatedAt. updatedAt strictly increases even when the clock does not move.
func (e *Entity[K]) Touch() {
	now := e.clock()
	if !now.After(e.updatedAt) {
		now = e.updatedAt.Add(time.Nanosecond)
	}
	e.updatedAt = now
}

// SameIdentity compares type and id only.
func (e *Entity[K]) SameIdentity(other Identifiable[K]) bool {
	return EntityEquals[K](e, other)
}

// Identifiable is anything carrying an entity identity.
type Identifiable[K comparable] interface {
	TypeName() string
	ID() ID[K]
}

// EntityEquals 实体相等性：类型相同且标识相同
func EntityEquals[K comparable](a, b Identifiable[K]) bool {
	if isNilValue(a) || isNilValue(b) {
		return false
	}
	return a.TypeName() == b.TypeName() && a.ID().Equals(b.ID())
}

// Mutate applies change to a copy of *state and commits the copy only when validate accepts it,
// so a rejected mutation leaves no trace. change must replace reference fields (slices, maps)
// rather than modify them in place.
func Mutate[S any](state *S, change func(*S) error, validate func(S) error) error {
	next := *state
	if err := change(&next); err != nil {
		return err
	}
	if validate != nil {
		if err := validate(next); err != nil {
			return err
		}
	}
	*state = next
	return nil
}

// ============================================================================
// 审计与软删除组件
// ============================================================================

// Audit 审计字段：记录创建者与最后修改者
type Audit struct {
	createdBy string
	updatedBy string
}

func NewAudit(actor string) Audit {
	return Audit{createdBy: actor, updatedBy: actor}
}

// RestoreAudit 从持久化快照重建审计字段
func RestoreAudit(createdBy, updatedBy string) Audit {
	return Audit{createdBy: createdBy, updatedBy: updatedBy}
}

func (a Audit) CreatedBy() string { return a.createdBy }
func (a Audit) UpdatedBy() string { return a.updatedBy }

func (a *Audit) RecordUpdate(actor string) {
	a.updatedBy = actor
}

// SoftDelete 软删除状态标记
type SoftDelete struct {
	deletedAt *time.Time
	deletedBy string
}

// RestoreSoftDelete 从持久化快照重建软删除状态
func RestoreSoftDelete(deletedAt *time.Time, deletedBy string) SoftDelete {
	if deletedAt == nil {
		return SoftDelete{}
	}
	at := *deletedAt
	return SoftDelete{deletedAt: &at, deletedBy: deletedBy}
}

func (s SoftDelete) IsDeleted() bool   { return s.deletedAt != nil }
func (s SoftDelete) DeletedBy() string { return s.deletedBy }

// DeletedAt returns a copy of the deletion time.
func (s SoftDelete) DeletedAt() maybe.Maybe[time.Time] {
	return maybe.FromPtr(s.deletedAt)
}

// MarkDeleted fails when the entity is already deleted.
func (s *SoftDelete) MarkDeleted(entity string, at time.Time, actor string) error {
	if s.IsDeleted() {
		return NewOperationNotAllowedError(entity, "delete", "already deleted")
	}
	s.deletedAt = &at
	s.deletedBy = actor
	return nil
}

// MarkRestored fails when the entity is not deleted.
func (s *SoftDelete) MarkRestored(entity string) error {
	if !s.IsDeleted() {
		return NewOperationNotAllowedError(entity, "restore", "not deleted")
	}
	s.deletedAt = nil
	s.deletedBy = ""
	return nil
}

// AuditableEntity 记录 createdBy / updatedBy 的实体
type AuditableEntity[K comparable] struct {
	Entity[K]
	Audit
}

func NewAuditableEntity[K comparable](typeName string, id ID[K], actor string, clock Clock) (AuditableEntity[K], error) {
	entity, err := NewEntity(typeName, id, clock)
	if err != nil {
		return AuditableEntity[K]{}, err
	}
	return AuditableEntity[K]{Entity: entity, Audit: NewAudit(actor)}, nil
}

// TouchBy refreshes updatedAt and records the actor.
func (e *AuditableEntity[K]) TouchBy(actor string) {
	e.Touch()
	e.RecordUpdate(actor)
}

// SoftDeletableEntity 支持软删除的可审计实体
type SoftDeletableEntity[K comparable] struct {
	AuditableEntity[K]
	SoftDelete
}

func NewSoftDeletableEntity[K comparable](typeName string, id ID[K], actor string, clock Clock) (SoftDeletableEntity[K], error) {
	entity, err := NewAuditableEntity(typeName, id, actor, clock)
	if err != nil {
		return SoftDeletableEntity[K]{}, err
	}
	return SoftDeletableEntity[K]{AuditableEntity: entity}, nil
}

// Delete 软删除；已删除时失败
func (e *SoftDeletableEntity[K]) Delete(actor string) error {
	if err := e.MarkDeleted(e.TypeName(), e.Now(), actor); err != nil {
		return err
	}
	e.TouchBy(actor)
	return nil
}

// Restore 恢复软删除；未删除时失败
func (e *SoftDeletableEntity[K]) Restore(actor string) error {
	if err := e.MarkRestored(e.TypeName()); err != nil {
		return err
	}
	e.TouchBy(actor)
	return nil
}
