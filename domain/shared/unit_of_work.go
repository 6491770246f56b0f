package shared

import "context"

// UnitOfWork 管理一次业务操作的边界与聚合事件收集。
// Execute 成功后，已登记聚合的未提交事件被一次性取出并交给 EventPublisher。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate Aggregate)
	RegisterDirty(aggregate Aggregate)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}
