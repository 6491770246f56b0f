package memory

import (
	"context"
	"fmt"

	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence"
	"hrkernel/infrastructure/persistence/retry"

	"go.uber.org/zap"
)

// UnitOfWork implements the Unit of Work pattern over the in-memory repositories.
// Repositories stage their writes on the transaction found in the context; the
// writes become visible together on commit and the collected domain events are
// published afterwards.
type UnitOfWork struct {
	publisher   shared.EventPublisher
	retryConfig retry.Config
	logger      *zap.Logger
	registered  []shared.Aggregate
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(publisher shared.EventPublisher, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{
		publisher:   publisher,
		retryConfig: retry.DefaultConfig,
		logger:      logger,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs fn inside a transaction
// It:
// 1. Injects a fresh transaction into context for repositories to use
// 2. Executes the business function
// 3. Commits the staged writes, all or nothing
// 4. Publishes the events of every tracked or registered aggregate
// 5. Automatically retries the whole attempt on optimistic-lock conflicts
//
// Publishing happens after commit; a publisher error is returned but the writes stay.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var committed *persistence.Tx

	executeOnce := func(ctx context.Context) error {
		// Reset aggregates for this attempt
		u.registered = nil

		tx := persistence.NewTx()
		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			return err
		}
		for _, agg := range u.registered {
			tx.Track(agg)
		}
		if err := tx.Commit(); err != nil {
			u.logger.Debug("unit of work rolled back", zap.Error(err))
			return err
		}
		committed = tx
		return nil
	}

	if err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce); err != nil {
		return err
	}

	var events []shared.DomainEvent
	for _, agg := range committed.Aggregates() {
		events = append(events, agg.PullEvents()...)
	}
	if u.publisher == nil || len(events) == 0 {
		return nil
	}
	if err := u.publisher.PublishAll(ctx, events); err != nil {
		return fmt.Errorf("publish domain events: %w", err)
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.Aggregate) {
	u.registered = append(u.registered, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.Aggregate) {
	u.registered = append(u.registered, aggregate)
}

// UnitOfWorkFactory hands out independent units of work sharing one publisher.
type UnitOfWorkFactory struct {
	publisher   shared.EventPublisher
	retryConfig retry.Config
	logger      *zap.Logger
}

func NewUnitOfWorkFactory(publisher shared.EventPublisher, retryConfig retry.Config, logger *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{publisher: publisher, retryConfig: retryConfig, logger: logger}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.publisher, f.logger)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
