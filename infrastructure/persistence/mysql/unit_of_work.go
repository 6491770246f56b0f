package mysql

import (
	"context"
	"fmt"

	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence"
	"hrkernel/infrastructure/persistence/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db          *gorm.DB
	publisher   shared.EventPublisher
	retryConfig retry.Config
	logger      *zap.Logger
	registered  []shared.Aggregate
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, publisher shared.EventPublisher, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{
		db:          db,
		publisher:   publisher,
		retryConfig: retry.DefaultConfig,
		logger:      logger,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction
// 2. Injects the transaction into context for repositories to use
// 3. Executes the business function
// 4. Commits on success, rolls back on error
// 5. Marks the saved aggregates persisted and publishes their events
// 6. Automatically retries the whole attempt on optimistic-lock conflicts
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var committed *persistence.Tx

	executeOnce := func(ctx context.Context) error {
		// Reset aggregates for this attempt
		u.registered = nil
		tracked := persistence.NewTx()

		err := u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			txCtx := persistence.ContextWithDB(persistence.ContextWithTx(ctx, tracked), db)
			return fn(txCtx)
		})
		if err != nil {
			u.logger.Debug("unit of work rolled back", zap.Error(err))
			return err
		}

		for _, agg := range u.registered {
			tracked.Track(agg)
		}
		if err := tracked.Commit(); err != nil {
			return fmt.Errorf("failed to finish transaction: %w", err)
		}
		committed = tracked
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

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
