package persistence

import (
	"context"
	"slices"
	"sync"

	"hrkernel/domain/shared"

	"gorm.io/gorm"
)

// Change is one staged write. Apply performs it and returns an undo used when
// a later change of the same transaction fails.
type Change struct {
	Apply func() (undo func(), err error)

	// Done runs once every change of the transaction has been applied.
	Done func()
}

// Tx collects the writes and touched aggregates of one unit of work.
// Nothing is visible to readers until Commit.
type Tx struct {
	mu         sync.Mutex
	changes    []Change
	aggregates []shared.Aggregate
}

func NewTx() *Tx {
	return &Tx{}
}

// Stage queues a change for Commit.
func (tx *Tx) Stage(c Change) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.changes = append(tx.changes, c)
}

// Track records an aggregate whose events are published after Commit.
// Tracking the same aggregate twice is a no-op.
func (tx *Tx) Track(agg shared.Aggregate) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if slices.Contains(tx.aggregates, agg) {
		return
	}
	tx.aggregates = append(tx.aggregates, agg)
}

// Aggregates returns the tracked aggregates in registration order.
func (tx *Tx) Aggregates() []shared.Aggregate {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return slices.Clone(tx.aggregates)
}

// Commit applies every staged change in order. When one fails, the changes
// already applied are undone in reverse order and the error is returned.
func (tx *Tx) Commit() error {
	tx.mu.Lock()
	changes := tx.changes
	tx.changes = nil
	tx.mu.Unlock()

	undos := make([]func(), 0, len(changes))
	for _, c := range changes {
		undo, err := c.Apply()
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return err
		}
		if undo != nil {
			undos = append(undos, undo)
		}
	}
	for _, c := range changes {
		if c.Done != nil {
			c.Done()
		}
	}
	return nil
}

// Pending reports the number of staged changes.
func (tx *Tx) Pending() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.changes)
}

// txKey is the context key for storing the transaction
type txKey struct{}

// TxFromContext retrieves the transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *Tx {
	if tx, ok := ctx.Value(txKey{}).(*Tx); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the transaction attached
func ContextWithTx(ctx context.Context, tx *Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

type dbKey struct{}

// DBFromContext returns the database transaction a unit of work opened, or nil.
func DBFromContext(ctx context.Context) *gorm.DB {
	if db, ok := ctx.Value(dbKey{}).(*gorm.DB); ok {
		return db
	}
	return nil
}

// ContextWithDB attaches a database transaction for the repositories to join.
func ContextWithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}
