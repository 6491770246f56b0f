package employee

import (
	"context"

	"hrkernel/domain/shared"
)

// Repository Employee repository interface
// DDD principles:
// 1. Repository only persists whole aggregate roots
// 2. Save enforces optimistic locking: the stored version must equal the aggregate's PersistedVersion
// 3. Save drains the aggregate's pending events and hands them to the event publisher
type Repository interface {
	// Save creates or updates the aggregate. A stale aggregate fails with shared.ErrConcurrency.
	Save(ctx context.Context, employee *Employee) error

	// FindByID fails with shared.ErrNotFound when no employee has id.
	FindByID(ctx context.Context, id string) (*Employee, error)

	// FindByCPF looks up the business uniqueness key.
	FindByCPF(ctx context.Context, cpf CPF) (*Employee, error)

	// FindBySpecification returns matches in hire-date order.
	FindBySpecification(ctx context.Context, spec shared.Specification[*Employee]) ([]*Employee, error)

	// Remove soft-deletes the employee.
	Remove(ctx context.Context, id, actor string) error
}
