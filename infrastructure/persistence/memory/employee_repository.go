package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence"

	"go.uber.org/zap"
)

// EmployeeRepository 员工仓储的内存实现
// DDD原则：仓储保存聚合根快照而不是聚合实例，调用方之后的修改不会泄漏到存储中。
//
// Save 在事务上下文中只登记变更，由 UnitOfWork 提交；否则立即写入并发布领域事件。
type EmployeeRepository struct {
	mu        sync.RWMutex
	rows      map[string]employee.Snapshot
	clock     shared.Clock
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewEmployeeRepository publisher may be nil, in which case events are only drained.
func NewEmployeeRepository(publisher shared.EventPublisher, clock shared.Clock, logger *zap.Logger) *EmployeeRepository {
	if clock == nil {
		clock = shared.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeRepository{
		rows:      make(map[string]employee.Snapshot),
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		snapshot := e.Snapshot()
		expected := e.PersistedVersion()
		tx.Stage(persistence.Change{
			Apply: func() (func(), error) { return r.write(snapshot, expected) },
			Done:  e.MarkPersisted,
		})
		tx.Track(e)
		return nil
	}

	if _, err := r.write(e.Snapshot(), e.PersistedVersion()); err != nil {
		return err
	}
	e.MarkPersisted()
	return r.publish(ctx, e.PullEvents())
}

// write stores s when the stored version equals expected. The returned undo
// restores the previous row.
func (r *EmployeeRepository) write(s employee.Snapshot, expected int64) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.rows[s.ID]
	var stored int64
	if exists {
		stored = previous.Version
	}
	if stored != expected {
		return nil, shared.NewConcurrencyError(employee.AggregateType, s.ID, expected, stored)
	}
	if holder, taken := r.activeHolder(s.CPF); taken && holder != s.ID && s.DeletedAt == nil {
		cpf, _ := employee.NewCPF(s.CPF)
		return nil, employee.NewCPFAlreadyRegisteredError(cpf)
	}

	r.rows[s.ID] = s
	r.logger.Debug("employee stored",
		zap.String("employee_id", s.ID),
		zap.Int64("version", s.Version))

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if exists {
			r.rows[s.ID] = previous
		} else {
			delete(r.rows, s.ID)
		}
	}, nil
}

// activeHolder returns the id of the non-deleted row holding cpf. Callers hold r.mu.
func (r *EmployeeRepository) activeHolder(cpf string) (string, bool) {
	for id, row := range r.rows {
		if row.CPF == cpf && row.DeletedAt == nil {
			return id, true
		}
	}
	return "", false
}

func (r *EmployeeRepository) publish(ctx context.Context, events []shared.DomainEvent) error {
	if r.publisher == nil || len(events) == 0 {
		return nil
	}
	return r.publisher.PublishAll(ctx, events)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	r.mu.RLock()
	s, ok := r.rows[id]
	r.mu.RUnlock()
	if !ok {
		return nil, employee.NewEmployeeNotFoundError(id)
	}
	return employee.Rebuild(s, r.clock)
}

// FindByCPF prefers the non-deleted holder of the CPF.
func (r *EmployeeRepository) FindByCPF(ctx context.Context, cpf employee.CPF) (*employee.Employee, error) {
	r.mu.RLock()
	var (
		found employee.Snapshot
		ok    bool
	)
	if id, active := r.activeHolder(cpf.Value()); active {
		found, ok = r.rows[id], true
	} else {
		for _, row := range r.rows {
			if row.CPF == cpf.Value() {
				found, ok = row, true
				break
			}
		}
	}
	r.mu.RUnlock()
	if !ok {
		return nil, employee.NewEmployeeNotFoundByCPFError(cpf)
	}
	return employee.Rebuild(found, r.clock)
}

func (r *EmployeeRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*employee.Employee]) ([]*employee.Employee, error) {
	r.mu.RLock()
	rows := make([]employee.Snapshot, 0, len(r.rows))
	for _, s := range r.rows {
		rows = append(rows, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(rows, func(a, b employee.Snapshot) int {
		if c := a.HireDate.Compare(b.HireDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	matches := make([]*employee.Employee, 0)
	for _, s := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := employee.Rebuild(s, r.clock)
		if err != nil {
			return nil, err
		}
		if spec.IsSatisfiedBy(e) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func (r *EmployeeRepository) Remove(ctx context.Context, id, actor string) error {
	e, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := e.Delete(actor); err != nil {
		return err
	}
	return r.Save(ctx, e)
}

// Count returns the number of stored rows, deleted ones included.
func (r *EmployeeRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// Export returns every stored row ordered by id.
func (r *EmployeeRepository) Export() []employee.Snapshot {
	r.mu.RLock()
	rows := make([]employee.Snapshot, 0, len(r.rows))
	for _, s := range r.rows {
		rows = append(rows, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(rows, func(a, b employee.Snapshot) int { return cmp.Compare(a.ID, b.ID) })
	return rows
}

// Import replaces the stored rows. Every row must rebuild into a valid employee and
// no CPF may be held by two non-deleted rows; on failure the store is left untouched.
func (r *EmployeeRepository) Import(rows []employee.Snapshot) error {
	next := make(map[string]employee.Snapshot, len(rows))
	holders := make(map[string]struct{}, len(rows))
	for _, s := range rows {
		if _, err := employee.Rebuild(s, r.clock); err != nil {
			return fmt.Errorf("import employee %s: %w", s.ID, err)
		}
		if _, dup := next[s.ID]; dup {
			return fmt.Errorf("import employee %s: duplicate id", s.ID)
		}
		if s.DeletedAt == nil {
			if _, taken := holders[s.CPF]; taken {
				cpf, _ := employee.NewCPF(s.CPF)
				return fmt.Errorf("import employee %s: %w", s.ID, employee.NewCPFAlreadyRegisteredError(cpf))
			}
			holders[s.CPF] = struct{}{}
		}
		next[s.ID] = s
	}

	r.mu.Lock()
	r.rows = next
	r.mu.Unlock()
	r.logger.Debug("employees imported", zap.Int("count", len(next)))
	return nil
}

// Compile-time check that EmployeeRepository implements employee.Repository
var _ employee.Repository = (*EmployeeRepository)(nil)
