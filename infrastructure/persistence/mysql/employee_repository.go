package mysql

import (
	"context"
	"errors"
	"fmt"

	"hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence"
	"hrkernel/infrastructure/persistence/mysql/po"
	"hrkernel/infrastructure/persistence/specification"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const errDuplicateEntry = 1062

// EmployeeColumns maps specification properties onto the employees table.
var EmployeeColumns = map[string]specification.Column{
	employee.FieldDepartment: {Name: "department"},
	employee.FieldStatus:     {Name: "status"},
	employee.FieldHireDate:   {Name: "hire_date"},
	employee.FieldSalary:     {Name: "salary_cents"},
	employee.FieldCurrency:   {Name: "currency"},
	employee.FieldDeleted:    {Name: "deleted_at", Kind: specification.Presence},
}

// EmployeeRepository 员工仓储的 MySQL 实现
// 在工作单元的事务中写入并把事件交给 UnitOfWork；否则自带事务写入并立即发布。
type EmployeeRepository struct {
	db         *gorm.DB
	clock      shared.Clock
	publisher  shared.EventPublisher
	translator *specification.Translator[*employee.Employee]
	logger     *zap.Logger
}

func NewEmployeeRepository(db *gorm.DB, publisher shared.EventPublisher, clock shared.Clock, logger *zap.Logger) *EmployeeRepository {
	if clock == nil {
		clock = shared.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeRepository{
		db:         db,
		clock:      clock,
		publisher:  publisher,
		translator: specification.NewTranslator[*employee.Employee](EmployeeColumns),
		logger:     logger,
	}
}

func (r *EmployeeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.DBFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) error {
	if db := persistence.DBFromContext(ctx); db != nil {
		if err := r.saveWithTx(db, e); err != nil {
			return err
		}
		if tx := persistence.TxFromContext(ctx); tx != nil {
			tx.Stage(persistence.Change{
				Apply: func() (func(), error) { return nil, nil },
				Done:  e.MarkPersisted,
			})
			tx.Track(e)
		}
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, e)
	})
	if err != nil {
		return err
	}
	e.MarkPersisted()
	if r.publisher == nil {
		e.PullEvents()
		return nil
	}
	return r.publisher.PublishAll(ctx, e.PullEvents())
}

func (r *EmployeeRepository) saveWithTx(tx *gorm.DB, e *employee.Employee) error {
	row := po.FromSnapshot(e.Snapshot())
	expected := e.PersistedVersion()

	if err := r.ensureCPFFree(tx, row); err != nil {
		return err
	}

	// 严格乐观锁：以聚合加载时的版本作为更新条件，避免静默覆盖并发写入。
	result := tx.Model(&po.EmployeePO{}).
		Where("id = ? AND version = ?", row.ID, expected).
		Updates(row.Columns())
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return r.duplicateError(tx, row)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		if expected != 0 {
			return r.conflict(tx, row.ID, expected)
		}
		if err := tx.Create(row).Error; err != nil {
			if isDuplicateKeyError(err) {
				return r.duplicateError(tx, row)
			}
			return err
		}
	}

	r.logger.Debug("employee stored",
		zap.String("employee_id", row.ID),
		zap.Int64("version", row.Version))
	return nil
}

// ensureCPFFree reports the CPF taken when another non-deleted row holds it.
func (r *EmployeeRepository) ensureCPFFree(tx *gorm.DB, row *po.EmployeePO) error {
	if row.ActiveCPF == nil {
		return nil
	}
	var count int64
	err := tx.Model(&po.EmployeePO{}).
		Where("active_cpf = ? AND id <> ?", *row.ActiveCPF, row.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return r.cpfTaken(row.CPF)
	}
	return nil
}

// duplicateError tells an id clash from a CPF clash that slipped past ensureCPFFree.
func (r *EmployeeRepository) duplicateError(tx *gorm.DB, row *po.EmployeePO) error {
	var count int64
	if err := tx.Model(&po.EmployeePO{}).Where("id = ?", row.ID).Count(&count).Error; err == nil && count > 0 {
		return r.conflict(tx, row.ID, 0)
	}
	return r.cpfTaken(row.CPF)
}

func (r *EmployeeRepository) cpfTaken(value string) error {
	cpf, err := employee.NewCPF(value)
	if err != nil {
		return err
	}
	return employee.NewCPFAlreadyRegisteredError(cpf)
}

// conflict distinguishes a vanished row from a stale version.
func (r *EmployeeRepository) conflict(tx *gorm.DB, id string, expected int64) error {
	var stored po.EmployeePO
	err := tx.Select("id", "version").First(&stored, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employee.NewEmployeeNotFoundError(id)
	}
	if err != nil {
		return err
	}
	return shared.NewConcurrencyError(employee.AggregateType, id, expected, stored.Version)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var row po.EmployeePO
	err := r.getDB(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employee.NewEmployeeNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return r.rebuild(row)
}

// FindByCPF prefers the non-deleted holder of the CPF.
func (r *EmployeeRepository) FindByCPF(ctx context.Context, cpf employee.CPF) (*employee.Employee, error) {
	var row po.EmployeePO
	err := r.getDB(ctx).
		Where("cpf = ?", cpf.Value()).
		Order("deleted_at IS NOT NULL").
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employee.NewEmployeeNotFoundByCPFError(cpf)
	}
	if err != nil {
		return nil, err
	}
	return r.rebuild(row)
}

// FindBySpecification pushes what it can of spec into the WHERE clause and
// checks every loaded row against the full rule.
func (r *EmployeeRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*employee.Employee]) ([]*employee.Employee, error) {
	var rows []po.EmployeePO
	err := r.getDB(ctx).
		Scopes(r.translator.Scope(spec)).
		Order("hire_date").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]*employee.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := r.rebuild(row)
		if err != nil {
			return nil, err
		}
		if spec == nil || spec.IsSatisfiedBy(e) {
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

func (r *EmployeeRepository) rebuild(row po.EmployeePO) (*employee.Employee, error) {
	e, err := employee.Rebuild(row.ToSnapshot(), r.clock)
	if err != nil {
		return nil, fmt.Errorf("rebuild employee %s: %w", row.ID, err)
	}
	return e, nil
}

// Compile-time check that EmployeeRepository implements employee.Repository
var _ employee.Repository = (*EmployeeRepository)(nil)
