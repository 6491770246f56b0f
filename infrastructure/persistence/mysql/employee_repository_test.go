package mysql_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/eventbus/eventbustest"
	"hrkernel/infrastructure/persistence/mysql"
	"hrkernel/infrastructure/persistence/mysql/po"
	"hrkernel/infrastructure/persistence/retry"
	"hrkernel/pkg/logger"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var today = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// openTestDB connects to the database named by HRKERNEL_MYSQL_DSN and empties
// the employees table. The tests are skipped without it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("HRKERNEL_MYSQL_DSN")
	if dsn == "" {
		t.Skip("HRKERNEL_MYSQL_DSN not set")
	}
	dc, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	dc.ParseTime, dc.ClientFoundRows, dc.Loc = true, true, time.UTC

	db, err := gorm.Open(gormmysql.Open(dc.FormatDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormAdapter(zaptest.NewLogger(t), gormlogger.Warn, logger.DefaultGormConfig()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysql.Close(db) })

	ctx := context.Background()
	require.NoError(t, mysql.Migrate(ctx, db))
	require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&po.EmployeePO{}).Error)
	return db
}

func newEmployee(t *testing.T, first, cpf, department string, hired time.Time) *employee.Employee {
	t.Helper()
	e, err := employee.Hire(employee.HireInput{
		FirstName:   first,
		LastName:    "Silva",
		Email:       first + "@example.com",
		CPF:         cpf,
		Department:  department,
		SalaryCents: 1_000_000,
		Currency:    "BRL",
		HireDate:    hired,
		Address: &employee.AddressInput{
			Street: "Rua A", Number: "10", City: "Recife", State: "PE", PostalCode: "50000-000",
			Tags: []string{"home"},
		},
	}, "hr", clock).Get()
	require.NoError(t, err)
	return e
}

func TestEmployeeRepository_SaveFindAndConflict(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	bus := eventbustest.New(t)
	rec := eventbustest.Subscribe(t, bus, "recorder", employee.EventHired, employee.EventTransferred)
	repo := mysql.NewEmployeeRepository(db, bus, clock, zaptest.NewLogger(t))

	e := newEmployee(t, "ana", "529.982.247-25", "eng", day(2020, 3, 15))
	require.NoError(t, repo.Save(ctx, e))
	assert.Equal(t, []string{employee.EventHired}, rec.Types())

	require.NoError(t, repo.Save(ctx, e), "saving an unchanged employee again is a no-op")

	found, err := repo.FindByID(ctx, e.ID().Value())
	require.NoError(t, err)
	assert.Equal(t, "ENG", found.Department())
	assert.True(t, found.HireDate().Equal(day(2020, 3, 15)))
	assert.Equal(t, []string{"home"}, found.Address().Value().Tags())

	stale, err := repo.FindByID(ctx, e.ID().Value())
	require.NoError(t, err)

	require.NoError(t, found.TransferTo("ops", "bob"))
	require.NoError(t, repo.Save(ctx, found))
	assert.Equal(t, int64(1), found.PersistedVersion())

	require.NoError(t, stale.TransferTo("fin", "eve"))
	err = repo.Save(ctx, stale)
	require.ErrorIs(t, err, shared.ErrConcurrency)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, int64(1), domainErr.Details["actualVersion"])

	_, err = repo.FindByID(ctx, "9e0a3f57-8a43-4b43-9df1-1f2b0f5f0000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestEmployeeRepository_CPFUniqueAmongCurrentEmployees(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := mysql.NewEmployeeRepository(db, nil, clock, nil)

	first := newEmployee(t, "ana", "529.982.247-25", "eng", day(2020, 3, 15))
	require.NoError(t, repo.Save(ctx, first))

	second := newEmployee(t, "bia", "529.982.247-25", "eng", day(2021, 1, 10))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrBusinessRule)

	require.NoError(t, repo.Remove(ctx, first.ID().Value(), "hr"))
	require.NoError(t, repo.Save(ctx, second), "a deleted employee releases the CPF")

	cpf, err := employee.NewCPF("52998224725")
	require.NoError(t, err)
	holder, err := repo.FindByCPF(ctx, cpf)
	require.NoError(t, err)
	assert.True(t, holder.SameIdentity(second), "the current holder wins")
}

func TestEmployeeRepository_FindBySpecification(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := mysql.NewEmployeeRepository(db, nil, clock, nil)

	late := newEmployee(t, "cai", "123.456.789-09", "eng", day(2023, 5, 2))
	early := newEmployee(t, "ana", "529.982.247-25", "eng", day(2019, 8, 20))
	ops := newEmployee(t, "bia", "987.654.321-00", "ops", day(2021, 2, 1))
	gone := newEmployee(t, "dan", "111.444.777-35", "eng", day(2020, 1, 1))
	for _, e := range []*employee.Employee{late, early, ops, gone} {
		require.NoError(t, repo.Save(ctx, e))
	}
	require.NoError(t, repo.Remove(ctx, gone.ID().Value(), "hr"))

	got, err := repo.FindBySpecification(ctx, employee.ActiveInDepartment("eng"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].SameIdentity(early), "ordered by hire date")
	assert.True(t, got[1].SameIdentity(late))

	got, err = repo.FindBySpecification(ctx, shared.And(employee.NotDeleted(), employee.EligibleForReview(3, today)))
	require.NoError(t, err, "rules without a column are checked in memory")
	require.Len(t, got, 2)
	assert.True(t, got[0].SameIdentity(early))
	assert.True(t, got[1].SameIdentity(ops))
}

func TestUnitOfWork_PublishesAfterCommitAndRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	bus := eventbustest.New(t)
	rec := eventbustest.Subscribe(t, bus, "recorder", employee.EventHired)
	repo := mysql.NewEmployeeRepository(db, bus, clock, nil)
	uows := mysql.NewUnitOfWorkFactory(db, bus, retry.Config{Enabled: false}, zaptest.NewLogger(t))

	kept := newEmployee(t, "ana", "529.982.247-25", "eng", day(2020, 3, 15))
	err := uows.New().Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, kept); err != nil {
			return err
		}
		assert.Empty(t, rec.Types(), "nothing is published inside the transaction")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{employee.EventHired}, rec.Types())
	assert.False(t, kept.HasUncommittedEvents())

	dropped := newEmployee(t, "bia", "123.456.789-09", "eng", day(2021, 1, 10))
	boom := errors.New("boom")
	err = uows.New().Execute(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Save(ctx, dropped))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Len(t, rec.Types(), 1)

	_, err = repo.FindByID(ctx, dropped.ID().Value())
	assert.ErrorIs(t, err, shared.ErrNotFound, "the failed unit of work left nothing behind")
}
