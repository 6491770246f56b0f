package employee_test

import (
	"context"
	"testing"
	"time"

	"hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func seed(t *testing.T, repo employee.Repository, cpf, department string, cents int64, currency string) *employee.Employee {
	t.Helper()
	e, err := employee.Hire(employee.HireInput{
		FirstName:   "Ana",
		LastName:    "Souza",
		Email:       "ana@example.com",
		CPF:         cpf,
		Department:  department,
		SalaryCents: cents,
		Currency:    currency,
		HireDate:    time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
	}, "hr", clock).Get()
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), e))
	return e
}

func TestDomainService_EnsureCPFAvailable(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEmployeeRepository(nil, clock, nil)
	service := employee.NewDomainService(repo)

	taken, _ := employee.NewCPF("529.982.247-25")
	free, _ := employee.NewCPF("123.456.789-09")

	assert.NoError(t, service.EnsureCPFAvailable(ctx, free, ""))

	holder := seed(t, repo, taken.Value(), "eng", 100, "BRL")
	err := service.EnsureCPFAvailable(ctx, taken, "")
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Contains(t, err.Error(), "***.***.***-25")
	assert.NoError(t, service.EnsureCPFAvailable(ctx, taken, holder.ID().Value()), "the holder itself may keep its CPF")

	require.NoError(t, repo.Remove(ctx, holder.ID().Value(), "hr"))
	assert.NoError(t, service.EnsureCPFAvailable(ctx, taken, ""), "deleted employees release their CPF")
}

func TestDomainService_HeadcountAndPayroll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEmployeeRepository(nil, clock, nil)
	service := employee.NewDomainService(repo)

	seed(t, repo, "529.982.247-25", "eng", 1_000_000, "BRL")
	seed(t, repo, "123.456.789-09", "eng", 500_050, "BRL")
	seed(t, repo, "111.444.777-35", "eng", 700_000, "USD")
	seed(t, repo, "390.533.447-05", "ops", 300_000, "BRL")

	count, err := service.Headcount(ctx, employee.ByDepartment("eng"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	total, err := service.Payroll(ctx, employee.ByDepartment("eng"), "BRL")
	require.NoError(t, err)
	assert.Equal(t, shared.MustMoney(1_500_050, "BRL"), total)

	usd, err := service.Payroll(ctx, shared.True[*employee.Employee](), "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(700_000), usd.Amount())

	_, err = service.Payroll(ctx, shared.True[*employee.Employee](), "usd")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
