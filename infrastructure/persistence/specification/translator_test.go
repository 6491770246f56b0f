package specification

import (
	"testing"
	"time"

	"hrkernel/domain/employee"
	"hrkernel/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var columns = map[string]Column{
	employee.FieldDepartment: {Name: "department"},
	employee.FieldStatus:     {Name: "status"},
	employee.FieldHireDate:   {Name: "hire_date"},
	employee.FieldSalary:     {Name: "salary_cents"},
	employee.FieldCurrency:   {Name: "currency"},
	employee.FieldDeleted:    {Name: "deleted_at", Kind: Presence},
	"name":                   {Name: "last_name"},
}

func col(name string) clause.Column { return clause.Column{Name: name} }

func lastName(e *employee.Employee) any { return e.Name().Last() }

func TestTranslator_Leaves(t *testing.T) {
	tr := NewTranslator[*employee.Employee](columns)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec shared.Specification[*employee.Employee]
		want clause.Expression
	}{
		{"named string loses its type", employee.ByStatus(employee.StatusActive), clause.Eq{Column: col("status"), Value: "ACTIVE"}},
		{"department is normalized", employee.ByDepartment(" eng "), clause.Eq{Column: col("department"), Value: "ENG"}},
		{"presence false is IS NULL", employee.NotDeleted(), clause.Eq{Column: col("deleted_at"), Value: nil}},
		{"presence true is IS NOT NULL",
			shared.Property(employee.FieldDeleted, func(*employee.Employee) any { return true }, shared.OpEqual, true),
			clause.Neq{Column: col("deleted_at"), Value: nil}},
		{"in list", employee.InDepartments("eng", "ops"), clause.IN{Column: col("department"), Values: []any{"ENG", "OPS"}}},
		{"empty in list matches nothing", shared.In[*employee.Employee](employee.FieldDepartment, nil), alwaysFalse},
		{"closed date range", employee.HiredBetween(from, to),
			clause.AndConditions{Exprs: []clause.Expression{
				clause.Gte{Column: col("hire_date"), Value: from},
				clause.Lte{Column: col("hire_date"), Value: to},
			}}},
		{"open date range", employee.HiredBetween(from, time.Time{}), clause.Gte{Column: col("hire_date"), Value: from}},
		{"unbounded date range", employee.HiredBetween(time.Time{}, time.Time{}), alwaysTrue},
		{"contains escapes wildcards", shared.Property("name", lastName, shared.OpContains, "50%_off"),
			clause.Like{Column: col("last_name"), Value: `%50\%\_off%`}},
		{"starts with", shared.Property("name", lastName, shared.OpStartsWith, "Sou"),
			clause.Like{Column: col("last_name"), Value: "Sou%"}},
		{"ordering", shared.Property(employee.FieldSalary, func(e *employee.Employee) any { return e.Salary().Amount() }, shared.OpLessThan, int64(500)),
			clause.Lt{Column: col("salary_cents"), Value: int64(500)}},
		{"constants", shared.False[*employee.Employee](), alwaysFalse},
		{"not of a constant folds", shared.Not(shared.True[*employee.Employee]()), alwaysFalse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslator_Composites(t *testing.T) {
	tr := NewTranslator[*employee.Employee](columns)

	got, err := tr.Translate(shared.Or(
		employee.ByDepartment("eng"),
		shared.Not(employee.ByStatus(employee.StatusTerminated)),
	))
	require.NoError(t, err)
	assert.Equal(t, clause.OrConditions{Exprs: []clause.Expression{
		clause.Eq{Column: col("department"), Value: "ENG"},
		clause.NotConditions{Exprs: []clause.Expression{clause.Eq{Column: col("status"), Value: "TERMINATED"}}},
	}}, got)

	got, err = tr.Translate(employee.SalaryAtLeast(shared.MustMoney(100_000, "BRL")))
	require.NoError(t, err)
	assert.Equal(t, clause.AndConditions{Exprs: []clause.Expression{
		clause.Eq{Column: col("currency"), Value: "BRL"},
		clause.Gte{Column: col("salary_cents"), Value: int64(100_000)},
	}}, got)
}

func TestTranslator_Untranslatable(t *testing.T) {
	tr := NewTranslator[*employee.Employee](columns)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, spec := range map[string]shared.Specification[*employee.Employee]{
		"predicate":         employee.EligibleForReview(2, at),
		"unknown property":  shared.Property("email", func(e *employee.Employee) any { return e.Email().Value() }, shared.OpEqual, "x"),
		"value object":      shared.Property(employee.FieldSalary, func(e *employee.Employee) any { return e.Salary() }, shared.OpEqual, shared.MustMoney(1, "BRL")),
		"ordering presence": shared.Property(employee.FieldDeleted, func(*employee.Employee) any { return false }, shared.OpLessThan, true),
		"or with predicate": shared.Or(employee.ByDepartment("eng"), shared.Predicate("custom", func(*employee.Employee) bool { return true })),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tr.Translate(spec)
			assert.ErrorIs(t, err, ErrUntranslatable)
		})
	}
}

func TestTranslator_NarrowKeepsTranslatableConjuncts(t *testing.T) {
	tr := NewTranslator[*employee.Employee](columns)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	spec := shared.And(employee.NotDeleted(), employee.EligibleForReview(2, at))
	assert.Equal(t, clause.AndConditions{Exprs: []clause.Expression{
		clause.Eq{Column: col("deleted_at"), Value: nil},
		clause.Eq{Column: col("status"), Value: "ACTIVE"},
	}}, tr.Narrow(spec))

	assert.Equal(t, alwaysTrue, tr.Narrow(shared.Predicate("custom", func(*employee.Employee) bool { return true })))
}

type employeeRow struct {
	ID string
}

func (employeeRow) TableName() string { return "employees" }

func TestTranslator_ScopeRendersSQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/hr?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	tr := NewTranslator[*employee.Employee](columns)
	var rows []employeeRow
	stmt := db.Scopes(tr.Scope(employee.ActiveInDepartment("eng"))).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FROM `employees` WHERE")
	assert.Contains(t, sql, "`department` = ?")
	assert.Contains(t, sql, "`status` = ?")
	assert.Contains(t, sql, "`deleted_at` IS NULL")
	assert.Equal(t, []any{"ENG", "ACTIVE"}, stmt.Vars)
}
