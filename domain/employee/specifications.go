package employee

import (
	"strconv"
	"strings"
	"time"

	"hrkernel/domain/shared"
)

// Property names used in specification trees. Persistence adapters translate them to columns.
const (
	FieldDepartment = "department"
	FieldStatus     = "status"
	FieldHireDate   = "hireDate"
	FieldSalary     = "salary"
	FieldCurrency   = "currency"
	FieldDeleted    = "deleted"
)

func departmentOf(e *Employee) any     { return e.Department() }
func statusOf(e *Employee) any         { return e.Status() }
func hireDateOf(e *Employee) time.Time { return e.HireDate() }
func salaryOf(e *Employee) any         { return e.Salary().Amount() }
func currencyOf(e *Employee) any       { return e.Salary().Currency() }
func deletedOf(e *Employee) any        { return e.IsDeleted() }

func ByDepartment(department string) shared.Specification[*Employee] {
	return shared.Property(FieldDepartment, departmentOf, shared.OpEqual, strings.ToUpper(strings.TrimSpace(department)))
}

func InDepartments(departments ...string) shared.Specification[*Employee] {
	values := make([]any, len(departments))
	for i, d := range departments {
		values[i] = strings.ToUpper(strings.TrimSpace(d))
	}
	return shared.In(FieldDepartment, departmentOf, values...)
}

func ByStatus(status Status) shared.Specification[*Employee] {
	return shared.Property(FieldStatus, statusOf, shared.OpEqual, status)
}

// HiredBetween is inclusive. A zero bound leaves that end open.
func HiredBetween(from, to time.Time) shared.Specification[*Employee] {
	return shared.DateRange(FieldHireDate, hireDateOf, dateOnly(from), dateOnly(to))
}

// SalaryAtLeast only matches salaries in the same currency as min.
func SalaryAtLeast(min shared.Money) shared.Specification[*Employee] {
	return shared.NewSpecificationBuilder[*Employee]().
		Property(FieldCurrency, currencyOf, shared.OpEqual, min.Currency()).
		Property(FieldSalary, salaryOf, shared.OpGreaterOrEqual, min.Amount()).
		Build()
}

func NotDeleted() shared.Specification[*Employee] {
	return shared.Property(FieldDeleted, deletedOf, shared.OpEqual, false)
}

// ActiveInDepartment 在职且未删除的部门员工
func ActiveInDepartment(department string) shared.Specification[*Employee] {
	return shared.NewSpecificationBuilder[*Employee]().
		With(ByDepartment(department)).
		With(ByStatus(StatusActive)).
		With(NotDeleted()).
		Build()
}

// EligibleForReview matches active employees with at least years of service at the given date.
func EligibleForReview(years int, at time.Time) shared.Specification[*Employee] {
	return shared.And(
		ByStatus(StatusActive),
		shared.Predicate("yearsOfService >= "+strconv.Itoa(years), func(e *Employee) bool {
			return e.YearsOfService(at) >= years
		}),
	)
}
