/*
Package employee 定义员工领域错误。
错误都是 shared.DomainError，调用方用 errors.Is 匹配种类，用 Code 映射传输层响应。
*/
package employee

import (
	"fmt"
	"time"

	"hrkernel/domain/shared"
)

const entityName = "employee"

// 业务规则标识，写入 DomainError.Details["rule"]
const (
	RuleSalaryPositive      = "salary_positive"
	RuleSalaryCurrency      = "salary_currency_fixed"
	RuleTerminationDate     = "termination_not_before_hire"
	RuleCPFUnique           = "cpf_unique"
	RuleTerminationRequired = "termination_fields_consistent"
)

func NewEmployeeNotFoundError(id string) error {
	return shared.NewNotFoundError(entityName, id)
}

// NewEmployeeNotFoundByCPFError never echoes the full CPF.
func NewEmployeeNotFoundByCPFError(cpf CPF) error {
	return shared.NewNotFoundError(entityName, cpf.Masked())
}

func NewTerminatedError(operation string) error {
	return shared.NewOperationNotAllowedError(entityName, operation, "employee is terminated")
}

func NewDeletedError(operation string) error {
	return shared.NewOperationNotAllowedError(entityName, operation, "employee is deleted")
}

func NewStatusError(operation string, status Status) error {
	return shared.NewOperationNotAllowedError(entityName, operation, fmt.Sprintf("employee is %s", status))
}

func NewTerminationBeforeHireError(hireDate, date time.Time) error {
	return shared.NewBusinessRuleViolationError(entityName, RuleTerminationDate,
		fmt.Sprintf("termination date %s is before hire date %s", date.Format(time.DateOnly), hireDate.Format(time.DateOnly)))
}

func NewCPFAlreadyRegisteredError(cpf CPF) error {
	return shared.NewBusinessRuleViolationError(entityName, RuleCPFUnique,
		fmt.Sprintf("CPF %s is already registered", cpf.Masked()))
}
