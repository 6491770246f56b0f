package employee

import (
	"time"

	domain "hrkernel/domain/employee"
)

// HireRequest 表示入职请求入参。
type HireRequest = domain.HireInput

// TransferRequest 表示调岗入参。
type TransferRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Department string `json:"department" validate:"notblank"`
}

// AdjustSalaryRequest 表示调薪入参。
type AdjustSalaryRequest struct {
	EmployeeID  string `json:"employeeId" validate:"required"`
	SalaryCents int64  `json:"salaryCents" validate:"gt=0"`
	Currency    string `json:"currency" validate:"required,iso4217"`
}

// TerminateRequest 表示离职入参。
type TerminateRequest struct {
	EmployeeID string    `json:"employeeId" validate:"required"`
	Reason     string    `json:"reason" validate:"notblank,max=500"`
	Date       time.Time `json:"date" validate:"required"`
}

// LeaveRequest 表示休假入参。
type LeaveRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Reason     string `json:"reason" validate:"notblank,max=500"`
}

// SearchRequest 表示员工查询条件，零值字段不参与过滤。
type SearchRequest struct {
	Departments    []string  `json:"departments"`
	Status         string    `json:"status" validate:"omitempty,oneof=ACTIVE ON_LEAVE TERMINATED"`
	HiredFrom      time.Time `json:"hiredFrom"`
	HiredTo        time.Time `json:"hiredTo"`
	IncludeDeleted bool      `json:"includeDeleted"`
}

// EmployeeResponse 表示员工返回模型。
type EmployeeResponse struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	CPF             string        `json:"cpf"`
	Department      string        `json:"department"`
	Salary          MoneyResponse `json:"salary"`
	HireDate        string        `json:"hireDate"`
	Status          string        `json:"status"`
	TerminationDate string        `json:"terminationDate,omitempty"`
	Deleted         bool          `json:"deleted"`
	Version         int64         `json:"version"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	UpdatedBy       string        `json:"updatedBy"`
}

// MoneyResponse 表示金额返回模型。
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}
