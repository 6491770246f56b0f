package employee

import (
	"time"

	"hrkernel/domain/shared"
	"hrkernel/domain/validation"
	"hrkernel/pkg/maybe"
	"hrkernel/pkg/result"
)

// HireInput 入职请求的原始输入
type HireInput struct {
	FirstName   string        `json:"firstName" validate:"notblank,max=100"`
	LastName    string        `json:"lastName" validate:"notblank,max=100"`
	Email       string        `json:"email" validate:"required,email"`
	CPF         string        `json:"cpf" validate:"required"`
	Department  string        `json:"department" validate:"notblank,max=60"`
	SalaryCents int64         `json:"salaryCents" validate:"gt=0"`
	Currency    string        `json:"currency" validate:"required,iso4217"`
	HireDate    time.Time     `json:"hireDate" validate:"required"`
	Address     *AddressInput `json:"address,omitempty" validate:"omitempty"`
}

// Hire 工厂方法：校验全部输入并一次性返回所有字段错误
// 成功时返回新员工（已记录 EventHired），失败时 Result 携带每个字段的 *validation.FieldError。
func Hire(in HireInput, actor string, clock shared.Clock) result.Result[*Employee] {
	v := validation.New().Merge(validation.ValidateStruct(in))

	var (
		name    PersonName
		email   Email
		cpf     CPF
		salary  shared.Money
		address = maybe.None[Address]()
	)

	if !v.Has("firstName") && !v.Has("lastName") {
		n, err := NewPersonName(in.FirstName, in.LastName)
		v.Add("", err)
		name = n
	}
	if !v.Has("email") {
		e, err := NewEmail(in.Email)
		v.Add("email", err)
		email = e
	}
	if !v.Has("cpf") {
		c, err := NewCPF(in.CPF)
		v.Add("cpf", err)
		cpf = c
	}
	if !v.Has("department") {
		_, err := NormalizeDepartment(in.Department)
		v.Add("department", err)
	}
	if !v.Has("salaryCents") && !v.Has("currency") {
		m, err := shared.NewMoney(in.SalaryCents, in.Currency)
		v.Add("currency", err)
		salary = m
	}
	if in.Address != nil && !v.Has("address") {
		a, err := NewAddress(*in.Address)
		v.Add("", err)
		address = maybe.Some(a)
	}
	if !in.HireDate.IsZero() && dateOnly(in.HireDate).After(dateOnly(now(clock)).AddDate(1, 0, 0)) {
		v.Check(&validation.FieldError{
			Field:   "hireDate",
			Message: "hire date cannot be more than one year ahead",
			Code:    validation.CodeRange,
			Value:   in.HireDate,
		})
	}

	return validation.Result(v, func() (*Employee, error) {
		return New(shared.NewUUID(), Details{
			Name:       name,
			Email:      email,
			CPF:        cpf,
			Department: in.Department,
			Salary:     salary,
			HireDate:   in.HireDate,
			Address:    address,
		}, actor, clock)
	})
}

func now(clock shared.Clock) time.Time {
	if clock == nil {
		return shared.SystemClock()
	}
	return clock()
}
