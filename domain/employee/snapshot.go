package employee

import (
	"encoding/json"
	"time"

	"hrkernel/domain/shared"
	"hrkernel/pkg/maybe"
)

// Snapshot 员工重建数据传输对象
// 仅限于仓储层使用：Snapshot 导出持久化状态，Rebuild 从中重建聚合根。
type Snapshot struct {
	ID                string        `json:"id"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Email             string        `json:"email"`
	CPF               string        `json:"cpf"`
	Department        string        `json:"department"`
	SalaryCents       int64         `json:"salaryCents"`
	Currency          string        `json:"currency"`
	HireDate          time.Time     `json:"hireDate"`
	Address           *AddressInput `json:"address,omitempty"`
	Status            string        `json:"status"`
	LeaveReason       string        `json:"leaveReason,omitempty"`
	TerminationReason string        `json:"terminationReason,omitempty"`
	TerminationDate   *time.Time    `json:"terminationDate,omitempty"`
	Version           int64         `json:"version"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	CreatedBy         string        `json:"createdBy"`
	UpdatedBy         string        `json:"updatedBy"`
	DeletedAt         *time.Time    `json:"deletedAt,omitempty"`
	DeletedBy         string        `json:"deletedBy,omitempty"`
}

// Snapshot exports the persistent state. Pending events are not part of it.
func (e *Employee) Snapshot() Snapshot {
	p := e.profile
	s := Snapshot{
		ID:                e.ID().Value(),
		FirstName:         p.name.First(),
		LastName:          p.name.Last(),
		Email:             p.email.Value(),
		CPF:               p.cpf.Value(),
		Department:        p.department,
		SalaryCents:       p.salary.Amount(),
		Currency:          p.salary.Currency(),
		HireDate:          p.hireDate,
		Status:            string(p.status),
		LeaveReason:       p.leaveReason,
		TerminationReason: p.terminationReason,
		TerminationDate:   e.TerminationDate().Ptr(),
		Version:           e.Version(),
		CreatedAt:         e.CreatedAt(),
		UpdatedAt:         e.UpdatedAt(),
		CreatedBy:         e.audit.CreatedBy(),
		UpdatedBy:         e.audit.UpdatedBy(),
		DeletedAt:         e.deletion.DeletedAt().Ptr(),
		DeletedBy:         e.deletion.DeletedBy(),
	}
	if p.address.IsSome() {
		in := p.address.Value().Input()
		s.Address = &in
	}
	return s
}

// Rebuild 从快照重建员工聚合根
// 值对象重新走构造函数，损坏的存储数据会返回错误而不是产生非法聚合。
func Rebuild(s Snapshot, clock shared.Clock) (*Employee, error) {
	id, err := shared.NewID(s.ID)
	if err != nil {
		return nil, err
	}
	name, err := NewPersonName(s.FirstName, s.LastName)
	if err != nil {
		return nil, err
	}
	email, err := NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	cpf, err := NewCPF(s.CPF)
	if err != nil {
		return nil, err
	}
	salary, err := shared.NewMoney(s.SalaryCents, s.Currency)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(s.Status)
	if err != nil {
		return nil, err
	}
	address := maybe.None[Address]()
	if s.Address != nil {
		a, err := NewAddress(*s.Address)
		if err != nil {
			return nil, err
		}
		address = maybe.Some(a)
	}

	p := profile{
		name:              name,
		email:             email,
		cpf:               cpf,
		department:        s.Department,
		salary:            salary,
		hireDate:          s.HireDate,
		address:           address,
		status:            status,
		leaveReason:       s.LeaveReason,
		terminationReason: s.TerminationReason,
		terminationDate:   maybe.FromPtr(s.TerminationDate).GetOrElse(time.Time{}),
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	return &Employee{
		AggregateRoot: shared.RestoreAggregateRoot(AggregateType, id, s.Version, s.CreatedAt, s.UpdatedAt, clock),
		audit:         shared.RestoreAudit(s.CreatedBy, s.UpdatedBy),
		deletion:      shared.RestoreSoftDelete(s.DeletedAt, s.DeletedBy),
		profile:       p,
	}, nil
}

type employeeJSON struct {
	ID                string       `json:"id"`
	Name              PersonName   `json:"name"`
	Email             Email        `json:"email"`
	CPF               CPF          `json:"cpf"`
	Department        string       `json:"department"`
	Salary            shared.Money `json:"salary"`
	HireDate          string       `json:"hireDate"`
	Address           *Address     `json:"address,omitempty"`
	Status            Status       `json:"status"`
	LeaveReason       string       `json:"leaveReason,omitempty"`
	TerminationReason string       `json:"terminationReason,omitempty"`
	TerminationDate   string       `json:"terminationDate,omitempty"`
	Version           int64        `json:"version"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	CreatedBy         string       `json:"createdBy"`
	UpdatedBy         string       `json:"updatedBy"`
	DeletedAt         *time.Time   `json:"deletedAt,omitempty"`
	DeletedBy         string       `json:"deletedBy,omitempty"`
}

// MarshalJSON renders the transport view. The CPF is formatted.
func (e *Employee) MarshalJSON() ([]byte, error) {
	p := e.profile
	out := employeeJSON{
		ID:                e.ID().Value(),
		Name:              p.name,
		Email:             p.email,
		CPF:               p.cpf,
		Department:        p.department,
		Salary:            p.salary,
		HireDate:          p.hireDate.Format(time.DateOnly),
		Address:           e.Address().Ptr(),
		Status:            p.status,
		LeaveReason:       p.leaveReason,
		TerminationReason: p.terminationReason,
		Version:           e.Version(),
		CreatedAt:         e.CreatedAt(),
		UpdatedAt:         e.UpdatedAt(),
		CreatedBy:         e.audit.CreatedBy(),
		UpdatedBy:         e.audit.UpdatedBy(),
		DeletedAt:         e.deletion.DeletedAt().Ptr(),
		DeletedBy:         e.deletion.DeletedBy(),
	}
	if !p.terminationDate.IsZero() {
		out.TerminationDate = p.terminationDate.Format(time.DateOnly)
	}
	return json.Marshal(out)
}
