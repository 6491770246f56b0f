package employee

import (
	"strings"
	"time"

	"hrkernel/domain/shared"
	"hrkernel/pkg/maybe"
)

// AggregateType is the type name carried by every employee entity and event.
const AggregateType = "Employee"

// Status 员工状态
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusTerminated Status = "TERMINATED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

// ParseStatus accepts any casing.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewValidationError(entityName, "status", raw, "unknown employee status")
	}
	return s, nil
}

// Details 创建员工所需的已校验属性
type Details struct {
	Name       PersonName
	Email      Email
	CPF        CPF
	Department string
	Salary     shared.Money
	HireDate   time.Time
	Address    maybe.Maybe[Address]
}

// profile holds every attribute that mutators change. It is copied, changed and
// validated as a whole so a rejected change never leaks.
type profile struct {
	name              PersonName
	email             Email
	cpf               CPF
	department        string
	salary            shared.Money
	hireDate          time.Time
	address           maybe.Maybe[Address]
	status            Status
	leaveReason       string
	terminationReason string
	terminationDate   time.Time
}

// Employee 员工聚合根
//
// 聚合根特征：
// 1. 所有字段私有，通过意图明确的行为方法修改
// 2. 每次成功修改：刷新 updatedAt、记录修改者、版本号加 1、记录一个领域事件
// 3. 修改失败时状态保持不变
// 4. 删除只是软删除标记
type Employee struct {
	shared.AggregateRoot[string]
	audit    shared.Audit
	deletion shared.SoftDelete
	profile  profile
}

// New creates an active employee and records EventHired. It fails fast on any invalid detail.
func New(id shared.ID[string], d Details, actor string, clock shared.Clock) (*Employee, error) {
	department, err := NormalizeDepartment(d.Department)
	if err != nil {
		return nil, err
	}
	p := profile{
		name:       d.Name,
		email:      d.Email,
		cpf:        d.CPF,
		department: department,
		salary:     d.Salary,
		hireDate:   dateOnly(d.HireDate),
		address:    maybe.Map(d.Address, Address.Clone),
		status:     StatusActive,
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	root, err := shared.NewAggregateRoot(AggregateType, id, clock)
	if err != nil {
		return nil, err
	}
	e := &Employee{
		AggregateRoot: root,
		audit:         shared.NewAudit(actor),
		profile:       p,
	}
	e.RecordEvent(HiredEvent{
		EventBase:  e.NewEvent(EventHired),
		Name:       p.name.FullName(),
		Email:      p.email.Value(),
		Department: p.department,
		HireDate:   p.hireDate,
	})
	return e, nil
}

// validateProfile re-checks every invariant of the aggregate.
func validateProfile(p profile) error {
	switch {
	case p.name.First() == "":
		return shared.NewValidationError(entityName, "name", p.name, "name is required")
	case p.email.Value() == "":
		return shared.NewValidationError(entityName, "email", p.email, "email is required")
	case p.cpf.Value() == "":
		return shared.NewValidationError(entityName, "cpf", p.cpf, "CPF is required")
	case p.department == "":
		return shared.NewValidationError(entityName, "department", p.department, "department is required")
	case p.hireDate.IsZero():
		return shared.NewValidationError(entityName, "hireDate", p.hireDate, "hire date is required")
	case p.salary.Currency() == "":
		return shared.NewValidationError(entityName, "salary", p.salary, "salary is required")
	case p.salary.Amount() <= 0:
		return shared.NewBusinessRuleViolationError(entityName, RuleSalaryPositive, "salary must be positive")
	case !p.status.IsValid():
		return shared.NewValidationError(entityName, "status", p.status, "unknown employee status")
	}

	terminated := p.status == StatusTerminated
	if terminated != !p.terminationDate.IsZero() || terminated != (p.terminationReason != "") {
		return shared.NewBusinessRuleViolationError(entityName, RuleTerminationRequired,
			"termination reason and date are required exactly when the employee is terminated")
	}
	if terminated && p.terminationDate.Before(p.hireDate) {
		return NewTerminationBeforeHireError(p.hireDate, p.terminationDate)
	}
	if (p.status == StatusOnLeave) != (p.leaveReason != "") {
		return shared.NewBusinessRuleViolationError(entityName, "leave_reason", "leave reason is required exactly when the employee is on leave")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ============================================================================
// 领域行为方法
// ============================================================================

// change applies fn atomically and commits one event. Deleted and terminated employees
// reject every profile change.
func (e *Employee) change(operation, actor, eventType string, fn func(p *profile) error, event func(base shared.EventBase, before profile) shared.DomainEvent) error {
	if e.deletion.IsDeleted() {
		return NewDeletedError(operation)
	}
	if e.profile.status == StatusTerminated {
		return NewTerminatedError(operation)
	}
	before := e.profile
	if err := shared.Mutate(&e.profile, fn, validateProfile); err != nil {
		return err
	}
	e.commit(actor, eventType, func(base shared.EventBase) shared.DomainEvent {
		return event(base, before)
	})
	return nil
}

func (e *Employee) commit(actor, eventType string, build func(base shared.EventBase) shared.DomainEvent) {
	e.Touch()
	e.audit.RecordUpdate(actor)
	e.IncrementVersion()
	e.RecordEvent(build(e.NewEvent(eventType)))
}

// Rename 更新姓名
func (e *Employee) Rename(name PersonName, actor string) error {
	return e.change("rename", actor, EventRenamed,
		func(p *profile) error {
			p.name = name
			return nil
		},
		func(base shared.EventBase, before profile) shared.DomainEvent {
			return RenamedEvent{EventBase: base, OldName: before.name.FullName(), NewName: name.FullName()}
		})
}

// ChangeEmail 更新邮箱
func (e *Employee) ChangeEmail(email Email, actor string) error {
	return e.change("change email of", actor, EventEmailChanged,
		func(p *profile) error {
			p.email = email
			return nil
		},
		func(base shared.EventBase, before profile) shared.DomainEvent {
			return EmailChangedEvent{EventBase: base, OldEmail: before.email.Value(), NewEmail: email.Value()}
		})
}

// ChangeAddress replaces the address. None removes it.
func (e *Employee) ChangeAddress(address maybe.Maybe[Address], actor string) error {
	return e.change("change address of", actor, EventAddressChanged,
		func(p *profile) error {
			p.address = maybe.Map(address, Address.Clone)
			return nil
		},
		func(base shared.EventBase, _ profile) shared.DomainEvent {
			return AddressChangedEvent{EventBase: base, Removed: address.IsNone()}
		})
}

// TransferTo 调岗；调往当前部门被拒绝
func (e *Employee) TransferTo(department, actor string) error {
	code, err := NormalizeDepartment(department)
	if err != nil {
		return err
	}
	return e.change("transfer", actor, EventTransferred,
		func(p *profile) error {
			if p.department == code {
				return shared.NewOperationNotAllowedError(entityName, "transfer", "employee already belongs to "+code)
			}
			p.department = code
			return nil
		},
		func(base shared.EventBase, before profile) shared.DomainEvent {
			return TransferredEvent{EventBase: base, From: before.department, To: code}
		})
}

// AdjustSalary 调薪；币种不可变更，金额必须为正
func (e *Employee) AdjustSalary(salary shared.Money, actor string) error {
	return e.change("adjust salary of", actor, EventSalaryAdjusted,
		func(p *profile) error {
			if salary.Currency() != p.salary.Currency() {
				return shared.NewBusinessRuleViolationError(entityName, RuleSalaryCurrency,
					"salary currency cannot change from "+p.salary.Currency()+" to "+salary.Currency())
			}
			p.salary = salary
			return nil
		},
		func(base shared.EventBase, before profile) shared.DomainEvent {
			return SalaryAdjustedEvent{EventBase: base, Old: before.salary, New: salary}
		})
}

// PlaceOnLeave 休假，仅在职员工可用
func (e *Employee) PlaceOnLeave(reason, actor string) error {
	reason = strings.TrimSpace(reason)
	return e.change("place on leave", actor, EventPlacedOnLeave,
		func(p *profile) error {
			if p.status != StatusActive {
				return NewStatusError("place on leave", p.status)
			}
			if reason == "" {
				return shared.NewValidationError(entityName, "reason", reason, "leave reason is required")
			}
			p.status = StatusOnLeave
			p.leaveReason = reason
			return nil
		},
		func(base shared.EventBase, _ profile) shared.DomainEvent {
			return PlacedOnLeaveEvent{EventBase: base, Reason: reason}
		})
}

// ReturnFromLeave 结束休假
func (e *Employee) ReturnFromLeave(actor string) error {
	return e.change("return from leave", actor, EventReturnedFromLeave,
		func(p *profile) error {
			if p.status != StatusOnLeave {
				return NewStatusError("return from leave", p.status)
			}
			p.status = StatusActive
			p.leaveReason = ""
			return nil
		},
		func(base shared.EventBase, _ profile) shared.DomainEvent {
			return ReturnedFromLeaveEvent{EventBase: base}
		})
}

// Terminate 离职；离职日期不得早于入职日期，离职后不可再修改
func (e *Employee) Terminate(reason string, date time.Time, actor string) error {
	reason = strings.TrimSpace(reason)
	date = dateOnly(date)
	return e.change("terminate", actor, EventTerminated,
		func(p *profile) error {
			if reason == "" {
				return shared.NewValidationError(entityName, "reason", reason, "termination reason is required")
			}
			if date.IsZero() {
				return shared.NewValidationError(entityName, "date", date, "termination date is required")
			}
			p.status = StatusTerminated
			p.leaveReason = ""
			p.terminationReason = reason
			p.terminationDate = date
			return nil
		},
		func(base shared.EventBase, _ profile) shared.DomainEvent {
			return TerminatedEvent{EventBase: base, Reason: reason, Date: date}
		})
}

// Delete 软删除；已删除时失败
func (e *Employee) Delete(actor string) error {
	if err := e.deletion.MarkDeleted(entityName, e.Now(), actor); err != nil {
		return err
	}
	e.commit(actor, EventDeleted, func(base shared.EventBase) shared.DomainEvent {
		return DeletedEvent{EventBase: base, By: actor}
	})
	return nil
}

// Restore 恢复软删除；未删除时失败
func (e *Employee) Restore(actor string) error {
	if err := e.deletion.MarkRestored(entityName); err != nil {
		return err
	}
	e.commit(actor, EventRestored, func(base shared.EventBase) shared.DomainEvent {
		return RestoredEvent{EventBase: base, By: actor}
	})
	return nil
}

// ============================================================================
// Getters - 只读访问器
// ============================================================================

func (e *Employee) Name() PersonName          { return e.profile.name }
func (e *Employee) Email() Email              { return e.profile.email }
func (e *Employee) CPF() CPF                  { return e.profile.cpf }
func (e *Employee) Department() string        { return e.profile.department }
func (e *Employee) Salary() shared.Money      { return e.profile.salary }
func (e *Employee) HireDate() time.Time       { return e.profile.hireDate }
func (e *Employee) Status() Status            { return e.profile.status }
func (e *Employee) LeaveReason() string       { return e.profile.leaveReason }
func (e *Employee) TerminationReason() string { return e.profile.terminationReason }
func (e *Employee) IsActive() bool            { return e.profile.status == StatusActive && !e.IsDeleted() }
func (e *Employee) CreatedBy() string         { return e.audit.CreatedBy() }
func (e *Employee) UpdatedBy() string         { return e.audit.UpdatedBy() }
func (e *Employee) IsDeleted() bool           { return e.deletion.IsDeleted() }
func (e *Employee) DeletedBy() string         { return e.deletion.DeletedBy() }

func (e *Employee) DeletedAt() maybe.Maybe[time.Time] { return e.deletion.DeletedAt() }

// Address returns a copy of the address, if any.
func (e *Employee) Address() maybe.Maybe[Address] {
	return maybe.Map(e.profile.address, Address.Clone)
}

func (e *Employee) TerminationDate() maybe.Maybe[time.Time] {
	if e.profile.terminationDate.IsZero() {
		return maybe.None[time.Time]()
	}
	return maybe.Some(e.profile.terminationDate)
}

// YearsOfService counts completed years between the hire date and at, or the
// termination date when that comes first.
func (e *Employee) YearsOfService(at time.Time) int {
	end := dateOnly(at)
	if td := e.profile.terminationDate; !td.IsZero() && td.Before(end) {
		end = td
	}
	start := e.profile.hireDate
	if end.Before(start) {
		return 0
	}
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}

// Clone returns an independent copy, including pending events.
func (e *Employee) Clone() *Employee {
	clone := *e
	clone.AggregateRoot = e.CloneRoot()
	clone.profile.address = maybe.Map(e.profile.address, Address.Clone)
	return &clone
}

// 编译时检查 Employee 实现了 Aggregate 接口
var _ shared.Aggregate = (*Employee)(nil)
