package employee

import (
	"time"

	"hrkernel/domain/shared"
)

const (
	EventHired             = "employee.hired"
	EventRenamed           = "employee.renamed"
	EventEmailChanged      = "employee.email_changed"
	EventAddressChanged    = "employee.address_changed"
	EventTransferred       = "employee.transferred"
	EventSalaryAdjusted    = "employee.salary_adjusted"
	EventPlacedOnLeave     = "employee.placed_on_leave"
	EventReturnedFromLeave = "employee.returned_from_leave"
	EventTerminated        = "employee.terminated"
	EventDeleted           = "employee.deleted"
	EventRestored          = "employee.restored"
)

// EventTypes lists every event type the employee aggregate records.
func EventTypes() []string {
	return []string{
		EventHired, EventRenamed, EventEmailChanged, EventAddressChanged, EventTransferred,
		EventSalaryAdjusted, EventPlacedOnLeave, EventReturnedFromLeave, EventTerminated,
		EventDeleted, EventRestored,
	}
}

// HiredEvent 员工入职事件
type HiredEvent struct {
	shared.EventBase
	Name       string
	Email      string
	Department string
	HireDate   time.Time
}

// RenamedEvent 员工更名事件
type RenamedEvent struct {
	shared.EventBase
	OldName string
	NewName string
}

type EmailChangedEvent struct {
	shared.EventBase
	OldEmail string
	NewEmail string
}

type AddressChangedEvent struct {
	shared.EventBase
	Removed bool
}

// TransferredEvent 员工调岗事件
type TransferredEvent struct {
	shared.EventBase
	From string
	To   string
}

// SalaryAdjustedEvent 薪资调整事件
type SalaryAdjustedEvent struct {
	shared.EventBase
	Old shared.Money
	New shared.Money
}

type PlacedOnLeaveEvent struct {
	shared.EventBase
	Reason string
}

type ReturnedFromLeaveEvent struct {
	shared.EventBase
}

// TerminatedEvent 员工离职事件
type TerminatedEvent struct {
	shared.EventBase
	Reason string
	Date   time.Time
}

type DeletedEvent struct {
	shared.EventBase
	By string
}

type RestoredEvent struct {
	shared.EventBase
	By string
}
