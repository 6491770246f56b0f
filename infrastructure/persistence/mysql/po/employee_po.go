package po

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"hrkernel/domain/employee"
)

// Address is stored as a JSON document.
type Address employee.AddressInput

func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(employee.AddressInput(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Address) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan address: unsupported type %T", src)
	}
	var in employee.AddressInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("scan address: %w", err)
	}
	*a = Address(in)
	return nil
}

// EmployeePO employees table row
// ActiveCPF holds the CPF only while the row is not deleted; its unique index
// lets MySQL enforce one current holder per CPF while NULLs repeat freely.
type EmployeePO struct {
	ID                string                 `gorm:"primaryKey;size:36"`
	FirstName         string                 `gorm:"size:100;not null"`
	LastName          string                 `gorm:"size:100;not null"`
	Email             string                 `gorm:"size:255;not null"`
	CPF               string                 `gorm:"column:cpf;size:11;not null;index"`
	ActiveCPF         *string                `gorm:"column:active_cpf;size:11;uniqueIndex"`
	Department        string                 `gorm:"size:50;not null;index"`
	SalaryCents       int64                  `gorm:"not null"`
	Currency          string                 `gorm:"size:3;not null"`
	HireDate          time.Time              `gorm:"type:date;not null;index"`
	Address           *Address               `gorm:"type:json"`
	Status            string                 `gorm:"size:20;not null;index"`
	LeaveReason       string                 `gorm:"size:500"`
	TerminationReason string                 `gorm:"size:500"`
	TerminationDate   *time.Time             `gorm:"type:date"`
	Version           int64                  `gorm:"not null;default:0"`
	CreatedAt         time.Time              `gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time              `gorm:"autoUpdateTime:false"`
	CreatedBy         string                 `gorm:"size:100"`
	UpdatedBy         string                 `gorm:"size:100"`
	DeletedAt         *time.Time             `gorm:"index"`
	DeletedBy         string                 `gorm:"size:100"`
}

func (EmployeePO) TableName() string {
	return "employees"
}

func FromSnapshot(s employee.Snapshot) *EmployeePO {
	row := &EmployeePO{
		ID:                s.ID,
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		Email:             s.Email,
		CPF:               s.CPF,
		Department:        s.Department,
		SalaryCents:       s.SalaryCents,
		Currency:          s.Currency,
		HireDate:          s.HireDate,
		Address:           (*Address)(s.Address),
		Status:            s.Status,
		LeaveReason:       s.LeaveReason,
		TerminationReason: s.TerminationReason,
		TerminationDate:   s.TerminationDate,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		CreatedBy:         s.CreatedBy,
		UpdatedBy:         s.UpdatedBy,
		DeletedAt:         s.DeletedAt,
		DeletedBy:         s.DeletedBy,
	}
	if s.DeletedAt == nil {
		cpf := s.CPF
		row.ActiveCPF = &cpf
	}
	return row
}

func (po *EmployeePO) ToSnapshot() employee.Snapshot {
	return employee.Snapshot{
		ID:                po.ID,
		FirstName:         po.FirstName,
		LastName:          po.LastName,
		Email:             po.Email,
		CPF:               po.CPF,
		Department:        po.Department,
		SalaryCents:       po.SalaryCents,
		Currency:          po.Currency,
		HireDate:          po.HireDate,
		Address:           (*employee.AddressInput)(po.Address),
		Status:            po.Status,
		LeaveReason:       po.LeaveReason,
		TerminationReason: po.TerminationReason,
		TerminationDate:   po.TerminationDate,
		Version:           po.Version,
		CreatedAt:         po.CreatedAt,
		UpdatedAt:         po.UpdatedAt,
		CreatedBy:         po.CreatedBy,
		UpdatedBy:         po.UpdatedBy,
		DeletedAt:         po.DeletedAt,
		DeletedBy:         po.DeletedBy,
	}
}

// Columns returns the values written on update, keyed by column name.
func (po *EmployeePO) Columns() map[string]any {
	return map[string]any{
		"first_name":         po.FirstName,
		"last_name":          po.LastName,
		"email":              po.Email,
		"cpf":                po.CPF,
		"active_cpf":         po.ActiveCPF,
		"department":         po.Department,
		"salary_cents":       po.SalaryCents,
		"currency":           po.Currency,
		"hire_date":          po.HireDate,
		"address":            po.Address,
		"status":             po.Status,
		"leave_reason":       po.LeaveReason,
		"termination_reason": po.TerminationReason,
		"termination_date":   po.TerminationDate,
		"version":            po.Version,
		"updated_at":         po.UpdatedAt,
		"updated_by":         po.UpdatedBy,
		"deleted_at":         po.DeletedAt,
		"deleted_by":         po.DeletedBy,
	}
}
