package employee

import (
	"time"

	domain "hrkernel/domain/employee"
)

func toResponse(e *domain.Employee) *EmployeeResponse {
	resp := &EmployeeResponse{
		ID:         e.ID().Value(),
		Name:       e.Name().FullName(),
		Email:      e.Email().Value(),
		CPF:        e.CPF().Masked(),
		Department: e.Department(),
		Salary: MoneyResponse{
			Amount:   e.Salary().Amount(),
			Currency: e.Salary().Currency(),
			Display:  e.Salary().String(),
		},
		HireDate:  e.HireDate().Format(time.DateOnly),
		Status:    e.Status().String(),
		Deleted:   e.IsDeleted(),
		Version:   e.Version(),
		UpdatedAt: e.UpdatedAt(),
		UpdatedBy: e.UpdatedBy(),
	}
	if td := e.TerminationDate(); td.IsSome() {
		resp.TerminationDate = td.Value().Format(time.DateOnly)
	}
	return resp
}

func toResponses(es []*domain.Employee) []*EmployeeResponse {
	out := make([]*EmployeeResponse, len(es))
	for i, e := range es {
		out[i] = toResponse(e)
	}
	return out
}
