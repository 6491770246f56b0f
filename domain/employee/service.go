/*
Domain Service

Domain services hold rules that span more than one aggregate, here CPF uniqueness
across all employees. The domain service only reads; saving stays with the application layer.
*/
package employee

import (
	"context"
	"errors"

	"hrkernel/domain/shared"
)

// DomainService Employee domain service
type DomainService struct {
	repository Repository
}

func NewDomainService(repo Repository) *DomainService {
	return &DomainService{repository: repo}
}

// EnsureCPFAvailable fails when a non-deleted employee other than exceptID holds cpf.
func (s *DomainService) EnsureCPFAvailable(ctx context.Context, cpf CPF, exceptID string) error {
	existing, err := s.repository.FindByCPF(ctx, cpf)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.IsDeleted() || existing.ID().Value() == exceptID {
		return nil
	}
	return NewCPFAlreadyRegisteredError(cpf)
}

// Headcount counts employees matching spec.
func (s *DomainService) Headcount(ctx context.Context, spec shared.Specification[*Employee]) (int, error) {
	matches, err := s.repository.FindBySpecification(ctx, spec)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Payroll sums the salaries of the employees matching spec. All salaries must share currency.
func (s *DomainService) Payroll(ctx context.Context, spec shared.Specification[*Employee], currency string) (shared.Money, error) {
	total, err := shared.NewMoney(0, currency)
	if err != nil {
		return shared.Money{}, err
	}
	matches, err := s.repository.FindBySpecification(ctx, shared.And(spec, shared.Property(FieldCurrency, currencyOf, shared.OpEqual, currency)))
	if err != nil {
		return shared.Money{}, err
	}
	for _, e := range matches {
		if total, err = total.Add(e.Salary()); err != nil {
			return shared.Money{}, err
		}
	}
	return total, nil
}
