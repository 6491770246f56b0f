/*
Package employee Application Layer - Employee Use-Case Orchestration

Responsibilities of Application Layer:
1. Receive external requests (CLI or any other adapter)
2. Call domain services for cross-aggregate rules (CPF uniqueness)
3. Call aggregate root methods to execute business operations
4. Run every write inside a fresh UnitOfWork, which retries optimistic-lock
   conflicts and publishes the collected events after commit
5. Return response DTOs to the caller

Application services never publish events themselves.
*/
package employee

import (
	"context"
	"errors"

	domain "hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/domain/validation"
	"hrkernel/pkg/either"
	"hrkernel/pkg/result"

	"go.uber.org/zap"
)

// ApplicationService Employee application service - coordinates employee business processes
type ApplicationService struct {
	repo          domain.Repository
	domainService *domain.DomainService
	uows          shared.UnitOfWorkFactory
	clock         shared.Clock
	logger        *zap.Logger
}

// NewApplicationService Create employee application service
func NewApplicationService(
	repo domain.Repository,
	uows shared.UnitOfWorkFactory,
	clock shared.Clock,
	logger *zap.Logger,
) *ApplicationService {
	if clock == nil {
		clock = shared.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		repo:          repo,
		domainService: domain.NewDomainService(repo),
		uows:          uows,
		clock:         clock,
		logger:        logger,
	}
}

// Hire validates the whole request, enforces CPF uniqueness and stores the new employee.
// Field failures come back together as validation errors.
func (s *ApplicationService) Hire(ctx context.Context, req HireRequest, actor string) (*EmployeeResponse, error) {
	e, err := domain.Hire(req, actor, s.clock).Get()
	if err != nil {
		return nil, err
	}

	uow := s.uows.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.domainService.EnsureCPFAvailable(ctx, e.CPF(), ""); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, e); err != nil {
			return err
		}
		uow.RegisterNew(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee hired",
		zap.String("employee_id", e.ID().Value()),
		zap.String("cpf", e.CPF().Masked()),
		zap.String("department", e.Department()),
		zap.String("actor", actor))
	return toResponse(e), nil
}

// Transfer Move an employee to another department
func (s *ApplicationService) Transfer(ctx context.Context, req TransferRequest, actor string) (*EmployeeResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.modify(ctx, req.EmployeeID, actor, func(e *domain.Employee) error {
		return e.TransferTo(req.Department, actor)
	})
}

// AdjustSalary Change an employee's salary within the current currency
func (s *ApplicationService) AdjustSalary(ctx context.Context, req AdjustSalaryRequest, actor string) (*EmployeeResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	salary, err := shared.NewMoney(req.SalaryCents, req.Currency)
	if err != nil {
		return nil, err
	}
	return s.modify(ctx, req.EmployeeID, actor, func(e *domain.Employee) error {
		return e.AdjustSalary(salary, actor)
	})
}

// Terminate End an employee's contract
func (s *ApplicationService) Terminate(ctx context.Context, req TerminateRequest, actor string) (*EmployeeResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.modify(ctx, req.EmployeeID, actor, func(e *domain.Employee) error {
		return e.Terminate(req.Reason, req.Date, actor)
	})
}

// PlaceOnLeave Put an active employee on leave
func (s *ApplicationService) PlaceOnLeave(ctx context.Context, req LeaveRequest, actor string) (*EmployeeResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.modify(ctx, req.EmployeeID, actor, func(e *domain.Employee) error {
		return e.PlaceOnLeave(req.Reason, actor)
	})
}

// ReturnFromLeave End an employee's leave
func (s *ApplicationService) ReturnFromLeave(ctx context.Context, id, actor string) (*EmployeeResponse, error) {
	return s.modify(ctx, id, actor, func(e *domain.Employee) error {
		return e.ReturnFromLeave(actor)
	})
}

// Restore Undo a soft delete. The CPF must still be free.
func (s *ApplicationService) Restore(ctx context.Context, id, actor string) (*EmployeeResponse, error) {
	return s.modify(ctx, id, actor, func(e *domain.Employee) error {
		if err := s.domainService.EnsureCPFAvailable(ctx, e.CPF(), e.ID().Value()); err != nil {
			return err
		}
		return e.Restore(actor)
	})
}

// Remove Soft-delete an employee
func (s *ApplicationService) Remove(ctx context.Context, id, actor string) error {
	return s.uows.New().Execute(ctx, func(ctx context.Context) error {
		return s.repo.Remove(ctx, id, actor)
	})
}

// modify runs one load-mutate-save cycle. The UnitOfWork repeats the whole
// cycle on optimistic-lock conflicts, so every attempt starts from fresh state.
func (s *ApplicationService) modify(ctx context.Context, id, actor string, mutate func(*domain.Employee) error) (*EmployeeResponse, error) {
	var updated *domain.Employee

	uow := s.uows.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(e); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, e); err != nil {
			return err
		}
		uow.RegisterDirty(e)
		updated = e
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrConcurrency) {
			s.logger.Warn("employee update gave up after conflicts",
				zap.String("employee_id", id),
				zap.String("actor", actor),
				zap.Error(err))
		}
		return nil, err
	}
	return toResponse(updated), nil
}

// lookupKey is either an employee id or a CPF.
type lookupKey = either.Either[shared.ID[string], domain.CPF]

// parseLookupKey reads a UUID as an id and anything else as a CPF.
func parseLookupKey(key string) result.Result[lookupKey] {
	if id, err := shared.ParseUUID(key); err == nil {
		return result.Success(either.Left[shared.ID[string], domain.CPF](id))
	}
	cpf, err := domain.NewCPF(key)
	if err != nil {
		return result.Failure[lookupKey](err)
	}
	return result.Success(either.Right[shared.ID[string]](cpf))
}

// Find Look up an employee by id or by CPF
func (s *ApplicationService) Find(ctx context.Context, key string) (*EmployeeResponse, error) {
	parsed, err := parseLookupKey(key).Get()
	if err != nil {
		return nil, err
	}
	e, err := either.Fold(parsed,
		func(id shared.ID[string]) result.Result[*domain.Employee] {
			e, err := s.repo.FindByID(ctx, id.Value())
			return result.Of(e, err)
		},
		func(cpf domain.CPF) result.Result[*domain.Employee] {
			e, err := s.repo.FindByCPF(ctx, cpf)
			return result.Of(e, err)
		},
	).Get()
	if err != nil {
		return nil, err
	}
	return toResponse(e), nil
}

// Search List employees matching every non-zero criterion, in hire-date order
func (s *ApplicationService) Search(ctx context.Context, req SearchRequest) ([]*EmployeeResponse, error) {
	spec, err := s.searchSpecification(req)
	if err != nil {
		return nil, err
	}
	matches, err := s.repo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return toResponses(matches), nil
}

func (s *ApplicationService) searchSpecification(req SearchRequest) (shared.Specification[*domain.Employee], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	b := shared.NewSpecificationBuilder[*domain.Employee]()
	if len(req.Departments) > 0 {
		b.With(domain.InDepartments(req.Departments...))
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		b.With(domain.ByStatus(status))
	}
	if !req.HiredFrom.IsZero() || !req.HiredTo.IsZero() {
		b.With(domain.HiredBetween(req.HiredFrom, req.HiredTo))
	}
	if !req.IncludeDeleted {
		b.With(domain.NotDeleted())
	}
	return b.Build(), nil
}

// Payroll Sum the salaries of the employees in department paid in currency
func (s *ApplicationService) Payroll(ctx context.Context, department, currency string) (MoneyResponse, error) {
	total, err := s.domainService.Payroll(ctx, shared.And(domain.ByDepartment(department), domain.NotDeleted()), currency)
	if err != nil {
		return MoneyResponse{}, err
	}
	return MoneyResponse{Amount: total.Amount(), Currency: total.Currency(), Display: total.String()}, nil
}
