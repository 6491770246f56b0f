package cmd

import (
	"context"
	"fmt"
	"time"

	employeeapp "hrkernel/application/employee"
	domain "hrkernel/domain/employee"
	apperrors "hrkernel/pkg/errors"

	"github.com/spf13/cobra"
)

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.BadRequest(fmt.Sprintf("--%s must be YYYY-MM-DD, got %q", flag, value))
	}
	return t, nil
}

func hasAddress(in domain.AddressInput) bool {
	return in.Street != "" || in.Number != "" || in.City != "" || in.State != "" || in.PostalCode != "" || len(in.Tags) > 0
}

func today() string { return time.Now().Format(time.DateOnly) }

func newHireCmd(s *session) *cobra.Command {
	var (
		req      employeeapp.HireRequest
		hireDate string
		address  domain.AddressInput
	)
	c := &cobra.Command{
		Use:   "hire",
		Short: "Hire a new employee",
		Long: `Hire validates every field at once and reports all failures together.
The CPF must not belong to another current employee.`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := parseDate("hire-date", hireDate)
			if err != nil {
				return err
			}
			req.HireDate = date
			if hasAddress(address) {
				req.Address = &address
			}
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.Hire(ctx, req, actor)
			})
		},
	}
	f := c.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "First name")
	f.StringVar(&req.LastName, "last-name", "", "Last name")
	f.StringVar(&req.Email, "email", "", "Work email")
	f.StringVar(&req.CPF, "cpf", "", "CPF, formatted or digits only")
	f.StringVar(&req.Department, "department", "", "Department code")
	f.Int64Var(&req.SalaryCents, "salary-cents", 0, "Monthly salary in cents")
	f.StringVar(&req.Currency, "currency", "BRL", "ISO 4217 salary currency")
	f.StringVar(&hireDate, "hire-date", today(), "Hire date (YYYY-MM-DD)")
	f.StringVar(&address.Street, "street", "", "Address street")
	f.StringVar(&address.Number, "number", "", "Address number")
	f.StringVar(&address.City, "city", "", "Address city")
	f.StringVar(&address.State, "state", "", "Address state (UF)")
	f.StringVar(&address.PostalCode, "postal-code", "", "Address postal code (CEP)")
	f.StringSliceVar(&address.Tags, "address-tag", nil, "Address tags, in order")
	return c
}

func newTransferCmd(s *session) *cobra.Command {
	var department string
	c := &cobra.Command{
		Use:   "transfer <id>",
		Short: "Move an employee to another department",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.Transfer(ctx, employeeapp.TransferRequest{EmployeeID: args[0], Department: department}, actor)
			})
		},
	}
	c.Flags().StringVar(&department, "department", "", "Target department code")
	return c
}

func newSalaryCmd(s *session) *cobra.Command {
	var req employeeapp.AdjustSalaryRequest
	c := &cobra.Command{
		Use:   "salary <id>",
		Short: "Adjust an employee's salary",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.EmployeeID = args[0]
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.AdjustSalary(ctx, req, actor)
			})
		},
	}
	c.Flags().Int64Var(&req.SalaryCents, "salary-cents", 0, "New monthly salary in cents")
	c.Flags().StringVar(&req.Currency, "currency", "BRL", "Salary currency; must match the current one")
	return c
}

func newLeaveCmd(s *session) *cobra.Command {
	var reason string
	c := &cobra.Command{
		Use:   "leave <id>",
		Short: "Place an active employee on leave",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.PlaceOnLeave(ctx, employeeapp.LeaveRequest{EmployeeID: args[0], Reason: reason}, actor)
			})
		},
	}
	c.Flags().StringVar(&reason, "reason", "", "Leave reason")
	return c
}

func newReturnCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "End an employee's leave",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.ReturnFromLeave(ctx, args[0], actor)
			})
		},
	}
}

func newTerminateCmd(s *session) *cobra.Command {
	var reason, date string
	c := &cobra.Command{
		Use:   "terminate <id>",
		Short: "End an employee's contract",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseDate("date", date)
			if err != nil {
				return err
			}
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.Terminate(ctx, employeeapp.TerminateRequest{EmployeeID: args[0], Reason: reason, Date: at}, actor)
			})
		},
	}
	c.Flags().StringVar(&reason, "reason", "", "Termination reason")
	c.Flags().StringVar(&date, "date", today(), "Termination date (YYYY-MM-DD)")
	return c
}

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Soft-delete an employee",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				if err := app.Employees.Remove(ctx, args[0], actor); err != nil {
					return nil, err
				}
				return app.Employees.Find(ctx, args[0])
			})
		},
	}
}

func newRestoreCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Undo a soft delete",
		Args:  exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mutate(cmd, func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error) {
				return app.Employees.Restore(ctx, args[0], actor)
			})
		},
	}
}

func newFindCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "find <id|cpf>",
		Short: "Look up an employee by id or CPF",
		Args:  exactArgs("key"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.query(cmd, func(ctx context.Context, app *App) (any, error) {
				return app.Employees.Find(ctx, args[0])
			})
		},
	}
}

func newSearchCmd(s *session) *cobra.Command {
	var (
		req      employeeapp.SearchRequest
		from, to string
	)
	c := &cobra.Command{
		Use:   "search",
		Short: "List employees in hire-date order",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.HiredFrom, err = parseDate("hired-from", from); err != nil {
				return err
			}
			if req.HiredTo, err = parseDate("hired-to", to); err != nil {
				return err
			}
			return s.query(cmd, func(ctx context.Context, app *App) (any, error) {
				return app.Employees.Search(ctx, req)
			})
		},
	}
	f := c.Flags()
	f.StringSliceVar(&req.Departments, "department", nil, "Department codes to include")
	f.StringVar(&req.Status, "status", "", "ACTIVE, ON_LEAVE or TERMINATED")
	f.StringVar(&from, "hired-from", "", "Earliest hire date (YYYY-MM-DD)")
	f.StringVar(&to, "hired-to", "", "Latest hire date (YYYY-MM-DD)")
	f.BoolVar(&req.IncludeDeleted, "include-deleted", false, "Include soft-deleted employees")
	return c
}

func newPayrollCmd(s *session) *cobra.Command {
	var currency string
	c := &cobra.Command{
		Use:   "payroll <department>",
		Short: "Sum the salaries of a department's current employees",
		Args:  exactArgs("department"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.query(cmd, func(ctx context.Context, app *App) (any, error) {
				return app.Employees.Payroll(ctx, args[0], currency)
			})
		},
	}
	c.Flags().StringVar(&currency, "currency", "BRL", "Currency to total")
	return c
}

type cpfOutput struct {
	Digits    string `json:"digits"`
	Formatted string `json:"formatted"`
	Masked    string `json:"masked"`
}

func newCPFCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cpf <value>",
		Short: "Validate and format a CPF",
		Args:  exactArgs("value"),
		RunE: func(_ *cobra.Command, args []string) error {
			cpf, err := domain.NewCPF(args[0])
			if err != nil {
				return err
			}
			return writeJSON(s.out, cpfOutput{Digits: cpf.Value(), Formatted: cpf.FormattedValue(), Masked: cpf.Masked()})
		},
	}
}
