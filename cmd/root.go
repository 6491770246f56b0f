package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	employeeapp "hrkernel/application/employee"
	"hrkernel/config"
	"hrkernel/infrastructure/eventbus"
	apperrors "hrkernel/pkg/errors"

	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

// session carries the global flags to every subcommand
type session struct {
	configPath string
	actor      string
	storePath  string
	out        io.Writer
}

// NewRootCommand builds the command tree writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	s := &session{out: out}

	root := &cobra.Command{
		Use:   "hrkernel",
		Short: "hrkernel - employee records on a small domain kernel",
		Long: `hrkernel manages employee records through the employee aggregate.

Every change runs in a unit of work, is checked against optimistic locking and
publishes its domain events. Results are printed as JSON.

Employees live in memory, optionally saved to a snapshot file between runs
(--store), or in MySQL when store.driver is mysql (HRKERNEL_STORE_DRIVER=mysql).

Examples:
  hrkernel hire --first-name Ana --last-name Souza --email ana@example.com \
      --cpf 529.982.247-25 --department eng --salary-cents 1250000 --store data.json
  hrkernel transfer <id> --department ops --store data.json
  hrkernel search --department eng --status ACTIVE --store data.json
  hrkernel cpf 52998224725`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "Path to config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&s.actor, "actor", "", "Actor recorded on changes (default app.actor)")
	root.PersistentFlags().StringVar(&s.storePath, "store", "", "Employee snapshot file (or set HRKERNEL_STORE_PATH)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.BadRequest(err.Error())
	})

	root.AddCommand(
		newHireCmd(s),
		newTransferCmd(s),
		newSalaryCmd(s),
		newLeaveCmd(s),
		newReturnCmd(s),
		newTerminateCmd(s),
		newRemoveCmd(s),
		newRestoreCmd(s),
		newFindCmd(s),
		newSearchCmd(s),
		newPayrollCmd(s),
		newCPFCmd(s),
	)
	return root
}

// Execute runs the CLI and reports a failure on stderr
func Execute() error {
	err := NewRootCommand(os.Stdout).Execute()
	if err != nil {
		renderError(os.Stderr, err)
	}
	return err
}

func (s *session) open() (*App, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, err
	}
	if s.storePath != "" {
		if cfg.Store.Driver != "memory" {
			return nil, apperrors.BadRequest(fmt.Sprintf("--store only applies to the memory store, not %s", cfg.Store.Driver))
		}
		cfg.Store.Path = s.storePath
	}
	return NewBuilder(cfg).Build()
}

func (s *session) actorFor(app *App) string {
	if s.actor != "" {
		return s.actor
	}
	return app.Config.App.Actor
}

type mutationOutput struct {
	Employee *employeeapp.EmployeeResponse `json:"employee"`
	Events   []eventbus.PublishResult      `json:"events"`
}

// mutate runs one change, saves the store and prints the employee with the events it published.
func (s *session) mutate(cmd *cobra.Command, fn func(ctx context.Context, app *App, actor string) (*employeeapp.EmployeeResponse, error)) error {
	app, err := s.open()
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := fn(cmd.Context(), app, s.actorFor(app))
	if err != nil {
		return err
	}
	if err := app.Persist(); err != nil {
		return err
	}
	return writeJSON(s.out, mutationOutput{Employee: resp, Events: app.Bus.History()})
}

func (s *session) query(cmd *cobra.Command, fn func(ctx context.Context, app *App) (any, error)) error {
	app, err := s.open()
	if err != nil {
		return err
	}
	defer app.Close()

	v, err := fn(cmd.Context(), app)
	if err != nil {
		return err
	}
	return writeJSON(s.out, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderError prints err as an application error document
func renderError(w io.Writer, err error) {
	appErr := apperrors.MapDomainError(err)
	if appErr.Code == apperrors.CodeInternal {
		appErr = apperrors.Wrap(err, apperrors.CodeInternal, err.Error())
	}
	if werr := writeJSON(w, map[string]any{"error": appErr}); werr != nil {
		fmt.Fprintln(w, err)
	}
}

func exactArgs(names ...string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return apperrors.BadRequest(fmt.Sprintf("expected %d argument(s) %v, got %d", len(names), names, len(args)))
		}
		return nil
	}
}
