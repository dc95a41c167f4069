package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/bootstrap"
	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/logger"
	"github.com/sangkips/posgo-api/pkg/printer"
	"github.com/sangkips/posgo-api/pkg/utils"
	"go.uber.org/zap"
)

var commands = []subcommands.Command{
	&migrateCmd{},
	&tokenCmd{},
	&shiftReportCmd{},
}

// environment is the configuration, logger and storage shared by commands
type environment struct {
	cfg    *config.Config
	log    *zap.Logger
	stores *bootstrap.Stores
}

func openEnvironment(migrate bool) (*environment, error) {
	cfg := config.Load()
	zlog, err := logger.New(cfg.Log.Level, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	stores, err := bootstrap.OpenStores(cfg, migrate, zlog)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: zlog, stores: stores}, nil
}

func (e *environment) close() {
	if err := e.stores.Close(); err != nil {
		e.log.Warn("failed to close storage", zap.Error(err))
	}
	_ = e.log.Sync()
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "migrate the database schema and seed the store settings" }
func (*migrateCmd) Usage() string {
	return `posctl migrate

  Creates or updates every register table and seeds the store settings
  and register state rows from the environment when they are missing.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := openEnvironment(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer env.close()

	if env.cfg.Storage.Driver == bootstrap.DriverMemory {
		fmt.Fprintln(os.Stderr, "storage driver is memory, nothing to migrate")
	}
	return subcommands.ExitSuccess
}

type tokenCmd struct {
	id   string
	name string
	role string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue an access token for a cashier" }
func (*tokenCmd) Usage() string {
	return `posctl token -name <name> [-role cashier|manager] [-id <uuid>]

  Mints a signed register token and prints it as JSON. A new cashier ID
  is generated when -id is omitted.
`
}

func (t *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.id, "id", "", "Cashier ID. A new one is generated when empty.")
	f.StringVar(&t.name, "name", "", "Display name of the cashier.")
	f.StringVar(&t.role, "role", service.RoleCashier, "Role carried by the token (cashier, manager).")
}

func (t *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := &service.IssueTokenInput{Name: t.name, Role: t.role}
	if t.id != "" {
		id, err := uuid.Parse(t.id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid cashier id %q: %v\n", t.id, err)
			return subcommands.ExitUsageError
		}
		input.CashierID = &id
	}

	// Token issuing needs no storage
	cfg := config.Load()
	auth := service.NewAuthService(utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name), cfg.JWT.ExpiryHours)

	token, err := auth.IssueToken(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(token); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type shiftReportCmd struct {
	id  string
	raw bool
}

func (*shiftReportCmd) Name() string     { return "shift-report" }
func (*shiftReportCmd) Synopsis() string { return "display the cash report of a shift" }
func (*shiftReportCmd) Usage() string {
	return `posctl shift-report [-id <shift-id>] [-raw]

  Shows the drawer reconciliation of a shift: opening float, cash sales,
  movements, expected and counted cash. Without -id the open shift is shown.
`
}

func (s *shiftReportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.id, "id", "", "Shift ID. Defaults to the open shift.")
	f.BoolVar(&s.raw, "raw", false, "Print the Markdown source instead of rendering it.")
}

func (s *shiftReportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := openEnvironment(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer env.close()

	svc := bootstrap.NewServices(env.stores, env.cfg, printer.NewNullPrinter(), env.log)

	var report *entity.ShiftReport
	if s.id == "" {
		report, err = svc.Shifts.Status(ctx)
	} else {
		id, perr := uuid.Parse(s.id)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "invalid shift id %q: %v\n", s.id, perr)
			return subcommands.ExitUsageError
		}
		report, err = svc.Shifts.GetReport(ctx, id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	currency := env.cfg.Store.Currency
	if settings, err := svc.Settings.GetSettings(ctx); err == nil {
		currency = settings.Currency
	}

	printMarkdown(service.ShiftReportMarkdown(report, currency), s.raw)
	return subcommands.ExitSuccess
}

func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
