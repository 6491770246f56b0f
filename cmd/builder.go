package cmd

import (
	"context"
	"fmt"

	employeeapp "hrkernel/application/employee"
	"hrkernel/config"
	"hrkernel/domain/employee"
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/eventbus"
	"hrkernel/infrastructure/persistence/jsonfile"
	"hrkernel/infrastructure/persistence/memory"
	"hrkernel/infrastructure/persistence/mysql"
	"hrkernel/infrastructure/persistence/retry"
	"hrkernel/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg      *config.Config
	logger   *zap.Logger
	clock    shared.Clock
	registry *prometheus.Registry
	handlers []eventbus.Handler
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithLogger replaces the logger built from the log configuration
func (b *AppBuilder) WithLogger(l *zap.Logger) *AppBuilder {
	b.logger = l
	return b
}

// WithClock overrides the time source of every component
func (b *AppBuilder) WithClock(clock shared.Clock) *AppBuilder {
	b.clock = clock
	return b
}

// WithRegistry collects the event bus metrics in reg
func (b *AppBuilder) WithRegistry(reg *prometheus.Registry) *AppBuilder {
	b.registry = reg
	return b
}

// WithHandler subscribes h to every employee event
func (b *AppBuilder) WithHandler(h eventbus.Handler) *AppBuilder {
	b.handlers = append(b.handlers, h)
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build() (*App, error) {
	log, ownsLogger := b.logger, false
	if log == nil {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		log, ownsLogger = logger.Get(), true
	}

	opts := []eventbus.Option{
		eventbus.WithLogger(log),
		eventbus.WithHistorySize(b.cfg.EventBus.HistorySize),
	}
	if b.clock != nil {
		opts = append(opts, eventbus.WithClock(b.clock))
	}
	registry := b.registry
	if b.cfg.EventBus.MetricsEnabled {
		if registry == nil {
			registry = prometheus.NewRegistry()
		}
		opts = append(opts, eventbus.WithMetrics(eventbus.NewMetrics(registry)))
	}
	bus := eventbus.New(opts...)

	handlers := append([]eventbus.Handler{eventbus.NewLoggingHandler(log.Named("events"))}, b.handlers...)
	for _, eventType := range employee.EventTypes() {
		for _, h := range handlers {
			if err := bus.Subscribe(eventType, h); err != nil {
				return nil, fmt.Errorf("failed to subscribe %s: %w", h.Name(), err)
			}
		}
	}

	retryConfig := retry.FromAppConfig(b.cfg)
	retryConfig.OnRetry = func(attempt int, err error) {
		log.Warn("retrying after concurrent modification",
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	app := &App{
		Config:     b.cfg,
		Logger:     log,
		Bus:        bus,
		Registry:   registry,
		ownsLogger: ownsLogger,
	}
	var (
		repo employee.Repository
		uows shared.UnitOfWorkFactory
	)
	switch b.cfg.Store.Driver {
	case "mysql":
		db, err := mysql.Connect(context.Background(), b.cfg.Database, log)
		if err != nil {
			return nil, err
		}
		repo = mysql.NewEmployeeRepository(db, bus, b.clock, log)
		uows = mysql.NewUnitOfWorkFactory(db, bus, retryConfig, log)
		app.release = func() error { return mysql.Close(db) }
	default:
		memRepo := memory.NewEmployeeRepository(bus, b.clock, log)
		if b.cfg.Store.Path != "" {
			persist, err := b.attachSnapshotFile(memRepo, log)
			if err != nil {
				return nil, err
			}
			app.persist = persist
		}
		repo = memRepo
		uows = memory.NewUnitOfWorkFactory(bus, retryConfig, log)
	}

	app.Employees = employeeapp.NewApplicationService(repo, uows, b.clock, log)
	return app, nil
}

// attachSnapshotFile loads the configured file into repo and returns the function saving it back.
func (b *AppBuilder) attachSnapshotFile(repo *memory.EmployeeRepository, log *zap.Logger) (func() error, error) {
	store := jsonfile.NewStore(b.cfg.Store.Path)
	rows, err := store.Load()
	if err != nil {
		return nil, err
	}
	if err := repo.Import(rows); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", store.Path(), err)
	}
	log.Debug("employee store loaded",
		zap.String("path", store.Path()),
		zap.Int("employees", len(rows)))

	return func() error {
		if err := store.Save(repo.Export()); err != nil {
			return err
		}
		log.Debug("employee store saved", zap.String("path", store.Path()))
		return nil
	}, nil
}
