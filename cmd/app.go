package cmd

import (
	employeeapp "hrkernel/application/employee"
	"hrkernel/config"
	"hrkernel/infrastructure/eventbus"
	"hrkernel/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const publishedMetric = "hrkernel_eventbus_published_total"

// App 应用程序结构体：一次命令调用所需的全部组件
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Bus       *eventbus.Bus
	Registry  *prometheus.Registry // nil when metrics are disabled
	Employees *employeeapp.ApplicationService

	persist    func() error // nil when every change is already durable
	release    func() error
	ownsLogger bool
}

// Persist writes the in-memory employees to the snapshot file, if one is configured.
// The database store commits each unit of work itself.
func (a *App) Persist() error {
	if a.persist == nil {
		return nil
	}
	return a.persist()
}

// PublishedEvents reads the published-events counter per event type.
func (a *App) PublishedEvents() (map[string]float64, error) {
	counts := make(map[string]float64)
	if a.Registry == nil {
		return counts, nil
	}
	families, err := a.Registry.Gather()
	if err != nil {
		return nil, err
	}
	for _, family := range families {
		if family.GetName() != publishedMetric {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "event_type" {
					counts[label.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	return counts, nil
}

// Close releases the store and flushes the logger
func (a *App) Close() error {
	if counts, err := a.PublishedEvents(); err == nil && len(counts) > 0 {
		a.Logger.Debug("event bus totals", zap.Any("published", counts))
	}
	var err error
	if a.release != nil {
		err = a.release()
	}
	if a.ownsLogger {
		return multierr.Append(err, logger.Sync())
	}
	_ = a.Logger.Sync()
	return err
}
