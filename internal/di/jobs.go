package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/scheduler"
)

// RegisterJobs creates the background jobs and registers them with the
// container's scheduler. Jobs with an empty schedule stay unscheduled but
// are still returned for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)

	jobs := &JobInstances{
		SyncPrices:       scheduler.NewSyncPricesJob(container.PortfolioService, log),
		SIPAutoInvest:    scheduler.NewSIPJob(container.PortfolioService, log),
		MarketConditions: scheduler.NewMarketConditionsJob(container.RiskService, log),
	}

	schedules := []struct {
		spec string
		job  scheduler.Job
	}{
		{cfg.Schedules.PriceSync, jobs.SyncPrices},
		{cfg.Schedules.SIP, jobs.SIPAutoInvest},
		{cfg.Schedules.MarketAdjust, jobs.MarketConditions},
	}
	for _, s := range schedules {
		if err := container.Scheduler.AddJob(s.spec, s.job); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", s.job.Name(), err)
		}
	}

	return jobs, nil
}
