package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/risk"
)

// JobTimeout bounds one run of a job that talks to market data
const JobTimeout = 30 * time.Second

// PriceSyncer refreshes portfolio prices
type PriceSyncer interface {
	SyncPrices(ctx context.Context) (portfolio.SyncResult, error)
}

// SIPExecutor runs the monthly investment
type SIPExecutor interface {
	ExecuteSIP(force bool) (portfolio.SIPResult, error)
}

// MarketAdjuster moves the risk score with market conditions
type MarketAdjuster interface {
	AdjustForMarket(ctx context.Context) (risk.Adjustment, error)
}

// SyncPricesJob applies a fresh price snapshot to the portfolio
type SyncPricesJob struct {
	syncer PriceSyncer
	log    zerolog.Logger
}

// NewSyncPricesJob creates a new price sync job
func NewSyncPricesJob(syncer PriceSyncer, log zerolog.Logger) *SyncPricesJob {
	return &SyncPricesJob{syncer: syncer, log: log.With().Str("job", "sync_prices").Logger()}
}

func (j *SyncPricesJob) Name() string { return "sync_prices" }

func (j *SyncPricesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), JobTimeout)
	defer cancel()

	result, err := j.syncer.SyncPrices(ctx)
	if err != nil {
		return err
	}
	j.log.Debug().Int("updated", len(result.Updated)).Float64("total_value", result.TotalValue).Msg("Prices synced")
	return nil
}

// SIPJob invests the monthly amount when it falls due. Runs are cheap when
// nothing is due, so a daily schedule is enough.
type SIPJob struct {
	executor SIPExecutor
	log      zerolog.Logger
}

// NewSIPJob creates a new SIP auto-invest job
func NewSIPJob(executor SIPExecutor, log zerolog.Logger) *SIPJob {
	return &SIPJob{executor: executor, log: log.With().Str("job", "sip_auto_invest").Logger()}
}

func (j *SIPJob) Name() string { return "sip_auto_invest" }

func (j *SIPJob) Run() error {
	result, err := j.executor.ExecuteSIP(false)
	if errors.Is(err, portfolio.ErrSIPDisabled) {
		j.log.Debug().Msg("Auto-invest disabled, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if len(result.Investments) > 0 {
		j.log.Info().Float64("total", result.Total).Msg("SIP invested")
	}
	return nil
}

// MarketConditionsJob adjusts the risk score from the VIX and BTC volatility
type MarketConditionsJob struct {
	adjuster MarketAdjuster
	log      zerolog.Logger
}

// NewMarketConditionsJob creates a new market conditions job
func NewMarketConditionsJob(adjuster MarketAdjuster, log zerolog.Logger) *MarketConditionsJob {
	return &MarketConditionsJob{adjuster: adjuster, log: log.With().Str("job", "market_conditions").Logger()}
}

func (j *MarketConditionsJob) Name() string { return "market_conditions" }

func (j *MarketConditionsJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), JobTimeout)
	defer cancel()

	adj, err := j.adjuster.AdjustForMarket(ctx)
	if err != nil {
		return err
	}
	j.log.Debug().Float64("delta", adj.Delta).Float64("score", adj.Score).Msg("Market conditions applied")
	return nil
}
