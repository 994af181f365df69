package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/clients/marketdata"
	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/advisor"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/rebalancing"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sip"
)

// InitializeMarketData selects the configured market-data source. The live
// client always carries a simulator to fall back on.
func InitializeMarketData(container *Container, cfg *config.Config, log zerolog.Logger) {
	sim := marketdata.NewSimulated(cfg.MarketSeed, marketdata.DefaultVolatilityFactor, log)
	container.Simulator = sim

	switch cfg.MarketData {
	case config.MarketDataLive:
		container.MarketData = marketdata.NewLive(marketdata.DefaultEndpoints, cfg.FinnhubAPIKey, sim, log)
		container.MarketSource = config.MarketDataLive
	default:
		container.MarketData = sim
		container.MarketSource = config.MarketDataSimulated
	}

	log.Info().Str("source", container.MarketSource).Msg("Market data initialized")
}

// InitializeServices builds the core state and the services that operate on it
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventBus = events.NewBus()
	container.EventManager = events.NewManager(container.EventBus, log)

	score := risk.ScoreForAppetite(cfg.RiskAppetite)
	container.RiskProfile = risk.NewProfile(score, cfg.VolatilityThreshold, log)

	container.SIPPlan = sip.NewPlan(cfg.MonthlySIP, log)
	if _, err := container.SIPPlan.SetAllocation(risk.IdealAllocation(score)); err != nil {
		return fmt.Errorf("failed to set SIP allocation: %w", err)
	}

	p, err := portfolio.Initialize(ctx, cfg.InitialCapital, container.SIPPlan.Allocation(), container.MarketData)
	if err != nil {
		return fmt.Errorf("failed to initialize portfolio: %w", err)
	}
	container.Portfolio = p

	container.PortfolioService = portfolio.NewService(
		p,
		container.SIPPlan,
		container.MarketData,
		container.MarketSource,
		container.EventManager,
		log,
	)
	container.RiskService = risk.NewService(
		container.RiskProfile,
		p,
		container.MarketData,
		container.EventManager,
		cfg.RiskFreeRate,
		log,
	)
	container.RebalancingService = rebalancing.NewService(p, container.RiskProfile, container.EventManager, log)
	container.AdvisorService = advisor.NewService(
		p,
		container.RiskProfile,
		container.SIPPlan,
		container.MarketData,
		cfg.RiskFreeRate,
		log,
	)

	log.Info().
		Float64("capital", cfg.InitialCapital).
		Float64("risk_score", score).
		Float64("monthly_sip", cfg.MonthlySIP).
		Msg("Services initialized")

	return nil
}
