package advisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/assets"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/rebalancing"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sip"
)

// Service gathers live state and runs the advisor rules over it
type Service struct {
	portfolio    *portfolio.Portfolio
	profile      *risk.Profile
	plan         *sip.Plan
	market       domain.MarketData
	riskFreeRate float64
	now          func() time.Time
	log          zerolog.Logger
}

// NewService creates a new advisor service
func NewService(
	p *portfolio.Portfolio,
	profile *risk.Profile,
	plan *sip.Plan,
	market domain.MarketData,
	riskFreeRate float64,
	log zerolog.Logger,
) *Service {
	return &Service{
		portfolio:    p,
		profile:      profile,
		plan:         plan,
		market:       market,
		riskFreeRate: riskFreeRate,
		now:          time.Now,
		log:          log.With().Str("service", "advisor").Logger(),
	}
}

// Advise evaluates the rules against the current state. Market lookups that
// fail are logged and leave the matching market rule silent.
func (s *Service) Advise(ctx context.Context) Advice {
	snap := s.portfolio.Snapshot()

	in := Input{
		Exposures:       snap.Exposures,
		Composition:     snap.Composition,
		RebalanceNeeded: len(rebalancing.Recommend(snap.Composition, s.profile.IdealAllocation(), snap.TotalValue)) > 0,
		Metrics:         risk.Measure(snap.Exposures, s.riskFreeRate),
		Market:          s.marketState(ctx),
	}
	advice := Evaluate(in)

	s.log.Debug().
		Int("alerts", len(advice.Alerts)).
		Int("recommendations", len(advice.Recommendations)).
		Msg("Advice generated")
	return advice
}

func (s *Service) marketState(ctx context.Context) Market {
	var m Market
	if s.market == nil {
		return m
	}
	var err error
	if m.VIX, err = s.market.VIX(ctx); err != nil {
		s.log.Warn().Err(err).Msg("VIX unavailable")
	}
	if m.USDINR, err = s.market.Price(ctx, SymbolUSDINR); err != nil {
		s.log.Warn().Err(err).Str("symbol", SymbolUSDINR).Msg("Price unavailable")
	}
	if m.BTCPrice, err = s.market.Price(ctx, assets.SymbolBTC); err != nil {
		s.log.Warn().Err(err).Str("symbol", assets.SymbolBTC).Msg("Price unavailable")
	}
	return m
}

// MonthlyReport builds the monthly report for the current state
func (s *Service) MonthlyReport() Report {
	snap := s.portfolio.Snapshot()
	return MonthlyReport(ReportInput{
		Date:                s.now(),
		TotalValue:          snap.TotalValue,
		TotalReturnPct:      snap.TotalReturnPct(),
		MonthlyAmount:       s.plan.MonthlyAmount(),
		PortfolioVolatility: risk.PortfolioVolatility(snap.Exposures),
		Exposures:           snap.Exposures,
	})
}
