package risk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/assets"
	"github.com/aristath/folio/internal/modules/portfolio"
)

// Adjustment reports one market-driven score change
type Adjustment struct {
	VIX           float64 `json:"vix"`
	BTCVolatility float64 `json:"btc_volatility"`
	Delta         float64 `json:"delta"`
	PreviousScore float64 `json:"previous_score"`
	Score         float64 `json:"score"`
}

// Service exposes the risk profile and portfolio metrics, announcing profile
// changes on the event bus
type Service struct {
	profile      *Profile
	portfolio    *portfolio.Portfolio
	market       domain.MarketData
	events       *events.Manager
	riskFreeRate float64
	log          zerolog.Logger
}

// NewService creates a new risk service
func NewService(
	profile *Profile,
	p *portfolio.Portfolio,
	market domain.MarketData,
	eventManager *events.Manager,
	riskFreeRate float64,
	log zerolog.Logger,
) *Service {
	return &Service{
		profile:      profile,
		portfolio:    p,
		market:       market,
		events:       eventManager,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("service", "risk").Logger(),
	}
}

// Profile returns the managed profile
func (s *Service) Profile() *Profile {
	return s.profile
}

// SetScore replaces the risk score
func (s *Service) SetScore(score float64) (Summary, error) {
	previous := s.profile.Score()
	if _, err := s.profile.SetRiskScore(score); err != nil {
		return Summary{}, err
	}
	summary := s.profile.Summary()
	s.announce(previous, summary, "manual")
	return summary, nil
}

// Adjust applies the market signals for the given readings
func (s *Service) Adjust(vix, btcVolatility float64) Adjustment {
	previous := s.profile.Score()
	score := s.profile.AdjustForMarketConditions(vix, btcVolatility)
	adj := Adjustment{
		VIX:           vix,
		BTCVolatility: btcVolatility,
		Delta:         score - previous,
		PreviousScore: previous,
		Score:         score,
	}
	if adj.Delta != 0 {
		s.announce(previous, s.profile.Summary(), "market_conditions")
	}
	return adj
}

// AdjustForMarket reads the VIX from market data and the BTC volatility from
// the portfolio, then applies the market signals
func (s *Service) AdjustForMarket(ctx context.Context) (Adjustment, error) {
	if s.market == nil {
		return Adjustment{}, fmt.Errorf("no market data source")
	}
	vix, err := s.market.VIX(ctx)
	if err != nil {
		return Adjustment{}, fmt.Errorf("failed to read VIX: %w", err)
	}
	var btcVolatility float64
	if pos, ok := s.portfolio.Position(assets.SymbolBTC); ok {
		btcVolatility = pos.Volatility
	}
	return s.Adjust(vix, btcVolatility), nil
}

// Metrics measures the portfolio at the configured risk-free rate
func (s *Service) Metrics() Metrics {
	return Measure(s.portfolio.Exposures(), s.riskFreeRate)
}

func (s *Service) announce(previous float64, summary Summary, reason string) {
	s.log.Info().
		Float64("previous", previous).
		Float64("score", summary.Score).
		Str("label", summary.Label).
		Str("reason", reason).
		Msg("Risk profile changed")
	if s.events == nil {
		return
	}
	s.events.EmitTyped("risk", &events.RiskProfileChangedData{
		PreviousScore: previous,
		Score:         summary.Score,
		Label:         summary.Label,
		Reason:        reason,
	})
}
