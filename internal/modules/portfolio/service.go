package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/assets"
	"github.com/aristath/folio/internal/modules/sip"
	"github.com/aristath/folio/internal/utils"
)

// ErrSIPDisabled is returned by ExecuteSIP when auto-invest is off and the
// run is not forced
var ErrSIPDisabled = errors.New("sip auto-invest disabled")

// Initialize fetches prices for every symbol of table and builds a portfolio
// funded with capital according to it.
func Initialize(
	ctx context.Context,
	capital float64,
	table allocation.Table,
	market domain.MarketData,
	opts ...Option,
) (*Portfolio, error) {
	prices, err := market.Prices(ctx, table.Symbols())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opening prices: %w", err)
	}
	return Build(capital, table, prices, market, opts...)
}

// Summary is the headline view of a portfolio
type Summary struct {
	TotalValue        float64           `json:"total_value"`
	InitialInvestment float64           `json:"initial_investment"`
	TotalReturnPct    float64           `json:"total_return_pct"`
	GainLoss          float64           `json:"gain_loss"`
	LastRebalance     *time.Time        `json:"last_rebalance,omitempty"`
	Positions         []PositionSummary `json:"positions"`
	Composition       allocation.Table  `json:"composition"`
}

// PositionSummary is one line of the asset breakdown
type PositionSummary struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Value         float64 `json:"value"`
	AllocationPct float64 `json:"allocation_pct"`
	ReturnPct     float64 `json:"return_pct"`
	Volatility    float64 `json:"volatility"`
}

// SyncResult reports one price sync
type SyncResult struct {
	Updated    []string `json:"updated"`
	TotalValue float64  `json:"total_value"`
	Source     string   `json:"source"`
}

// SIPResult reports one SIP execution
type SIPResult struct {
	Investments map[string]float64 `json:"investments"`
	Total       float64            `json:"total"`
	Forced      bool               `json:"forced"`
	TotalValue  float64            `json:"total_value"`
}

// Service connects a portfolio to its price source, its SIP plan and the
// event bus
type Service struct {
	portfolio *Portfolio
	plan      *sip.Plan
	prices    domain.PriceSource
	source    string
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates a new portfolio service. source names the price source
// in events and logs.
func NewService(
	p *Portfolio,
	plan *sip.Plan,
	prices domain.PriceSource,
	source string,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		portfolio: p,
		plan:      plan,
		prices:    prices,
		source:    source,
		events:    eventManager,
		log:       log.With().Str("service", "portfolio").Logger(),
	}
}

// Portfolio returns the managed portfolio
func (s *Service) Portfolio() *Portfolio {
	return s.portfolio
}

func (s *Service) emit(data events.EventData) {
	if s.events != nil {
		s.events.EmitTyped("portfolio", data)
	}
}

// SyncPrices fetches a snapshot for every held symbol and applies it
func (s *Service) SyncPrices(ctx context.Context) (SyncResult, error) {
	defer utils.OperationTimer("sync_prices", 2*time.Second, s.log)()

	symbols := s.portfolio.Symbols()
	snapshot, err := s.prices.Prices(ctx, symbols)
	if err != nil {
		if s.events != nil {
			s.events.EmitError("portfolio", err, map[string]interface{}{"operation": "sync_prices"})
		}
		return SyncResult{}, fmt.Errorf("failed to fetch prices: %w", err)
	}

	updated, err := s.portfolio.ApplyPrices(snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("Rejected price snapshot")
		if s.events != nil {
			s.events.EmitError("portfolio", err, map[string]interface{}{"operation": "sync_prices"})
		}
		return SyncResult{}, err
	}

	result := SyncResult{Updated: updated, TotalValue: s.portfolio.TotalValue(), Source: s.source}
	s.log.Info().
		Int("updated", len(updated)).
		Float64("total_value", result.TotalValue).
		Msg("Prices synced")
	s.emit(&events.PriceUpdatedData{Symbols: updated, Source: s.source, TotalValue: result.TotalValue})
	return result, nil
}

// ExecuteSIP invests the monthly amount when it is due. Unless forced it
// requires auto-invest; a run that is not due invests nothing.
func (s *Service) ExecuteSIP(force bool) (SIPResult, error) {
	if !force && !s.plan.AutoInvest() {
		return SIPResult{}, ErrSIPDisabled
	}

	invested, failed := s.portfolio.Invest(s.plan.ExecuteInvestment(force))
	for symbol, err := range failed {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("SIP investment failed")
	}
	result := SIPResult{Investments: invested, Forced: force, TotalValue: s.portfolio.TotalValue()}
	for _, amount := range invested {
		result.Total += amount
	}
	if len(invested) == 0 {
		return result, nil
	}

	for symbol, amount := range invested {
		s.log.Info().
			Str("symbol", symbol).
			Str("amount", utils.FormatCurrency(amount)).
			Msg("SIP investment")
	}
	s.emit(&events.SIPExecutedData{Investments: invested, Total: result.Total, Forced: force})
	s.emit(&events.PortfolioChangedData{Reason: "sip", TotalValue: result.TotalValue})
	return result, nil
}

// Buy invests amount into a held symbol
func (s *Service) Buy(symbol string, amount float64) (TradeResult, error) {
	return s.trade(Trade{Symbol: symbol, Direction: domain.DirectionBuy, Amount: amount})
}

// Sell sells percentage of a held symbol
func (s *Service) Sell(symbol string, percentage float64) (TradeResult, error) {
	return s.trade(Trade{Symbol: symbol, Direction: domain.DirectionSell, Amount: percentage})
}

func (s *Service) trade(t Trade) (TradeResult, error) {
	result := s.portfolio.Execute([]Trade{t})[0]
	if result.Err != nil {
		s.log.Warn().Err(result.Err).Str("symbol", t.Symbol).Str("direction", string(t.Direction)).Msg("Trade rejected")
		return result, result.Err
	}

	s.log.Info().
		Str("symbol", t.Symbol).
		Str("direction", string(t.Direction)).
		Float64("amount", t.Amount).
		Float64("value", result.Value).
		Msg("Trade executed")
	s.emit(&events.TradeExecutedData{
		Symbol:    t.Symbol,
		Direction: string(t.Direction),
		Amount:    t.Amount,
		Value:     result.Value,
		Source:    "manual",
	})
	s.emit(&events.PortfolioChangedData{Reason: "trade", TotalValue: s.portfolio.TotalValue()})
	return result, nil
}

// StakingState reports the staking settings of one asset
type StakingState struct {
	Symbol          string  `json:"symbol"`
	Staking         bool    `json:"staking"`
	Yield           float64 `json:"yield"`
	ProjectedReward float64 `json:"projected_reward_30d"`
}

// SetStaking enables staking on symbol at yield percent APY, or disables it.
// Only assets that support staking accept it.
func (s *Service) SetStaking(symbol string, enabled bool, yield float64) (StakingState, error) {
	if enabled && !(yield > 0 && !math.IsInf(yield, 0)) {
		return StakingState{}, fmt.Errorf("%w: staking yield %v", assets.ErrInvalidArgument, yield)
	}

	var state StakingState
	err := s.portfolio.Update(symbol, func(a assets.Asset) error {
		staker, ok := a.(assets.Staker)
		if !ok {
			return fmt.Errorf("%w: %s does not support staking", assets.ErrInvalidArgument, symbol)
		}
		if enabled {
			staker.EnableStaking(yield)
		} else {
			staker.DisableStaking()
		}
		state = StakingState{
			Symbol:          symbol,
			Staking:         staker.IsStaking(),
			Yield:           staker.StakingYield(),
			ProjectedReward: utils.RoundMoney(staker.StakingRewards(30)),
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Staking change rejected")
		return StakingState{}, err
	}

	s.log.Info().
		Str("symbol", symbol).
		Bool("staking", state.Staking).
		Float64("yield", state.Yield).
		Msg("Staking updated")
	s.emit(&events.PortfolioChangedData{Reason: "staking", TotalValue: s.portfolio.TotalValue()})
	return state, nil
}

// Summary returns the headline figures and the asset breakdown
func (s *Service) Summary() Summary {
	snap := s.portfolio.Snapshot()

	summary := Summary{
		TotalValue:        utils.RoundMoney(snap.TotalValue),
		InitialInvestment: snap.InitialInvestment,
		TotalReturnPct:    snap.TotalReturnPct(),
		GainLoss:          utils.RoundMoney(snap.TotalValue - snap.InitialInvestment),
		Positions:         make([]PositionSummary, 0, len(snap.Holdings)),
		Composition:       snap.Composition,
	}
	if !snap.LastRebalance.IsZero() {
		last := snap.LastRebalance
		summary.LastRebalance = &last
	}

	for _, h := range snap.Holdings {
		summary.Positions = append(summary.Positions, PositionSummary{
			Symbol:        h.Symbol,
			Name:          h.Name,
			Kind:          string(h.Kind),
			Value:         utils.RoundMoney(h.Value),
			AllocationPct: snap.Composition[h.Symbol],
			ReturnPct:     h.ReturnPct,
			Volatility:    h.Volatility,
		})
	}
	return summary
}
