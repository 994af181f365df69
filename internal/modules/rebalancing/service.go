// Package rebalancing plans and applies trades that move a portfolio toward
// the ideal allocation of its risk profile.
package rebalancing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/risk"
)

// Plan is a set of recommendations computed against one composition
type Plan struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	TotalValue float64          `json:"total_value"`
	Items      []Recommendation `json:"items"`
}

// Result reports what Apply did with a plan
type Result struct {
	PlanID        string                  `json:"plan_id"`
	Executed      []portfolio.TradeResult `json:"executed"`
	Failed        []portfolio.TradeResult `json:"failed"`
	Skipped       []string                `json:"skipped"`
	LastRebalance time.Time               `json:"last_rebalance"`
	TotalValue    float64                 `json:"total_value"`
}

// Service orchestrates rebalancing operations
type Service struct {
	portfolio *portfolio.Portfolio
	profile   *risk.Profile
	events    *events.Manager
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a new rebalancing service
func NewService(
	p *portfolio.Portfolio,
	profile *risk.Profile,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		portfolio: p,
		profile:   profile,
		events:    eventManager,
		now:       time.Now,
		log:       log.With().Str("service", "rebalancing").Logger(),
	}
}

// Plan computes recommendations for the current composition
func (s *Service) Plan() Plan {
	snap := s.portfolio.Snapshot()
	total := snap.TotalValue
	plan := Plan{
		ID:         uuid.New().String(),
		CreatedAt:  s.now(),
		TotalValue: total,
		Items:      Recommend(snap.Composition, s.profile.IdealAllocation(), total),
	}

	s.log.Info().
		Str("plan_id", plan.ID).
		Int("items", len(plan.Items)).
		Float64("total_value", total).
		Msg("Rebalancing plan created")

	if s.events != nil {
		s.events.EmitTyped("rebalancing", &events.RebalancePlannedData{PlanID: plan.ID, Items: len(plan.Items)})
	}
	return plan
}

// Apply executes plan items in order. Items for symbols the portfolio does
// not hold are skipped. An empty plan changes nothing.
func (s *Service) Apply(plan Plan) Result {
	result := Result{PlanID: plan.ID}
	if len(plan.Items) == 0 {
		s.log.Info().Str("plan_id", plan.ID).Msg("Portfolio is well-balanced, nothing to apply")
		result.LastRebalance = s.portfolio.LastRebalance()
		result.TotalValue = s.portfolio.TotalValue()
		return result
	}

	trades := make([]portfolio.Trade, 0, len(plan.Items))
	for _, item := range plan.Items {
		if !s.portfolio.Has(item.Symbol) {
			s.log.Warn().
				Str("plan_id", plan.ID).
				Str("symbol", item.Symbol).
				Str("direction", string(item.Direction)).
				Msg("Skipping recommendation for symbol not held")
			result.Skipped = append(result.Skipped, item.Symbol)
			continue
		}
		trades = append(trades, portfolio.Trade{Symbol: item.Symbol, Direction: item.Direction, Amount: item.Amount})
	}

	for _, r := range s.portfolio.Execute(trades) {
		if r.Err != nil {
			s.log.Error().Err(r.Err).Str("symbol", r.Trade.Symbol).Msg("Rebalancing trade failed")
			result.Failed = append(result.Failed, r)
			continue
		}
		result.Executed = append(result.Executed, r)
		if s.events != nil {
			s.events.EmitTyped("rebalancing", &events.TradeExecutedData{
				Symbol:    r.Trade.Symbol,
				Direction: string(r.Trade.Direction),
				Amount:    r.Trade.Amount,
				Value:     r.Value,
				Source:    "rebalance",
			})
		}
	}

	result.LastRebalance = s.portfolio.MarkRebalanced()
	result.TotalValue = s.portfolio.TotalValue()

	s.log.Info().
		Str("plan_id", plan.ID).
		Int("executed", len(result.Executed)).
		Int("failed", len(result.Failed)).
		Int("skipped", len(result.Skipped)).
		Msg("Rebalancing completed")

	if s.events != nil {
		s.events.EmitTyped("rebalancing", &events.RebalanceAppliedData{
			PlanID:   plan.ID,
			Executed: len(result.Executed),
			Skipped:  len(result.Skipped),
		})
		s.events.EmitTyped("rebalancing", &events.PortfolioChangedData{Reason: "rebalance", TotalValue: result.TotalValue})
	}
	return result
}

// Rebalance plans against the current state and applies the plan immediately
func (s *Service) Rebalance() (Plan, Result) {
	plan := s.Plan()
	return plan, s.Apply(plan)
}
