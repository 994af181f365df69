// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/folio/internal/clients/marketdata"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/advisor"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/rebalancing"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sip"
	"github.com/aristath/folio/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire and passed to the server for access to services.
type Container struct {
	// Market data
	MarketData   domain.MarketData
	MarketSource string
	Simulator    *marketdata.Simulated

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Core state
	Portfolio   *portfolio.Portfolio
	RiskProfile *risk.Profile
	SIPPlan     *sip.Plan

	// Services
	PortfolioService   *portfolio.Service
	RiskService        *risk.Service
	RebalancingService *rebalancing.Service
	AdvisorService     *advisor.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs so they can also be
// triggered on demand
type JobInstances struct {
	SyncPrices       scheduler.Job
	SIPAutoInvest    scheduler.Job
	MarketConditions scheduler.Job
}
