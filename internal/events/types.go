// Package events provides event management functionality.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	PriceUpdated       EventType = "PRICE_UPDATED"
	TradeExecuted      EventType = "TRADE_EXECUTED"
	PortfolioChanged   EventType = "PORTFOLIO_CHANGED"
	RebalancePlanned   EventType = "REBALANCE_PLANNED"
	RebalanceApplied   EventType = "REBALANCE_APPLIED"
	RiskProfileChanged EventType = "RISK_PROFILE_CHANGED"
	SIPExecuted        EventType = "SIP_EXECUTED"
	ErrorOccurred      EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every type a stream subscriber can receive
var AllEventTypes = []EventType{
	PriceUpdated,
	TradeExecuted,
	PortfolioChanged,
	RebalancePlanned,
	RebalanceApplied,
	RiskProfileChanged,
	SIPExecuted,
	ErrorOccurred,
}

// Event represents a system event
type Event struct {
	ID        string                 `json:"id" msgpack:"id"`
	Type      EventType              `json:"type" msgpack:"type"`
	Timestamp time.Time              `json:"timestamp" msgpack:"timestamp"`
	Module    string                 `json:"module" msgpack:"module"`
	Data      map[string]interface{} `json:"data" msgpack:"data"`
}
