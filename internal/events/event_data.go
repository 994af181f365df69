package events

import "encoding/json"

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// PriceUpdatedData contains data for PriceUpdated events
type PriceUpdatedData struct {
	Symbols    []string `json:"symbols"`
	Source     string   `json:"source"`
	TotalValue float64  `json:"total_value"`
}

func (d *PriceUpdatedData) EventType() EventType {
	return PriceUpdated
}

// TradeExecutedData contains data for TradeExecuted events
type TradeExecutedData struct {
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Amount    float64 `json:"amount"`
	Value     float64 `json:"value"`
	Source    string  `json:"source"`
}

func (d *TradeExecutedData) EventType() EventType {
	return TradeExecuted
}

// PortfolioChangedData contains data for PortfolioChanged events
type PortfolioChangedData struct {
	Reason     string  `json:"reason"`
	TotalValue float64 `json:"total_value"`
}

func (d *PortfolioChangedData) EventType() EventType {
	return PortfolioChanged
}

// RebalancePlannedData contains data for RebalancePlanned events
type RebalancePlannedData struct {
	PlanID string `json:"plan_id"`
	Items  int    `json:"items"`
}

func (d *RebalancePlannedData) EventType() EventType {
	return RebalancePlanned
}

// RebalanceAppliedData contains data for RebalanceApplied events
type RebalanceAppliedData struct {
	PlanID   string `json:"plan_id"`
	Executed int    `json:"executed"`
	Skipped  int    `json:"skipped"`
}

func (d *RebalanceAppliedData) EventType() EventType {
	return RebalanceApplied
}

// RiskProfileChangedData contains data for RiskProfileChanged events
type RiskProfileChangedData struct {
	PreviousScore float64 `json:"previous_score"`
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
	Reason        string  `json:"reason"`
}

func (d *RiskProfileChangedData) EventType() EventType {
	return RiskProfileChanged
}

// SIPExecutedData contains data for SIPExecuted events
type SIPExecutedData struct {
	Investments map[string]float64 `json:"investments"`
	Total       float64            `json:"total"`
	Forced      bool               `json:"forced"`
}

func (d *SIPExecutedData) EventType() EventType {
	return SIPExecuted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// convertEventDataToMap flattens typed EventData into the map carried on the bus
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}

	return result
}
