package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/folio/internal/di"
	"github.com/aristath/folio/internal/events"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	container   *di.Container
	stats       func() (float64, float64)
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status           string    `json:"status"`
	StartedAt        time.Time `json:"started_at"`
	UptimeSeconds    float64   `json:"uptime_seconds"`
	CPUPercent       float64   `json:"cpu_percent"`
	MemoryPercent    float64   `json:"memory_percent"`
	Goroutines       int       `json:"goroutines"`
	MarketData       string    `json:"market_data"`
	PositionCount    int       `json:"position_count"`
	TotalValue       float64   `json:"total_value"`
	RiskScore        float64   `json:"risk_score"`
	SIPAutoInvest    bool      `json:"sip_auto_invest"`
	ScheduledJobs    int       `json:"scheduled_jobs"`
	EventSubscribers int       `json:"event_subscribers"`
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(container *di.Container, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		container:   container,
	}
	h.stats = h.getSystemStats
	return h
}

// GetSystemStatusSnapshot returns a snapshot of the current system status
func (h *SystemHandlers) GetSystemStatusSnapshot() SystemStatusResponse {
	cpuPercent, memPercent := h.stats()

	response := SystemStatusResponse{
		Status:        "healthy",
		StartedAt:     h.startupTime,
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
	}

	c := h.container
	if c == nil {
		return response
	}
	response.MarketData = c.MarketSource
	if c.Portfolio != nil {
		response.PositionCount = len(c.Portfolio.Symbols())
		response.TotalValue = c.Portfolio.TotalValue()
	}
	if c.RiskProfile != nil {
		response.RiskScore = c.RiskProfile.Score()
	}
	if c.SIPPlan != nil {
		response.SIPAutoInvest = c.SIPPlan.AutoInvest()
	}
	if c.Scheduler != nil {
		response.ScheduledJobs = c.Scheduler.Entries()
	}
	if c.EventBus != nil {
		for _, t := range events.AllEventTypes {
			response.EventSubscribers += c.EventBus.SubscriberCount(t)
		}
	}
	return response
}

// HandleSystemStatus returns comprehensive system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response := map[string]interface{}{
		"data": h.GetSystemStatusSnapshot(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// getSystemStats samples CPU over a short window and reads RAM usage
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
