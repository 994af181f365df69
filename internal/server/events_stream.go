package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/utils"
)

const (
	// FormatJSON sends text frames holding JSON
	FormatJSON = "json"
	// FormatMsgpack sends binary frames holding MessagePack
	FormatMsgpack = "msgpack"

	streamBuffer      = 100
	streamWriteWait   = 10 * time.Second
	heartbeatInterval = 30 * time.Second
)

// StreamMessage is one frame sent to a stream client
type StreamMessage struct {
	Type      string                 `json:"type" msgpack:"type"`
	ID        string                 `json:"id,omitempty" msgpack:"id,omitempty"`
	Module    string                 `json:"module,omitempty" msgpack:"module,omitempty"`
	Timestamp string                 `json:"timestamp" msgpack:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty" msgpack:"data,omitempty"`
}

// EventsStreamHandler streams bus events to websocket clients
type EventsStreamHandler struct {
	eventBus  *events.Bus
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		heartbeat: heartbeatInterval,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// parseTypes reads the comma separated types filter. Unknown types are
// ignored; an empty filter selects every type.
func parseTypes(filter string) []events.EventType {
	if filter == "" {
		return events.AllEventTypes
	}
	known := make(map[events.EventType]bool, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		known[t] = true
	}
	var out []events.EventType
	seen := make(map[events.EventType]bool)
	for _, raw := range utils.ParseCSV(filter) {
		t := events.EventType(strings.ToUpper(raw))
		if known[t] && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// encode renders msg for the negotiated format
func encode(format string, msg StreamMessage) (websocket.MessageType, []byte, error) {
	if format == FormatMsgpack {
		data, err := msgpack.Marshal(msg)
		return websocket.MessageBinary, data, err
	}
	data, err := json.Marshal(msg)
	return websocket.MessageText, data, err
}

// ServeHTTP handles GET /api/events/ws
// Query: types=PRICE_UPDATED,TRADE_EXECUTED (optional), format=json|msgpack
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMsgpack {
		http.Error(w, "Invalid format", http.StatusBadRequest)
		return
	}

	types := parseTypes(r.URL.Query().Get("types"))
	if len(types) == 0 {
		http.Error(w, "No known event types requested", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to accept websocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// Client frames are discarded; ctx ends when the client goes away
	ctx := conn.CloseRead(r.Context())

	eventChan := make(chan *events.Event, streamBuffer)
	handler := func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}
	for _, t := range types {
		unsubscribe := h.eventBus.Subscribe(t, handler)
		defer unsubscribe()
	}

	h.log.Info().
		Int("types", len(types)).
		Str("format", format).
		Msg("Client connected to event stream")

	send := func(msg StreamMessage) error {
		kind, data, err := encode(format, msg)
		if err != nil {
			return err
		}
		writeCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
		defer cancel()
		return conn.Write(writeCtx, kind, data)
	}

	if err := send(StreamMessage{Type: "connected", Timestamp: time.Now().Format(time.RFC3339)}); err != nil {
		h.log.Warn().Err(err).Msg("Failed to send greeting")
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			err := send(StreamMessage{
				Type:      string(event.Type),
				ID:        event.ID,
				Module:    event.Module,
				Timestamp: event.Timestamp.Format(time.RFC3339),
				Data:      event.Data,
			})
			if err != nil {
				h.logWriteError(err)
				return
			}

		case <-heartbeat.C:
			if err := send(StreamMessage{Type: "heartbeat", Timestamp: time.Now().Format(time.RFC3339)}); err != nil {
				h.logWriteError(err)
				return
			}
		}
	}
}

func (h *EventsStreamHandler) logWriteError(err error) {
	if errors.Is(err, context.Canceled) || websocket.CloseStatus(err) != -1 {
		h.log.Debug().Err(err).Msg("Event stream closed")
		return
	}
	h.log.Warn().Err(err).Msg("Failed to write to event stream")
}
