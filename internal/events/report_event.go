package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event channel names consumed by the frontend. Content carries generated
// report deltas only; Log carries diagnostics only; Done fires exactly once
// per session with the terminal outcome.
const (
	ReportContent = "events:report:content"
	ReportLog     = "events:report:log"
	ReportDone    = "events:report:done"
)

// StreamEvent is the payload for content and log emissions of one session.
type StreamEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	SessionKey string    `json:"sessionKey,omitempty"`
}

// DoneEvent is the single terminal notification of a session.
type DoneEvent struct {
	ID          string    `json:"id"`
	SessionKey  string    `json:"sessionKey"`
	Outcome     string    `json:"outcome"` // "completed" | "cancelled" | "failed"
	Report      string    `json:"report,omitempty"`
	Error       string    `json:"error,omitempty"`
	EmptyReport bool      `json:"emptyReport,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type contextKey string

const sessionContextKey contextKey = "reportforge/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateStreamEvent(eventType EventType, message string) StreamEvent {
	return StreamEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info StreamEvent.
func NewInfo(message string) StreamEvent {
	return CreateStreamEvent(EventInfo, message)
}

// NewWarn creates a warn StreamEvent.
func NewWarn(message string) StreamEvent {
	return CreateStreamEvent(EventWarn, message)
}

// NewError creates an error StreamEvent.
func NewError(message string) StreamEvent {
	return CreateStreamEvent(EventError, message)
}

// NewSuccess creates a success StreamEvent.
func NewSuccess(message string) StreamEvent {
	return CreateStreamEvent(EventSuccess, message)
}

// NewDone creates the terminal payload for a session.
func NewDone(sessionKey, outcome, report, errText string, emptyReport bool) DoneEvent {
	return DoneEvent{
		ID:          uuid.NewString(),
		SessionKey:  sessionKey,
		Outcome:     outcome,
		Report:      report,
		Error:       errText,
		EmptyReport: emptyReport,
		Timestamp:   time.Now(),
	}
}
