package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloudwego/eino/schema"
)

// State tracks the session lifecycle. Idle is the only initial state; the
// three terminal states admit no further transitions or emissions.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateConnecting
	StateStreaming
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

var (
	ErrEmptyTemplate    = errors.New("report template is empty")
	ErrEmptyWorkContent = errors.New("work content is empty")
	ErrAlreadyStarted   = errors.New("session already started")
)

// StreamingError wraps a failure that occurred mid-stream. Content already
// emitted is preserved, not rolled back.
type StreamingError struct {
	Detail error
}

func (e *StreamingError) Error() string {
	return "streaming failed: " + e.Detail.Error()
}

func (e *StreamingError) Unwrap() error { return e.Detail }

// ModelClient opens one streaming completion for a template/work-content pair.
// A returned reader is not restartable; retrying means a new call.
type ModelClient interface {
	StreamReport(ctx context.Context, templateContent, workContent string) (*schema.StreamReader[string], error)
}

// Hooks receive the session's two output channels. Content carries generated
// report deltas only; Log carries diagnostics only. Ordering is guaranteed
// within a hook, not across the two. Hooks must return promptly and must not
// call back into the session.
type Hooks struct {
	OnContent func(text string)
	OnLog     func(message string)
}

// Result is the single terminal outcome of a run.
type Result struct {
	Outcome     Outcome
	Report      string
	Err         error
	EmptyReport bool // Completed with a blank accumulated report
}

const (
	cancelledMarker = "\n\n[Generation cancelled: the report is incomplete]"
	maxLogDetail    = 150
)

// Session owns the lifecycle of one generate-report operation. It is driven
// by a single Run call on its own goroutine; Cancel is the only method safe
// to call concurrently with it.
type Session struct {
	client          ModelClient
	modelName       string
	templateContent string
	workContent     string
	hooks           Hooks

	state     atomic.Int32
	cancelled atomic.Bool

	emitMu   sync.Mutex
	terminal bool
	report   strings.Builder
}

func NewSession(client ModelClient, modelName, templateContent, workContent string, hooks Hooks) *Session {
	return &Session{
		client:          client,
		modelName:       strings.TrimSpace(modelName),
		templateContent: strings.TrimSpace(templateContent),
		workContent:     strings.TrimSpace(workContent),
		hooks:           hooks,
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Report returns the content accumulated so far.
func (s *Session) Report() string {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	return s.report.String()
}

// Cancel requests cooperative cancellation. It only sets the flag and emits a
// log acknowledgement; the run loop performs the actual transition on the
// session's own goroutine. Calling it after a terminal state is a no-op.
func (s *Session) Cancel() {
	if s.State().Terminal() {
		return
	}
	if s.cancelled.CompareAndSwap(false, true) {
		s.emitLog("Cancel requested: stopping the model stream")
	}
}

// Run executes the session to its terminal outcome. It must be called at most
// once.
func (s *Session) Run(ctx context.Context) Result {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateValidating)) {
		return Result{Outcome: OutcomeFailed, Err: ErrAlreadyStarted}
	}

	if s.cancelled.Load() {
		s.finish(StateCancelled, "", "Generation cancelled before it started")
		return Result{Outcome: OutcomeCancelled}
	}
	if s.templateContent == "" {
		s.finish(StateFailed, "", "Generation aborted: the report template is empty")
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyTemplate}
	}
	if s.workContent == "" {
		s.finish(StateFailed, "", "Generation aborted: the work content is empty")
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyWorkContent}
	}

	s.state.Store(int32(StateConnecting))
	s.emitLog(fmt.Sprintf("Calling model %s with streaming enabled", s.modelName))

	stream, err := s.client.StreamReport(ctx, s.templateContent, s.workContent)
	if err != nil {
		s.finish(StateFailed, "", "Model request failed: "+truncateDetail(err.Error()))
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	defer stream.Close()

	if s.cancelled.Load() {
		s.finish(StateCancelled, cancelledMarker, "Streaming stopped: generation cancelled")
		return Result{Outcome: OutcomeCancelled, Report: s.Report()}
	}

	s.state.Store(int32(StateStreaming))
	s.emitLog("Receiving streamed content")

	for {
		delta, recvErr := stream.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				return s.complete()
			}
			streamErr := &StreamingError{Detail: recvErr}
			s.finish(StateFailed, "", "Streaming failed: "+truncateDetail(recvErr.Error()))
			return Result{Outcome: OutcomeFailed, Report: s.Report(), Err: streamErr}
		}

		// Re-check before emitting so a cancellation requested while a
		// delta was in flight is honored at the next opportunity. The
		// deferred Close abandons the stream without draining it.
		if s.cancelled.Load() {
			s.finish(StateCancelled, cancelledMarker, "Streaming stopped: generation cancelled")
			return Result{Outcome: OutcomeCancelled, Report: s.Report()}
		}
		if delta == "" {
			continue
		}
		s.emitContent(delta)
	}
}

func (s *Session) complete() Result {
	report := s.Report()
	if strings.TrimSpace(report) == "" {
		s.finish(StateCompleted, "", "Generation completed, but the model returned no content")
		return Result{Outcome: OutcomeCompleted, Report: report, EmptyReport: true}
	}
	s.finish(StateCompleted, "", fmt.Sprintf("Generation completed: model %s streamed %d characters", s.modelName, len(report)))
	return Result{Outcome: OutcomeCompleted, Report: report}
}

// finish performs the single terminal transition: at most one content marker,
// exactly one summary log line, then permanent silence on both channels.
func (s *Session) finish(state State, contentMarker, logLine string) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.terminal {
		return
	}
	if contentMarker != "" && s.hooks.OnContent != nil {
		s.hooks.OnContent(contentMarker)
	}
	if logLine != "" && s.hooks.OnLog != nil {
		s.hooks.OnLog(logLine)
	}
	s.terminal = true
	s.state.Store(int32(state))
}

func (s *Session) emitContent(text string) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.terminal {
		return
	}
	s.report.WriteString(text)
	if s.hooks.OnContent != nil {
		s.hooks.OnContent(text)
	}
}

func (s *Session) emitLog(message string) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.terminal {
		return
	}
	if s.hooks.OnLog != nil {
		s.hooks.OnLog(message)
	}
}

func truncateDetail(detail string) string {
	if len(detail) > maxLogDetail {
		return detail[:maxLogDetail] + "..."
	}
	return detail
}
