package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"reportforge/internal/events"
	"reportforge/internal/generation"
	"reportforge/internal/llm/ark"
)

// ErrSessionInFlight rejects a start while another session is still running.
var ErrSessionInFlight = errors.New("a generation session is already in progress")

// GeneratorService is the single entry point the UI calls for report
// generation: it enforces single-flight, resolves the credential and model,
// fans the session's content/log channels out as runtime events, and records
// history for completed sessions.
type GeneratorService struct {
	context context.Context
	history HistoryService
	setting AppSettingsService
	keyring *KeyringService

	mu         sync.Mutex
	current    *generation.Session
	currentKey string
	seq        uint64

	// newClient is swapped in tests to avoid real network calls.
	newClient func(apiKey, model string) (generation.ModelClient, error)
}

func NewGeneratorService(history HistoryService, settings AppSettingsService, keyringService *KeyringService) *GeneratorService {
	return &GeneratorService{
		history: history,
		setting: settings,
		keyring: keyringService,
		newClient: func(apiKey, model string) (generation.ModelClient, error) {
			return ark.NewClient(apiKey, model)
		},
	}
}

func (s *GeneratorService) Startup(ctx context.Context) error {
	s.context = ctx
	if s.history == nil {
		return fmt.Errorf("history service not configured")
	}
	if s.setting == nil {
		return fmt.Errorf("app settings service not configured")
	}
	if s.keyring == nil {
		return fmt.Errorf("keyring service not configured")
	}
	return nil
}

func makeSessionKey(seq uint64) string {
	return fmt.Sprintf("report:%d", seq)
}

// StartGeneration launches one generation session on its own goroutine and
// returns its session key. Validation and configuration failures are returned
// synchronously and leave no session behind.
func (s *GeneratorService) StartGeneration(templateContent, workContent string) (string, error) {
	if s.context == nil {
		return "", fmt.Errorf("generator service not initialized")
	}
	if strings.TrimSpace(templateContent) == "" {
		return "", generation.ErrEmptyTemplate
	}
	if strings.TrimSpace(workContent) == "" {
		return "", generation.ErrEmptyWorkContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return "", ErrSessionInFlight
	}

	apiKey := s.keyring.ResolveArkKey()
	if apiKey == "" {
		return "", &ark.AuthenticationError{Reason: "no API key in the keychain or " + arkKeyEnvVar}
	}

	settings, err := s.setting.Get()
	if err != nil {
		return "", fmt.Errorf("loading app settings: %w", err)
	}

	client, err := s.newClient(apiKey, settings.ModelName)
	if err != nil {
		return "", err
	}

	s.seq++
	key := makeSessionKey(s.seq)
	ctx := events.WithSession(s.context, key)

	session := generation.NewSession(client, settings.ModelName, templateContent, workContent, generation.Hooks{
		OnContent: func(text string) {
			events.Emit(ctx, events.ReportContent, events.NewInfo(text))
		},
		OnLog: func(message string) {
			events.Emit(ctx, events.ReportLog, events.NewInfo(message))
		},
	})
	s.current = session
	s.currentKey = key

	go s.run(ctx, key, session, strings.TrimSpace(templateContent), strings.TrimSpace(workContent))
	return key, nil
}

func (s *GeneratorService) run(ctx context.Context, key string, session *generation.Session, templateContent, workContent string) {
	res := session.Run(ctx)

	if res.Outcome == generation.OutcomeCompleted && strings.TrimSpace(res.Report) != "" {
		if _, err := s.history.Append(templateContent, workContent, res.Report); err != nil {
			events.Emit(ctx, events.ReportLog, events.NewWarn("Failed to record history: "+err.Error()))
		}
	}

	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	events.EmitDone(ctx, events.NewDone(key, string(res.Outcome), res.Report, errText, res.EmptyReport))

	s.mu.Lock()
	if s.currentKey == key {
		s.current = nil
		s.currentKey = ""
	}
	s.mu.Unlock()
}

// CancelGeneration requests cancellation of the named session. An empty key
// targets whichever session is running; a stale key is a no-op.
func (s *GeneratorService) CancelGeneration(sessionKey string) {
	s.mu.Lock()
	session := s.current
	match := session != nil && (sessionKey == "" || sessionKey == s.currentKey)
	s.mu.Unlock()
	if match {
		session.Cancel()
	}
}

// IsGenerating reports whether a session is currently in flight.
func (s *GeneratorService) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}
