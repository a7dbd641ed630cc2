package status

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// AppState represents the application state
type AppState string

const (
	StateIdle    AppState = "idle"
	StateSyncing AppState = "syncing"
)

// Service tracks what the application is doing right now plus the last
// sync and recap activity, fed by the event bus.
type Service struct {
	state        AppState
	mu           sync.RWMutex
	eventService interfaces.EventService
	logger       arbor.ILogger
	metadata     map[string]interface{}

	lastSyncAt  *time.Time
	lastRecapAt *time.Time
}

// NewService creates a new StatusService
func NewService(eventService interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		state:        StateIdle,
		eventService: eventService,
		logger:       logger,
		metadata:     make(map[string]interface{}),
	}
}

// GetState returns the current application state (thread-safe)
func (s *Service) GetState() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState updates the application state and broadcasts the change
func (s *Service) SetState(state AppState, metadata map[string]interface{}) {
	s.mu.Lock()
	oldState := s.state
	s.state = state
	if metadata != nil {
		s.metadata = metadata
	} else {
		s.metadata = make(map[string]interface{})
	}
	s.mu.Unlock()

	if oldState != state {
		s.logger.Info().
			Str("old_state", string(oldState)).
			Str("new_state", string(state)).
			Msg("Application state changed")
	}

	payload := map[string]interface{}{
		"state":     string(state),
		"metadata":  metadata,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	event := interfaces.Event{
		Type:    interfaces.EventStatusChanged,
		Payload: payload,
	}
	s.eventService.Publish(context.Background(), event)
}

// GetStatus returns the full status including state, metadata, and the last
// sync and recap timestamps
func (s *Service) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy metadata to avoid concurrent modification
	metadataCopy := make(map[string]interface{})
	for k, v := range s.metadata {
		metadataCopy[k] = v
	}

	result := map[string]interface{}{
		"state":     string(s.state),
		"metadata":  metadataCopy,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if s.lastSyncAt != nil {
		result["last_sync_at"] = s.lastSyncAt.Format(time.RFC3339)
	}
	if s.lastRecapAt != nil {
		result["last_recap_at"] = s.lastRecapAt.Format(time.RFC3339)
	}
	return result
}

// SubscribeToEvents subscribes to sync and recap events to automatically
// update state
func (s *Service) SubscribeToEvents() {
	s.eventService.Subscribe(interfaces.EventSyncStarted, func(ctx context.Context, event interfaces.Event) error {
		metadata := map[string]interface{}{}
		if payload, ok := event.Payload.(map[string]interface{}); ok {
			if leagueID, ok := payload["league_id"].(string); ok {
				metadata["league_id"] = leagueID
			}
		}
		s.SetState(StateSyncing, metadata)
		return nil
	})

	s.eventService.Subscribe(interfaces.EventSyncCompleted, func(ctx context.Context, event interfaces.Event) error {
		now := time.Now()
		s.mu.Lock()
		s.lastSyncAt = &now
		s.mu.Unlock()
		s.SetState(StateIdle, nil)
		return nil
	})

	s.eventService.Subscribe(interfaces.EventSyncFailed, func(ctx context.Context, event interfaces.Event) error {
		s.SetState(StateIdle, nil)
		return nil
	})

	s.eventService.Subscribe(interfaces.EventRecapGenerated, func(ctx context.Context, event interfaces.Event) error {
		now := time.Now()
		s.mu.Lock()
		s.lastRecapAt = &now
		s.mu.Unlock()
		return nil
	})

	s.logger.Info().Msg("StatusService subscribed to sync and recap events")
}
