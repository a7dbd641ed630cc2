package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// NewLoggerSubscriber creates an event handler that logs all events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		// Extract common fields from payload if available
		var leagueID, recapType, errText string
		var week int
		if payload, ok := event.Payload.(map[string]interface{}); ok {
			if id, ok := payload["league_id"].(string); ok {
				leagueID = id
			}
			if rt, ok := payload["recap_type"].(string); ok {
				recapType = rt
			}
			if w, ok := payload["week"].(int); ok {
				week = w
			}
			if e, ok := payload["error"].(string); ok {
				errText = e
			}
		}

		// Log event with structured fields
		logEvent := logger.Debug().
			Str("event_type", string(event.Type))

		if leagueID != "" {
			logEvent = logEvent.Str("league_id", leagueID)
		}
		if recapType != "" {
			logEvent = logEvent.Str("recap_type", recapType)
		}
		if week > 0 {
			logEvent = logEvent.Int("week", week)
		}
		if errText != "" {
			logEvent = logEvent.Str("error", errText)
		}

		logEvent.Msg("Event published")

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	// Subscribe to all event types
	eventTypes := []interfaces.EventType{
		interfaces.EventSyncStarted,
		interfaces.EventSyncCompleted,
		interfaces.EventSyncFailed,
		interfaces.EventRecapGenerated,
		interfaces.EventRecapPublished,
		interfaces.EventRecapFailed,
		interfaces.EventCleanupCompleted,
	}

	for _, eventType := range eventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	logger.Info().
		Int("event_type_count", len(eventTypes)).
		Msg("Logger subscribed to all event types")

	return nil
}
