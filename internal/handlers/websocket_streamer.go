package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	arborlevels "github.com/ternarybob/arbor/levels"
	arbormodels "github.com/ternarybob/arbor/models"

	"github.com/kforero17/aicommissioner/internal/common"
)

// Buffer for log batches between arbor and the drain goroutine
const defaultStreamBufferSize = 10

// defaultExcludePatterns drops log lines that would feed back through the
// stream or add noise the admin UI never wants.
var defaultExcludePatterns = []string{
	"WebSocket client connected",
	"WebSocket client disconnected",
	"HTTP request",
	"HTTP response",
	"Publishing event",
}

// WebSocketLogStreamer consumes log batches from arbor's channel and
// broadcasts matching entries to connected WebSocket clients.
type WebSocketLogStreamer struct {
	handler         *WebSocketHandler
	channel         chan []arbormodels.LogEvent
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	minLevel        arbor.LogLevel
	excludePatterns []string
}

// NewWebSocketLogStreamer creates a streamer feeding the given handler.
// Register its Channel with the arbor logger to start the flow.
func NewWebSocketLogStreamer(handler *WebSocketHandler, wsConfig *common.WebSocketConfig) *WebSocketLogStreamer {
	minLevel := arbor.InfoLevel
	excludePatterns := defaultExcludePatterns

	if wsConfig != nil {
		minLevel = parseStreamLevel(wsConfig.MinLevel)
		if len(wsConfig.ExcludePatterns) > 0 {
			excludePatterns = wsConfig.ExcludePatterns
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketLogStreamer{
		handler:         handler,
		channel:         make(chan []arbormodels.LogEvent, defaultStreamBufferSize),
		ctx:             ctx,
		cancel:          cancel,
		minLevel:        minLevel,
		excludePatterns: excludePatterns,
	}
}

// Channel returns the channel for arbor to send log batches to
func (s *WebSocketLogStreamer) Channel() chan []arbormodels.LogEvent {
	return s.channel
}

// Start launches the drain goroutine
func (s *WebSocketLogStreamer) Start() {
	s.wg.Add(1)
	go s.drain()
}

// Stop shuts down the drain goroutine and waits for it to finish
func (s *WebSocketLogStreamer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// drain processes log batches until the channel closes or Stop is called
func (s *WebSocketLogStreamer) drain() {
	defer s.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			// Panics here must not take down the logger pipeline
			fmt.Printf("WebSocket log streamer panic recovered: %v\n", r)
		}
	}()

	for {
		select {
		case batch, ok := <-s.channel:
			if !ok {
				return
			}
			for _, event := range batch {
				if entry, ok := s.filter(event); ok {
					s.handler.BroadcastLog(entry)
				}
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// filter decides whether an event reaches clients and maps it to the
// wire shape when it does.
func (s *WebSocketLogStreamer) filter(event arbormodels.LogEvent) (LogEntry, bool) {
	level := arborlevels.FromLogLevel(event.Level)
	if level < s.minLevel {
		return LogEntry{}, false
	}

	for _, pattern := range s.excludePatterns {
		if strings.Contains(event.Message, pattern) {
			return LogEntry{}, false
		}
	}

	return LogEntry{
		Timestamp: event.Timestamp.Format("15:04:05"),
		Level:     levelLabel(level),
		Message:   event.Message,
	}, true
}

// parseStreamLevel converts string log level to arbor.LogLevel
func parseStreamLevel(level string) arbor.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return arbor.ErrorLevel
	case "warn", "warning":
		return arbor.WarnLevel
	case "info":
		return arbor.InfoLevel
	case "debug":
		return arbor.DebugLevel
	default:
		return arbor.InfoLevel
	}
}

// levelLabel maps arbor log levels to UI strings
func levelLabel(level arbor.LogLevel) string {
	switch level {
	case arbor.ErrorLevel:
		return "error"
	case arbor.WarnLevel:
		return "warn"
	case arbor.InfoLevel:
		return "info"
	case arbor.DebugLevel:
		return "debug"
	default:
		return "info"
	}
}
