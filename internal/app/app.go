package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/handlers"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/services/events"
	"github.com/kforero17/aicommissioner/internal/services/export"
	"github.com/kforero17/aicommissioner/internal/services/ingest"
	"github.com/kforero17/aicommissioner/internal/services/ingest/sleeper"
	"github.com/kforero17/aicommissioner/internal/services/ingest/yahoo"
	"github.com/kforero17/aicommissioner/internal/services/llm"
	"github.com/kforero17/aicommissioner/internal/services/mailer"
	"github.com/kforero17/aicommissioner/internal/services/maintenance"
	"github.com/kforero17/aicommissioner/internal/services/pdf"
	"github.com/kforero17/aicommissioner/internal/services/publish"
	"github.com/kforero17/aicommissioner/internal/services/recap"
	"github.com/kforero17/aicommissioner/internal/services/render"
	"github.com/kforero17/aicommissioner/internal/services/scheduler"
	"github.com/kforero17/aicommissioner/internal/services/status"
	"github.com/kforero17/aicommissioner/internal/services/summary"
	"github.com/kforero17/aicommissioner/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event bus and application state
	EventService  interfaces.EventService
	StatusService *status.Service

	// League data pipeline
	SyncService    interfaces.SyncService
	SummaryService interfaces.SummaryService

	// Recap generation and delivery
	RenderService interfaces.RenderService
	RecapWriter   interfaces.RecapWriter // nil when LLM paraphrasing is disabled
	ChatPublisher interfaces.ChatPublisher
	MailerService *mailer.Service
	RecapService  interfaces.RecapService

	// PDF report generation
	PDFService    interfaces.PDFService
	ExportService *export.Service

	// Background jobs and storage upkeep
	SchedulerService   interfaces.SchedulerService
	MaintenanceService interfaces.MaintenanceService

	// Yahoo OAuth token persistence
	TokenStore *yahoo.TokenStore

	// Log streaming to WebSocket clients
	LogStreamer *handlers.WebSocketLogStreamer

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	WSHandler        *handlers.WebSocketHandler
	LeagueHandler    *handlers.LeagueHandler
	RecapHandler     *handlers.RecapHandler
	SummaryHandler   *handlers.SummaryHandler
	SchedulerHandler *handlers.SchedulerHandler
	AuthHandler      *handlers.AuthHandler
	StatusHandler    *handlers.StatusHandler
	MailerHandler    *handlers.MailerHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize event service and WebSocket handler early so every
	// service constructed below can publish through them
	app.EventService = events.NewService(app.Logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, app.Logger)

	// Route arbor log batches through the WebSocket streamer so the
	// admin UI sees server logs live
	app.LogStreamer = handlers.NewWebSocketLogStreamer(app.WSHandler, &app.Config.WebSocket)
	app.LogStreamer.Start()
	app.Logger.SetChannel("websocket", app.LogStreamer.Channel())

	// Mirror every bus event into the log stream
	if err := events.SubscribeLoggerToAllEvents(app.EventService, app.Logger); err != nil {
		return nil, fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Bool("llm_enabled", app.RecapWriter != nil).
		Bool("yahoo_enabled", cfg.Yahoo.Enabled).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	ctx := context.Background()

	// Load API keys and credentials from TOML files into the KV store
	if err := a.StorageManager.LoadVariablesFromFiles(ctx, a.Config.Keys.Dir); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load variables from files")
	}

	// .env values take precedence over TOML variables
	if err := a.StorageManager.LoadEnvFile(ctx, ".env"); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	// Resolve {key-name} references in config values against the KV store.
	// Must happen before services are initialized so API keys resolve.
	kvMap, err := a.StorageManager.KVStorage().GetAll(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to fetch KV map for config replacement, skipping replacement")
	} else if len(kvMap) > 0 {
		if err := common.ReplaceInStruct(a.Config, kvMap, a.Logger); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to replace key references in config")
		}
	}

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	// 1. Summary aggregation over synced league data
	a.SummaryService = summary.NewService(
		a.StorageManager.LeagueStorage(),
		a.StorageManager.RosterStorage(),
		a.StorageManager.MatchupStorage(),
		a.StorageManager.TransactionStorage(),
		a.Logger,
	)
	a.Logger.Debug().Msg("Summary service initialized")

	// 2. Render service (deterministic recap text)
	a.RenderService = render.NewService(a.Logger)
	a.Logger.Debug().Msg("Render service initialized")

	// 3. LLM recap writer (optional - recaps fall back to rendered text)
	if a.Config.LLM.Enabled {
		writer, err := llm.NewRecapWriter(a.Config, a.Logger)
		if err != nil {
			a.RecapWriter = nil
			a.Logger.Warn().Err(err).Msg("Failed to initialize recap writer - recaps will use deterministic text")
			a.Logger.Info().Msg("To enable AI recaps, set a valid claude or gemini API key in config")
		} else {
			a.RecapWriter = writer
			a.Logger.Debug().
				Str("provider", string(a.Config.LLM.DefaultProvider)).
				Msg("Recap writer initialized")
		}
	} else {
		a.Logger.Debug().Msg("Recap writer not initialized (LLM paraphrasing disabled)")
	}

	// 4. Provider clients and sync service
	a.TokenStore = yahoo.NewTokenStore(a.StorageManager.KVStorage(), a.Logger)

	clients := []interfaces.ProviderClient{
		sleeper.NewClient(
			sleeper.WithBaseURL(a.Config.Sleeper.BaseURL),
			sleeper.WithLogger(a.Logger),
			sleeper.WithTimeout(a.Config.Sleeper.RequestTimeout),
			sleeper.WithRateLimit(a.Config.Sleeper.RatePerSecond, a.Config.Sleeper.RateBurst),
		),
	}

	if a.Config.Yahoo.Enabled {
		src, err := a.TokenStore.TokenSource(context.Background(), yahoo.OAuthConfig(&a.Config.Yahoo))
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Yahoo client not started - no usable OAuth token")
			a.Logger.Info().Msg("To sync Yahoo leagues, connect an account at /api/auth/yahoo/login and restart")
		} else {
			clients = append(clients, yahoo.NewClient(src,
				yahoo.WithBaseURL(a.Config.Yahoo.BaseURL),
				yahoo.WithLogger(a.Logger),
				yahoo.WithTimeout(a.Config.Yahoo.RequestTimeout),
			))
		}
	}

	a.SyncService = ingest.NewService(a.StorageManager, a.EventService, a.Logger, clients...)
	a.Logger.Debug().Int("providers", len(clients)).Msg("Sync service initialized")

	// 5. Delivery publishers. Both are always constructed: GroupMe bot IDs
	// live on each league, and the mailer gates itself on stored SMTP config.
	a.ChatPublisher = publish.NewGroupMePublisher(
		publish.WithBaseURL(a.Config.GroupMe.BaseURL),
		publish.WithLogger(a.Logger),
		publish.WithTimeout(a.Config.GroupMe.RequestTimeout),
		publish.WithMaxRetries(a.Config.GroupMe.MaxRetries),
	)
	a.MailerService = mailer.NewService(a.StorageManager.KVStorage(), a.RenderService, a.Logger)
	a.Logger.Debug().Msg("Publishers initialized")

	// 6. PDF report generation
	a.PDFService = pdf.NewService(a.Logger)
	a.ExportService = export.NewService(a.StorageManager, a.PDFService, a.Logger)
	a.Logger.Debug().Msg("Export service initialized")

	// 7. Recap orchestration
	a.RecapService = recap.NewService(
		a.StorageManager,
		a.SummaryService,
		a.RenderService,
		a.RecapWriter,
		a.ChatPublisher,
		a.MailerService,
		a.EventService,
		a.Logger,
	)
	a.Logger.Debug().Msg("Recap service initialized")

	// 8. Storage maintenance (retention cleanup, health checks)
	a.MaintenanceService = maintenance.NewService(a.Config, a.StorageManager, a.EventService, a.Logger)
	a.Logger.Debug().Msg("Maintenance service initialized")

	// 9. Scheduler with the built-in recurring jobs
	a.SchedulerService = scheduler.NewService(a.Config, a.Logger)
	if err := scheduler.RegisterDefaultJobs(a.SchedulerService, a.Config, a.RecapService, a.SyncService, a.MaintenanceService); err != nil {
		return fmt.Errorf("failed to register scheduler jobs: %w", err)
	}
	if a.Config.Scheduler.Enabled {
		if err := a.SchedulerService.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		a.Logger.Debug().Msg("Scheduler service started")
	} else {
		a.Logger.Info().Msg("Scheduler disabled - recurring jobs will not run")
	}

	// 10. Status service tracks sync and recap activity for the UI
	a.StatusService = status.NewService(a.EventService, a.Logger)
	a.StatusService.SubscribeToEvents()
	a.Logger.Debug().Msg("Status service initialized")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler()
	// WSHandler already initialized in New() before the log streamer

	a.LeagueHandler = handlers.NewLeagueHandler(a.StorageManager, a.SyncService, a.Logger)
	a.RecapHandler = handlers.NewRecapHandler(a.RecapService, a.Logger)
	a.SummaryHandler = handlers.NewSummaryHandler(a.StorageManager, a.ExportService, a.Logger)
	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService, a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(&a.Config.Yahoo, a.TokenStore, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.StorageManager, a.Logger)
	a.MailerHandler = handlers.NewMailerHandler(a.MailerService, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}

// Close shuts down services in reverse dependency order. Storage closes
// last so every service can still flush writes.
func (a *App) Close() error {
	// Stop scheduler service
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Stop log streaming before closing the event bus so shutdown logs
	// do not race the closing WebSocket clients
	if a.LogStreamer != nil {
		a.LogStreamer.Stop()
		a.Logger.Info().Msg("Log streamer stopped")
	}

	// Close event service
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	// Close storage
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
