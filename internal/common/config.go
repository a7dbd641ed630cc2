package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// Config represents the application configuration.
// Invariants are enforced with go-playground/validator tags; Validate runs
// after file and environment overrides are applied.
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development production"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	WebSocket   WebSocketConfig `toml:"websocket"`
	Sleeper     SleeperConfig   `toml:"sleeper"`
	Yahoo       YahooConfig     `toml:"yahoo"`
	GroupMe     GroupMeConfig   `toml:"groupme"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	LLM         LLMConfig       `toml:"llm"`
	Recap       RecapConfig     `toml:"recap"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Keys        KeysDirConfig   `toml:"keys"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Type   string       `toml:"type" validate:"omitempty,oneof=badger"`
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string   `toml:"format" validate:"oneof=json text"`
	Output []string `toml:"output" validate:"dive,oneof=stdout file"`
}

// WebSocketConfig contains configuration for WebSocket log/event streaming
type WebSocketConfig struct {
	MinLevel        string   `toml:"min_level"`        // Minimum log level to broadcast ("debug", "info", "warn", "error")
	ExcludePatterns []string `toml:"exclude_patterns"` // Log message patterns to exclude from broadcasting
}

// SleeperConfig contains Sleeper API client configuration
type SleeperConfig struct {
	BaseURL        string        `toml:"base_url"`        // Sleeper API base URL
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
	RatePerSecond  float64       `toml:"rate_per_second"` // Requests per second allowed against the API
	RateBurst      int           `toml:"rate_burst"`      // Burst size for the rate limiter
}

// YahooConfig contains Yahoo Fantasy Sports OAuth and API configuration
type YahooConfig struct {
	Enabled        bool          `toml:"enabled"`
	ClientID       string        `toml:"client_id"`
	ClientSecret   string        `toml:"client_secret"`
	RedirectURL    string        `toml:"redirect_url"`
	BaseURL        string        `toml:"base_url"` // Fantasy Sports API base URL
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// GroupMeConfig contains GroupMe bot API configuration
type GroupMeConfig struct {
	BaseURL        string        `toml:"base_url"` // GroupMe API base URL
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxRetries     int           `toml:"max_retries"` // Post retries before giving up
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for paraphrase operations
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for paraphrase operations
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains unified configuration for AI paraphrasing
type LLMConfig struct {
	// Paraphrase recaps through an LLM when true
	Enabled bool `toml:"enabled"`
	// Provider used when a league does not pick one: "claude" or "gemini"
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=claude gemini"`
}

// RecapConfig contains recap generation defaults
type RecapConfig struct {
	DefaultStyle   string `toml:"default_style"`   // "standard", "emoji", "formal", "casual"
	DefaultPersona string `toml:"default_persona"` // "witty", "professional", "roastmaster", "hype", "analyst"
	// Cleanup deletes weekly data older than this
	RetentionDays int `toml:"retention_days" validate:"min=0"`
}

// SchedulerConfig contains cron schedules for the recurring jobs
type SchedulerConfig struct {
	Enabled               bool   `toml:"enabled"`
	Timezone              string `toml:"timezone"`                 // IANA zone for all schedules
	PowerRankingsCron     string `toml:"power_rankings_cron"`      // Weekly power rankings recap
	WaiverRecapCron       string `toml:"waiver_recap_cron"`        // Weekly waiver activity recap
	LeagueSyncCron        string `toml:"league_sync_cron"`         // Regular league data sync
	LeagueSyncGameDayCron string `toml:"league_sync_gameday_cron"` // Extra syncs around game days
	CleanupCron           string `toml:"cleanup_cron"`             // Old data cleanup
	HealthCheckCron       string `toml:"health_check_cron"`        // Storage health check
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in aicommissioner.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		WebSocket: WebSocketConfig{
			MinLevel: "info",
			ExcludePatterns: []string{
				"WebSocket client connected",
				"WebSocket client disconnected",
				"HTTP request",
				"HTTP response",
				"Publishing event",
			},
		},
		Sleeper: SleeperConfig{
			BaseURL:        "https://api.sleeper.app/v1",
			RequestTimeout: 30 * time.Second,
			RatePerSecond:  10, // Sleeper allows ~1000/min; stay well under
			RateBurst:      5,
		},
		Yahoo: YahooConfig{
			Enabled:        false,
			BaseURL:        "https://fantasysports.yahooapis.com/fantasy/v2",
			RedirectURL:    "oob",
			RequestTimeout: 30 * time.Second,
		},
		GroupMe: GroupMeConfig{
			BaseURL:        "https://api.groupme.com/v3",
			RequestTimeout: 15 * time.Second,
			MaxRetries:     3,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   500, // Recaps target 200-400 words
			Timeout:     "2m",
			Temperature: 0.8,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			Temperature: 0.8,
		},
		LLM: LLMConfig{
			Enabled:         false, // Deterministic recaps unless a provider is configured
			DefaultProvider: LLMProviderClaude,
		},
		Recap: RecapConfig{
			DefaultStyle:   "standard",
			DefaultPersona: "witty",
			RetentionDays:  730, // Two seasons of history
		},
		Scheduler: SchedulerConfig{
			Enabled:               true,
			Timezone:              "America/Chicago",
			PowerRankingsCron:     "0 9 * * 2",     // Tuesday 9:00 AM, after Monday night games settle
			WaiverRecapCron:       "0 9 * * 3",     // Wednesday 9:00 AM, after waivers clear
			LeagueSyncCron:        "0 6,18 * * *",  // Twice daily
			LeagueSyncGameDayCron: "0 */2 * * 0,1", // Every 2 hours on Sunday and Monday
			CleanupCron:           "0 2 * * 0",     // Sunday 2:00 AM
			HealthCheckCron:       "*/15 * * * *",
		},
		Keys: KeysDirConfig{
			Dir: "./keys",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks configuration invariants using go-playground/validator.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AICOMMISSIONER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("AICOMMISSIONER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AICOMMISSIONER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("AICOMMISSIONER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("AICOMMISSIONER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("AICOMMISSIONER_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("AICOMMISSIONER_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Sleeper configuration
	if baseURL := os.Getenv("AICOMMISSIONER_SLEEPER_BASE_URL"); baseURL != "" {
		config.Sleeper.BaseURL = baseURL
	}
	if timeout := os.Getenv("AICOMMISSIONER_SLEEPER_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Sleeper.RequestTimeout = d
		}
	}

	// Yahoo configuration
	if enabled := os.Getenv("AICOMMISSIONER_YAHOO_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Yahoo.Enabled = e
		}
	}
	if clientID := os.Getenv("AICOMMISSIONER_YAHOO_CLIENT_ID"); clientID != "" {
		config.Yahoo.ClientID = clientID
	}
	if clientSecret := os.Getenv("AICOMMISSIONER_YAHOO_CLIENT_SECRET"); clientSecret != "" {
		config.Yahoo.ClientSecret = clientSecret
	}
	if redirectURL := os.Getenv("AICOMMISSIONER_YAHOO_REDIRECT_URL"); redirectURL != "" {
		config.Yahoo.RedirectURL = redirectURL
	}

	// GroupMe configuration
	if baseURL := os.Getenv("AICOMMISSIONER_GROUPME_BASE_URL"); baseURL != "" {
		config.GroupMe.BaseURL = baseURL
	}
	if maxRetries := os.Getenv("AICOMMISSIONER_GROUPME_MAX_RETRIES"); maxRetries != "" {
		if mr, err := strconv.Atoi(maxRetries); err == nil {
			config.GroupMe.MaxRetries = mr
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("AICOMMISSIONER_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // AICOMMISSIONER_ prefix takes priority
	}
	if model := os.Getenv("AICOMMISSIONER_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("AICOMMISSIONER_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("AICOMMISSIONER_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("AICOMMISSIONER_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// LLM provider configuration
	if enabled := os.Getenv("AICOMMISSIONER_LLM_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.LLM.Enabled = e
		}
	}
	if provider := os.Getenv("AICOMMISSIONER_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Recap configuration
	if style := os.Getenv("AICOMMISSIONER_RECAP_DEFAULT_STYLE"); style != "" {
		config.Recap.DefaultStyle = style
	}
	if persona := os.Getenv("AICOMMISSIONER_RECAP_DEFAULT_PERSONA"); persona != "" {
		config.Recap.DefaultPersona = persona
	}
	if retention := os.Getenv("AICOMMISSIONER_RECAP_RETENTION_DAYS"); retention != "" {
		if r, err := strconv.Atoi(retention); err == nil && r > 0 {
			config.Recap.RetentionDays = r
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("AICOMMISSIONER_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if tz := os.Getenv("AICOMMISSIONER_SCHEDULER_TIMEZONE"); tz != "" {
		config.Scheduler.Timezone = tz
	}

	// WebSocket configuration
	if minLevel := os.Getenv("AICOMMISSIONER_WEBSOCKET_MIN_LEVEL"); minLevel != "" {
		config.WebSocket.MinLevel = minLevel
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ValidateSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Location resolves the scheduler timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables → KV store → config fallback → error.
// This ensures keys set in the environment always win over stored ones.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"claude_api_key": {"ANTHROPIC_API_KEY", "AICOMMISSIONER_CLAUDE_API_KEY"},
		"gemini_api_key": {"AICOMMISSIONER_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}
