package common

// KeysDirConfig contains configuration for key/value file loading.
// API keys and SMTP credentials loaded this way land in the KV store,
// where {key-name} references in config values can resolve them.
type KeysDirConfig struct {
	// Dir is the directory containing key/value files in TOML format
	// Each TOML file has [section-name] entries with 'value' and optional 'description' fields
	// Default: ./keys
	Dir string `toml:"dir"`
}
