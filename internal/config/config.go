package config

import "path/filepath"

// Config is the main Native OS dispatcher configuration.
type Config struct {
	// DataDir is the state directory, default ~/.nativeos
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// AgentsRoot is the directory holding the agent scripts; the built-in
	// descriptor set resolves targets relative to it
	AgentsRoot string `json:"agents_root" mapstructure:"agents_root"`

	// AgentsManifest optionally overrides or extends the built-in agent
	// set; validated against a JSON schema at load time
	AgentsManifest string `json:"agents_manifest" mapstructure:"agents_manifest"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Invoker
	Invoker InvokerConfig `json:"invoker" mapstructure:"invoker"`

	// History
	History HistoryConfig `json:"history" mapstructure:"history"`

	// Gateway
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Maintenance
	Maintenance MaintenanceConfig `json:"maintenance" mapstructure:"maintenance"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// InvokerConfig holds subprocess execution settings.
type InvokerConfig struct {
	// TimeoutSeconds bounds each agent invocation
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// HistoryConfig holds dispatch history settings.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// GatewayConfig holds gateway server settings.
type GatewayConfig struct {
	Enabled      bool   `json:"enabled" mapstructure:"enabled"`
	Port         int    `json:"port" mapstructure:"port"`
	SharedSecret string `json:"shared_secret" mapstructure:"shared_secret"`
}

// MaintenanceConfig holds the scheduled self-optimize settings.
type MaintenanceConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Cron    string `json:"cron" mapstructure:"cron"`
}

// DefaultConfig returns the configuration used when no file exists.
// Paths left empty here are derived from DataDir by the loader.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
		Invoker: InvokerConfig{
			TimeoutSeconds: 120,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Gateway: GatewayConfig{
			Enabled: false,
			Port:    8789,
		},
		Maintenance: MaintenanceConfig{
			Enabled: false,
			Cron:    "0 3 * * *",
		},
	}
}

// applyDerivedPaths fills path fields that default relative to DataDir.
func (c *Config) applyDerivedPaths() {
	if c.AgentsRoot == "" {
		c.AgentsRoot = c.DataDir
	}
	if c.AgentsManifest == "" {
		c.AgentsManifest = filepath.Join(c.DataDir, "agents.json")
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.DataDir, "logs", "dispatcher.log")
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.DataDir, "history.db")
	}
}
