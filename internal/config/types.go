package config

// Config is the root configuration for the cordkit CLI.
type Config struct {
	Discord DiscordConfig `yaml:"discord,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Hooks   HooksConfig   `yaml:"hooks,omitempty"`
}

// DiscordConfig controls the REST client.
type DiscordConfig struct {
	Token          string `yaml:"token,omitempty"` // may be written as ${DISCORD_TOKEN}
	APIBaseURL     string `yaml:"apiBaseUrl,omitempty"`
	UserAgent      string `yaml:"userAgent,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
	DefaultChannel string `yaml:"defaultChannel,omitempty"` // snowflake used when --channel is omitted
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// StoreConfig controls the local message log.
type StoreConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // defaults to true
	Path    string `yaml:"path,omitempty"`    // defaults to <base>/data/cordkit.db
}

// IsEnabled reports whether the message log should be opened.
func (s StoreConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// HooksConfig defines commands run around message sends.
type HooksConfig struct {
	MessageSending []HookEntry `yaml:"messageSending,omitempty"`
	MessageSent    []HookEntry `yaml:"messageSent,omitempty"`
	MessageDeleted []HookEntry `yaml:"messageDeleted,omitempty"`
	SendFailed     []HookEntry `yaml:"sendFailed,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
