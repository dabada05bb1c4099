package config

import "fmt"

const (
	// DefaultAPIBaseURL is the Discord REST endpoint used when none is configured.
	DefaultAPIBaseURL = "https://discord.com/api/v10"

	// DefaultTimeoutSeconds bounds a single REST call.
	DefaultTimeoutSeconds = 30
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Discord: DiscordConfig{
			APIBaseURL:     DefaultAPIBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
