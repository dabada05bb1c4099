package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so the bot token can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Discord.Token = expandEnvVars(cfg.Discord.Token)
	for i := range cfg.Hooks.MessageSending {
		cfg.Hooks.MessageSending[i].Command = expandEnvVars(cfg.Hooks.MessageSending[i].Command)
	}
	for i := range cfg.Hooks.MessageSent {
		cfg.Hooks.MessageSent[i].Command = expandEnvVars(cfg.Hooks.MessageSent[i].Command)
	}
	for i := range cfg.Hooks.MessageDeleted {
		cfg.Hooks.MessageDeleted[i].Command = expandEnvVars(cfg.Hooks.MessageDeleted[i].Command)
	}
	for i := range cfg.Hooks.SendFailed {
		cfg.Hooks.SendFailed[i].Command = expandEnvVars(cfg.Hooks.SendFailed[i].Command)
	}
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	expandSensitiveFields(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment so ${VAR} references and CORDKIT_* overrides can use them.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return &ConfigError{Message: "failed to load env file: " + err.Error()}
	}
	return nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Discord.APIBaseURL == "" {
		cfg.Discord.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.Discord.TimeoutSeconds == 0 {
		cfg.Discord.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
}

// applyEnvOverrides reads CORDKIT_* environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CORDKIT_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("CORDKIT_API_BASE_URL"); v != "" {
		cfg.Discord.APIBaseURL = v
	}
	if v := os.Getenv("CORDKIT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Discord.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("CORDKIT_CHANNEL"); v != "" {
		cfg.Discord.DefaultChannel = v
	}
	if v := os.Getenv("CORDKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CORDKIT_DB"); v != "" {
		cfg.Store.Path = v
	}
}
