package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/soyeahso/cordkit/snowflake"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Discord validation
	if cfg.Discord.APIBaseURL != "" {
		u, err := url.Parse(cfg.Discord.APIBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "discord.apiBaseUrl",
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Discord.APIBaseURL),
			})
		}
	}

	if cfg.Discord.TimeoutSeconds < 0 || cfg.Discord.TimeoutSeconds > 600 {
		issues = append(issues, ValidationIssue{
			Path:    "discord.timeoutSeconds",
			Message: fmt.Sprintf("must be 0-600, got %d", cfg.Discord.TimeoutSeconds),
		})
	}

	if cfg.Discord.DefaultChannel != "" {
		if _, err := snowflake.Parse(cfg.Discord.DefaultChannel); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "discord.defaultChannel",
				Message: fmt.Sprintf("must be a snowflake, got %q", cfg.Discord.DefaultChannel),
			})
		}
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Hooks validation
	hookLists := []struct {
		path    string
		entries []HookEntry
	}{
		{"hooks.messageSending", cfg.Hooks.MessageSending},
		{"hooks.messageSent", cfg.Hooks.MessageSent},
		{"hooks.messageDeleted", cfg.Hooks.MessageDeleted},
		{"hooks.sendFailed", cfg.Hooks.SendFailed},
	}
	for _, list := range hookLists {
		for i, h := range list.entries {
			if h.Command == "" {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].command", list.path, i),
					Message: "command is required",
				})
			}
			if h.Timeout < 0 {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].timeout", list.path, i),
					Message: fmt.Sprintf("must not be negative, got %d", h.Timeout),
				})
			}
		}
	}

	return issues
}
