package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/cordkit/internal/hooks"
	"github.com/soyeahso/cordkit/internal/store"
	"github.com/soyeahso/cordkit/rest"
	"github.com/soyeahso/cordkit/snowflake"
)

var errNoToken = errors.New("no bot token configured; set discord.token or CORDKIT_TOKEN")

// newRESTClient builds a client from the loaded config.
func newRESTClient() (*rest.Client, error) {
	if cfg.Discord.Token == "" {
		return nil, errNoToken
	}
	return rest.NewClient(rest.Options{
		BaseURL:   cfg.Discord.APIBaseURL,
		Token:     cfg.Discord.Token,
		UserAgent: cfg.Discord.UserAgent,
		Timeout:   time.Duration(cfg.Discord.TimeoutSeconds) * time.Second,
		Logger:    log.Sub("rest").Zerolog(),
	}), nil
}

// openMessageLog opens the local message log. It returns a nil log and a
// no-op close when the store is disabled.
func openMessageLog() (*store.MessageLog, func(), error) {
	if !cfg.Store.IsEnabled() {
		return nil, func() {}, nil
	}
	db, err := store.Open(paths.StorePath(cfg.Store), log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening message log: %w", err)
	}
	return store.NewMessageLog(db), func() { db.Close() }, nil
}

// newHookManager returns a manager with the configured command hooks.
func newHookManager() *hooks.Manager {
	m := hooks.NewManager(log)
	m.RegisterConfig(cfg.Hooks)
	return m
}

// resolveChannel parses the --channel flag, falling back to the configured
// default channel.
func resolveChannel(flag string) (snowflake.Snowflake, error) {
	raw := flag
	if raw == "" {
		raw = cfg.Discord.DefaultChannel
	}
	if raw == "" {
		return 0, errors.New("no channel given; pass --channel or set discord.defaultChannel")
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("channel: %w", err)
	}
	return id, nil
}

// parseIDs parses message id arguments.
func parseIDs(args []string) ([]snowflake.Snowflake, error) {
	ids := make([]snowflake.Snowflake, 0, len(args))
	for _, a := range args {
		id, err := snowflake.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("message id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
