package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyeahso/cordkit/internal/config"
	"github.com/soyeahso/cordkit/internal/hooks"
	"github.com/soyeahso/cordkit/internal/store"
	"github.com/soyeahso/cordkit/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cordkit status and configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cordkit %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintf(out, "Logs:    %s\n", paths.Logs)
			fmt.Fprintln(out)

			// Discord
			token := "(not set)"
			if cfg.Discord.Token != "" {
				token = maskToken(cfg.Discord.Token)
			}
			fmt.Fprintf(out, "API:     %s timeout=%ds\n", cfg.Discord.APIBaseURL, cfg.Discord.TimeoutSeconds)
			fmt.Fprintf(out, "Token:   %s\n", token)
			if cfg.Discord.DefaultChannel != "" {
				fmt.Fprintf(out, "Channel: %s\n", cfg.Discord.DefaultChannel)
			} else {
				fmt.Fprintln(out, "Channel: (no default)")
			}

			// Store
			if cfg.Store.IsEnabled() {
				dbPath := paths.StorePath(cfg.Store)
				summary, err := storeSummary(cmd.Context(), dbPath)
				if err != nil {
					fmt.Fprintf(out, "Store:   %s (error: %v)\n", dbPath, err)
				} else {
					fmt.Fprintf(out, "Store:   %s %s\n", dbPath, summary)
				}
			} else {
				fmt.Fprintln(out, "Store:   disabled")
			}

			// Hooks
			hm := newHookManager()
			if len(hm.Events()) == 0 {
				fmt.Fprintln(out, "Hooks:   none")
			} else {
				counts := make([]string, 0, len(hooks.AllEvents))
				for _, ev := range hooks.AllEvents {
					counts = append(counts, fmt.Sprintf("%s=%d", ev, hm.Count(ev)))
				}
				fmt.Fprintf(out, "Hooks:   %s\n", strings.Join(counts, " "))
			}

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			return nil
		},
	}

	return cmd
}

func storeSummary(ctx context.Context, path string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := store.Open(path, log)
	if err != nil {
		return "", err
	}
	defer db.Close()

	schema, err := db.SchemaVersion(ctx)
	if err != nil {
		return "", err
	}
	n, err := store.NewMessageLog(db).Count(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("schema=v%d entries=%d", schema, n), nil
}

// maskToken keeps the first segment of a bot token, which only encodes the
// bot's user id.
func maskToken(token string) string {
	if id, _, ok := strings.Cut(token, "."); ok {
		return id + ".****"
	}
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
