package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/cordkit/internal/config"
)

// DefaultCommandTimeout bounds a hook command without an explicit timeout.
const DefaultCommandTimeout = 10 * time.Second

// CommandHandler returns a Handler that runs command through "sh -c" with the
// JSON-encoded payload on stdin. A non-zero exit becomes the handler error and
// carries the command's combined output.
func CommandHandler(command string, timeout time.Duration) Handler {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return func(ctx context.Context, p Payload) error {
		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding hook payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdin = bytes.NewReader(input)
		cmd.Env = append(cmd.Environ(), "CORDKIT_EVENT="+p.Event)
		cmd.WaitDelay = time.Second

		output, err := cmd.CombinedOutput()
		if err != nil {
			out := strings.TrimSpace(string(output))
			if out == "" {
				return fmt.Errorf("command %q: %w", command, err)
			}
			return fmt.Errorf("command %q: %w: %s", command, err, out)
		}
		return nil
	}
}

// RegisterConfig registers a command handler for every configured hook entry.
func (m *Manager) RegisterConfig(cfg config.HooksConfig) {
	register := func(event string, entries []config.HookEntry) {
		for i, e := range entries {
			name := fmt.Sprintf("config:%s[%d]", event, i)
			m.On(event, name, CommandHandler(e.Command, time.Duration(e.Timeout)*time.Millisecond))
		}
	}
	register(EventMessageSending, cfg.MessageSending)
	register(EventMessageSent, cfg.MessageSent)
	register(EventMessageDeleted, cfg.MessageDeleted)
	register(EventSendFailed, cfg.SendFailed)
}
