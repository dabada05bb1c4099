package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyeahso/cordkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- CommandHandler tests ---

func TestCommandHandler_ReceivesPayload(t *testing.T) {
	out := filepath.Join(t.TempDir(), "payload.json")
	h := CommandHandler("cat > "+out, time.Second)

	err := h(context.Background(), Payload{
		Event: EventMessageSent,
		Data:  map[string]any{"message_id": "175928847299117063"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"message_sent","data":{"message_id":"175928847299117063"}}`, string(data))
}

func TestCommandHandler_EventEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "event.txt")
	h := CommandHandler(`printf "%s" "$CORDKIT_EVENT" > `+out, time.Second)

	require.NoError(t, h(context.Background(), Payload{Event: EventMessageDeleted}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, EventMessageDeleted, string(data))
}

func TestCommandHandler_Failure(t *testing.T) {
	h := CommandHandler("echo nope >&2; exit 3", time.Second)

	err := h(context.Background(), Payload{Event: EventMessageSending})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestCommandHandler_Timeout(t *testing.T) {
	h := CommandHandler("sleep 5", 50*time.Millisecond)

	start := time.Now()
	err := h(context.Background(), Payload{Event: EventMessageSending})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

// --- RegisterConfig tests ---

func TestRegisterConfig(t *testing.T) {
	m := testManager()
	m.RegisterConfig(config.HooksConfig{
		MessageSending: []config.HookEntry{{Command: "true"}, {Command: "exit 1"}},
		MessageSent:    []config.HookEntry{{Command: "true", Timeout: 500}},
		SendFailed:     []config.HookEntry{{Command: "true"}},
	})

	assert.Equal(t, 2, m.Count(EventMessageSending))
	assert.Equal(t, 1, m.Count(EventMessageSent))
	assert.Equal(t, 0, m.Count(EventMessageDeleted))
	assert.Equal(t, 1, m.Count(EventSendFailed))

	err := m.Run(context.Background(), EventMessageSending, nil)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "config:message_sending[1]", rejected.Handler)
}
