package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannel = "41771983423143937"

const sentMessageJSON = `{
	"id": "175928847299117063",
	"channel_id": "41771983423143937",
	"author": {"id": "1", "username": "cordbot", "bot": true},
	"content": "hello from cli",
	"timestamp": "2016-04-30T11:18:25.796000+00:00",
	"embeds": [],
	"attachments": [],
	"type": 0
}`

// testHome isolates a command run in a fresh CORDKIT_HOME.
func testHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CORDKIT_HOME", dir)
	for _, k := range []string{"CORDKIT_TOKEN", "CORDKIT_API_BASE_URL", "CORDKIT_CHANNEL", "CORDKIT_LOG_LEVEL", "CORDKIT_DB", "CORDKIT_TIMEOUT"} {
		t.Setenv(k, "")
	}
	return dir
}

// fakeDiscord serves the handler and points the CLI at it.
func fakeDiscord(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("CORDKIT_API_BASE_URL", srv.URL)
	t.Setenv("CORDKIT_TOKEN", "test-token")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--log-level", "silent"}, args...))
	err := execute(cmd)
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// --- version/status tests ---

func TestVersionCmd(t *testing.T) {
	testHome(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cordkit dev")
	assert.Contains(t, out, "DiscordBot (https://github.com/soyeahso/cordkit, dev)")
}

func TestStatusCmd(t *testing.T) {
	home := testHome(t)
	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, "config.yaml"))
	assert.Contains(t, out, "Token:   (not set)")
	assert.Contains(t, out, "schema=v2 entries=0")
	assert.Contains(t, out, "Hooks:   none")
}

func TestStatusCmd_Hooks(t *testing.T) {
	testHome(t)
	cfgPath := writeFile(t, "config.yaml", "hooks:\n  sendFailed:\n    - command: \"true\"\n  messageSent:\n    - command: \"true\"\n    - command: \"true\"\n")
	out, err := run(t, "--config", cfgPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "message_sent=2")
	assert.Contains(t, out, "send_failed=1")
	assert.Contains(t, out, "message_sending=0")
}

func TestExecute_ClosesLogOnError(t *testing.T) {
	home := testHome(t)
	logFile := filepath.Join(home, "logs", "cordkit.log")
	cfgPath := writeFile(t, "config.yaml", "logging:\n  file: "+logFile+"\n")

	_, err := run(t, "--config", cfgPath, "snowflake", "decode", "12ab")
	require.Error(t, err)
	assert.Nil(t, logCloser)
	assert.FileExists(t, logFile)
}

func TestStatusCmd_ValidationIssues(t *testing.T) {
	testHome(t)
	t.Setenv("CORDKIT_CHANNEL", "general")
	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "discord.defaultChannel: must be a snowflake")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "MTIz.****", maskToken("MTIz.abc.def"))
	assert.Equal(t, "abcd****", maskToken("abcdefgh"))
	assert.Equal(t, "****", maskToken("abc"))
}

// --- config tests ---

func TestConfigSetGetUnset(t *testing.T) {
	testHome(t)

	_, err := run(t, "config", "set", "discord.defaultChannel", testChannel)
	require.NoError(t, err)

	out, err := run(t, "config", "get", "discord.defaultChannel")
	require.NoError(t, err)
	assert.Equal(t, testChannel+"\n", out)

	_, err = run(t, "config", "set", "discord.timeoutSeconds", "12")
	require.NoError(t, err)
	out, err = run(t, "config", "get", "discord")
	require.NoError(t, err)
	assert.Contains(t, out, "timeoutSeconds: 12")

	_, err = run(t, "config", "unset", "discord.defaultChannel")
	require.NoError(t, err)
	_, err = run(t, "config", "get", "discord.defaultChannel")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	home := testHome(t)
	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml")+"\n", out)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, false, parseValue("FALSE"))
	assert.Equal(t, 42, parseValue("42"))
	assert.Equal(t, testChannel, parseValue(testChannel))
	assert.Equal(t, "info", parseValue("info"))
}

// --- snowflake tests ---

func TestSnowflakeDecode(t *testing.T) {
	testHome(t)
	out, err := run(t, "snowflake", "decode", "175928847299117063")
	require.NoError(t, err)
	assert.Contains(t, out, "timestamp: 2016-04-30T11:18:25.796Z")
	assert.Contains(t, out, "worker:    1")
	assert.Contains(t, out, "process:   0")
	assert.Contains(t, out, "increment: 7")
}

func TestSnowflakeDecode_JSON(t *testing.T) {
	testHome(t)
	out, err := run(t, "sf", "decode", "--json", "175928847299117063")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "175928847299117063", decoded[0]["id"])
	assert.Equal(t, float64(7), decoded[0]["increment"])
}

func TestSnowflakeDecode_Invalid(t *testing.T) {
	testHome(t)
	_, err := run(t, "snowflake", "decode", "12ab")
	assert.Error(t, err)
}

func TestSnowflakeBuild(t *testing.T) {
	testHome(t)
	out, err := run(t, "snowflake", "build", "--millis", "1462015105796", "--worker", "1", "--increment", "7")
	require.NoError(t, err)
	assert.Equal(t, "175928847299117063\n", out)

	out, err = run(t, "snowflake", "build", "--time", "2016-04-30T11:18:25.796Z", "--worker", "1", "--increment", "7")
	require.NoError(t, err)
	assert.Equal(t, "175928847299117063\n", out)
}

func TestSnowflakeBuild_Rejects(t *testing.T) {
	testHome(t)
	_, err := run(t, "snowflake", "build", "--worker", "32")
	assert.Error(t, err)

	_, err = run(t, "snowflake", "build", "--millis", "1", "--time", "2016-04-30T11:18:25Z")
	assert.Error(t, err)
}

// --- components tests ---

func TestComponentsCheck(t *testing.T) {
	testHome(t)
	path := writeFile(t, "components.json", `[
		{"type": 1, "components": [
			{"type": 2, "style": 1, "label": "OK", "custom_id": "ok"},
			{"type": 2, "style": 5, "label": "Docs", "url": "https://discord.dev"}
		]}
	]`)

	out, err := run(t, "components", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ActionRow (2)")
	assert.Contains(t, out, `Button Primary "OK" -> ok`)
	assert.Contains(t, out, `Button Link "Docs" -> https://discord.dev`)
	assert.Contains(t, out, "ok: 1 top-level component(s)")
}

func TestComponentsCheck_Invalid(t *testing.T) {
	testHome(t)
	path := writeFile(t, "button.json", `{"type": 2, "style": 1, "label": "no id"}`)

	_, err := run(t, "components", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom_id is required for non-link buttons")
}

func TestComponentsCheck_Stdin(t *testing.T) {
	testHome(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"type": 4, "custom_id": "name", "style": 1, "label": "Name"}`))
	cmd.SetArgs([]string{"--log-level", "silent", "components", "check", "--normalize", "-"})

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `[{"type":4,"custom_id":"name","style":1,"label":"Name"}]`, out.String())
}

// --- message tests ---

func TestMessageSend_DryRun(t *testing.T) {
	testHome(t)
	out, err := run(t, "message", "send", "--dry-run", "--channel", testChannel,
		"--embed-title", "Deploy", "--embed-color", "#5865F2", "--silent", "hello", "world")
	require.NoError(t, err)
	assert.Contains(t, out, `"content": "hello world"`)
	assert.Contains(t, out, `"title": "Deploy"`)
	assert.Contains(t, out, `"color": 5793266`)
	assert.Contains(t, out, `"flags": 4096`)
}

func TestMessageSend_DryRunFiles(t *testing.T) {
	testHome(t)
	file := writeFile(t, "notes.txt", "plain text notes")

	out, err := run(t, "message", "send", "--dry-run", "--channel", testChannel, "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "notes.txt"`)
	assert.Contains(t, out, "files[0]: notes.txt (text/plain; charset=utf-8)")
}

func TestMessageSend_Invalid(t *testing.T) {
	testHome(t)
	_, err := run(t, "message", "send", "--dry-run", "--channel", testChannel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Message must have content")
}

func TestMessageSend_NoChannel(t *testing.T) {
	testHome(t)
	_, err := run(t, "message", "send", "--dry-run", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no channel given")
}

func TestMessageSend_NoToken(t *testing.T) {
	testHome(t)
	_, err := run(t, "message", "send", "--channel", testChannel, "hi")
	assert.ErrorIs(t, err, errNoToken)
}

func TestMessageSend_LogsMessage(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/"+testChannel+"/messages", r.URL.Path)
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"content":"hello from cli"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sentMessageJSON)
	})

	out, err := run(t, "message", "send", "--channel", testChannel, "hello from cli")
	require.NoError(t, err)
	assert.Equal(t, "175928847299117063\n", out)

	out, err = run(t, "message", "history", "--channel", testChannel, "--json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "175928847299117063", entries[0]["messageId"])
	assert.Equal(t, "sent", entries[0]["action"])
	assert.Equal(t, "hello from cli", entries[0]["content"])

	out, err = run(t, "message", "history", "--search", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "175928847299117063")
}

func TestMessageSend_HookVeto(t *testing.T) {
	testHome(t)
	var hits atomic.Int32
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, sentMessageJSON)
	})
	cfgPath := writeFile(t, "config.yaml", "hooks:\n  messageSending:\n    - command: \"echo blocked; exit 1\"\n")

	_, err := run(t, "--config", cfgPath, "message", "send", "--channel", testChannel, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	assert.Equal(t, int32(0), hits.Load())
}

func TestMessageSend_SentHook(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sentMessageJSON)
	})
	hookOut := filepath.Join(t.TempDir(), "sent.json")
	cfgPath := writeFile(t, "config.yaml", "hooks:\n  messageSent:\n    - command: \"cat > "+hookOut+"\"\n")

	_, err := run(t, "--config", cfgPath, "message", "send", "--channel", testChannel, "hi")
	require.NoError(t, err)

	data, err := os.ReadFile(hookOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message_id":"175928847299117063"`)
}

func TestMessageSend_HTTPError(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message": "Missing Permissions", "code": 50013}`)
	})

	_, err := run(t, "message", "send", "--channel", testChannel, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing Permissions")
}

func TestMessageSend_SendFailedHook(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message": "Missing Permissions", "code": 50013}`)
	})
	hookOut := filepath.Join(t.TempDir(), "failed.json")
	cfgPath := writeFile(t, "config.yaml", "hooks:\n  sendFailed:\n    - command: \"cat > "+hookOut+"\"\n")

	_, err := run(t, "--config", cfgPath, "message", "send", "--channel", testChannel, "hi")
	require.Error(t, err)

	data, err := os.ReadFile(hookOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"send_failed"`)
	assert.Contains(t, string(data), `"status":403`)
	assert.Contains(t, string(data), "Missing Permissions")
}

func TestMessageEdit(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/channels/"+testChannel+"/messages/175928847299117063", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"content":"edited"}`, string(body))
		_, _ = io.WriteString(w, sentMessageJSON)
	})

	out, err := run(t, "message", "edit", "--channel", testChannel, "175928847299117063", "edited")
	require.NoError(t, err)
	assert.Equal(t, "175928847299117063\n", out)
}

func TestMessageDelete_Single(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/channels/"+testChannel+"/messages/175928847299117063", r.URL.Path)
		assert.Equal(t, "cleanup", r.Header.Get("X-Audit-Log-Reason"))
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := run(t, "message", "delete", "--channel", testChannel, "--reason", "cleanup", "175928847299117063")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 message(s)\n", out)
}

func TestMessageDelete_Bulk(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/"+testChannel+"/messages/bulk-delete", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"messages":["175928847299117063","175928847299117064"]}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := run(t, "message", "delete", "--channel", testChannel, "175928847299117063", "175928847299117064")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 2 message(s)\n", out)
}

func TestMessageDelete_BulkHooks(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	hookDir := t.TempDir()
	cfgPath := writeFile(t, "config.yaml",
		"hooks:\n  messageDeleted:\n    - command: 'cat > \"$(mktemp "+hookDir+"/deleted.XXXXXX)\"'\n")

	_, err := run(t, "--config", cfgPath, "message", "delete", "--channel", testChannel,
		"175928847299117063", "175928847299117064")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(hookDir, "deleted.*"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	var all string
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		all += string(data)
	}
	assert.Contains(t, all, `"message_id":"175928847299117063"`)
	assert.Contains(t, all, `"message_id":"175928847299117064"`)
}

func TestMessageHistory_ForMessage(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sentMessageJSON)
	})

	_, err := run(t, "message", "send", "--channel", testChannel, "hello from cli")
	require.NoError(t, err)
	_, err = run(t, "message", "edit", "--channel", testChannel, "175928847299117063", "edited")
	require.NoError(t, err)

	out, err := run(t, "message", "history", "--json", "175928847299117063")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "sent", entries[0]["action"])
	assert.Equal(t, "edited", entries[1]["action"])

	_, err = run(t, "message", "history", "--remote", "175928847299117063")
	assert.Error(t, err)
}

func TestMessageHistory_SearchPunctuation(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sentMessageJSON)
	})
	_, err := run(t, "message", "send", "--channel", testChannel, "hello from cli")
	require.NoError(t, err)

	for _, q := range []string{"cli!", "hello's", `"from`} {
		out, err := run(t, "message", "history", "--search", q)
		require.NoError(t, err, q)
		if q == "hello's" {
			assert.Empty(t, out, q)
			continue
		}
		assert.Contains(t, out, "175928847299117063", q)
	}
}

func TestMessagePrune(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sentMessageJSON)
	})
	_, err := run(t, "message", "send", "--channel", testChannel, "hello from cli")
	require.NoError(t, err)

	// The logged message was created on 2016-04-30.
	out, err := run(t, "message", "prune", "--before", "2016-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "Pruned 0 entries\n", out)

	out, err = run(t, "message", "prune", "--before", "720h")
	require.NoError(t, err)
	assert.Equal(t, "Pruned 1 entries\n", out)

	out, err = run(t, "message", "history", "--channel", testChannel)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "message", "prune")
	assert.Error(t, err)
}

func TestParseCutoff(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"24h", now.Add(-24 * time.Hour), false},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), false},
		{"-1h", time.Time{}, true},
		{"yesterday", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCutoff(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestMessageHistory_Remote(t *testing.T) {
	testHome(t)
	fakeDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "175928847299117000", r.URL.Query().Get("before"))
		_, _ = io.WriteString(w, "["+sentMessageJSON+"]")
	})

	out, err := run(t, "message", "history", "--remote", "--channel", testChannel, "--limit", "5", "--before", "175928847299117000")
	require.NoError(t, err)
	assert.Contains(t, out, "cordbot: hello from cli")
}

func TestMessageHistory_BeforeNeedsRemote(t *testing.T) {
	testHome(t)
	_, err := run(t, "message", "history", "--channel", testChannel, "--before", "1")
	assert.Error(t, err)
}

func TestMessageSend_EnforceNonce(t *testing.T) {
	testHome(t)
	out, err := run(t, "message", "send", "--dry-run", "--channel", testChannel, "--enforce-nonce", "hi")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, true, body["enforce_nonce"])
	nonce, ok := body["nonce"].(string)
	require.True(t, ok)
	assert.Len(t, nonce, 21)
}

func TestMessageSend_EnvFileToken(t *testing.T) {
	home := testHome(t)
	t.Setenv("CORDKIT_TOKEN", "")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("CORDKIT_CLI_TEST_TOKEN=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CORDKIT_CLI_TEST_TOKEN") })
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("discord:\n  token: ${CORDKIT_CLI_TEST_TOKEN}\n"), 0o600))

	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, sentMessageJSON)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("CORDKIT_API_BASE_URL", srv.URL)

	_, err := run(t, "message", "send", "--channel", testChannel, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Bot dotenv-secret", auth.Load())
}
