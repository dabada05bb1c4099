package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/cordkit/messages"
	"github.com/soyeahso/cordkit/snowflake"
)

// Action describes what happened to a logged message.
type Action string

const (
	ActionSent    Action = "sent"
	ActionEdited  Action = "edited"
	ActionDeleted Action = "deleted"
)

// Entry is one row of the message log. Snowflake columns are stored as
// decimal TEXT through the Snowflake SQL methods.
type Entry struct {
	ID         string              `json:"id"`
	MessageID  snowflake.Snowflake `json:"messageId"`
	ChannelID  snowflake.Snowflake `json:"channelId"`
	Action     Action              `json:"action"`
	Content    string              `json:"content,omitempty"`
	Payload    string              `json:"payload,omitempty"` // request JSON, if kept
	CreatedAt  time.Time           `json:"createdAt"`         // derived from MessageID
	RecordedAt time.Time           `json:"recordedAt"`
	Rank       float64             `json:"rank,omitempty"` // FTS5 rank score (search results only)
}

// MessageLog records message operations performed through the CLI.
type MessageLog struct {
	db *DB
}

// NewMessageLog creates a message log using the given database.
func NewMessageLog(db *DB) *MessageLog {
	return &MessageLog{db: db}
}

// Record inserts an entry. ID and RecordedAt are assigned when empty, and
// CreatedAt is always derived from MessageID.
func (l *MessageLog) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Action == "" {
		return nil, fmt.Errorf("recording message %s: action is required", e.MessageID)
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	e.CreatedAt = e.MessageID.Timestamp()

	var payload sql.NullString
	if e.Payload != "" {
		payload = sql.NullString{String: e.Payload, Valid: true}
	}

	_, err := l.db.sql.ExecContext(ctx,
		`INSERT INTO message_log (id, message_id, channel_id, action, content, payload, created_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MessageID, e.ChannelID, string(e.Action), e.Content, payload,
		e.MessageID.TimestampMillis(), e.RecordedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("recording message %s: %w", e.MessageID, err)
	}

	l.db.log.Debug().
		Str("message", e.MessageID.String()).
		Str("action", string(e.Action)).
		Msg("message logged")
	return &e, nil
}

// RecordMessage logs a message returned by the API.
func (l *MessageLog) RecordMessage(ctx context.Context, action Action, m *messages.Message, payload []byte) (*Entry, error) {
	return l.Record(ctx, Entry{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		Action:    action,
		Content:   m.Content,
		Payload:   string(payload),
	})
}

// History returns the newest entries for a channel, newest first.
// Limit of 0 defaults to 50.
func (l *MessageLog) History(ctx context.Context, channelID snowflake.Snowflake, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT id, message_id, channel_id, action, content, payload, recorded_at, 0
		 FROM message_log WHERE channel_id = ?
		 ORDER BY created_ms DESC, rowid DESC LIMIT ?`,
		channelID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ForMessage returns every entry for a message in the order recorded.
func (l *MessageLog) ForMessage(ctx context.Context, messageID snowflake.Snowflake) ([]Entry, error) {
	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT id, message_id, channel_id, action, content, payload, recorded_at, 0
		 FROM message_log WHERE message_id = ?
		 ORDER BY rowid`,
		messageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds entries whose content contains every word of query, ranked by
// relevance. Words are matched literally, so FTS5 operators and punctuation
// carry no meaning. Limit of 0 defaults to 20.
func (l *MessageLog) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT ml.id, ml.message_id, ml.channel_id, ml.action, ml.content, ml.payload,
		        ml.recorded_at, rank
		 FROM message_log_fts
		 JOIN message_log ml ON ml.rowid = message_log_fts.rowid
		 WHERE message_log_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ftsQuery quotes each whitespace-separated word as an FTS5 string.
func ftsQuery(q string) string {
	words := strings.Fields(q)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

// Prune removes entries for messages created before the cutoff and returns
// the number removed.
func (l *MessageLog) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := l.db.sql.ExecContext(ctx,
		`DELETE FROM message_log WHERE created_ms < ?`, before.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of entries in the log.
func (l *MessageLog) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM message_log`).Scan(&n)
	return n, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var action, recordedAt string
		var payload sql.NullString

		if err := rows.Scan(
			&e.ID, &e.MessageID, &e.ChannelID, &action,
			&e.Content, &payload, &recordedAt, &e.Rank,
		); err != nil {
			return nil, err
		}

		e.Action = Action(action)
		e.CreatedAt = e.MessageID.Timestamp()
		e.RecordedAt, _ = time.Parse(time.DateTime, recordedAt)
		if payload.Valid {
			e.Payload = payload.String
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}
