package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create message log",
		SQL: `
			CREATE TABLE message_log (
				id          TEXT PRIMARY KEY,
				message_id  TEXT NOT NULL,
				channel_id  TEXT NOT NULL,
				action      TEXT NOT NULL,
				content     TEXT NOT NULL DEFAULT '',
				payload     TEXT,
				created_ms  INTEGER NOT NULL,
				recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_message_log_channel ON message_log (channel_id, created_ms);
			CREATE INDEX idx_message_log_message ON message_log (message_id);
		`,
	},
	{
		Version: 2,
		Name:    "create message log FTS5 index",
		SQL: `
			CREATE VIRTUAL TABLE message_log_fts USING fts5(
				content,
				content='message_log',
				content_rowid='rowid'
			);

			CREATE TRIGGER message_log_ai AFTER INSERT ON message_log BEGIN
				INSERT INTO message_log_fts(rowid, content)
				VALUES (new.rowid, new.content);
			END;

			CREATE TRIGGER message_log_ad AFTER DELETE ON message_log BEGIN
				INSERT INTO message_log_fts(message_log_fts, rowid, content)
				VALUES ('delete', old.rowid, old.content);
			END;
		`,
	},
}
