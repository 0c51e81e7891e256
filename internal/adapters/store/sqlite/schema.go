package sqlite

const schema = `
-- One row per saved reading. Rows are never updated.
CREATE TABLE IF NOT EXISTS readings (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    spread_type TEXT NOT NULL,
    question TEXT,
    cards TEXT NOT NULL, -- JSON array of drawn cards
    interpretation TEXT NOT NULL,
    created_at INTEGER NOT NULL -- unix nanoseconds, UTC
);

CREATE INDEX IF NOT EXISTS readings_session_created
    ON readings (session_id, created_at DESC);
`
