package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/gebo/internal/export"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL DEFAULT '',
	filepath TEXT NOT NULL DEFAULT '',
	labels   TEXT NOT NULL DEFAULT 'Document',
	tags     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS edges (
	src_id          TEXT NOT NULL REFERENCES nodes(id),
	dst_id          TEXT NOT NULL REFERENCES nodes(id),
	type            TEXT NOT NULL DEFAULT 'LINK',
	context_snippet TEXT NOT NULL DEFAULT '',
	UNIQUE(src_id, dst_id)
);

CREATE INDEX IF NOT EXISTS idx_edges_src ON edges(src_id);
CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges(dst_id);
`

// SQLite loads the graph tables into a SQLite database, mirroring the CSV
// schema one column per field.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("loader: open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("loader: ping sqlite: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("loader: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Name identifies this consumer.
func (l *SQLite) Name() string { return "sqlite" }

// Close closes the underlying database connection.
func (l *SQLite) Close() error { return l.conn.Close() }

// Load upserts all nodes then all edges within one transaction.
func (l *SQLite) Load(ctx context.Context, t *export.Tables) error {
	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("loader: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, title, filepath, labels, tags)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title    = excluded.title,
			filepath = excluded.filepath,
			labels   = excluded.labels,
			tags     = excluded.tags
	`)
	if err != nil {
		return fmt.Errorf("loader: prepare node upsert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range t.Nodes {
		_, err := nodeStmt.ExecContext(ctx, n.ID, n.Title, n.Filepath,
			strings.Join(n.Labels, ","), strings.Join(n.Tags, ";"))
		if err != nil {
			return fmt.Errorf("loader: upsert node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (src_id, dst_id, type, context_snippet)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(src_id, dst_id) DO UPDATE SET
			type            = excluded.type,
			context_snippet = excluded.context_snippet
	`)
	if err != nil {
		return fmt.Errorf("loader: prepare edge upsert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range t.Edges {
		if _, err := edgeStmt.ExecContext(ctx, e.SrcID, e.DstID, e.Type, e.ContextSnippet); err != nil {
			return fmt.Errorf("loader: upsert edge %s->%s: %w", e.SrcID, e.DstID, err)
		}
	}

	return tx.Commit()
}
