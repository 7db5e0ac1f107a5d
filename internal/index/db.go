package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at  TEXT NOT NULL,
    dir         TEXT NOT NULL,
    dry_run     INTEGER NOT NULL DEFAULT 0,
    files       INTEGER NOT NULL DEFAULT 0,
    chains      INTEGER NOT NULL DEFAULT 0,
    anomalies   INTEGER NOT NULL DEFAULT 0,
    renamed     INTEGER NOT NULL DEFAULT 0,
    unchanged   INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS renames (
    run_id      INTEGER NOT NULL,
    seq         INTEGER NOT NULL,
    from_name   TEXT NOT NULL,
    to_name     TEXT NOT NULL,
    chain_idx   INTEGER NOT NULL DEFAULT 0,
    position    INTEGER NOT NULL DEFAULT 0,
    revision_id TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS anomalies (
    run_id      INTEGER NOT NULL,
    seq         INTEGER NOT NULL,
    kind        TEXT NOT NULL,
    path        TEXT NOT NULL,
    revision_id TEXT NOT NULL DEFAULT '',
    revises_id  TEXT NOT NULL DEFAULT '',
    detail      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS runs_dir ON runs(dir, id);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.checkSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// schemaVersion is bumped whenever the journal tables change shape.
const schemaVersion = "1"

func (d *DB) checkSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == sql.ErrNoRows {
		_, err = d.db.Exec("INSERT INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if ver != schemaVersion {
		return fmt.Errorf("journal schema version %s, want %s", ver, schemaVersion)
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

func (d *DB) RunCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}

type RunRow struct {
	ID        int64
	StartedAt string
	Dir       string
	DryRun    bool
	Files     int
	Chains    int
	Anomalies int
	Renamed   int
	Unchanged int
	Failed    int
}

type RenameRow struct {
	RunID      int64
	Seq        int
	FromName   string
	ToName     string
	Chain      int
	Position   int
	RevisionID string
	Status     string
	Error      string
}

type AnomalyRow struct {
	RunID      int64
	Seq        int
	Kind       string
	Path       string
	RevisionID string
	RevisesID  string
	Detail     string
}

const runColumns = "id, started_at, dir, dry_run, files, chains, anomalies, renamed, unchanged, failed"

func scanRun(row interface{ Scan(...any) error }) (RunRow, error) {
	var r RunRow
	err := row.Scan(&r.ID, &r.StartedAt, &r.Dir, &r.DryRun, &r.Files, &r.Chains, &r.Anomalies, &r.Renamed, &r.Unchanged, &r.Failed)
	return r, err
}

// ListRuns returns the newest runs first. An empty dir lists every
// directory; limit <= 0 means no limit.
func (d *DB) ListRuns(dir string, limit int) ([]RunRow, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if dir != "" {
		query += " WHERE dir = ?"
		args = append(args, dir)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (d *DB) GetRun(id int64) (*RunRow, error) {
	r, err := scanRun(d.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *DB) GetRenames(runID int64) ([]RenameRow, error) {
	rows, err := d.db.Query(
		"SELECT run_id, seq, from_name, to_name, chain_idx, position, revision_id, status, error FROM renames WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RenameRow
	for rows.Next() {
		var r RenameRow
		if err := rows.Scan(&r.RunID, &r.Seq, &r.FromName, &r.ToName, &r.Chain, &r.Position, &r.RevisionID, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) GetAnomalies(runID int64) ([]AnomalyRow, error) {
	rows, err := d.db.Query(
		"SELECT run_id, seq, kind, path, revision_id, revises_id, detail FROM anomalies WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnomalyRow
	for rows.Next() {
		var a AnomalyRow
		if err := rows.Scan(&a.RunID, &a.Seq, &a.Kind, &a.Path, &a.RevisionID, &a.RevisesID, &a.Detail); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
