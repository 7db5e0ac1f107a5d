package index

import (
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
)

const (
	StatusRenamed   = "renamed"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// Run is what one invocation did to one directory.
type Run struct {
	StartedAt time.Time
	Dir       string
	DryRun    bool
	Files     int
	Chains    int
	Anomalies []chain.Anomaly
	Result    rename.Result
}

// RecordRun appends run to the journal and returns its id. The journal is
// write-only from the sequencer's point of view: chains are always rebuilt
// from file contents.
func (d *DB) RecordRun(run Run) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, dir, dry_run, files, chains, anomalies, renamed, unchanged, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Dir,
		run.DryRun,
		run.Files,
		run.Chains,
		len(run.Anomalies),
		len(run.Result.Renamed),
		len(run.Result.Unchanged),
		len(run.Result.Failed),
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO renames (run_id, seq, from_name, to_name, chain_idx, position, revision_id, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	seq := 0
	insert := func(op rename.Op, status, errText string) error {
		seq++
		_, err := stmt.Exec(runID, seq, filepath.Base(op.From), filepath.Base(op.To), op.Chain, op.Position, op.Revision, status, errText)
		return err
	}
	for _, op := range run.Result.Renamed {
		if err := insert(op, StatusRenamed, ""); err != nil {
			return 0, err
		}
	}
	for _, op := range run.Result.Unchanged {
		if err := insert(op, StatusUnchanged, ""); err != nil {
			return 0, err
		}
	}
	for _, f := range run.Result.Failed {
		if err := insert(f.Op, StatusFailed, f.Err.Error()); err != nil {
			return 0, err
		}
	}

	astmt, err := tx.Prepare(
		`INSERT INTO anomalies (run_id, seq, kind, path, revision_id, revises_id, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer astmt.Close()

	for i, a := range run.Anomalies {
		_, err := astmt.Exec(runID, i+1, a.Kind.String(), filepath.Base(a.Record.Path), a.Record.RevisionID, a.Record.RevisesID, a.Detail)
		if err != nil {
			return 0, err
		}
	}

	return runID, tx.Commit()
}
