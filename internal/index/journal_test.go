package index

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/parse"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordRun(t *testing.T) {
	db := openTestDB(t)

	run := Run{
		StartedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		Dir:       "/work/migrations",
		Files:     4,
		Chains:    2,
		Anomalies: []chain.Anomaly{{
			Kind:   chain.DanglingReference,
			Record: parse.Record{Path: "/work/migrations/c.py", RevisionID: "3", RevisesID: "99"},
			Detail: `revises unknown revision "99"`,
		}},
		Result: rename.Result{
			Renamed:   []rename.Op{{From: "/work/migrations/a.py", To: "/work/migrations/001_a.py", Position: 1, Revision: "1"}},
			Unchanged: []rename.Op{{From: "/work/migrations/002_b.py", To: "/work/migrations/002_b.py", Position: 2, Revision: "2"}},
			Failed: []*rename.Failure{{
				Op:  rename.Op{From: "/work/migrations/c.py", To: "/work/migrations/001_c.py", Chain: 1, Position: 1, Revision: "3"},
				Err: rename.ErrTargetExists,
			}},
		},
	}

	id, err := db.RecordRun(run)
	require.NoError(t, err)

	got, err := db.GetRun(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunRow{
		ID:        id,
		StartedAt: "2026-10-15T09:30:00Z",
		Dir:       "/work/migrations",
		Files:     4,
		Chains:    2,
		Anomalies: 1,
		Renamed:   1,
		Unchanged: 1,
		Failed:    1,
	}, *got)

	renames, err := db.GetRenames(id)
	require.NoError(t, err)
	require.Len(t, renames, 3)
	assert.Equal(t, RenameRow{RunID: id, Seq: 1, FromName: "a.py", ToName: "001_a.py", Position: 1, RevisionID: "1", Status: StatusRenamed}, renames[0])
	assert.Equal(t, StatusUnchanged, renames[1].Status)
	assert.Equal(t, StatusFailed, renames[2].Status)
	assert.Equal(t, 1, renames[2].Chain)
	assert.Equal(t, rename.ErrTargetExists.Error(), renames[2].Error)

	anomalies, err := db.GetAnomalies(id)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, AnomalyRow{
		RunID: id, Seq: 1, Kind: "dangling-reference", Path: "c.py",
		RevisionID: "3", RevisesID: "99", Detail: `revises unknown revision "99"`,
	}, anomalies[0])
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)

	for i, dir := range []string{"/a", "/b", "/a"} {
		_, err := db.RecordRun(Run{StartedAt: time.Unix(int64(i), 0), Dir: dir, DryRun: i == 2})
		require.NoError(t, err)
	}

	n, err := db.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := db.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/a", all[0].Dir)
	assert.True(t, all[0].DryRun)
	assert.Greater(t, all[0].ID, all[1].ID)

	onlyA, err := db.ListRuns("/a", 1)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, all[0].ID, onlyA[0].ID)

	missing, err := db.GetRun(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOpenDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = db.RecordRun(Run{StartedAt: time.Now(), Dir: "/x"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.Raw().Exec("UPDATE meta SET value = '0' WHERE key = 'schema_version'")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	_, err = OpenDB(path)
	assert.Error(t, err)
}

func TestRecordRunFailureText(t *testing.T) {
	db := openTestDB(t)
	id, err := db.RecordRun(Run{
		StartedAt: time.Now(),
		Dir:       "/d",
		Result: rename.Result{Failed: []*rename.Failure{{
			Op:  rename.Op{From: "/d/x.py", To: "/d/001_x.py"},
			Err: errors.New("permission denied"),
		}}},
	})
	require.NoError(t, err)

	renames, err := db.GetRenames(id)
	require.NoError(t, err)
	require.Len(t, renames, 1)
	assert.Equal(t, "permission denied", renames[0].Error)
}
