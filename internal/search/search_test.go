package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
)

func seed(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.RecordRun(index.Run{
		StartedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Dir:       "/m",
		Result: rename.Result{Renamed: []rename.Op{
			{From: "/m/init.py", To: "/m/001_init.py", Revision: "a1"},
			{From: "/m/add_users.py", To: "/m/002_add_users.py", Revision: "b2"},
		}},
	})
	require.NoError(t, err)

	_, err = db.RecordRun(index.Run{
		StartedAt: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		Dir:       "/other",
		Result: rename.Result{Failed: []*rename.Failure{{
			Op:  rename.Op{From: "/other/add_users.py", To: "/other/001_add_users.py", Revision: "c3"},
			Err: rename.ErrTargetExists,
		}}},
	})
	require.NoError(t, err)
	return db
}

func TestRenames(t *testing.T) {
	db := seed(t)

	results, err := Renames(db, Options{Query: "users"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/other", results[0].Dir, "newest run first")
	assert.Equal(t, "failed", results[0].Status)
	assert.Equal(t, "target already exists", results[0].Error)
	assert.Equal(t, "002_add_users.py", results[1].ToName)

	results, err = Renames(db, Options{Query: "users", Dir: "/m"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b2", results[0].RevisionID)

	results, err = Renames(db, Options{Query: "a1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "init.py", results[0].FromName)

	results, err = Renames(db, Options{Query: "users", Status: "renamed", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRenamesLikeEscaping(t *testing.T) {
	db := seed(t)

	// "_" would match any single character if left unescaped
	results, err := Renames(db, Options{Query: "t_py"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Renames(db, Options{Query: "add_"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
