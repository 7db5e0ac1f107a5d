package search

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/file-sequencer/internal/index"
)

// Result is one journaled rename of a matching file.
type Result struct {
	RunID      int64
	StartedAt  string
	Dir        string
	FromName   string
	ToName     string
	RevisionID string
	Status     string
	Error      string
}

type Options struct {
	Query  string // substring of either file name, or a revision id
	Dir    string // "" = all directories
	Status string // "" = all, "renamed", "unchanged", "failed"
	Limit  int
}

// Renames finds journaled renames whose old or new name contains
// opts.Query, or whose revision id equals it, newest run first.
func Renames(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	var conditions []string
	var args []any

	// name or revision match
	like := "%" + escapeLike(opts.Query) + "%"
	conditions = append(conditions, `(r.from_name LIKE ? ESCAPE '\' OR r.to_name LIKE ? ESCAPE '\' OR r.revision_id = ?)`)
	args = append(args, like, like, opts.Query)

	if opts.Dir != "" {
		conditions = append(conditions, "u.dir = ?")
		args = append(args, opts.Dir)
	}

	if opts.Status != "" {
		conditions = append(conditions, "r.status = ?")
		args = append(args, opts.Status)
	}

	query := fmt.Sprintf(`
		SELECT
			r.run_id,
			u.started_at,
			u.dir,
			r.from_name,
			r.to_name,
			r.revision_id,
			r.status,
			r.error
		FROM renames r
		JOIN runs u ON r.run_id = u.id
		WHERE %s
		ORDER BY r.run_id DESC, r.seq
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.Dir, &r.FromName, &r.ToName, &r.RevisionID, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
