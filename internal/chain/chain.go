// Package chain recovers linear revision histories from records that each
// name their predecessor.
//
// Records are indexed by revision id and linked through an explicit
// successor table. Anything not reachable from a record without a resolvable
// predecessor sits on a closed loop and is excluded before chains are walked.
package chain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Zuo-Peng/file-sequencer/internal/parse"
)

// Chain is one line of revision history, root first.
type Chain []parse.Record

func (c Chain) Root() parse.Record {
	return c[0]
}

// Build links records into chains and reports every structural defect.
// It never fails: each input record ends up either in exactly one chain or
// in an anomaly whose Kind is Excluded. Advisory anomalies (dangling
// references, branches) accompany records that still appear in a chain.
//
// Chains are ordered by the path of their root and anomalies by path and
// kind, so identical input yields identical output. Anomalies are also
// passed to r, in the same order, when r is non-nil.
func Build(records []parse.Record, r Reporter) ([]Chain, []Anomaly) {
	var anomalies []Anomaly
	flag := func(kind Kind, rec parse.Record, format string, args ...any) {
		anomalies = append(anomalies, Anomaly{Kind: kind, Record: rec, Detail: fmt.Sprintf(format, args...)})
	}

	excluded := make([]bool, len(records))

	// index by revision id, dropping every holder of a shared id
	owners := make(map[string][]int)
	for i, rec := range records {
		if rec.RevisionID == "" {
			flag(ExtractionError, rec, "no revision id")
			excluded[i] = true
			continue
		}
		owners[rec.RevisionID] = append(owners[rec.RevisionID], i)
	}
	index := make(map[string]int, len(owners))
	for id, idx := range owners {
		if len(idx) == 1 {
			index[id] = idx[0]
			continue
		}
		for _, i := range idx {
			flag(DuplicateID, records[i], "revision id %q is shared by %d files", id, len(idx))
			excluded[i] = true
		}
	}

	// predecessor -> successors
	var roots []int
	successors := make(map[int][]int)
	prev := make(map[int]int)
	for i, rec := range records {
		if excluded[i] {
			continue
		}
		if rec.IsRoot() {
			roots = append(roots, i)
			continue
		}
		p, ok := index[rec.RevisesID]
		if !ok {
			if len(owners[rec.RevisesID]) > 1 {
				flag(DanglingReference, rec, "revises %q, which is ambiguous", rec.RevisesID)
			} else {
				flag(DanglingReference, rec, "revises unknown revision %q", rec.RevisesID)
			}
			roots = append(roots, i)
			continue
		}
		successors[p] = append(successors[p], i)
		prev[i] = p
	}

	// a record no root leads to is on, or hangs off, a closed loop
	reached := make([]bool, len(records))
	queue := append([]int(nil), roots...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if reached[cur] {
			continue
		}
		reached[cur] = true
		queue = append(queue, successors[cur]...)
	}
	for i, rec := range records {
		if excluded[i] || reached[i] {
			continue
		}
		loop, on := loopOf(records, prev, i)
		if on {
			flag(CycleDetected, rec, "loop %s", loop)
		} else {
			flag(CycleDetected, rec, "revises into loop %s", loop)
		}
		excluded[i] = true
	}

	next := make(map[int]int, len(successors))
	for p, ss := range successors {
		if excluded[p] {
			continue
		}
		if len(ss) == 1 {
			next[p] = ss[0]
			continue
		}
		// competing revisions each start their own chain
		for _, s := range ss {
			flag(Branch, records[s], "revises %q together with %d other file(s)", records[p].RevisionID, len(ss)-1)
			roots = append(roots, s)
		}
	}

	slices.SortFunc(roots, func(a, b int) int {
		return strings.Compare(records[a].Path, records[b].Path)
	})

	visited := make([]bool, len(records))
	chains := make([]Chain, 0, len(roots))
	for _, root := range roots {
		var c Chain
		for cur, ok := root, true; ok; cur, ok = next[cur] {
			if visited[cur] {
				break
			}
			visited[cur] = true
			c = append(c, records[cur])
		}
		chains = append(chains, c)
	}

	slices.SortStableFunc(anomalies, func(a, b Anomaly) int {
		return cmp.Or(
			strings.Compare(a.Record.Path, b.Record.Path),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
	if r != nil {
		for _, a := range anomalies {
			r.Report(a)
		}
	}
	return chains, anomalies
}

// loopOf follows revises links back from start until they close, and
// renders the loop in revision order beginning at its smallest id so every
// member describes it the same way. on reports whether start is itself a
// member of the loop.
func loopOf(records []parse.Record, prev map[int]int, start int) (loop string, on bool) {
	var path []int
	at := make(map[int]int)
	cur := start
	for {
		if i, seen := at[cur]; seen {
			path = path[i:]
			break
		}
		at[cur] = len(path)
		path = append(path, cur)
		cur = prev[cur]
	}

	ids := make([]string, len(path))
	for i, n := range path {
		ids[len(path)-1-i] = records[n].RevisionID
		if n == start {
			on = true
		}
	}
	lo := 0
	for i, id := range ids {
		if id < ids[lo] {
			lo = i
		}
	}
	ids = append(ids[lo:], ids[:lo]...)
	return strings.Join(append(ids, ids[0]), " -> "), on
}
