package parse

// Record is the revision metadata extracted from one file.
// An empty RevisionID or RevisesID means the field was absent.
type Record struct {
	Path       string
	RevisionID string
	RevisesID  string
	Line       int // line of the revision_id assignment, 0 if unknown
}

// IsRoot reports whether the record names no predecessor.
func (r Record) IsRoot() bool {
	return r.RevisesID == ""
}

// Fields names the two assignments the extractor looks for.
type Fields struct {
	Revision string
	Revises  string
}

// DefaultFields matches `revision_id = '...'` and `revises_id = '...'`.
var DefaultFields = Fields{
	Revision: "revision_id",
	Revises:  "revises_id",
}
