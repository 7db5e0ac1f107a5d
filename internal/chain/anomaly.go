package chain

import (
	"fmt"

	"github.com/Zuo-Peng/file-sequencer/internal/parse"
)

type Kind int

const (
	ExtractionError Kind = iota + 1
	DuplicateID
	DanglingReference
	CycleDetected
	Branch
)

func (k Kind) String() string {
	switch k {
	case ExtractionError:
		return "extraction-error"
	case DuplicateID:
		return "duplicate-id"
	case DanglingReference:
		return "dangling-reference"
	case CycleDetected:
		return "cycle-detected"
	case Branch:
		return "branch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Excluded reports whether a record with this anomaly is kept out of every
// chain. Dangling references and branches only annotate a chain member.
func (k Kind) Excluded() bool {
	return k != DanglingReference && k != Branch
}

type Anomaly struct {
	Kind   Kind
	Record parse.Record
	Detail string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s: %s", a.Kind, a.Record.Path, a.Detail)
}

// Reporter receives anomalies as the builder finds them.
type Reporter interface {
	Report(Anomaly)
}

type ReporterFunc func(Anomaly)

func (f ReporterFunc) Report(a Anomaly) { f(a) }

// Collector is a Reporter that keeps everything it is given.
type Collector struct {
	Anomalies []Anomaly
}

func (c *Collector) Report(a Anomaly) {
	c.Anomalies = append(c.Anomalies, a)
}
