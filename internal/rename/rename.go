package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
)

var ErrTargetExists = errors.New("target already exists")

type Options struct {
	Separator string
	MinWidth  int
}

// Op is a single planned rename.
type Op struct {
	From     string
	To       string
	Chain    int // index of the chain in the plan
	Position int // 1-based position within the chain
	Revision string
}

// Noop reports whether the file already carries its target name.
func (o Op) Noop() bool {
	return o.From == o.To
}

// Failure is a rename that could not be performed.
type Failure struct {
	Op
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", filepath.Base(f.From), filepath.Base(f.To), f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type Result struct {
	Renamed   []Op
	Unchanged []Op
	Failed    []*Failure
}

// Width is the prefix width for chains: wide enough for the longest one and
// never narrower than minWidth.
func Width(chains []chain.Chain, minWidth int) int {
	longest := 0
	for _, c := range chains {
		longest = max(longest, len(c))
	}
	return max(minWidth, len(strconv.Itoa(longest)))
}

// MaxWidth is the widest prefix a plan writes.
const MaxWidth = 9

// StripPrefix removes a leading sequence prefix that a plan over at most
// files records could have written. A digit run counts as such a prefix when
// it is between opts.MinWidth and MaxWidth digits long and is either zero
// padded or no larger than files, so names like 2024_init.py keep their
// leading number.
func StripPrefix(name string, opts Options, files int) string {
	return newPrefix(opts, files).strip(name)
}

type prefix struct {
	re       *regexp.Regexp
	minWidth int
	limit    int
}

func newPrefix(opts Options, files int) prefix {
	return prefix{
		re:       regexp.MustCompile(`^([0-9]+)` + regexp.QuoteMeta(opts.Separator)),
		minWidth: opts.MinWidth,
		limit:    files,
	}
}

// strip keeps names that are nothing but a prefix intact.
func (p prefix) strip(name string) string {
	m := p.re.FindStringSubmatchIndex(name)
	if m == nil || m[1] == len(name) {
		return name
	}
	digits := name[m[2]:m[3]]
	if len(digits) < p.minWidth || len(digits) > MaxWidth {
		return name
	}
	if digits[0] != '0' {
		if n, err := strconv.Atoi(digits); err != nil || n > p.limit {
			return name
		}
	}
	return name[m[1]:]
}

// Plan assigns every record its sequenced name. Positions restart at 1 for
// each chain and the same prefix width is used throughout.
func Plan(chains []chain.Chain, opts Options) []Op {
	width := Width(chains, opts.MinWidth)
	files := 0
	for _, c := range chains {
		files += len(c)
	}
	p := newPrefix(opts, files)

	var ops []Op
	for ci, c := range chains {
		for i, rec := range c {
			dir, base := filepath.Split(rec.Path)
			name := fmt.Sprintf("%0*d%s%s", width, i+1, opts.Separator, p.strip(base))
			ops = append(ops, Op{
				From:     rec.Path,
				To:       filepath.Join(dir, name),
				Chain:    ci,
				Position: i + 1,
				Revision: rec.RevisionID,
			})
		}
	}
	return ops
}

// Apply performs ops in order. An existing target is never overwritten;
// a failed op is recorded and the remaining ops still run.
func Apply(ops []Op) Result {
	var res Result
	for _, op := range ops {
		if op.Noop() {
			res.Unchanged = append(res.Unchanged, op)
			continue
		}
		if err := renameFile(op.From, op.To); err != nil {
			res.Failed = append(res.Failed, &Failure{Op: op, Err: err})
			continue
		}
		res.Renamed = append(res.Renamed, op)
	}
	return res
}

// Check reports which ops would fail without touching the filesystem.
// Targets freed or taken by earlier ops in the same batch are accounted for.
func Check(ops []Op) Result {
	var res Result
	taken := make(map[string]bool)
	freed := make(map[string]bool)
	for _, op := range ops {
		if op.Noop() {
			res.Unchanged = append(res.Unchanged, op)
			continue
		}
		var err error
		switch {
		case taken[op.To]:
			err = ErrTargetExists
		case !freed[op.To]:
			err = checkTarget(op.From, op.To)
		}
		if err != nil {
			res.Failed = append(res.Failed, &Failure{Op: op, Err: err})
			continue
		}
		taken[op.To] = true
		freed[op.From] = true
		delete(taken, op.From)
		res.Renamed = append(res.Renamed, op)
	}
	return res
}

func renameFile(from, to string) error {
	if err := checkTarget(from, to); err != nil {
		return err
	}
	return os.Rename(from, to)
}

// checkTarget allows a target that is the source itself, which happens
// when only the case of the name changes on a case-insensitive volume.
func checkTarget(from, to string) error {
	src, err := os.Lstat(from)
	if err != nil {
		return err
	}
	dst, err := os.Lstat(to)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if os.SameFile(src, dst) {
		return nil
	}
	return ErrTargetExists
}
