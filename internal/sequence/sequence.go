// Package sequence runs the whole pass over a directory: discover candidate
// files, extract their revision records, build chains and rename the files
// into chain order.
package sequence

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/parse"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
	"github.com/Zuo-Peng/file-sequencer/internal/scan"
)

type Options struct {
	Dir        string
	Extensions []string
	Fields     parse.Fields
	Rename     rename.Options
	DryRun     bool

	Logger  *slog.Logger // nil discards
	Journal *index.DB    // nil disables journaling
}

type Report struct {
	Dir       string
	Files     int
	Records   []parse.Record
	Chains    []chain.Chain
	Anomalies []chain.Anomaly
	Ops       []rename.Op
	Result    rename.Result
	RunID     int64
}

// Clean reports whether the run found nothing to complain about.
func (r *Report) Clean() bool {
	return len(r.Anomalies) == 0 && len(r.Result.Failed) == 0
}

type Stats struct {
	Files     int
	Chains    int
	Anomalies int
	Renamed   int
	Unchanged int
	Failed    int
}

func (s Stats) String() string {
	return fmt.Sprintf("files=%d chains=%d anomalies=%d renamed=%d unchanged=%d failed=%d",
		s.Files, s.Chains, s.Anomalies, s.Renamed, s.Unchanged, s.Failed)
}

func (r *Report) Stats() Stats {
	return Stats{
		Files:     r.Files,
		Chains:    len(r.Chains),
		Anomalies: len(r.Anomalies),
		Renamed:   len(r.Result.Renamed),
		Unchanged: len(r.Result.Unchanged),
		Failed:    len(r.Result.Failed),
	}
}

// Run processes opts.Dir. Only a directory that cannot be listed or a
// journal write failure is returned as an error; everything wrong with
// individual files is part of the report.
func Run(opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	started := time.Now()

	col, err := Collect(opts.Dir, opts.Extensions, opts.Fields)
	if err != nil {
		return nil, err
	}
	if col.Files == 0 {
		log.Warn("no candidate files", "dir", col.Dir, "extensions", opts.Extensions)
	}

	rep := &Report{Dir: col.Dir, Files: col.Files, Records: col.Records}

	reporter := LogReporter(log)
	for _, a := range col.Failures {
		reporter.Report(a)
	}
	rep.Chains, rep.Anomalies = chain.Build(rep.Records, reporter)
	rep.Anomalies = mergeAnomalies(col.Failures, rep.Anomalies)

	rep.Ops = rename.Plan(rep.Chains, opts.Rename)
	if opts.DryRun {
		rep.Result = rename.Check(rep.Ops)
	} else {
		rep.Result = rename.Apply(rep.Ops)
	}
	for _, op := range rep.Result.Renamed {
		if opts.DryRun {
			log.Debug("would rename", "from", filepath.Base(op.From), "to", filepath.Base(op.To))
		} else {
			log.Info("renamed", "from", filepath.Base(op.From), "to", filepath.Base(op.To))
		}
	}
	for _, f := range rep.Result.Failed {
		log.Warn("rename failed", "from", filepath.Base(f.From), "to", filepath.Base(f.To), "err", f.Err)
	}

	if opts.Journal != nil {
		id, err := opts.Journal.RecordRun(index.Run{
			StartedAt: started,
			Dir:       rep.Dir,
			DryRun:    opts.DryRun,
			Files:     rep.Files,
			Chains:    len(rep.Chains),
			Anomalies: rep.Anomalies,
			Result:    rep.Result,
		})
		if err != nil {
			return rep, fmt.Errorf("journal: %w", err)
		}
		rep.RunID = id
	}

	log.Debug("sequence done", "dir", rep.Dir, "stats", rep.Stats().String(), "elapsed", time.Since(started))
	return rep, nil
}

// Collection is the extracted content of a directory.
type Collection struct {
	Dir      string // absolute
	Files    int
	Records  []parse.Record
	Failures []chain.Anomaly // ExtractionError, one per unreadable file
}

// Collect discovers candidate files in dir and extracts their records
// without building chains or renaming anything.
func Collect(dir string, exts []string, fields parse.Fields) (*Collection, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	files, err := scan.ScanDir(abs, exts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	col := &Collection{Dir: abs, Files: len(files)}
	ex := parse.NewExtractor(fields)
	for _, fi := range files {
		rec, err := ex.Extract(fi.Path)
		if err != nil {
			col.Failures = append(col.Failures, chain.Anomaly{
				Kind:   chain.ExtractionError,
				Record: parse.Record{Path: fi.Path},
				Detail: err.Error(),
			})
			continue
		}
		col.Records = append(col.Records, rec)
	}
	return col, nil
}

// mergeAnomalies keeps the path ordering of both sorted inputs.
func mergeAnomalies(a, b []chain.Anomaly) []chain.Anomaly {
	if len(a) == 0 {
		return b
	}
	out := make([]chain.Anomaly, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Record.Path < a[i].Record.Path {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// LogReporter writes each anomaly to log at warn level.
func LogReporter(log *slog.Logger) chain.Reporter {
	return chain.ReporterFunc(func(a chain.Anomaly) {
		log.Warn("anomaly",
			"kind", a.Kind.String(),
			"file", filepath.Base(a.Record.Path),
			"detail", a.Detail,
		)
	})
}
