package render

import (
	"fmt"

	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/search"
)

// History renders one line per journaled run, newest first.
func History(runs []index.RunRow, opts Options) string {
	w := &writer{width: opts.Width}
	if len(runs) == 0 {
		w.line("No runs recorded.")
		return w.b.String()
	}
	for _, r := range runs {
		mode := "run"
		if r.DryRun {
			mode = "plan"
		}
		w.line("%s  %s  %-4s  renamed=%d unchanged=%d failed=%d anomalies=%d  %s",
			opts.paint(colorHeader, fmt.Sprintf("#%d", r.ID)),
			opts.paint(colorDim, r.StartedAt),
			mode,
			r.Renamed, r.Unchanged, r.Failed, r.Anomalies,
			r.Dir,
		)
	}
	return w.b.String()
}

// RunDetail renders everything the journal holds for one run.
func RunDetail(run index.RunRow, renames []index.RenameRow, anomalies []index.AnomalyRow, opts Options) string {
	w := &writer{width: opts.Width}
	w.line("%s %s %s", opts.paint(colorHeader, fmt.Sprintf("Run #%d", run.ID)), run.StartedAt, run.Dir)
	w.line("files=%d chains=%d", run.Files, run.Chains)

	if len(renames) > 0 {
		w.line("")
		for _, r := range renames {
			color := colorOK
			switch r.Status {
			case index.StatusFailed:
				color = colorBoldRed
			case index.StatusUnchanged:
				color = colorDim
			}
			line := fmt.Sprintf("  %s -> %s  %s",
				column(r.FromName, nameWidth), column(r.ToName, nameWidth), opts.paint(color, r.Status))
			if r.Error != "" {
				line += "  " + r.Error
			}
			w.line("%s", line)
		}
	}

	if len(anomalies) > 0 {
		w.line("")
		for _, a := range anomalies {
			w.line("  %s %s %s", opts.paint(colorWarn, column(a.Kind, 18)), column(a.Path, nameWidth), a.Detail)
		}
	}
	return w.b.String()
}

// Renames renders journal search hits, one per line.
func Renames(results []search.Result, opts Options) string {
	w := &writer{width: opts.Width}
	if len(results) == 0 {
		w.line("No matching renames.")
		return w.b.String()
	}
	for _, r := range results {
		line := fmt.Sprintf("%s  %s  %s -> %s  %s",
			opts.paint(colorHeader, fmt.Sprintf("#%d", r.RunID)),
			opts.paint(colorDim, r.StartedAt),
			highlightKeywords(r.FromName, opts.Query, opts.Color),
			highlightKeywords(r.ToName, opts.Query, opts.Color),
			r.Status,
		)
		if r.Error != "" {
			line += "  " + r.Error
		}
		w.line("%s  %s", line, opts.paint(colorDim, r.Dir))
	}
	return w.b.String()
}
