package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
)

const (
	colorReset   = "\033[0m"
	colorHeader  = "\033[1;34m" // bold blue
	colorOK      = "\033[1;32m" // bold green
	colorWarn    = "\033[1;33m" // bold yellow
	colorDim     = "\033[2m"
	colorBoldRed = "\033[1;31m"
)

// nameWidth is the column width used for file names.
const nameWidth = 32

type Options struct {
	Color  bool
	Width  int    // wrap width (0 = no wrap)
	DryRun bool   // word results as a plan
	Query  string // highlighted in detail views
}

func (o Options) paint(color, s string) string {
	if !o.Color {
		return s
	}
	return color + s + colorReset
}

// highlightKeywords wraps case-insensitive matches of query in bold red.
func highlightKeywords(text, query string, color bool) string {
	if query == "" || !color {
		return text
	}
	lower := strings.ToLower(query)
	i := 0
	for i < len(text) {
		idx := strings.Index(strings.ToLower(text[i:]), lower)
		if idx < 0 {
			break
		}
		pos := i + idx
		orig := text[pos : pos+len(query)]
		replacement := colorBoldRed + orig + colorReset
		text = text[:pos] + replacement + text[pos+len(query):]
		i = pos + len(replacement)
	}
	return text
}

// column pads or truncates s to exactly w visible cells.
func column(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// writer accumulates wrapped lines.
type writer struct {
	b     strings.Builder
	width int
}

func (w *writer) line(format string, args ...any) {
	for _, wl := range wrapLine(fmt.Sprintf(format, args...), w.width) {
		w.b.WriteString(wl)
		w.b.WriteString("\n")
	}
}

// opStatus describes what happened to each planned op, keyed by source path.
func opStatus(res rename.Result, dryRun bool) map[string]string {
	status := make(map[string]string)
	done := "renamed"
	if dryRun {
		done = "will rename"
	}
	for _, op := range res.Renamed {
		status[op.From] = done
	}
	for _, op := range res.Unchanged {
		status[op.From] = "in place"
	}
	for _, f := range res.Failed {
		status[f.From] = "FAILED: " + f.Err.Error()
	}
	return status
}

// Chain renders one chain with the name each member gets.
func Chain(rep *sequence.Report, idx int, opts Options) string {
	w := &writer{width: opts.Width}
	writeChain(w, rep, idx, opStatus(rep.Result, opts.DryRun), opts)
	return w.b.String()
}

func writeChain(w *writer, rep *sequence.Report, idx int, status map[string]string, opts Options) {
	c := rep.Chains[idx]
	w.line("%s", opts.paint(colorHeader, fmt.Sprintf("Chain %d: %s (%d files)", idx+1, filepath.Base(c.Root().Path), len(c))))
	for _, op := range rep.Ops {
		if op.Chain != idx {
			continue
		}
		st := status[op.From]
		color := colorOK
		switch {
		case strings.HasPrefix(st, "FAILED"):
			color = colorBoldRed
		case st == "in place":
			color = colorDim
		}
		name := highlightKeywords(column(filepath.Base(op.From), nameWidth), opts.Query, opts.Color)
		w.line("  %3d  %s -> %s  %s  %s",
			op.Position,
			name,
			column(filepath.Base(op.To), nameWidth),
			opts.paint(colorDim, "["+op.Revision+"]"),
			opts.paint(color, st),
		)
	}
}

// Anomaly renders a single anomaly with the record's fields.
func Anomaly(a chain.Anomaly, opts Options) string {
	w := &writer{width: opts.Width}
	color := colorWarn
	if a.Kind.Excluded() {
		color = colorBoldRed
	}
	w.line("%s  %s", opts.paint(color, a.Kind.String()), highlightKeywords(filepath.Base(a.Record.Path), opts.Query, opts.Color))
	w.line("  revision_id: %s", orDash(a.Record.RevisionID))
	w.line("  revises_id:  %s", orDash(a.Record.RevisesID))
	w.line("  %s", a.Detail)
	if a.Kind.Excluded() {
		w.line("  %s", opts.paint(colorDim, "left unrenamed"))
	}
	return w.b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Report renders the full outcome of a run.
func Report(rep *sequence.Report, opts Options) string {
	w := &writer{width: opts.Width}
	status := opStatus(rep.Result, opts.DryRun)

	w.line("%s", opts.paint(colorDim, rep.Dir))
	if len(rep.Chains) == 0 {
		w.line("No chains.")
	}
	for i := range rep.Chains {
		w.line("")
		writeChain(w, rep, i, status, opts)
	}

	if len(rep.Anomalies) > 0 {
		w.line("")
		w.line("%s", opts.paint(colorWarn, fmt.Sprintf("Anomalies (%d)", len(rep.Anomalies))))
		for _, a := range rep.Anomalies {
			kind := a.Kind.String()
			color := colorWarn
			if a.Kind.Excluded() {
				color = colorBoldRed
			}
			w.line("  %s %s %s",
				opts.paint(color, column(kind, 18)),
				column(filepath.Base(a.Record.Path), nameWidth),
				a.Detail,
			)
		}
	}

	w.line("")
	label := "Done."
	if opts.DryRun {
		label = "Dry run."
	}
	w.line("%s %s", label, rep.Stats())
	return w.b.String()
}
