package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Zuo-Peng/file-sequencer/internal/render"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
)

// renderDetail renders the right panel for the selected entry.
func renderDetail(rep *sequence.Report, it item, query string, dryRun bool, width int) string {
	opts := render.Options{Color: true, Width: width, DryRun: dryRun, Query: query}
	if it.kind == itemChain {
		return render.Chain(rep, it.index, opts)
	}
	return render.Anomaly(rep.Anomalies[it.index], opts)
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
