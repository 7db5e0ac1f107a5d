package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
)

// linesPerItem is the number of terminal lines each entry occupies.
const linesPerItem = 2

type itemKind int

const (
	itemChain itemKind = iota
	itemAnomaly
)

// item is one selectable entry: a chain or an anomaly.
type item struct {
	kind    itemKind
	index   int // into Report.Chains or Report.Anomalies
	title   string
	sub     string
	path    string // file opened or copied for this entry
	line    int
	search  string // lower-cased text the filter matches against
	anomaly chain.Kind
}

func buildItems(rep *sequence.Report) []item {
	var items []item
	for i, c := range rep.Chains {
		var names []string
		for _, r := range c {
			names = append(names, filepath.Base(r.Path))
		}
		root := c.Root()
		items = append(items, item{
			kind:   itemChain,
			index:  i,
			title:  fmt.Sprintf("%s (%d)", filepath.Base(root.Path), len(c)),
			sub:    strings.Join(names, " > "),
			path:   root.Path,
			line:   root.Line,
			search: strings.ToLower(strings.Join(names, " ")),
		})
	}
	for i, a := range rep.Anomalies {
		name := filepath.Base(a.Record.Path)
		items = append(items, item{
			kind:    itemAnomaly,
			index:   i,
			title:   name,
			sub:     a.Detail,
			path:    a.Record.Path,
			line:    a.Record.Line,
			search:  strings.ToLower(name + " " + a.Kind.String() + " " + a.Detail),
			anomaly: a.Kind,
		})
	}
	return items
}

// filterItems keeps entries whose text contains every word of query.
func filterItems(items []item, query string) []item {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return items
	}
	var out []item
	for _, it := range items {
		ok := true
		for _, w := range words {
			if !strings.Contains(it.search, w) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, it)
		}
	}
	return out
}

// renderList renders the left panel with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Nothing to show")
	}

	var lines []string
	for i, it := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItem(it, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatItem formats an entry as two lines:
//
//	line 1: [>] tag  title
//	line 2:    sub (dimmed)
func formatItem(it item, width int, selected bool) []string {
	var tag string
	switch {
	case it.kind == itemChain:
		tag = styleTagChain.Render(runewidth.FillRight("chain", 8))
	case it.anomaly.Excluded():
		tag = styleTagExcluded.Render(runewidth.FillRight(shortKind(it.anomaly), 8))
	default:
		tag = styleTagAdvisory.Render(runewidth.FillRight(shortKind(it.anomaly), 8))
	}

	titleMax := max(width-2-8-1, 0)
	title := runewidth.Truncate(it.title, titleMax, "…")

	line1 := tag + " " + title
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	sub := runewidth.Truncate(strings.ReplaceAll(it.sub, "\n", " "), max(width-4, 0), "…")
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(sub)

	return []string{line1, line2}
}

func shortKind(k chain.Kind) string {
	switch k {
	case chain.ExtractionError:
		return "extract"
	case chain.DuplicateID:
		return "dup-id"
	case chain.DanglingReference:
		return "dangling"
	case chain.CycleDetected:
		return "cycle"
	case chain.Branch:
		return "branch"
	default:
		return k.String()
	}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
