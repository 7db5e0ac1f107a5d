package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/file-sequencer/internal/open"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
)

type model struct {
	report      *sequence.Report
	dryRun      bool
	items       []item
	visible     []item
	query       string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	detail      viewport.Model
	status      string
	width       int
	height      int
	ready       bool
	quitting    bool
	openItem    *item
}

func initialModel(rep *sequence.Report, dryRun bool) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	items := buildItems(rep)
	m := model{
		report:      rep,
		dryRun:      dryRun,
		items:       items,
		visible:     items,
		filterInput: ti,
		detail:      viewport.New(0, 0),
	}
	m.refreshDetail()
	return m
}

// Run starts the plan browser and blocks until it exits. Choosing an entry
// with enter opens its file in $EDITOR after the screen is restored.
func Run(rep *sequence.Report, dryRun bool) error {
	p := tea.NewProgram(initialModel(rep, dryRun), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.openItem != nil {
		return open.OpenFile(fm.openItem.path, fm.openItem.line)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = newViewport(m.detailWidth(), m.panelHeight())
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if it, ok := m.selected(); ok {
				m.openItem = &it
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, keys.Copy):
			if it, ok := m.selected(); ok {
				if err := clipboard.WriteAll(it.path); err != nil {
					m.status = "copy failed: " + err.Error()
				} else {
					m.status = "copied " + it.path
				}
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.DetailUp):
			m.detail.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.DetailDn):
			m.detail.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.detail.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.detail.LineDown(m.panelHeight())
			return m, nil
		}

		// remaining keys edit the filter
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		if q := m.filterInput.Value(); q != m.query {
			m.applyFilter(q)
		}
		return m, cmd
	}

	return m, nil
}

func (m *model) applyFilter(query string) {
	m.query = query
	m.visible = filterItems(m.items, query)
	m.cursor = 0
	m.listOffset = 0
	m.status = ""
	m.refreshDetail()
}

func (m model) selected() (item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return item{}, false
	}
	return m.visible[m.cursor], true
}

func (m *model) refreshDetail() {
	it, ok := m.selected()
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(renderDetail(m.report, it, m.query, m.dryRun, m.detailWidth()-m.detail.Style.GetHorizontalFrameSize()))
	m.detail.GotoTop()
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(m.width*40/100-4, 20)
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row, status bar and borders
	return max(m.height-6, 5)
}

func (m model) statusBar() string {
	if m.status != "" {
		return styleStatusBar.Render(m.status)
	}
	chains, anomalies := 0, 0
	for _, it := range m.visible {
		if it.kind == itemChain {
			chains++
		} else {
			anomalies++
		}
	}
	mode := "run"
	if m.dryRun {
		mode = "plan"
	}
	parts := []string{
		mode,
		fmt.Sprintf("%d chains, %d anomalies", chains, anomalies),
		"up/dn navigate",
		"C-u/C-d detail",
		"Enter edit",
		"C-y copy path",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
