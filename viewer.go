package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lumehl/internal/highlighter"
	"lumehl/internal/lang"
)

type viewerModel struct {
	name   string
	source string
	langID lang.ID

	highlighter *highlighter.Highlighter
	lineNumbers bool

	viewport viewport.Model
	ready    bool
}

func newViewer(cfg config, name string, source string, id lang.ID, h *highlighter.Highlighter) viewerModel {
	return viewerModel{
		name:        name,
		source:      source,
		langID:      id,
		highlighter: h,
		lineNumbers: cfg.LineNumbers,
	}
}

func runViewer(cfg config, name string, source string, id lang.ID, h *highlighter.Highlighter) error {
	program := tea.NewProgram(newViewer(cfg, name, source, id, h), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 1
		height := max(1, msg.Height-headerHeight-footerHeight)

		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.renderContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// renderContent highlights the whole document once; the service caches the
// spans so theme-driven re-renders do not rescan.
func (m viewerModel) renderContent() string {
	spans := m.highlighter.Highlight(highlighter.Request{Lang: m.langID, Text: m.source})
	return renderANSI(m.source, spans, m.lineNumbers)
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m viewerModel) renderHeader() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Header)).Bold(true)
	title := fmt.Sprintf("%s  [%s]  theme %s", m.name, m.langID, appTheme.Name)
	return padRightANSI(headerStyle.Render(truncateText(title, m.viewport.Width)), m.viewport.Width)
}

func (m viewerModel) renderFooter() string {
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Muted))
	pct := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	help := "up/down scroll  pgup/pgdn jump  g/G top/bottom  q quit"

	gap := m.viewport.Width - lipgloss.Width(help) - lipgloss.Width(pct)
	if gap < 1 {
		return footerStyle.Render(truncateText(help, m.viewport.Width))
	}
	return footerStyle.Render(help + strings.Repeat(" ", gap) + pct)
}
