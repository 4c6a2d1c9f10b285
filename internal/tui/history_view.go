package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sabrisig-create/sadar/internal/reflection"
	strutil "github.com/sabrisig-create/sadar/internal/strings"
)

// Report

// reportContent renders the full reflection report for the viewport.
func reportContent(ref *reflection.Reflection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Data: %s\n\n", ref.CreatedAt.Local().Format("2006-01-02 15:04"))

	section := func(title, body string) {
		b.WriteString(activeStyle.Render(title) + "\n")
		b.WriteString(strutil.WordWrap(body, 72) + "\n\n")
	}
	section("Scena", ref.Scene)
	section("Affetto del terapeuta", ref.TherapistAffect)
	section("Ipotesi iniziale", ref.InitialHypothesis)

	if ref.AIResponse != "" {
		section("Risposta SADAR", ref.AIResponse)
	} else {
		b.WriteString(infoStyle.Render("Nessuna risposta generata") + "\n")
	}
	return b.String()
}

func (m Model) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc", "q":
			m.view = ViewHome
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.reportView, cmd = m.reportView.Update(msg)
	return m, cmd
}

func (m Model) viewReport() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Riflessione SADAR") + "\n\n")
	b.WriteString(boxStyle.Render(m.reportView.View()) + "\n")
	b.WriteString(helpStyle.Render("  ↑/↓: scorri │ esc: torna alla home"))
	return b.String()
}

// History

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.view = ViewHome
	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
	case "down", "j":
		if m.selectedIdx < len(m.history)-1 {
			m.selectedIdx++
		}
	case "enter":
		if m.selectedIdx < len(m.history) {
			m.report = m.history[m.selectedIdx]
			m.reportView.SetContent(reportContent(m.report))
			m.reportView.GotoTop()
			m.view = ViewReport
		}
	}
	return m, nil
}

func (m Model) viewHistory() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Riflessioni precedenti") + "\n\n")

	switch {
	case m.loading:
		fmt.Fprintf(&b, "  %s Caricamento...\n", m.spinner.View())
	case m.historyErr != nil:
		b.WriteString(errorStyle.Render("  "+strutil.TruncateRunes(m.historyErr.Error(), 70)) + "\n")
	case len(m.history) == 0:
		b.WriteString(infoStyle.Render("  Nessuna riflessione salvata") + "\n")
	default:
		for i, ref := range m.history {
			cursor := "  "
			style := infoStyle
			if i == m.selectedIdx {
				cursor = "▶ "
				style = activeStyle
			}
			line := fmt.Sprintf("%s%s  %s",
				cursor,
				ref.CreatedAt.Local().Format("2006-01-02 15:04"),
				strutil.TruncateRunes(strutil.FirstLine(ref.Scene), 46))
			b.WriteString(style.Render(line) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("\n  invio: apri │ j/k: naviga │ esc: indietro"))
	return b.String()
}
