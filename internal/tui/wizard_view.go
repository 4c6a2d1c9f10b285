package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sabrisig-create/sadar/internal/dictation"
	"github.com/sabrisig-create/sadar/internal/gate"
	"github.com/sabrisig-create/sadar/internal/reflection"
	strutil "github.com/sabrisig-create/sadar/internal/strings"
	"github.com/sabrisig-create/sadar/internal/submit"
	"github.com/sabrisig-create/sadar/internal/wizard"
)

// Consent gate

func (m Model) updateGate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ":
		m.gate.Toggle()
	case "enter":
		if m.gate.Confirm() {
			m.view = ViewWizard
			return m, m.focusStage()
		}
	case "esc", "q":
		m.gate.Cancel()
		m.view = ViewHome
	}
	return m, nil
}

func (m Model) viewGate() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Prima di iniziare") + "\n\n")
	b.WriteString(infoStyle.Render("  Questa riflessione avviene DOPO la documentazione clinica ufficiale.") + "\n")
	b.WriteString(infoStyle.Render("  Non inserire:") + "\n")
	for _, c := range gate.Categories {
		b.WriteString(infoStyle.Render("    • "+c) + "\n")
	}
	b.WriteString("\n")

	check := "[ ]"
	style := infoStyle
	if m.gate.Acknowledged() {
		check = "[x]"
		style = activeStyle
	}
	b.WriteString(style.Render("  "+check+" "+strutil.WordWrap(gate.Attestation, 70)) + "\n")

	b.WriteString(helpStyle.Render("  spazio: conferma attestazione │ invio: inizia │ esc: annulla"))
	return b.String()
}

// Wizard

func (m Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.wiz.Phase() {
	case wizard.PhaseSubmitting:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case wizard.PhaseFailed:
		return m.updateFailed(msg)
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			if m.recording() {
				return m, nil
			}
			m.syncField()
			if m.wiz.Next() {
				m.resetDictation()
				return m, m.focusStage()
			}
			return m, nil

		case "shift+tab", "esc":
			if m.recording() {
				return m, nil
			}
			m.syncField()
			if m.wiz.Back() {
				// Cancelled from the first stage: the draft is discarded.
				m.view = ViewHome
				return m, nil
			}
			m.resetDictation()
			return m, m.focusStage()

		case "ctrl+s":
			m.syncField()
			if m.wiz.BeginSubmit() {
				return m, tea.Batch(m.spinner.Tick, submitCmd(m.opts.Controller, m.wiz))
			}
			return m, nil

		case "ctrl+t":
			return m.toggleDictation()
		}
	}

	cmd := m.updateActiveField(msg)
	m.syncField()
	return m, cmd
}

func (m *Model) updateActiveField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		m.affect, cmd = m.affect.Update(msg)
	case wizard.StageHypothesis:
		m.hypothesis, cmd = m.hypothesis.Update(msg)
	default:
		m.scene, cmd = m.scene.Update(msg)
	}
	return cmd
}

// syncField copies the active component's text into the wizard draft.
func (m *Model) syncField() {
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		m.wiz.SetField(m.affect.Value())
	case wizard.StageHypothesis:
		m.wiz.SetField(m.hypothesis.Value())
	default:
		m.wiz.SetField(m.scene.Value())
	}
}

// setActiveField replaces both the component text and the wizard draft.
func (m *Model) setActiveField(text string) {
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		m.affect.SetValue(text)
	case wizard.StageHypothesis:
		m.hypothesis.SetValue(text)
	default:
		m.scene.SetValue(text)
	}
	m.wiz.SetField(text)
}

func (m *Model) focusStage() tea.Cmd {
	m.scene.Blur()
	m.affect.Blur()
	m.hypothesis.Blur()
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		return m.affect.Focus()
	case wizard.StageHypothesis:
		return m.hypothesis.Focus()
	default:
		return m.scene.Focus()
	}
}

func (m Model) viewWizard() string {
	switch m.wiz.Phase() {
	case wizard.PhaseSubmitting:
		return fmt.Sprintf("\n  %s Invio in corso...\n", m.spinner.View())
	case wizard.PhaseFailed:
		return m.viewFailed()
	}

	stage := m.wiz.Stage()
	info := stage.Info()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("Passo %d di %d — %s",
		int(stage)+1, wizard.TotalStages, info.Title)))
	b.WriteString(subtitleStyle.Render(info.Subtitle) + "\n\n")
	b.WriteString(infoStyle.Render("  "+strutil.WordWrap(info.Description, 70)) + "\n\n")

	var field string
	switch stage {
	case wizard.StageAffect:
		field = m.affect.View()
	case wizard.StageHypothesis:
		field = m.hypothesis.View()
	default:
		field = m.scene.View()
	}
	b.WriteString(boxStyle.Render(field) + "\n")

	b.WriteString("  " + m.thresholdLine() + "\n")
	if line := m.dictationLine(); line != "" {
		b.WriteString("  " + line + "\n")
	}

	help := "tab: avanti │ shift+tab: indietro │ ctrl+t: dettatura │ esc: annulla"
	if stage == wizard.StageHypothesis {
		help = "ctrl+s: invia │ shift+tab: indietro │ ctrl+t: dettatura"
	}
	b.WriteString(helpStyle.Render("  " + help))
	return b.String()
}

// thresholdLine reports progress toward the active stage's minimum.
func (m Model) thresholdLine() string {
	d := m.wiz.Draft()
	var got, need int
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		got, need = len(strings.TrimSpace(d.TherapistAffect)), reflection.MinAffectLen
	case wizard.StageHypothesis:
		got, need = len(strings.TrimSpace(d.InitialHypothesis)), reflection.MinHypothesisLen
	default:
		got, need = len(strings.TrimSpace(d.Scene)), reflection.MinSceneLen
	}

	line := fmt.Sprintf("%d/%d caratteri", got, need)
	if m.wiz.CanProceed() {
		return activeStyle.Render(line + " ✓")
	}
	return warnStyle.Render(line)
}

// Dictation

func (m Model) recording() bool {
	return m.opts.Dictation != nil && m.opts.Dictation.State() == dictation.Recording
}

func (m Model) toggleDictation() (tea.Model, tea.Cmd) {
	a := m.opts.Dictation
	if a == nil || !a.Supported() {
		m.dictErr = fmt.Errorf("microfono non disponibile su questo sistema")
		return m, nil
	}
	if m.recording() {
		return m, tea.Batch(m.spinner.Tick, stopDictation(a))
	}

	// Snapshot the field so each transcription result replaces cleanly.
	m.dictErr = nil
	switch m.wiz.Stage() {
	case wizard.StageAffect:
		m.dictBase = m.affect.Value()
	case wizard.StageHypothesis:
		m.dictBase = m.hypothesis.Value()
	default:
		m.dictBase = m.scene.Value()
	}
	a.Reset()
	return m, startDictation(a)
}

func (m Model) onDictationResult(res dictation.Result) (tea.Model, tea.Cmd) {
	if res.Cancelled {
		return m, nil
	}
	if res.Err != nil {
		// The field keeps whatever was typed; dictation failure is not a
		// data loss event.
		m.dictErr = res.Err
		return m, nil
	}
	if m.view != ViewWizard || m.wiz == nil || m.wiz.Phase() != wizard.PhaseCollecting {
		return m, nil
	}

	text := m.dictBase
	if sep := dictation.Separator(text); res.Transcript != "" {
		text += sep + res.Transcript
	}
	m.setActiveField(text)
	return m, nil
}

func (m *Model) resetDictation() {
	m.dictBase = ""
	m.dictErr = nil
	if m.opts.Dictation != nil {
		m.opts.Dictation.Reset()
	}
}

func (m Model) dictationLine() string {
	if m.dictErr != nil {
		return warnStyle.Render(m.dictErr.Error() + " — continua a scrivere")
	}
	if m.recording() {
		return errorStyle.Render("● Registrazione... (ctrl+t per fermare)")
	}
	return ""
}

// Submission outcome

func (m Model) onSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if m.wiz == nil {
		return m, nil
	}
	m.wiz.FinishSubmit(msg.err)

	if msg.err != nil {
		m.submitErr = msg.err
		return m, nil
	}

	m.report = msg.ref
	m.reportView.SetContent(reportContent(msg.ref))
	m.reportView.GotoTop()
	m.view = ViewReport
	return m, nil
}

func (m Model) updateFailed(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		// Manual retry: a fresh run over the same draft, straight to
		// submission. The gate was already confirmed for these notes.
		w := wizard.NewFromDraft(m.wiz.Draft())
		w.Next()
		w.Next()
		if w.BeginSubmit() {
			m.wiz = w
			m.submitErr = nil
			return m, tea.Batch(m.spinner.Tick, submitCmd(m.opts.Controller, m.wiz))
		}
	case "esc", "q":
		m.view = ViewHome
		if m.opts.Fallback != nil {
			if d, err := m.opts.Fallback.Load(); err == nil {
				m.recovered = d
			}
		}
	}
	return m, nil
}

func (m Model) viewFailed() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Invio non riuscito") + "\n\n")
	b.WriteString(warnStyle.Render("  "+submit.UserNotice) + "\n")
	if m.submitErr != nil {
		b.WriteString(infoStyle.Render("  "+strutil.TruncateRunes(m.submitErr.Error(), 70)) + "\n")
	}
	b.WriteString(helpStyle.Render("  r: riprova │ esc: torna alla home"))
	return b.String()
}
