// Package tui provides the interactive journaling interface using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sabrisig-create/sadar/internal/api"
	"github.com/sabrisig-create/sadar/internal/dictation"
	"github.com/sabrisig-create/sadar/internal/fallback"
	"github.com/sabrisig-create/sadar/internal/gate"
	"github.com/sabrisig-create/sadar/internal/reflection"
	"github.com/sabrisig-create/sadar/internal/submit"
	"github.com/sabrisig-create/sadar/internal/wizard"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View represents the current view mode
type View int

const (
	ViewHome View = iota
	ViewGate
	ViewWizard
	ViewReport
	ViewHistory
	ViewHelp
)

// Options carries the wired dependencies for the interactive session.
type Options struct {
	Client     *api.Client
	Controller *submit.Controller
	Dictation  *dictation.Adapter
	Fallback   *fallback.Store
	Email      string
}

// Message types
type submitDoneMsg struct {
	ref *reflection.Reflection
	err error
}
type historyMsg struct {
	refs []*reflection.Reflection
	err  error
}
type dictationStartedMsg struct{ err error }
type dictationMsg struct{ result dictation.Result }

// Model is the main TUI model
type Model struct {
	opts Options

	view     View
	quitting bool
	width    int
	height   int

	// Consent gate state for the active run.
	gate *gate.Gate

	// Wizard state.
	wiz        *wizard.Wizard
	scene      textarea.Model
	affect     textinput.Model
	hypothesis textarea.Model
	submitErr  error

	// Dictation state for the active stage.
	dictBase string
	dictErr  error

	// Report / history state.
	report      *reflection.Reflection
	reportView  viewport.Model
	history     []*reflection.Reflection
	historyErr  error
	loading     bool
	selectedIdx int

	// Recovered fallback draft, offered from the home view.
	recovered *fallback.Draft

	spinner spinner.Model
}

// New creates the TUI model. A recoverable local draft is loaded up front so
// the home view can offer it.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	scene := textarea.New()
	scene.Placeholder = wizard.StageScene.Info().Placeholder
	scene.CharLimit = 2000
	scene.SetHeight(6)

	affect := textinput.New()
	affect.Placeholder = wizard.StageAffect.Info().Placeholder
	affect.CharLimit = 120
	affect.Width = 60

	hypothesis := textarea.New()
	hypothesis.Placeholder = wizard.StageHypothesis.Info().Placeholder
	hypothesis.CharLimit = 1000
	hypothesis.SetHeight(4)

	m := Model{
		opts:       opts,
		view:       ViewHome,
		spinner:    s,
		scene:      scene,
		affect:     affect,
		hypothesis: hypothesis,
		reportView: viewport.New(76, 20),
	}

	if opts.Fallback != nil {
		if d, err := opts.Fallback.Load(); err == nil {
			m.recovered = d
		}
	}
	return m
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 8
		if w > 76 {
			w = 76
		}
		if w < 20 {
			w = 20
		}
		m.scene.SetWidth(w)
		m.hypothesis.SetWidth(w)
		m.reportView.Width = w + 4
		m.reportView.Height = max(msg.Height-8, 5)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		return m.onSubmitDone(msg)

	case historyMsg:
		m.loading = false
		m.history = msg.refs
		m.historyErr = msg.err
		if m.selectedIdx >= len(m.history) {
			m.selectedIdx = 0
		}
		return m, nil

	case dictationStartedMsg:
		m.dictErr = msg.err
		return m, nil

	case dictationMsg:
		return m.onDictationResult(msg.result)
	}

	switch m.view {
	case ViewGate:
		return m.updateGate(msg)
	case ViewWizard:
		return m.updateWizard(msg)
	case ViewReport:
		return m.updateReport(msg)
	case ViewHistory:
		return m.updateHistory(msg)
	case ViewHelp:
		return m.updateHelp(msg)
	default:
		return m.updateHome(msg)
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "A presto.\n"
	}

	switch m.view {
	case ViewGate:
		return m.viewGate()
	case ViewWizard:
		return m.viewWizard()
	case ViewReport:
		return m.viewReport()
	case ViewHistory:
		return m.viewHistory()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewHome()
	}
}

// Home

func (m Model) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "n":
		return m.startRun(wizard.New()), nil
	case "r":
		if m.recovered != nil {
			return m.startRun(wizard.NewFromDraft(m.recovered.Reflection())), nil
		}
	case "h":
		m.view = ViewHistory
		m.loading = true
		m.historyErr = nil
		return m, tea.Batch(m.spinner.Tick, fetchHistory(m.opts.Client))
	case "?":
		m.view = ViewHelp
	}
	return m, nil
}

// startRun resets the consent gate and binds the wizard's draft to the
// field components. Every run passes through the gate first.
func (m Model) startRun(w *wizard.Wizard) Model {
	m.gate = gate.New()
	m.wiz = w
	m.submitErr = nil
	m.dictErr = nil
	m.dictBase = ""
	if m.opts.Dictation != nil {
		m.opts.Dictation.Reset()
	}

	d := w.Draft()
	m.scene.SetValue(d.Scene)
	m.affect.SetValue(d.TherapistAffect)
	m.hypothesis.SetValue(d.InitialHypothesis)
	m.scene.Focus()
	m.affect.Blur()
	m.hypothesis.Blur()

	m.view = ViewGate
	return m
}

func (m Model) viewHome() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SADAR") + "\n")
	b.WriteString(subtitleStyle.Render("Supporto Alla Decentrazione e Auto-Riflessione") + "\n\n")

	if m.opts.Email != "" {
		b.WriteString(infoStyle.Render("  "+m.opts.Email) + "\n\n")
	}

	b.WriteString("  n  Nuova riflessione\n")
	if m.recovered != nil {
		line := fmt.Sprintf("  r  Riprendi bozza salvata (%s)",
			m.recovered.Timestamp.Local().Format("2006-01-02 15:04"))
		b.WriteString(warnStyle.Render(line) + "\n")
	}
	b.WriteString("  h  Riflessioni precedenti\n")
	b.WriteString("  ?  Aiuto\n")
	b.WriteString("  q  Esci\n")

	return b.String()
}

// Help

func (m Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.view = ViewHome
	}
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
  PERCORSO
    n          Nuova riflessione (attestazione, poi tre passi)
    h          Riflessioni precedenti

  NEI TRE PASSI
    tab        Passo successivo (quando la soglia è raggiunta)
    shift+tab  Passo precedente (il testo resta)
    ctrl+s     Invia (solo dall'ultimo passo)
    ctrl+t     Avvia/ferma dettatura
    esc        Indietro; dal primo passo annulla

  NOTE
    La riflessione avviene DOPO la documentazione clinica ufficiale.
    In caso di errore di rete le note restano salvate in locale.
`
	return titleStyle.Render("Aiuto") + "\n" + infoStyle.Render(help) +
		helpStyle.Render("\n  premi un tasto per tornare")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the interactive session.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Commands

func submitCmd(c *submit.Controller, w *wizard.Wizard) tea.Cmd {
	draft := w.Draft()
	return func() tea.Msg {
		ref, err := c.Submit(context.Background(), draft)
		return submitDoneMsg{ref: ref, err: err}
	}
}

func fetchHistory(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return historyMsg{err: fmt.Errorf("nessuna connessione configurata")}
		}
		refs, err := client.ListReflections(context.Background(), 0)
		return historyMsg{refs: refs, err: err}
	}
}

func startDictation(a *dictation.Adapter) tea.Cmd {
	return func() tea.Msg {
		return dictationStartedMsg{err: a.Start(context.Background())}
	}
}

func stopDictation(a *dictation.Adapter) tea.Cmd {
	return func() tea.Msg {
		return dictationMsg{result: a.Stop(context.Background())}
	}
}
