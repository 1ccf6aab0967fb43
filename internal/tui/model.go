package tui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/wordflash/internal/config"
	"github.com/san-kum/wordflash/internal/export"
	"github.com/san-kum/wordflash/internal/flash"
	"github.com/san-kum/wordflash/internal/render"
	"github.com/san-kum/wordflash/internal/storage"
	"github.com/san-kum/wordflash/internal/words"
)

const (
	previewCols = 32
	previewRows = 16
	stripWidth  = 44
)

// TickMsg delivers a scheduled playback tick back to the controller.
type TickMsg struct {
	Tick flash.Tick
}

type exportDoneMsg struct {
	path string
	err  error
}

// Options wires the model to its collaborators. Store may be nil, in which
// case completed recordings are not persisted.
type Options struct {
	Config   *config.Config
	Renderer *render.Renderer
	Store    *storage.Store
	Autoplay bool
}

// Model is the interactive flasher: preview, controls and session stats.
type Model struct {
	ctrl     *flash.Controller
	cfg      *config.Config
	renderer *render.Renderer
	store    *storage.Store
	theme    Theme
	styles   styles
	canvas   *Canvas
	input    textinput.Model
	editing  bool
	showHelp bool
	autoplay bool
	status   string
	failed   bool
	session  string
}

// NewModel builds the TUI around an existing controller.
func NewModel(ctrl *flash.Controller, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	theme := GetTheme(cfg.Theme)

	ti := textinput.New()
	ti.Prompt = "text> "
	ti.Placeholder = "words to flash"
	ti.CharLimit = 2000
	ti.Width = 60

	cols, rows := previewSize(opts.Renderer.Width(), opts.Renderer.Height(), previewCols, previewRows)

	return Model{
		ctrl:     ctrl,
		cfg:      cfg,
		renderer: opts.Renderer,
		store:    opts.Store,
		theme:    theme,
		styles:   newStyles(theme),
		canvas:   NewCanvas(cols, rows),
		input:    ti,
		autoplay: opts.Autoplay,
	}
}

// Controller exposes the engine driven by this model.
func (m Model) Controller() *flash.Controller { return m.ctrl }

// Status is the last message shown to the user.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	if m.autoplay {
		return schedule(m.ctrl.StartPlayback())
	}
	return nil
}

// schedule turns a controller tick into a single-shot bubbletea timer.
func schedule(t *flash.Tick) tea.Cmd {
	if t == nil {
		return nil
	}
	tick := *t
	return tea.Tick(tick.Delay, func(time.Time) tea.Msg { return TickMsg{Tick: tick} })
}

// Update handles keys, playback ticks and export completion.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctrl.CancelPlayback()
			return m, tea.Quit
		case " ", "enter":
			eff, err := m.ctrl.Trigger()
			if err != nil {
				m.setError(err)
				return m, nil
			}
			m.clearStatus()
			return m, m.apply(eff)
		case "n":
			m.ctrl.Nudge()
		case "p":
			tick := m.ctrl.StartPlayback()
			if tick == nil {
				m.setError(fmt.Errorf("nothing to play (%s)", m.ctrl.Mode()))
				return m, nil
			}
			m.clearStatus()
			return m, schedule(tick)
		case "s":
			m.ctrl.CancelPlayback()
		case "g":
			job, err := m.ctrl.BeginExport()
			if err != nil {
				m.setError(err)
				return m, nil
			}
			m.setStatus("exporting %d frames...", len(job.Tokens))
			return m, m.exportCmd(job)
		case "e":
			if m.ctrl.Mode() == flash.Exporting {
				m.setError(flash.ErrBusy)
				return m, nil
			}
			m.editing = true
			m.input.SetValue(m.ctrl.Text())
			m.input.CursorEnd()
			return m, m.input.Focus()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "a":
			next := m.ctrl.AfterRecord().Next()
			m.ctrl.SetAfterRecord(next)
			m.setStatus("after recording: %s", next)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		return m, schedule(m.ctrl.Fire(msg.Tick))
	case exportDoneMsg:
		m.ctrl.EndExport()
		if msg.err != nil {
			m.setError(fmt.Errorf("export failed: %w", msg.err))
		} else {
			m.setStatus("saved %s", msg.path)
		}
	default:
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.ctrl.SetText(m.input.Value())
		m.editing = false
		m.input.Blur()
		m.setStatus("%d words", len(m.ctrl.Tokens()))
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply carries out the follow-up work an operation asked for.
func (m *Model) apply(eff flash.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Completed {
		m.saveSession()
	}
	if eff.Tick != nil {
		cmds = append(cmds, schedule(eff.Tick))
	}
	if eff.Export != nil {
		cmds = append(cmds, m.exportCmd(eff.Export))
	}
	return tea.Batch(cmds...)
}

func (m *Model) saveSession() {
	if m.store == nil {
		return
	}
	meta := storage.SessionMetadata{
		Text:       m.ctrl.Text(),
		Width:      m.renderer.Width(),
		Height:     m.renderer.Height(),
		Foreground: m.renderer.ForegroundHex(),
		Background: m.renderer.BackgroundHex(),
		Font:       m.renderer.FontName(),
	}
	id, err := m.store.Save(meta, m.ctrl.Tokens(), m.ctrl.Timings())
	if err != nil {
		log.Printf("tui: save session: %v", err)
		m.setError(fmt.Errorf("save session: %w", err))
		return
	}
	m.session = id
	m.setStatus("recorded session %s", id)
}

// exportCmd builds the animation off the update loop. The job carries its
// own copies of tokens and timings.
func (m *Model) exportCmd(job *flash.ExportJob) tea.Cmd {
	renderer := m.renderer
	path := filepath.Join(m.cfg.OutputDir, words.Filename(job.Text))
	return func() tea.Msg {
		f, err := export.Create(path, renderer.Palette())
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := job.Build(context.Background(), renderer, f); err != nil {
			f.Abort()
			return exportDoneMsg{path: f.Path(), err: err}
		}
		return exportDoneMsg{path: f.Path()}
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *Model) setError(err error) {
	log.Printf("tui: %v", err)
	m.status = err.Error()
	m.failed = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.failed = false
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	word, ok := m.ctrl.Current()

	frame, err := m.renderer.Render(word)
	if err == nil {
		m.canvas.Plot(frame, m.renderer.Foreground(), m.renderer.Background())
	} else {
		m.canvas.Clear()
	}

	var left strings.Builder
	left.WriteString(m.canvas.String())
	left.WriteString("\n\n")
	if ok {
		left.WriteString(st.word.Render(runewidth.Truncate(word, previewCols*2, "…")))
	} else {
		left.WriteString(st.strip.Render("(no words, press e to edit)"))
	}
	cur, rest := tokenStrip(m.ctrl.Tokens(), m.ctrl.Index(), stripWidth)
	if cur != "" {
		left.WriteString("\n" + st.value.Render(cur))
		if rest != "" {
			left.WriteString(" " + st.strip.Render(rest))
		}
	}
	canvasView := st.canvas.Render(left.String())

	mode := m.ctrl.Mode()
	timings := m.ctrl.Timings()
	tokens := m.ctrl.Tokens()

	var s strings.Builder
	s.WriteString(st.header.Render("WORDFLASH") + "  " + st.badges[mode.String()].Render(strings.ToUpper(mode.String())) + "\n")
	s.WriteString(st.label.Render("Words") + st.value.Render(fmt.Sprintf("%d", len(tokens))) + "\n")
	position := "-"
	if len(tokens) > 0 {
		position = fmt.Sprintf("%d/%d", words.Wrap(m.ctrl.Index(), len(tokens))+1, len(tokens))
	}
	s.WriteString(st.label.Render("Position") + st.value.Render(position) + "\n")
	s.WriteString(st.label.Render("Timings") + st.value.Render(fmt.Sprintf("%d (%s)", len(timings), totalDuration(timings))) + "\n")
	s.WriteString(st.label.Render("After rec") + st.value.Render(m.ctrl.AfterRecord().String()) + "\n")
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%dx%d %s", m.renderer.Width(), m.renderer.Height(), m.renderer.FontName())) + "\n")
	if m.session != "" {
		s.WriteString(st.label.Render("Session") + st.value.Render(m.session) + "\n")
	}

	if len(timings) > 1 {
		s.WriteString("\n" + st.graph.Render(intervalGraph(timings, 30, 4)) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n")
		if m.failed {
			s.WriteString(st.errorLine.Render(m.status))
		} else {
			s.WriteString(st.okLine.Render(m.status))
		}
		s.WriteString("\n")
	}

	s.WriteString(st.help.Render("SPC:Record/Next/Stop  P:Play  S:Stop\nG:GIF  E:Edit  N:Next  A:After  T:Theme\n?:Help  Q:Quit"))
	statsView := st.stats.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.editing {
		mainView += "\n\n" + m.input.View()
	}
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════════╗
║             KEYBOARD SHORTCUTS           ║
╠══════════════════════════════════════════╣
║  Space/Enter - Record / next word / stop ║
║  P           - Play recorded timing      ║
║  S           - Stop playback             ║
║  N           - Show next word            ║
║  G           - Export GIF                ║
║  E           - Edit text                 ║
║  A           - Cycle after-record action ║
║  T           - Cycle themes              ║
║  ?           - Toggle this help          ║
║  Q           - Quit                      ║
╚══════════════════════════════════════════╝`

// tokenStrip returns the token at index and as many following tokens as
// fit in width terminal cells.
func tokenStrip(tokens []string, index, width int) (string, string) {
	if len(tokens) == 0 || width <= 0 {
		return "", ""
	}
	i := words.Wrap(index, len(tokens))
	cur := runewidth.Truncate(tokens[i], width, "…")
	remaining := width - runewidth.StringWidth(cur) - 1
	if i == len(tokens)-1 || remaining <= 0 {
		return cur, ""
	}
	rest := strings.Join(tokens[i+1:], " ")
	return cur, runewidth.Truncate(rest, remaining, "…")
}

func totalDuration(timings []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total
}

func intervalGraph(timings []time.Duration, width, height int) string {
	data := make([]float64, len(timings))
	for i, d := range timings {
		data[i] = float64(d.Milliseconds())
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("interval ms"),
	)
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctrl *flash.Controller, opts Options) error {
	_, err := tea.NewProgram(NewModel(ctrl, opts), tea.WithAltScreen()).Run()
	return err
}
