// Package tui provides a Bubble Tea terminal user interface for mp3norm.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/mp3norm/internal/config"
	"github.com/handiism/mp3norm/internal/model"
	"github.com/handiism/mp3norm/internal/normalize"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many log lines stay on screen.
const maxLogs = 12

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   normalize.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	result    *model.RunResult
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	manager *normalize.Manager
	events  chan normalize.ProgressEvent

	processed int32
	total     int32

	// Options
	extract bool
	album   bool
	cover   bool
	force   bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides everything the
// toggles do not cover, such as the driver and the extraction pattern.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "~/Music/incoming"
	ti.SetValue(".")
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		extract:   true,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event emitted by the manager.
	ProgressMsg struct {
		Event normalize.ProgressEvent
	}

	// RunDoneMsg is sent when the run returns.
	RunDoneMsg struct {
		Result *model.RunResult
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				// The manager stops before the next file and reports back.
				m.cancel()
			}
			return m, nil

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				return m, m.start()
			}

		case "alt+e", "alt+a", "alt+c", "alt+f", "alt+v":
			if m.state == StateInput {
				m.toggle(msg.String())
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.result = nil
				m.err = nil
				m.processed = 0
				m.total = 0
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, waitForEvent(m.events))
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == normalize.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case RunDoneMsg:
		m.result = msg.Result
		if m.manager != nil {
			m.processed, m.total = m.manager.GetProgress()
		}
		switch {
		case msg.Err != nil && errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			m.processed, m.total = m.manager.GetProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) toggle(key string) {
	switch key {
	case "alt+e":
		m.extract = !m.extract
	case "alt+a":
		m.album = !m.album
	case "alt+c":
		m.cover = !m.cover
	case "alt+f":
		m.force = !m.force
	case "alt+v":
		m.verbose = !m.verbose
	}
}

// options returns the run options selected by the toggles.
func (m Model) options() normalize.Options {
	return normalize.Options{
		Modes:   config.Modes{Extract: m.extract, Album: m.album, Cover: m.cover},
		Force:   m.force,
		Verbose: false, // sacad output would corrupt the screen
	}
}

// start creates the manager and runs it in the background. Events flow
// through m.events, which the run closes when it returns.
func (m *Model) start() tea.Cmd {
	input := expandHome(strings.TrimSpace(m.textInput.Value()))
	events := make(chan normalize.ProgressEvent, 64)

	manager := normalize.NewManager(m.settings, m.options(), func(event normalize.ProgressEvent) {
		events <- event
	})

	m.state = StateRunning
	m.manager = manager
	m.events = events
	m.textInput.Blur()

	ctx := m.ctx
	run := func() tea.Msg {
		result, err := manager.Run(ctx, []string{input})
		close(events)
		return RunDoneMsg{Result: result, Err: err}
	}

	return tea.Batch(run, waitForEvent(events), tickProgress(), m.spinner.Tick)
}

// waitForEvent returns a command that delivers the next progress event.
// It yields nil once the channel is closed.
func waitForEvent(events <-chan normalize.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ mp3norm"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fill in MP3 artist, title, album and cover art"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Directory or MP3 file:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Extract from file name (alt+e)\n", check(m.extract)))
	b.WriteString(fmt.Sprintf("  %s Look up album (alt+a)\n", check(m.album)))
	b.WriteString(fmt.Sprintf("  %s Fetch cover art (alt+c)\n", check(m.cover)))
	b.WriteString(fmt.Sprintf("  %s Force rewrite (alt+f)\n", check(m.force)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (alt+v)\n", check(m.verbose)))
	b.WriteString("\n")

	driver := m.settings.Driver
	if driver == "" {
		driver = "not set"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Album provider: %s | Driver: %s", m.settings.AlbumProvider, driver)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Normalizing tags..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var updated, skipped, invalid, failed int
	if m.result != nil {
		updated = m.result.Count(model.StatusUpdated)
		skipped = m.result.Count(model.StatusSkipped)
		invalid = m.result.Count(model.StatusInvalidFilename)
		failed = m.result.Count(model.StatusLoadFailed) + m.result.Count(model.StatusSaveFailed)
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✓ Done!\n\n"+
			"Updated: %d\n"+
			"Skipped: %d\n"+
			"Invalid filename: %d\n"+
			"Failed: %d",
		updated, skipped, invalid, failed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case normalize.LevelError:
			style = errorStyle
			prefix = "✗"
		case normalize.LevelWarning:
			style = warningStyle
			prefix = "!"
		case normalize.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case normalize.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • alt+e/a/c/f/v: toggle options • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
