// Package tui provides a Bubble Tea terminal user interface for jw-media-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/jw-media-downloader/internal/batch"
	"github.com/handiism/jw-media-downloader/internal/config"
	"github.com/handiism/jw-media-downloader/internal/download"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A6DA7")).
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

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// Input fields, in focus order.
const (
	fieldTarget = iota
	fieldLocales
	fieldPubs
	fieldCount
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Counters tracks the files of a batch from progress events.
type Counters struct {
	Queued     int
	Skipped    int
	Downloaded int
	Failed     int
}

// Apply updates the counters from one event.
func (c *Counters) Apply(event download.ProgressEvent) {
	switch event.Kind {
	case download.KindQueued:
		c.Queued += event.Count
	case download.KindSkipped:
		c.Skipped += event.Count
	case download.KindCompleted:
		c.Downloaded += event.Count
	case download.KindFailed:
		c.Failed += event.Count
	}
}

// Percent returns the terminal share of the queued files.
func (c Counters) Percent() float64 {
	if c.Queued == 0 {
		return 0
	}
	return float64(c.Downloaded+c.Failed) / float64(c.Queued)
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// msgs carries progress events and the final DownloadDoneMsg of the
	// running batch.
	msgs chan tea.Msg

	// runner is the batch in progress, polled for received bytes.
	runner        *batch.Runner
	receivedBytes int64

	counters Counters
	summary  batch.Summary

	width  int
	height int
}

// NewModel creates a new TUI model prefilled from settings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldTarget].Placeholder = "~/Music/jw"
	inputs[fieldTarget].SetValue(settings.Target)
	inputs[fieldLocales].Placeholder = "E,X"
	inputs[fieldLocales].SetValue(strings.Join(settings.LocaleKeys(), ","))
	inputs[fieldPubs].Placeholder = "osg,sjjm,w:202505"
	inputs[fieldPubs].SetValue(settings.Pubs)
	inputs[fieldTarget].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A6DA7"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: settings,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every progress event of the running batch.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when the batch returns.
	DownloadDoneMsg struct {
		Summary batch.Summary
		Err     error
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
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
			if m.state == StateDownloading {
				m.cancel()
			}

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus((m.focus + fieldCount - 1) % fieldCount)
				return m, nil
			}

		case "enter":
			if m.state == StateInput {
				req, err := m.request()
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.state = StateDownloading
				m.msgs = make(chan tea.Msg, 256)
				msgs := m.msgs
				m.runner = batch.NewHTTPRunner(req.Options.RequestTimeout, "", func(event download.ProgressEvent) {
					msgs <- ProgressMsg{Event: event}
				})
				return m, tea.Batch(m.startDownload(req), waitForMsg(m.msgs), m.spinner.Tick, m.tickProgress())
			}

		case "ctrl+e":
			if m.state == StateInput {
				m.settings.UseEnglishNames = !m.settings.UseEnglishNames
			}

		case "ctrl+s":
			if m.state == StateInput {
				if m.settings.Structure == string(model.StructureFlat) {
					m.settings.Structure = string(model.StructureNested)
				} else {
					m.settings.Structure = string(model.StructureFlat)
				}
			}

		case "ctrl+a":
			if m.state == StateInput {
				m.settings.IncludeAudioDescriptions = !m.settings.IncludeAudioDescriptions
			}

		case "ctrl+f":
			if m.state == StateInput {
				m.settings.Force = !m.settings.Force
			}

		case "ctrl+p":
			if m.state == StateInput {
				if m.settings.PlaylistFormat == "" {
					m.settings.PlaylistFormat = "m3u"
				} else {
					m.settings.PlaylistFormat = ""
				}
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.settings.TagFiles = !m.settings.TagFiles
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.settings.CoverArt = !m.settings.CoverArt
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.settings.Verbose = !m.settings.Verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.counters = Counters{}
				m.summary = batch.Summary{}
				m.msgs = nil
				m.runner = nil
				m.receivedBytes = 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldTarget)
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.counters.Apply(msg.Event)
		if msg.Event.Level != download.LevelVerbose || m.settings.Verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, m.progress.SetPercent(m.counters.Percent()), waitForMsg(m.msgs))

	case TickMsg:
		if m.runner != nil && m.state == StateDownloading {
			m.receivedBytes = m.runner.ReceivedBytes()
			cmds = append(cmds, m.tickProgress())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		if m.runner != nil {
			m.receivedBytes = m.runner.ReceivedBytes()
		}
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// request validates the form and builds the batch request.
func (m *Model) request() (batch.Request, error) {
	m.settings.Target = strings.TrimSpace(m.inputs[fieldTarget].Value())
	m.settings.Locales = []string{m.inputs[fieldLocales].Value()}
	m.settings.Pubs = strings.TrimSpace(m.inputs[fieldPubs].Value())

	if err := m.settings.Validate(); err != nil {
		return batch.Request{}, err
	}
	return batch.NewRequest(m.settings)
}

// startDownload runs the batch in the background. Every event and the final
// result are delivered through m.msgs.
func (m Model) startDownload(req batch.Request) tea.Cmd {
	ctx, msgs, runner := m.ctx, m.msgs, m.runner
	return func() tea.Msg {
		summary, err := runner.Run(ctx, req)
		msgs <- DownloadDoneMsg{Summary: summary, Err: err}
		close(msgs)
		return nil
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForMsg delivers the next message of a running batch.
func waitForMsg(msgs <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-msgs
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ JW Media Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download audio publications from jw.org"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
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

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	labels := [fieldCount]string{"Target directory:", "Language keys:", "Publications:"}
	for i, label := range labels {
		b.WriteString(subtitleStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	s := m.settings
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Flat structure (ctrl+s)\n", checkbox(s.Structure == string(model.StructureFlat)))
	fmt.Fprintf(&b, "  %s English names (ctrl+e)\n", checkbox(s.UseEnglishNames))
	fmt.Fprintf(&b, "  %s Audio descriptions (ctrl+a)\n", checkbox(s.IncludeAudioDescriptions))
	fmt.Fprintf(&b, "  %s Force re-download (ctrl+f)\n", checkbox(s.Force))
	fmt.Fprintf(&b, "  %s Cover art (ctrl+o)\n", checkbox(s.CoverArt))
	fmt.Fprintf(&b, "  %s ID3 tags (ctrl+t)\n", checkbox(s.TagFiles))
	fmt.Fprintf(&b, "  %s Playlist (ctrl+p)\n", checkbox(s.PlaylistFormat != ""))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+l)\n", checkbox(s.Verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Parallel downloads: %d | Attempts: %d", s.ParallelDownloads, s.MaxRetries)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.counters.Percent()))
	b.WriteString("\n")

	c := m.counters
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Skipped: %d | Failed: %d | Received: %.2f MB",
		c.Downloaded, c.Queued, c.Skipped, c.Failed, float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	s := m.summary
	return boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Publications: %d\n"+
			"Downloaded: %d\n"+
			"Skipped: %d\n"+
			"Failed: %d\n"+
			"Size: %dKB",
		len(s.Publications),
		s.Downloaded,
		s.Skipped,
		m.counters.Failed,
		s.Kilobytes,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
