// Package tui provides the BubbleTea-based terminal mixer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/volbrt/internal/ipc"
	"github.com/jmylchreest/volbrt/internal/level"
	"github.com/jmylchreest/volbrt/internal/model"
)

// Mixer reads and changes levels. Every change also flashes the overlay.
type Mixer interface {
	Volume(ctx context.Context) (*level.Volume, error)
	Brightness(ctx context.Context) (*level.Brightness, error)
	VolumeUp(ctx context.Context, step int) (model.Request, error)
	VolumeDown(ctx context.Context, step int) (model.Request, error)
	VolumeSet(ctx context.Context, lvl int) (model.Request, error)
	VolumeMute(ctx context.Context) (model.Request, error)
	BrightnessUp(ctx context.Context, step int) (model.Request, error)
	BrightnessDown(ctx context.Context, step int) (model.Request, error)
	BrightnessSet(ctx context.Context, lvl int) (model.Request, error)
}

// Channel is a mixer row.
type Channel int

const (
	ChannelVolume Channel = iota
	ChannelBrightness
)

func (c Channel) String() string {
	switch c {
	case ChannelVolume:
		return "Volume"
	case ChannelBrightness:
		return "Brightness"
	default:
		return "unknown"
	}
}

const channelCount = 2

// Model is the main TUI model.
type Model struct {
	ctx   context.Context
	mixer Mixer
	step  int

	// Components
	bar  progress.Model
	help help.Model
	keys KeyMap

	// State
	selected      Channel
	volumeKind    model.Volume
	volume        int
	brightness    int
	volumeErr     error
	brightnessErr error
	loaded        bool
	width         int

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a mixer model. step is the percentage per keypress.
func New(ctx context.Context, mixer Mixer, step int) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	return Model{
		ctx:   ctx,
		mixer: mixer,
		step:  step,
		bar:   bar,
		help:  help.New(),
		keys:  DefaultKeyMap(),
	}
}

type levelsMsg struct {
	volumeKind    model.Volume
	volume        int
	volumeErr     error
	brightness    int
	brightnessErr error
}

type changedMsg struct {
	req model.Request
	err error
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// Init loads the current levels.
func (m Model) Init() tea.Cmd {
	return m.readLevels
}

func (m Model) readLevels() tea.Msg {
	var msg levelsMsg

	if v, err := m.mixer.Volume(m.ctx); err != nil {
		msg.volumeErr = err
	} else {
		msg.volumeKind = v.Kind()
		msg.volume = v.Level()
	}

	if b, err := m.mixer.Brightness(m.ctx); err != nil {
		msg.brightnessErr = err
	} else {
		msg.brightness = b.Level()
	}

	return msg
}

// change runs a mixer call off the UI goroutine.
func (m Model) change(fn func(ctx context.Context) (model.Request, error)) tea.Cmd {
	return func() tea.Msg {
		req, err := fn(m.ctx)
		return changedMsg{req: req, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = max(10, min(60, msg.Width-30))
		return m, nil

	case levelsMsg:
		m.loaded = true
		m.volumeKind = msg.volumeKind
		m.volume = msg.volume
		m.volumeErr = msg.volumeErr
		m.brightness = msg.brightness
		m.brightnessErr = msg.brightnessErr
		return m, nil

	case changedMsg:
		if msg.req.Kind != nil {
			m.apply(msg.req)
		}
		if msg.err != nil {
			return m, setStatus(describeError(msg.err), true)
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

// apply records the state a request describes.
func (m *Model) apply(req model.Request) {
	switch kind := req.Kind.(type) {
	case model.Volume:
		m.volumeKind = kind
		m.volume = int(req.Level)
		m.volumeErr = nil
	case model.Brightness:
		m.brightness = int(req.Level)
		m.brightnessErr = nil
	default:
		panic(fmt.Sprintf("unknown kind %T", kind))
	}
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func describeError(err error) string {
	var delivery *ipc.DeliveryError
	if errors.As(err, &delivery) && delivery.NoListener() {
		return "Level changed, overlay not running"
	}
	return "Error: " + err.Error()
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected + channelCount - 1) % channelCount
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % channelCount
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.readLevels

	case key.Matches(msg, m.keys.Mute):
		if m.selected != ChannelVolume {
			return m, setStatus("Only volume can be muted", true)
		}
		return m, m.change(m.mixer.VolumeMute)
	}

	step := m.step
	switch m.selected {
	case ChannelVolume:
		floor, ceiling := m.volumeKind.Range()
		switch {
		case key.Matches(msg, m.keys.Increase):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.VolumeUp(ctx, step) })
		case key.Matches(msg, m.keys.Decrease):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.VolumeDown(ctx, step) })
		case key.Matches(msg, m.keys.Min):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.VolumeSet(ctx, floor) })
		case key.Matches(msg, m.keys.Max):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.VolumeSet(ctx, ceiling) })
		}
	case ChannelBrightness:
		floor, ceiling := model.Brightness{}.Range()
		switch {
		case key.Matches(msg, m.keys.Increase):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.BrightnessUp(ctx, step) })
		case key.Matches(msg, m.keys.Decrease):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.BrightnessDown(ctx, step) })
		case key.Matches(msg, m.keys.Min):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.BrightnessSet(ctx, floor) })
		case key.Matches(msg, m.keys.Max):
			return m, m.change(func(ctx context.Context) (model.Request, error) { return m.mixer.BrightnessSet(ctx, ceiling) })
		}
	}

	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(12)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// View renders the mixer.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("volbrt"))
	b.WriteString("\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("Reading levels..."))
		b.WriteString("\n")
		return b.String()
	}

	floor, ceiling := m.volumeKind.Range()
	var suffix []string
	if m.volumeKind.Muted {
		suffix = append(suffix, "muted")
	}
	if m.volumeKind.Extended {
		suffix = append(suffix, "extended")
	}
	b.WriteString(m.row(ChannelVolume, m.volume, floor, ceiling, m.volumeErr, strings.Join(suffix, " ")))

	floor, ceiling = model.Brightness{}.Range()
	b.WriteString(m.row(ChannelBrightness, m.brightness, floor, ceiling, m.brightnessErr, ""))

	b.WriteString("\n")
	if m.statusMsg != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		b.WriteString(style.Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) row(ch Channel, lvl, floor, ceiling int, err error, suffix string) string {
	cursor := "  "
	label := labelStyle.Render(ch.String())
	if ch == m.selected {
		cursor = selectedStyle.Render("> ")
		label = selectedStyle.Inherit(labelStyle).Render(ch.String())
	}

	if err != nil {
		return cursor + label + errStyle.Render("unavailable: "+err.Error()) + "\n"
	}

	line := cursor + label + m.bar.ViewAs(Fraction(lvl, floor, ceiling)) + fmt.Sprintf(" %3d%%", lvl)
	if suffix != "" {
		line += " " + dimStyle.Render(suffix)
	}
	return line + "\n"
}

// Fraction maps lvl in [floor, ceiling] onto [0, 1].
func Fraction(lvl, floor, ceiling int) float64 {
	if ceiling <= floor {
		return 0
	}
	lvl = level.Clamp(lvl, floor, ceiling)
	return float64(lvl-floor) / float64(ceiling-floor)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Mixer Mixer
	Step  int
}

// Run starts the mixer and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	m := New(ctx, opts.Mixer, opts.Step)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
