package main

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/janucaria/himada/internal/settings"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata"
)

// Form fields, in focus order.
const (
	FieldTickers = iota
	FieldMode
	FieldPeriod
	FieldStart
	FieldEnd
	FieldInterval
	FieldActions
	FieldAutoAdjust
	FieldOutDir
	fieldCount
)

// formHeight is the number of rows above the log pane.
const formHeight = 18

// Runner runs one download. *marketdata.Client implements it.
type Runner interface {
	Run(ctx context.Context, cfg marketdata.DownloadConfig, log marketdata.LogFunc) error
}

// Model is the Bubble Tea model of the download form and its log pane.
type Model struct {
	values  settings.Settings
	store   *settings.Store
	runner  Runner
	inputs  [fieldCount]textinput.Model
	focus   int
	logView viewport.Model
	lines   []string
	alert   *formError
	width   int
	height  int

	// at most one download runs at a time
	running bool
	events  <-chan tea.Msg
	cancel  context.CancelFunc
}

// NewModel creates the form filled with values. store may be nil, in which
// case nothing is persisted.
func NewModel(values settings.Settings, store *settings.Store, runner Runner) Model {
	if !slices.Contains(formIntervals, values.Interval) {
		values.Interval = types.IntervalOneDay
	}

	m := Model{
		values:  values,
		store:   store,
		runner:  runner,
		logView: viewport.New(80, 10),
	}

	m.inputs[FieldTickers] = newTextInput("BBCA.JK, AAPL", values.Tickers, 200)
	m.inputs[FieldStart] = newTextInput("YYYY-MM-DD", values.Start, 10)
	m.inputs[FieldEnd] = newTextInput("YYYY-MM-DD", values.End, 10)
	m.inputs[FieldOutDir] = newTextInput("~/himada_csv", values.OutDir, 512)
	m.inputs[FieldTickers].Focus()

	return m
}

func newTextInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 50
	ti.Prompt = ""
	ti.SetValue(value)

	return ti
}

// Values returns the current form values.
func (m Model) Values() settings.Settings {
	return m.values
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width
		m.logView.Height = max(msg.Height-formHeight, 3)
		return m, nil

	case LogLineMsg:
		m.appendLog(msg.Line)
		return m, waitForEvent(m.events)

	case RunFinishedMsg:
		m.running = false
		m.events = nil
		m.cancel = nil
		if msg.Err != nil {
			m.appendLog("❌ " + errors.Message(msg.Err))
		}
		return m, nil

	case SettingsErrorMsg:
		m.appendLog("⚠️ Could not save settings: " + errors.Message(msg.Err))
		return m, nil
	}

	if isTextField(m.focus) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.quit()
	case "ctrl+d":
		return m.startDownload()
	case "ctrl+l":
		m.lines = nil
		m.logView.SetContent("")
		return m, nil
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	}

	m.alert = nil

	switch m.focus {
	case FieldMode, FieldPeriod, FieldInterval:
		switch msg.String() {
		case "left", "h":
			return m.cycle(-1)
		case "right", "l", " ", "enter":
			return m.cycle(1)
		}
		return m, nil
	case FieldActions, FieldAutoAdjust:
		if msg.String() == " " || msg.String() == "enter" {
			if m.focus == FieldActions {
				m.values.Actions = !m.values.Actions
			} else {
				m.values.AutoAdjust = !m.values.AutoAdjust
			}
			return m, m.persist()
		}
		return m, nil
	}

	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if value := m.inputs[m.focus].Value(); value != before {
		m.setText(m.focus, value)
		return m, tea.Batch(cmd, m.persist())
	}

	return m, cmd
}

func (m *Model) setText(field int, value string) {
	switch field {
	case FieldTickers:
		m.values.Tickers = value
	case FieldStart:
		m.values.Start = value
	case FieldEnd:
		m.values.End = value
	case FieldOutDir:
		m.values.OutDir = value
	}
}

// cycle moves a choice field to its next or previous option.
func (m Model) cycle(delta int) (tea.Model, tea.Cmd) {
	switch m.focus {
	case FieldMode:
		m.values.Mode = step(types.Modes, m.values.Mode, delta)
	case FieldPeriod:
		m.values.Period = step(types.Periods, m.values.Period, delta)
		if m.values.Period == types.PeriodMax && m.values.Mode == types.ModePeriod {
			m.values.Mode = types.ModeMax
			m.focus = FieldMode
		}
	case FieldInterval:
		m.values.Interval = step(formIntervals, m.values.Interval, delta)
	}

	return m, m.persist()
}

func step[T comparable](options []T, current T, delta int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}

	return options[(i+delta+len(options))%len(options)]
}

// moveFocus skips fields the current mode disables.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	next := m.focus
	for range fieldCount {
		next = (next + delta + fieldCount) % fieldCount
		if m.enabled(next) {
			break
		}
	}

	return m.setFocus(next)
}

func (m Model) setFocus(field int) (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}

	m.focus = field

	if isTextField(field) {
		return m, m.inputs[field].Focus()
	}

	return m, nil
}

func (m Model) enabled(field int) bool {
	switch field {
	case FieldPeriod:
		return m.values.Mode == types.ModePeriod
	case FieldStart, FieldEnd:
		return m.values.Mode == types.ModeRange
	default:
		return true
	}
}

func isTextField(field int) bool {
	return field == FieldTickers || field == FieldStart || field == FieldEnd || field == FieldOutDir
}

func (m *Model) appendLog(line string) {
	m.lines = append(m.lines, line)
	m.logView.SetContent(strings.Join(m.lines, "\n"))
	m.logView.GotoBottom()
}

// startDownload runs the pipeline on a goroutine and streams its log lines
// back as messages. It does nothing while a run is in flight.
func (m Model) startDownload() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}

	cfg, formErr := buildConfig(m.values)
	if formErr != nil {
		m.alert = formErr
		return m, nil
	}

	m.alert = nil

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 16)
	runner := m.runner

	m.running = true
	m.events = events
	m.cancel = cancel

	go func() {
		defer close(events)

		err := runner.Run(ctx, cfg, func(line string) {
			events <- LogLineMsg{Line: line}
		})
		events <- RunFinishedMsg{Err: err}
	}()

	return m, tea.Batch(waitForEvent(events), m.persist())
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}

	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}

		return msg
	}
}

// persist saves the form in the background.
func (m Model) persist() tea.Cmd {
	if m.store == nil {
		return nil
	}

	store := m.store
	values := m.values
	revision := store.Revision()

	return func() tea.Msg {
		if err := store.SaveRevision(revision, &values); err != nil {
			return SettingsErrorMsg{Err: err}
		}

		return nil
	}
}

// quit stops a running download and saves the form before exiting.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}

	if m.store != nil {
		_ = m.store.Save(&m.values)
	}

	return m, tea.Quit
}
