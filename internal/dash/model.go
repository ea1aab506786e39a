// Package dash is the live dashboard: a Bubble Tea model that multiplexes
// input events, the data tick, and the render frame into one ordered
// update stream.
//
// The data path is single-writer: samples extracted by the reader
// goroutine are staged in the model and committed to the series store only
// on tick messages, so a render snapshot always reflects whole ticks.
package dash

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pipeplot/internal/extract"
	"github.com/rileyhilliard/pipeplot/internal/logger"
	"github.com/rileyhilliard/pipeplot/internal/series"
)

// tickMsg signals a data commit boundary.
type tickMsg time.Time

// frameMsg signals a render frame.
type frameMsg time.Time

// inputMsg carries one reader event into the update loop.
type inputMsg inputEvent

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	store  *series.Store
	reader *Reader
	opts   Options
	keys   keyMap
	help   help.Model
	log    logger.Logger

	// Samples staged between ticks; committed to the store as a batch.
	pending []extract.Match

	// Last committed snapshot; the only data View reads.
	snapshot []series.View

	width    int
	height   int
	dropped  uint64 // per-sample errors (unit mismatch etc.)
	showHelp bool
	eof      bool
	fatal    error
	quitting bool

	// Render rate measurement for the footer.
	frameCount int
	fpsWindow  time.Time
	fps        float64
}

// NewModel creates a dashboard model. The reader is started by Init.
func NewModel(store *series.Store, reader *Reader, opts Options, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}
	return Model{
		store:  store,
		reader: reader,
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		log:    log,
	}
}

// Err returns the fatal ingestion error, if any, after the program exits.
func (m Model) Err() error {
	return m.fatal
}

// Init starts the reader goroutine and arms the tick, frame, and input
// polling commands.
func (m Model) Init() tea.Cmd {
	m.reader.Start()
	return tea.Batch(m.tickCmd(), m.frameCmd(), m.readCmd())
}

// Update handles messages and updates the model state. Handling is fully
// synchronous per message; slow renders queue timer firings rather than
// overlapping them.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.commitPending()
		m.snapshot = m.store.Snapshot()
		if m.eof || m.quitting {
			return m, nil
		}
		return m, m.tickCmd()

	case frameMsg:
		m.countFrame(time.Time(msg))
		if m.eof || m.quitting {
			return m, nil
		}
		return m, m.frameCmd()

	case inputMsg:
		return m.handleInput(inputEvent(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.log.Info("quit requested")
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m Model) handleInput(ev inputEvent) (tea.Model, tea.Cmd) {
	switch {
	case ev.err != nil:
		// Stream-level errors are fatal; everything below that boundary
		// was already dropped per-sample.
		m.fatal = ev.err
		m.quitting = true
		return m, tea.Quit

	case ev.eof:
		// Closed stdin is a clean shutdown: commit what is staged,
		// refresh the snapshot once, and stop all timers.
		m.eof = true
		m.commitPending()
		m.snapshot = m.store.Snapshot()
		return m, tea.Quit

	default:
		m.pending = append(m.pending, ev.matches...)
		return m, m.readCmd()
	}
}

// commitPending flushes staged samples into the store. Per-sample failures
// (unit category mismatch) are dropped and counted, never propagated.
func (m *Model) commitPending() {
	for _, match := range m.pending {
		if err := m.store.Record(match.Series, match.Value, match.Unit); err != nil {
			m.dropped++
			m.log.Debug("dropped sample %q: %v", match.Raw, err)
		}
	}
	m.pending = nil
}

// countFrame updates the rendered-frames-per-second figure once a second.
func (m *Model) countFrame(now time.Time) {
	m.frameCount++
	if m.fpsWindow.IsZero() {
		m.fpsWindow = now
		return
	}
	if elapsed := now.Sub(m.fpsWindow); elapsed >= time.Second {
		m.fps = float64(m.frameCount) / elapsed.Seconds()
		m.frameCount = 0
		m.fpsWindow = now
	}
}

// tickCmd returns a command that fires the next data commit.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// frameCmd returns a command that fires the next render frame.
func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// readCmd returns a command that polls the reader channel for the next
// input event.
func (m Model) readCmd() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.reader.Events()
		if !ok {
			return inputMsg{eof: true}
		}
		return inputMsg(ev)
	}
}
