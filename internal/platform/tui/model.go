package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/colorfall/internal/board"
	"github.com/vovakirdan/colorfall/internal/config"
	"github.com/vovakirdan/colorfall/internal/session"
	"github.com/vovakirdan/colorfall/internal/storage"
)

// Options configures the board screen.
type Options struct {
	Config config.Config
	Seed   int64          // Zero picks a time-based seed
	Store  *storage.Store // Optional; completed results are saved here
	Logger *log.Logger
}

// Model is the Bubble Tea model for a Colorfall session.
type Model struct {
	session *session.Session
	view    *view
	store   *storage.Store
	config  config.Config
	logger  *log.Logger
	theme   Theme
	keys    GameKeyMap
	help    help.Model
	cursor  board.Pos
	width   int
	height  int

	quitting    bool
	resultSaved bool // Whether the result has been saved for the current board
}

// NewModel creates the model and deals the first board.
func NewModel(opts Options) Model {
	// Use time-based seed if not specified
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	cfg := opts.Config
	v := newView(cfg.Timing)
	s := session.New(v, session.Options{
		Size:          cfg.Board.Size,
		Colors:        len(cfg.Board.Palette),
		Layout:        cfg.Layout(),
		Rotation:      cfg.Rules.Rotation,
		SettleTimeout: cfg.Timing.SettleTimeout,
		Seed:          opts.Seed,
		Logger:        opts.Logger,
	})
	v.batch = s.Batch

	return Model{
		session: s,
		view:    v,
		store:   opts.Store,
		config:  cfg,
		logger:  opts.Logger,
		theme:   NewTheme(cfg.Board.Palette),
		keys:    DefaultGameKeyMap(cfg.Rules.Rotation),
		help:    help.New(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.Timing.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.session.Dimension()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Export):
		m.exportLayout()

	case key.Matches(msg, m.keys.Restart):
		m.restart()

	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(m.cursor.Row+1, n-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(m.cursor.Col+1, n-1)

	case key.Matches(msg, m.keys.Remove):
		m.session.ClickCell(m.cursor.Row, m.cursor.Col)

	case key.Matches(msg, m.keys.RotateLeft):
		m.session.Rotate(board.Left)
	case key.Matches(msg, m.keys.RotateRight):
		m.session.Rotate(board.Right)
	}

	return m, nil
}

// handleMouse moves the cursor to a clicked cell and removes its region.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	pos, ok := cellAt(msg.X, msg.Y, m.session.Dimension())
	if !ok {
		return m, nil
	}
	m.cursor = pos
	m.session.ClickCell(pos.Row, pos.Col)
	return m, nil
}

// cellAt maps screen coordinates to a board position.
func cellAt(x, y, n int) (board.Pos, bool) {
	col := (x - boardLeft) / cellWidth
	row := y - boardTop
	if x < boardLeft || row < 0 || row >= n || col >= n {
		return board.Pos{}, false
	}
	return board.P(row, col), true
}

// handleTick advances transitions and the settle fallback.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.view.step(m.session)
	m.session.Tick(now)

	// Save result on completion (once)
	if m.session.State() == session.StateCompleted && !m.resultSaved {
		m.saveResult()
		m.resultSaved = true
	}

	return m, tickCmd(m.config.Timing.TickRate)
}

// restart deals a new board.
func (m *Model) restart() {
	m.view.clear()
	m.session.Reset()
	m.resultSaved = false
	n := m.session.Dimension()
	m.cursor.Row = min(m.cursor.Row, n-1)
	m.cursor.Col = min(m.cursor.Col, n-1)
}

// saveResult records the completed session in the store.
func (m *Model) saveResult() {
	if m.store == nil {
		return
	}
	res := m.session.Result()
	if _, err := m.store.SaveResult(storage.Result{
		SessionID: res.SessionID,
		Size:      res.Size,
		Colors:    res.Colors,
		Seed:      res.Seed,
		Moves:     res.Moves,
		Elapsed:   res.Elapsed,
	}); err != nil {
		m.logger.Warn("result not saved", "err", err)
	}
}

// exportLayout writes the current board as a layout string that can be
// loaded back through board.layout in the config.
func (m *Model) exportLayout() {
	dir := filepath.Join(config.Dir(), "layouts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("layout not exported", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.session.Grid().String()+"\n"), 0o600); err != nil {
		m.logger.Warn("layout not exported", "err", err)
		return
	}
	m.logger.Info("layout exported", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		renderHUD(m.theme, m.session.Dimension(), m.session.Moves(), m.session.Elapsed()),
		"",
		renderBoard(m.view, m.theme, m.cursor, !m.view.completed),
		"",
	}
	if m.view.completed {
		lines = append(lines, renderCompleted(m.view, m.theme))
	} else {
		lines = append(lines, renderStatus(m.view, m.theme))
	}
	lines = append(lines, "", m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program for one play session.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks select cells
	)

	_, err := p.Run()
	return err
}
