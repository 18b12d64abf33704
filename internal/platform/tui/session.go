package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/oracle"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/storage"
)

// SessionConfig holds everything one player's session needs.
type SessionConfig struct {
	Catalog    *levels.Catalog
	Ledger     *progress.Ledger
	Store      *storage.Store // Optional
	Oracle     *oracle.Oracle // Optional
	Logger     *log.Logger
	TickDelay  time.Duration
	Difficulty config.Difficulty
	EnergyCost int // Energy spent to start a level; 0 disables energy
	StartLevel int // Open this level directly when > 0
}

func (c SessionConfig) saver() progress.Saver {
	if c.Store == nil {
		return nil
	}
	return c.Store
}

func (c SessionConfig) resultSource() ResultSource {
	if c.Store == nil {
		return nil
	}
	return c.Store
}

type screen int

const (
	screenMap screen = iota
	screenPuzzle
	screenResults
)

// SessionModel manages the full flow: map -> level -> map, plus the
// results table. It is the top-level model for local and SSH play.
type SessionModel struct {
	cfg      SessionConfig
	ctx      context.Context
	screen   screen
	menu     LevelMenuModel
	puzzle   *PuzzleModel
	results  ResultsModel
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(ctx context.Context, cfg SessionConfig, width, height int) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m := SessionModel{
		cfg:    cfg,
		ctx:    ctx,
		width:  width,
		height: height,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() LevelMenuModel {
	return NewLevelMenuModel(m.cfg.Catalog, m.cfg.Ledger, m.cfg.saver(), m.cfg.Difficulty, m.cfg.Logger, m.width, m.height)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.cfg.StartLevel > 0 {
		return func() tea.Msg { return startLevelMsg{levelID: m.cfg.StartLevel} }
	}
	return m.menu.Init()
}

// startLevelMsg asks the session to open a level.
type startLevelMsg struct {
	levelID int
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Handle window resize globally
		m.width = msg.Width
		m.height = msg.Height
	case startLevelMsg:
		return m, m.startLevel(msg.levelID)
	}

	switch m.screen {
	case screenPuzzle:
		return m.updatePuzzle(msg)
	case screenResults:
		return m.updateResults(msg)
	default:
		return m.updateMenu(msg)
	}
}

// startLevel opens a level screen if the level exists, is unlocked and
// the player can pay its energy cost. Otherwise it stays on the map.
func (m *SessionModel) startLevel(id int) tea.Cmd {
	lvl, err := m.cfg.Catalog.Get(id)
	if err != nil {
		m.menu.status = fmt.Sprintf("Level %d does not exist.", id)
		m.screen = screenMap
		return nil
	}
	if !m.cfg.Ledger.IsUnlocked(id) {
		m.menu.status = fmt.Sprintf("%s is locked.", lvl.Name)
		m.screen = screenMap
		return nil
	}
	if m.cfg.EnergyCost > 0 && !m.cfg.Ledger.SpendEnergy(m.cfg.EnergyCost) {
		m.menu.status = fmt.Sprintf("Not enough energy: %s needs %d.", lvl.Name, m.cfg.EnergyCost)
		m.screen = screenMap
		return nil
	}
	m.cfg.Ledger.SetCurrentLevel(id)

	_, hasNext := m.cfg.Catalog.Next(id)
	pm := NewPuzzleModel(m.ctx, PuzzleConfig{
		Level:      lvl,
		Difficulty: m.cfg.Difficulty,
		Ledger:     m.cfg.Ledger,
		Saver:      m.cfg.saver(),
		Oracle:     m.cfg.Oracle,
		Logger:     m.cfg.Logger,
		TickDelay:  m.cfg.TickDelay,
		HasNext:    hasNext,
	}, m.width, m.height)

	m.cfg.Logger.Info("level started", "player", m.cfg.Ledger.Player(), "level", id, "difficulty", m.cfg.Difficulty)
	m.puzzle = &pm
	m.screen = screenPuzzle
	return pm.Init()
}

// updateMenu handles updates when on the map.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(LevelMenuModel); ok {
		m.menu = menuModel
	}
	m.cfg.Difficulty = m.menu.Difficulty()

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsResults() {
		m.results = NewResultsModel(m.cfg.resultSource(), m.cfg.Ledger.Player(), m.width, m.height)
		m.screen = screenResults
		m.menu = m.newMenu()
		return m, m.results.Init()
	}

	if sel := m.menu.Selected(); sel != nil {
		m.cfg.Difficulty = sel.Difficulty
		m.menu = m.newMenu()
		return m, m.startLevel(sel.LevelID)
	}

	return m, cmd
}

// updatePuzzle handles updates when in a level.
func (m SessionModel) updatePuzzle(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.puzzle.Update(msg)
	if pm, ok := newModel.(PuzzleModel); ok {
		m.puzzle = &pm
	}

	if m.puzzle.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.puzzle.WantsNext() {
		next, ok := m.cfg.Catalog.Next(m.puzzle.Level().ID)
		m.puzzle = nil
		m.menu = m.newMenu()
		if !ok {
			m.screen = screenMap
			return m, nil
		}
		return m, m.startLevel(next)
	}

	if m.puzzle.WantsBack() {
		m.puzzle = nil
		m.screen = screenMap
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateResults handles updates when showing the results table.
func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.results.Update(msg)
	if rm, ok := newModel.(ResultsModel); ok {
		m.results = rm
	}

	if m.results.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.results.IsGoingBack() {
		m.screen = screenMap
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPuzzle:
		if m.puzzle != nil {
			return m.puzzle.View()
		}
	case screenResults:
		return m.results.View()
	}
	return m.menu.View()
}

// Close stops any running level. Call it after the program exits.
func (m SessionModel) Close() {
	if m.puzzle != nil {
		m.puzzle.Close()
	}
}

// Screen names the active screen, for logs and tests.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenPuzzle:
		return "puzzle"
	case screenResults:
		return "results"
	default:
		return "map"
	}
}

// Menu returns the map model.
func (m SessionModel) Menu() LevelMenuModel {
	return m.menu
}

// Puzzle returns the active level screen, or nil on the map.
func (m SessionModel) Puzzle() *PuzzleModel {
	return m.puzzle
}

// RunSession runs a session as a local full-screen program.
func RunSession(ctx context.Context, cfg SessionConfig, width, height int) error {
	model := NewSessionModel(ctx, cfg, width, height)

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if sm, ok := finalModel.(SessionModel); ok {
		sm.Close()
	}
	return err
}
