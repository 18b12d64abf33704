package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/oracle"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
	"github.com/vovakirdan/realm-rescue/internal/sim"
)

// PuzzleConfig bundles everything a level screen needs.
type PuzzleConfig struct {
	Level      levels.Level
	Difficulty config.Difficulty
	Ledger     *progress.Ledger // Optional; without it wins pay nothing
	Saver      progress.Saver   // Optional
	Oracle     *oracle.Oracle   // Optional
	Logger     *log.Logger
	TickDelay  time.Duration
	HasNext    bool // A level follows this one in the catalog
}

// Ensure the progress reporter can receive driver outcomes
var _ sim.Reporter = (*progress.Reporter)(nil)

// driverGen numbers drivers across all level screens, so a stale event
// can never match a newer screen's driver.
var driverGen atomic.Int64

// oracleMsg carries the oracle's answer back into the update loop.
type oracleMsg struct {
	text string
}

// PuzzleModel plays one level. Pin pulls are forwarded to a sim.Driver
// and the board is redrawn from the snapshots it emits.
type PuzzleModel struct {
	cfg PuzzleConfig
	ctx context.Context

	gen      int // Changes whenever the driver is replaced
	driver   *sim.Driver
	reporter *progress.Reporter

	pins      []string
	cursor    int
	snap      puzzle.Snapshot
	reactions []puzzle.Reaction
	outcome   *puzzle.Outcome

	oracleText string
	oracleBusy bool

	width     int
	height    int
	keyMapper *KeyMapper
	theme     Theme
	quitting  bool
	back      bool
	next      bool
}

// NewPuzzleModel creates a level screen. The driver starts in Init.
func NewPuzzleModel(ctx context.Context, cfg PuzzleConfig, width, height int) PuzzleModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.TickDelay <= 0 {
		cfg.TickDelay = sim.DefaultTickDelay
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m := PuzzleModel{
		cfg:       cfg,
		ctx:       ctx,
		pins:      cfg.Level.Layout.PinIDs(),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		theme:     GetTheme(),
	}
	m.newDriver()
	return m
}

// newDriver replaces the driver with a fresh one for the same level.
func (m *PuzzleModel) newDriver() {
	m.gen = int(driverGen.Add(1))

	var rep sim.Reporter
	m.reporter = nil
	if m.cfg.Ledger != nil {
		m.reporter = progress.NewReporter(m.cfg.Ledger, m.cfg.Saver, progress.Run{
			LevelID:    m.cfg.Level.ID,
			BaseReward: m.cfg.Level.Reward,
			Difficulty: m.cfg.Difficulty,
		}, m.cfg.Logger)
		rep = m.reporter
	}

	m.driver = sim.New(m.cfg.Level.Layout, sim.Options{
		TickDelay: m.cfg.TickDelay,
		Logger:    m.cfg.Logger.With("level", m.cfg.Level.ID),
		Reporter:  rep,
	})
	m.snap = m.driver.Snapshot()
	m.reactions = nil
	m.outcome = nil
	m.cursor = 0
	m.next = false
}

// listen returns the command that waits for the current driver's next event.
func (m PuzzleModel) listen() tea.Cmd {
	return waitForEvent(m.gen, m.driver.Events())
}

// Init starts the simulation driver.
func (m PuzzleModel) Init() tea.Cmd {
	m.driver.Start(m.ctx)
	return m.listen()
}

// Update handles messages.
func (m PuzzleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case DriverEventMsg:
		if msg.Gen != m.gen {
			return m, nil // Event from a replaced driver
		}
		m.applyEvent(msg.Event)
		return m, m.listen()
	case DriverClosedMsg:
		return m, nil
	case oracleMsg:
		m.oracleBusy = false
		m.oracleText = msg.text
		return m, nil
	}
	return m, nil
}

func (m *PuzzleModel) applyEvent(ev sim.Event) {
	m.snap = ev.Snapshot
	switch ev.Kind {
	case sim.EventChanged:
		m.reactions = ev.Reactions
	case sim.EventPinRemoved, sim.EventReset:
		m.reactions = nil
	case sim.EventFinished:
		m.reactions = ev.Reactions
		m.outcome = ev.Outcome
	}
}

func (m PuzzleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, pinIndex := m.keyMapper.MapKeyToPuzzleAction(msg)

	switch action {
	case PuzzleActionQuit:
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case PuzzleActionBack:
		m.back = true
		m.Close()
		return m, nil

	case PuzzleActionPrevPin:
		if len(m.pins) > 0 {
			m.cursor = (m.cursor - 1 + len(m.pins)) % len(m.pins)
		}

	case PuzzleActionNextPin:
		if len(m.pins) > 0 {
			m.cursor = (m.cursor + 1) % len(m.pins)
		}

	case PuzzleActionPull:
		if pinIndex >= 0 {
			if pinIndex >= len(m.pins) {
				return m, nil
			}
			m.cursor = pinIndex
		}
		if m.outcome != nil || len(m.pins) == 0 {
			return m, nil
		}
		// Pulled pins are ignored by the state, so no need to check here
		m.driver.RemovePin(m.pins[m.cursor])

	case PuzzleActionReset:
		return m, m.restart()

	case PuzzleActionOracle:
		if m.cfg.Oracle == nil || m.oracleBusy {
			return m, nil
		}
		m.oracleBusy = true
		m.oracleText = ""
		return m, m.askOracle()

	case PuzzleActionNext:
		if m.outcome != nil && m.outcome.Status == puzzle.StatusWon && m.cfg.HasNext {
			m.next = true
			m.Close()
		}
	}

	return m, nil
}

// restart tears down the current driver and plays the level again.
// A new driver (and run id) is used so every attempt is recorded separately.
func (m *PuzzleModel) restart() tea.Cmd {
	m.driver.Stop()
	m.newDriver()
	m.driver.Start(m.ctx)
	return m.listen()
}

func (m PuzzleModel) askOracle() tea.Cmd {
	o := m.cfg.Oracle
	ctx := m.ctx
	gold := 0
	if m.cfg.Ledger != nil {
		gold = m.cfg.Ledger.Snapshot().Gold
	}
	situation := oracle.Situation(m.cfg.Level.Name, m.cfg.Level.Hint, gold)
	return func() tea.Msg {
		return oracleMsg{text: o.Wisdom(ctx, situation)}
	}
}

// Close stops the driver. Safe to call more than once.
func (m PuzzleModel) Close() {
	m.driver.Stop()
}

// View renders the level.
func (m PuzzleModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHUD())
	b.WriteString("\n\n")
	b.WriteString(RenderZones(m.snap.Zones, m.width, m.theme))
	b.WriteString("\n\n")
	b.WriteString(RenderConnections(m.cfg.Level.Layout, m.snap, m.pins, m.cursor, m.theme))
	b.WriteString("\n")

	if r := RenderReactions(m.reactions, m.theme); r != "" {
		b.WriteString("\n")
		b.WriteString(r)
		b.WriteString("\n")
	}

	if m.outcome != nil {
		b.WriteString("\n")
		b.WriteString(RenderOutcome(*m.outcome, m.cfg.HasNext, m.theme))
		b.WriteString("\n")
	}

	switch {
	case m.oracleBusy:
		b.WriteString("\n")
		b.WriteString(m.theme.OracleText.Render("The oracle gazes into the mists..."))
		b.WriteString("\n")
	case m.oracleText != "":
		b.WriteString("\n")
		b.WriteString(m.theme.OracleText.Render("Oracle: " + m.oracleText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Left/Right: Select pin  |  Enter or 1-9: Pull  |  R: Reset  |  Esc: Map  |  Q: Quit"
	if m.cfg.Oracle != nil {
		controls = "Left/Right: Select pin  |  Enter or 1-9: Pull  |  O: Oracle  |  R: Reset  |  Esc: Map  |  Q: Quit"
	}
	b.WriteString(m.theme.HUDControls.Render(controls))
	b.WriteString("\n")

	return b.String()
}

func (m PuzzleModel) renderHUD() string {
	sep := m.theme.HUDSeparator.Render("  |  ")
	parts := []string{
		m.theme.HUDTitle.Render(fmt.Sprintf("LEVEL %d: %s", m.cfg.Level.ID, m.cfg.Level.Name)),
		m.theme.HUDValue.Render(m.cfg.Difficulty.Label()),
		m.theme.HUDValue.Render(fmt.Sprintf("Reward %d", m.cfg.Level.RewardFor(m.cfg.Difficulty))),
	}
	if m.cfg.Ledger != nil {
		parts = append(parts, m.theme.HUDValue.Render(fmt.Sprintf("Gold %d", m.cfg.Ledger.Snapshot().Gold)))
	}
	parts = append(parts, m.theme.HUDValue.Render(m.snap.Status.String()))

	hint := m.theme.MenuDescription.Render(m.cfg.Level.Hint)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(parts, sep), hint)
}

// Level returns the level being played.
func (m PuzzleModel) Level() levels.Level {
	return m.cfg.Level
}

// Snapshot returns the last state the screen rendered.
func (m PuzzleModel) Snapshot() puzzle.Snapshot {
	return m.snap
}

// Outcome returns the terminal outcome, or nil while playing.
func (m PuzzleModel) Outcome() *puzzle.Outcome {
	return m.outcome
}

// RunID returns the id recorded for the current attempt, if any.
func (m PuzzleModel) RunID() string {
	if m.reporter == nil {
		return ""
	}
	return m.reporter.RunID()
}

// IsQuitting returns true if user requested to quit entirely.
func (m PuzzleModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user requested to go back to the map.
func (m PuzzleModel) WantsBack() bool {
	return m.back
}

// WantsNext returns true if user asked for the next level after a win.
func (m PuzzleModel) WantsNext() bool {
	return m.next
}
