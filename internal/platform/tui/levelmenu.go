package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/progress"
)

// LevelSelection holds the user's choice from the level map.
type LevelSelection struct {
	LevelID    int
	Difficulty config.Difficulty
}

// LevelMenuModel is the realm map: a level picker that respects unlocks,
// with a difficulty toggle and castle upgrades.
type LevelMenuModel struct {
	levels     []levels.Level
	ledger     *progress.Ledger
	saver      progress.Saver // Optional
	logger     *log.Logger
	difficulty config.Difficulty

	cursor       int
	scrollOffset int
	width        int
	height       int
	keyMapper    *KeyMapper
	theme        Theme
	status       string // One-line feedback under the list

	selection *LevelSelection
	quitting  bool
	results   bool
}

// NewLevelMenuModel creates the level map. The cursor starts on the
// player's current level when it is in the catalog.
func NewLevelMenuModel(catalog *levels.Catalog, ledger *progress.Ledger, saver progress.Saver,
	difficulty config.Difficulty, logger *log.Logger, width, height int) LevelMenuModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := LevelMenuModel{
		levels:     catalog.List(),
		ledger:     ledger,
		saver:      saver,
		logger:     logger,
		difficulty: difficulty,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		theme:      GetTheme(),
	}

	current := ledger.Snapshot().CurrentLevel
	for i, lvl := range m.levels {
		if lvl.ID == current {
			m.cursor = i
			break
		}
	}
	m.updateScroll()
	return m
}

func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.status = ""

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)
		m.updateScroll()
	case MenuActionDown:
		m.cursor = min(m.cursor+1, max(len(m.levels)-1, 0))
		m.updateScroll()
	case MenuActionSelect:
		if len(m.levels) == 0 {
			return m, nil
		}
		lvl := m.levels[m.cursor]
		if !m.ledger.IsUnlocked(lvl.ID) {
			m.status = fmt.Sprintf("%s is locked. Complete level %d first.", lvl.Name, lvl.ID-1)
			return m, nil
		}
		m.selection = &LevelSelection{LevelID: lvl.ID, Difficulty: m.difficulty}
	case MenuActionDifficulty:
		m.difficulty = m.difficulty.Next()
	case MenuActionUpgrade:
		m.upgradeCastle()
	case MenuActionResults:
		m.results = true
	case MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *LevelMenuModel) upgradeCastle() {
	level, cost, err := m.ledger.UpgradeCastle()
	if errors.Is(err, progress.ErrInsufficientGold) {
		m.status = fmt.Sprintf("Not enough gold: the upgrade costs %d.", cost)
		return
	}
	m.status = fmt.Sprintf("Castle upgraded to level %d for %d gold.", level, cost)

	if m.saver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.saver.SaveProgress(ctx, m.ledger.Snapshot()); err != nil {
		m.logger.Warn("could not save progress", "player", m.ledger.Player(), "err", err)
	}
}

// updateScroll keeps the cursor inside the visible window.
func (m *LevelMenuModel) updateScroll() {
	rows := m.rows()
	m.scrollOffset = min(m.scrollOffset, m.cursor)
	m.scrollOffset = max(m.scrollOffset, m.cursor-rows+1)
}

// rows is how many levels fit between the header and the footer.
func (m LevelMenuModel) rows() int {
	return max(m.height-12, 3)
}

func (m LevelMenuModel) levelLine(i int, p progress.Progress) string {
	lvl := m.levels[i]
	selected := i == m.cursor

	marker, style := "  ", m.theme.MenuItemNormal
	if selected {
		marker, style = "> ", m.theme.MenuItemActive
	}
	tag := fmt.Sprintf("%4d gold", lvl.RewardFor(m.difficulty))
	if !p.IsUnlocked(lvl.ID) {
		tag = "  locked"
		if !selected {
			style = m.theme.MenuItemLocked
		}
	}
	return style.Render(fmt.Sprintf("%s%2d. %-24s %-3s %s", marker, lvl.ID, lvl.Name, strings.Repeat("*", lvl.Tier), tag))
}

// View renders the level map.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	p := m.ledger.Snapshot()
	var b strings.Builder
	line := func(s string) {
		b.WriteString(centerText(s, m.width))
		b.WriteString("\n")
	}
	note := func(s string) { line(m.theme.MenuDescription.Render(s)) }

	b.WriteString("\n")
	line(m.theme.MenuTitle.Render("R E A L M   R E S C U E"))
	b.WriteString("\n")
	line(m.theme.HUDValue.Render(fmt.Sprintf("%s  |  Gold %d  |  Gems %d  |  Energy %d/%d  |  Castle %d (upgrade %d)",
		p.Player, p.Gold, p.Gems, p.Energy, p.MaxEnergy, p.CastleLevel, p.UpgradeCost())))
	note("Difficulty: " + m.difficulty.Label())
	b.WriteString("\n")

	if len(m.levels) == 0 {
		note("No levels found")
	}
	last := min(m.scrollOffset+m.rows(), len(m.levels))
	if m.scrollOffset > 0 {
		note("...")
	}
	for i := m.scrollOffset; i < last; i++ {
		line(m.levelLine(i, p))
	}
	if last < len(m.levels) {
		note("...")
	}

	if len(m.levels) > 0 {
		b.WriteString("\n")
		note(m.levels[m.cursor].Hint)
	}
	if m.status != "" {
		b.WriteString("\n")
		line(m.theme.OverlayText.Render(m.status))
	}

	b.WriteString("\n")
	line(m.theme.HUDControls.Render("↑/↓: Choose  |  Enter: Play  |  D: Difficulty  |  U: Upgrade castle  |  H: History  |  Q: Quit"))
	return b.String()
}

// Selected returns the chosen level, or nil.
func (m LevelMenuModel) Selected() *LevelSelection {
	return m.selection
}

// Difficulty returns the currently chosen difficulty.
func (m LevelMenuModel) Difficulty() config.Difficulty {
	return m.difficulty
}

// Status returns the feedback line shown under the list.
func (m LevelMenuModel) Status() string {
	return m.status
}

// IsQuitting reports whether the player left the map.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults reports whether the history table was requested.
func (m LevelMenuModel) WantsResults() bool {
	return m.results
}
