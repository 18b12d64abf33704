package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
	"github.com/vovakirdan/realm-rescue/internal/storage"
)

const maxResults = 100

// ResultSource lists stored level results, newest first.
// An empty player means every player.
type ResultSource interface {
	RecentResults(ctx context.Context, player string, limit int) ([]storage.ResultEntry, error)
}

// ResultsKeyMap holds the history screen bindings. It implements help.KeyMap.
type ResultsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextScope key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScope, k.Back, k.Quit}
}

func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultResultsKeyMap returns the standard history bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	bind := func(help, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return ResultsKeyMap{
		Up:        bind("↑/k", "older", "up", "k"),
		Down:      bind("↓/j", "newer", "down", "j"),
		NextScope: bind("tab", "mine/everyone", "tab", "left", "right", "h", "l"),
		Back:      bind("esc", "map", "esc", "b"),
		Quit:      bind("q", "quit", "q", "ctrl+c"),
	}
}

var resultColumns = []table.Column{
	{Title: "When", Width: 13},
	{Title: "Player", Width: 10},
	{Title: "Level", Width: 6},
	{Title: "Difficulty", Width: 10},
	{Title: "Status", Width: 8},
	{Title: "Reward", Width: 7},
}

// ResultsModel browses finished levels in a bubbles table.
type ResultsModel struct {
	source   ResultSource // nil without storage
	player   string
	everyone bool
	results  []storage.ResultEntry
	loadErr  error

	table  table.Model
	help   help.Model
	keys   ResultsKeyMap
	theme  Theme
	width  int
	height int

	standalone bool // Back quits the program
	quitting   bool
	goingBack  bool
}

// NewResultsModel loads the player's history.
func NewResultsModel(source ResultSource, player string, width, height int) ResultsModel {
	m := ResultsModel{
		source: source,
		player: player,
		help:   help.New(),
		keys:   DefaultResultsKeyMap(),
		theme:  GetTheme(),
		width:  width,
		height: height,
	}

	styles := table.DefaultStyles()
	styles.Header = m.theme.TableHeader
	styles.Selected = m.theme.TableSelected
	m.table = table.New(
		table.WithColumns(resultColumns),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	m.resize(width, height)
	m.load()
	return m
}

func (m *ResultsModel) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	// Title, frame and help take eight lines
	m.table.SetHeight(max(height-8, 3))
}

func (m *ResultsModel) load() {
	m.results, m.loadErr = nil, nil
	if m.source != nil {
		player := m.player
		if m.everyone {
			player = ""
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.results, m.loadErr = m.source.RecentResults(ctx, player, maxResults)
	}

	rows := make([]table.Row, 0, len(m.results))
	for _, r := range m.results {
		reward := "-"
		if r.Status == puzzle.StatusWon {
			reward = strconv.Itoa(r.Reward)
		}
		rows = append(rows, table.Row{
			r.FinishedAt.Local().Format("Jan 02 15:04"),
			r.Player,
			strconv.Itoa(r.LevelID),
			r.Difficulty.Label(),
			r.Status.String(),
			reward,
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ResultsModel) Init() tea.Cmd {
	return nil
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.NextScope):
			m.everyone = !m.everyone
			m.load()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ResultsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	scope := m.player
	if m.everyone {
		scope = "everyone"
	}

	var body string
	switch {
	case m.source == nil:
		body = m.theme.TableEmpty.Render("History is unavailable without storage.")
	case m.loadErr != nil:
		body = m.theme.TableEmpty.Render("Could not load history:\n" + m.loadErr.Error())
	case len(m.results) == 0:
		body = m.theme.TableEmpty.Render("No levels finished yet.\nPull some pins!")
	default:
		body = m.table.View()
	}

	var b strings.Builder
	b.WriteString(centerText(m.theme.MenuTitle.Render("LEVEL HISTORY - "+scope), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.TableFrame.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))
	return b.String()
}

// Results returns the rows currently loaded.
func (m ResultsModel) Results() []storage.ResultEntry {
	return m.results
}

// IsGoingBack reports whether the player left for the map.
func (m ResultsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the player quit the program.
func (m ResultsModel) IsQuitting() bool {
	return m.quitting
}

// RunResults shows the history table as a program of its own.
func RunResults(source ResultSource, player string, width, height int) error {
	m := NewResultsModel(source, player, width, height)
	m.standalone = true
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
