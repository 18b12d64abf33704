package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// EntityStyle is how one entity kind is drawn inside a zone.
type EntityStyle struct {
	Glyph string
	Label string
	Style lipgloss.Style
}

// Theme contains all configurable visual styles for the realm screens.
type Theme struct {
	// Zone contents, keyed by entity kind
	Entities map[puzzle.EntityKind]EntityStyle

	// Zone boxes
	ZoneBox   lipgloss.Style
	ZoneTitle lipgloss.Style

	// Pin styles
	PinIntact   lipgloss.Style
	PinPulled   lipgloss.Style
	PinSelected lipgloss.Style
	PinInert    lipgloss.Style // Connection with a missing endpoint

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayWon    lipgloss.Style
	OverlayLost   lipgloss.Style
	OverlayText   lipgloss.Style
	OracleText    lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuItemLocked  lipgloss.Style
	MenuDescription lipgloss.Style

	// History table
	TableFrame    lipgloss.Style
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	TableEmpty    lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Entities: map[puzzle.EntityKind]EntityStyle{
			puzzle.Empty:    {Glyph: " ", Label: "empty", Style: fg("238")},
			puzzle.Hero:     {Glyph: "H", Label: "hero", Style: fg("39").Bold(true)},
			puzzle.Enemy:    {Glyph: "G", Label: "goblin", Style: fg("160").Bold(true)},
			puzzle.Treasure: {Glyph: "$", Label: "gold", Style: fg("220").Bold(true)},
			puzzle.Lava:     {Glyph: "~", Label: "lava", Style: fg("202")},
			puzzle.Water:    {Glyph: "~", Label: "water", Style: fg("33")},
		},

		ZoneBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(14).
			Align(lipgloss.Center),
		ZoneTitle: fg("245"),

		PinIntact:   fg("250"),
		PinPulled:   fg("238"),
		PinSelected: fg("226").Bold(true),
		PinInert:    fg("88"),

		HUDTitle:     fg("214").Bold(true),
		HUDValue:     fg("255"),
		HUDSeparator: fg("240"),
		HUDControls:  fg("245"),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("255")).
			Padding(0, 2),
		OverlayWon:  fg("46").Bold(true),
		OverlayLost: fg("196").Bold(true),
		OverlayText: fg("255"),
		OracleText:  fg("141").Italic(true),

		MenuTitle:       fg("214").Bold(true),
		MenuItemNormal:  fg("252"),
		MenuItemActive:  fg("226").Bold(true),
		MenuItemLocked:  fg("240"),
		MenuDescription: fg("245"),

		TableFrame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("94")).
			Padding(0, 1),
		TableHeader: fg("214").Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("94")).
			BorderBottom(true),
		TableSelected: fg("16").Background(lipgloss.Color("220")),
		TableEmpty:    fg("245").Italic(true).Padding(1, 3),
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	for kind, es := range theme.Entities {
		es.Style = lipgloss.NewStyle().Bold(kind != puzzle.Empty)
		theme.Entities[kind] = es
	}
	// Water and lava share a glyph in color; tell them apart here
	water := theme.Entities[puzzle.Water]
	water.Glyph = "="
	theme.Entities[puzzle.Water] = water
	return theme
}

// Entity returns the style for a kind, falling back to Empty.
func (t Theme) Entity(kind puzzle.EntityKind) EntityStyle {
	if es, ok := t.Entities[kind]; ok {
		return es
	}
	return t.Entities[puzzle.Empty]
}

// Global theme variable (can be changed at runtime)
var realmTheme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(theme Theme) {
	realmTheme = theme
}

// GetTheme returns the current global theme.
func GetTheme() Theme {
	return realmTheme
}
