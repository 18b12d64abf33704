package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// zoneCellWidth is the rendered width of one zone box including its gap.
const zoneCellWidth = 18

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// RenderZone draws a single zone as a bordered box.
func RenderZone(z puzzle.Zone, theme Theme) string {
	es := theme.Entity(z.Content)

	body := es.Style.Render(strings.Repeat(es.Glyph, 3))
	label := es.Style.Render(es.Label)
	if z.Content == puzzle.Treasure && z.Amount > 0 {
		label = es.Style.Render(fmt.Sprintf("%d gold", z.Amount))
	}

	return theme.ZoneBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		theme.ZoneTitle.Render(z.ID),
		body,
		label,
	))
}

// RenderZones lays zones out in declared order, wrapping rows to fit width.
func RenderZones(zones []puzzle.Zone, width int, theme Theme) string {
	if len(zones) == 0 {
		return theme.MenuDescription.Render("(no zones)")
	}

	perRow := width / zoneCellWidth
	if perRow < 1 {
		perRow = 1
	}

	rows := make([]string, 0, (len(zones)+perRow-1)/perRow)
	for start := 0; start < len(zones); start += perRow {
		end := start + perRow
		if end > len(zones) {
			end = len(zones)
		}
		boxes := make([]string, 0, 2*(end-start))
		for i, z := range zones[start:end] {
			if i > 0 {
				boxes = append(boxes, "  ")
			}
			boxes = append(boxes, RenderZone(z, theme))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderConnections lists every pin with the connections it gates.
// selected is an index into pins, or -1 for none.
func RenderConnections(layout puzzle.Layout, snap puzzle.Snapshot, pins []string, selected int, theme Theme) string {
	var b strings.Builder

	for i, pin := range pins {
		intact := snap.PinIntact(pin)

		marker := "  "
		style := theme.PinIntact
		state := "intact"
		if !intact {
			style = theme.PinPulled
			state = "pulled"
		}
		if i == selected {
			marker = "> "
			if intact {
				style = theme.PinSelected
			}
		}

		b.WriteString(style.Render(fmt.Sprintf("%s[%d] %-4s %s", marker, i+1, pin, state)))
		b.WriteString("\n")

		for _, c := range layout.Connections {
			if c.PinID != pin {
				continue
			}
			arrow := fmt.Sprintf("      %s --> %s", c.From, c.To)
			if !layout.HasZone(c.From) || !layout.HasZone(c.To) {
				b.WriteString(theme.PinInert.Render(arrow + "  (sealed)"))
			} else {
				b.WriteString(style.Render(arrow))
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderReactions describes what the last resolution step did.
func RenderReactions(reactions []puzzle.Reaction, theme Theme) string {
	if len(reactions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(reactions))
	for _, r := range reactions {
		parts = append(parts, describeReaction(r))
	}
	return theme.HUDControls.Render(strings.Join(parts, "  |  "))
}

func describeReaction(r puzzle.Reaction) string {
	switch r.Kind {
	case puzzle.ReactionMove:
		return fmt.Sprintf("%s flows %s -> %s", strings.ToLower(r.Source.String()), r.From, r.To)
	case puzzle.ReactionNeutralize:
		return fmt.Sprintf("lava and water cool to stone in %s and %s", r.From, r.To)
	case puzzle.ReactionConsume:
		return fmt.Sprintf("lava swallows the goblin in %s", r.To)
	case puzzle.ReactionWin:
		return "the hero reaches the gold"
	case puzzle.ReactionBurn:
		return "the hero meets lava"
	case puzzle.ReactionAmbush:
		return "goblins ambush the hero"
	default:
		return r.Kind.String()
	}
}

// RenderOutcome draws the WON or LOST overlay.
func RenderOutcome(out puzzle.Outcome, hasNext bool, theme Theme) string {
	var lines []string
	switch out.Status {
	case puzzle.StatusWon:
		lines = append(lines, theme.OverlayWon.Render("VICTORY"))
	case puzzle.StatusLost:
		lines = append(lines, theme.OverlayLost.Render("DEFEAT"))
	default:
		return ""
	}
	lines = append(lines, theme.OverlayText.Render(out.Message))
	if out.Reward != nil {
		lines = append(lines, theme.HUDTitle.Render(fmt.Sprintf("+%d gold", *out.Reward)))
	}
	lines = append(lines, "")

	controls := "R: Retry  |  Esc: Map"
	if out.Status == puzzle.StatusWon && hasNext {
		controls = "N: Next level  |  R: Replay  |  Esc: Map"
	}
	lines = append(lines, theme.HUDControls.Render(controls))

	return theme.OverlayBorder.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
