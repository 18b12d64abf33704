// Package tui provides the Bubble Tea front end for Realm Rescue.
// It renders levels, forwards pin pulls to a simulation driver and
// turns driver events into messages for the update loop.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/realm-rescue/internal/sim"
)

// DriverEventMsg carries one simulation event into the update loop.
// Gen identifies the driver that produced it so events from a
// replaced driver can be dropped.
type DriverEventMsg struct {
	Gen   int
	Event sim.Event
}

// DriverClosedMsg is sent once a driver's event stream has been closed.
type DriverClosedMsg struct {
	Gen int
}

// waitForEvent returns a command that blocks until the driver emits
// its next event.
func waitForEvent(gen int, events <-chan sim.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return DriverClosedMsg{Gen: gen}
		}
		return DriverEventMsg{Gen: gen, Event: ev}
	}
}
