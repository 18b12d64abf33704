package puzzle

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// State holds the mutable puzzle state for one level attempt.
// A State is not safe for concurrent use; the simulation driver owns it.
type State struct {
	Zones   []Zone
	Status  Status
	Message string
	Tick    uint64 // Resolution steps that changed zone contents

	layout Layout
	pins   map[string]bool // pinID -> intact
}

// NewState creates a fresh state from a level layout.
// The layout is copied; later edits to it do not affect the state.
func NewState(layout Layout) *State {
	s := &State{layout: layout.Clone()}
	s.Reset()
	return s
}

// Reset restores the state to a fresh copy of its layout.
// Every pin referenced by a connection becomes intact again.
func (s *State) Reset() {
	s.Zones = CloneZones(s.layout.Zones)
	s.pins = make(map[string]bool, len(s.layout.Connections))
	for _, id := range s.layout.PinIDs() {
		s.pins[id] = true
	}
	s.Status = StatusPlaying
	s.Message = ""
	s.Tick = 0
}

// Layout returns a copy of the level layout the state was built from.
func (s *State) Layout() Layout {
	return s.layout.Clone()
}

// Connections returns the layout's connections in declared order.
func (s *State) Connections() []Connection {
	return append([]Connection(nil), s.layout.Connections...)
}

// RemovePin pulls a pin. It returns true if the intact set changed.
// Unknown pins, already removed pins and non-playing states are ignored.
func (s *State) RemovePin(pinID string) bool {
	if s.Status != StatusPlaying {
		return false
	}
	if !s.pins[pinID] {
		return false
	}
	s.pins[pinID] = false
	return true
}

// PinIntact reports whether a pin is still in place.
// Unknown pins are reported as not intact.
func (s *State) PinIntact(pinID string) bool {
	return s.pins[pinID]
}

// HasPin reports whether the layout references the pin at all.
func (s *State) HasPin(pinID string) bool {
	_, ok := s.pins[pinID]
	return ok
}

// IntactPins returns the intact pin ids sorted lexically.
func (s *State) IntactPins() []string {
	ids := make([]string, 0, len(s.pins))
	for id, intact := range s.pins {
		if intact {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Zone returns the first zone with the given id.
func (s *State) Zone(id string) (Zone, bool) {
	i := zoneIndex(s.Zones, id)
	if i < 0 {
		return Zone{}, false
	}
	return s.Zones[i], true
}

// Outcome returns the terminal outcome, or false while playing.
func (s *State) Outcome() (Outcome, bool) {
	if !s.Status.IsTerminal() {
		return Outcome{}, false
	}
	return Outcome{Status: s.Status, Message: s.Message}, true
}

// Clone creates a deep copy of the state.
func (s *State) Clone() *State {
	pins := make(map[string]bool, len(s.pins))
	for id, intact := range s.pins {
		pins[id] = intact
	}
	return &State{
		Zones:   CloneZones(s.Zones),
		Status:  s.Status,
		Message: s.Message,
		Tick:    s.Tick,
		layout:  s.layout.Clone(),
		pins:    pins,
	}
}

// Snapshot is an immutable view of a state, safe to hand to other goroutines.
type Snapshot struct {
	Zones      []Zone
	IntactPins []string
	Status     Status
	Message    string
	Tick       uint64
}

// Snapshot returns an independent view of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Zones:      CloneZones(s.Zones),
		IntactPins: s.IntactPins(),
		Status:     s.Status,
		Message:    s.Message,
		Tick:       s.Tick,
	}
}

// PinIntact reports whether the snapshot lists the pin as intact.
func (sn Snapshot) PinIntact(pinID string) bool {
	for _, id := range sn.IntactPins {
		if id == pinID {
			return true
		}
	}
	return false
}

// Hash returns a hash of zone contents, intact pins and status.
// The tick counter is excluded so that revisited configurations hash equal.
func (s *State) Hash() uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "Z:")
	for _, z := range s.Zones {
		fmt.Fprintf(h, "%s=%d,", z.ID, z.Content)
	}

	fmt.Fprintf(h, ";P:")
	for _, id := range s.IntactPins() {
		fmt.Fprintf(h, "%s,", id)
	}

	fmt.Fprintf(h, ";S:%d", s.Status)
	return h.Sum64()
}

// StepResult describes what a single resolution step did to the state.
type StepResult struct {
	Tick      uint64
	Changed   bool
	Status    Status
	Reactions []Reaction
}

// Step runs one resolution step and applies the result.
// Terminal states are never modified.
func (s *State) Step() StepResult {
	if s.Status.IsTerminal() {
		return StepResult{Tick: s.Tick, Status: s.Status}
	}

	res := Resolve(s.Zones, s.layout.Connections, s.PinIntact)
	switch {
	case res.Terminal():
		s.Status = res.Status
		s.Message = res.Message
	case res.Changed:
		s.Zones = res.Zones
		s.Tick++
	}

	return StepResult{
		Tick:      s.Tick,
		Changed:   res.Changed,
		Status:    s.Status,
		Reactions: res.Reactions,
	}
}
