package puzzle

// ReactionKind identifies which interaction rule fired on a connection.
type ReactionKind int

const (
	ReactionNone       ReactionKind = iota
	ReactionMove                    // Source content falls into an empty destination
	ReactionNeutralize              // Lava meets water, both zones turn to stone (empty)
	ReactionConsume                 // Lava flows over an enemy
	ReactionWin                     // Hero and treasure meet
	ReactionBurn                    // Hero and lava meet
	ReactionAmbush                  // Hero and enemy meet
)

// String returns the string representation of a reaction kind.
func (k ReactionKind) String() string {
	switch k {
	case ReactionNone:
		return "none"
	case ReactionMove:
		return "move"
	case ReactionNeutralize:
		return "neutralize"
	case ReactionConsume:
		return "consume"
	case ReactionWin:
		return "win"
	case ReactionBurn:
		return "burn"
	case ReactionAmbush:
		return "ambush"
	default:
		return "unknown"
	}
}

// Reaction records one rule applied to an open connection.
type Reaction struct {
	Kind   ReactionKind
	PinID  string
	From   string
	To     string
	Source EntityKind // Source content before the rule fired
	Dest   EntityKind // Destination content before the rule fired
}

// Resolution is the result of one resolution step.
type Resolution struct {
	Zones     []Zone     // Candidate contents; equal to the input when terminal or quiescent
	Changed   bool       // True if Zones differs from the input contents
	Status    Status     // StatusPlaying unless a terminal rule fired
	Message   string     // Outcome message for terminal statuses
	Reactions []Reaction // Rules applied, in connection order
}

// Terminal reports whether the step ended the puzzle.
func (r Resolution) Terminal() bool {
	return r.Status.IsTerminal()
}

// Classify returns the rule for an ordered (source, destination) pair.
// Rules are checked in order and the first match wins:
//  1. Destination empty: move
//  2. Lava and water in either direction: neutralize
//  3. Lava onto enemy: consume
//  4. Hero and treasure in either direction: win
//  5. Hero and lava in either direction: burn
//  6. Hero and enemy in either direction: ambush
//
// Any other pair is inert (ReactionNone). An empty source is always inert.
func Classify(src, dst EntityKind) ReactionKind {
	if src == Empty {
		return ReactionNone
	}
	switch {
	case dst == Empty:
		return ReactionMove
	case pairIs(src, dst, Lava, Water):
		return ReactionNeutralize
	case src == Lava && dst == Enemy:
		return ReactionConsume
	case pairIs(src, dst, Hero, Treasure):
		return ReactionWin
	case pairIs(src, dst, Hero, Lava):
		return ReactionBurn
	case pairIs(src, dst, Hero, Enemy):
		return ReactionAmbush
	}
	return ReactionNone
}

// pairIs reports whether {a, b} equals {x, y} regardless of order.
func pairIs(a, b, x, y EntityKind) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// Resolve runs one resolution step over zone contents. It never mutates zones.
//
// Connections are evaluated in declared order. Closed connections (intact reports
// true for their pin), connections whose endpoints do not exist and connections
// with an empty source are skipped. Content moved by an earlier connection is seen
// by later connections of the same step. The scan stops at the first terminal
// rule, and in that case the working copy is discarded.
//
// Changed compares the final contents with the input, so moves that cancel out
// within one step (a to b and back) leave Changed false.
func Resolve(zones []Zone, connections []Connection, intact func(pinID string) bool) Resolution {
	work := CloneZones(zones)
	res := Resolution{Status: StatusPlaying}

	for _, conn := range connections {
		if intact != nil && intact(conn.PinID) {
			continue
		}

		fromIdx := zoneIndex(work, conn.From)
		toIdx := zoneIndex(work, conn.To)
		if fromIdx < 0 || toIdx < 0 {
			// Missing endpoint: the connection is permanently inert
			continue
		}

		src := work[fromIdx].Content
		dst := work[toIdx].Content
		kind := Classify(src, dst)
		if kind == ReactionNone {
			continue
		}

		reaction := Reaction{
			Kind:   kind,
			PinID:  conn.PinID,
			From:   conn.From,
			To:     conn.To,
			Source: src,
			Dest:   dst,
		}
		res.Reactions = append(res.Reactions, reaction)

		switch kind {
		case ReactionMove:
			work[toIdx].Content = src
			work[fromIdx].Content = Empty
		case ReactionNeutralize:
			work[toIdx].Content = Empty
			work[fromIdx].Content = Empty
		case ReactionConsume:
			work[toIdx].Content = Lava
			work[fromIdx].Content = Empty
		case ReactionWin:
			return terminal(zones, res, StatusWon, MessageWon)
		case ReactionBurn:
			return terminal(zones, res, StatusLost, MessageBurned)
		case ReactionAmbush:
			return terminal(zones, res, StatusLost, MessageAmbush)
		}
	}

	if sameContents(zones, work) {
		res.Zones = CloneZones(zones)
		return res
	}
	res.Zones = work
	res.Changed = true
	return res
}

// terminal finalizes a resolution that ended the puzzle.
func terminal(zones []Zone, res Resolution, status Status, msg string) Resolution {
	res.Zones = CloneZones(zones)
	res.Changed = false
	res.Status = status
	res.Message = msg
	return res
}

// sameContents reports whether two zone slices hold identical contents.
func sameContents(a, b []Zone) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}
