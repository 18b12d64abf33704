// Package sim drives a puzzle state through repeated resolution steps on a
// fixed delay, the way the level screen plays out after each pin pull.
package sim

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// DefaultTickDelay is the delay between a change and the next resolution step.
const DefaultTickDelay = 400 * time.Millisecond

// Reporter receives terminal outcomes and may attach a reward.
type Reporter interface {
	Report(out puzzle.Outcome) puzzle.Outcome
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(puzzle.Outcome) puzzle.Outcome

// Report calls f(out).
func (f ReporterFunc) Report(out puzzle.Outcome) puzzle.Outcome { return f(out) }

// Options configures a Driver.
type Options struct {
	TickDelay   time.Duration // Defaults to DefaultTickDelay
	Logger      *log.Logger   // Defaults to a discarding logger
	Reporter    Reporter      // Optional
	EventBuffer int           // Defaults to 32
}

type commandKind int

const (
	cmdRemovePin commandKind = iota
	cmdReset
)

type command struct {
	kind  commandKind
	pinID string
}

// Driver owns a puzzle state and runs resolution steps on a single goroutine.
// Pin removals and resets are queued and applied between steps.
type Driver struct {
	opts  Options
	state *puzzle.State // Only touched by the run goroutine

	cmds   chan command
	events chan Event
	stop   chan struct{}
	done   chan struct{}

	stopOnce  sync.Once
	startOnce sync.Once
	started   atomic.Bool
	pending   atomic.Bool // True while a step is scheduled or running

	mu   sync.RWMutex
	last puzzle.Snapshot
}

// New creates a driver for a fresh state built from layout.
// Call Start to begin processing.
func New(layout puzzle.Layout, opts Options) *Driver {
	if opts.TickDelay <= 0 {
		opts.TickDelay = DefaultTickDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 32
	}

	state := puzzle.NewState(layout)
	return &Driver{
		opts:   opts,
		state:  state,
		cmds:   make(chan command, 16),
		events: make(chan Event, opts.EventBuffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		last:   state.Snapshot(),
	}
}

// Start launches the run goroutine. It runs until Stop is called,
// ctx is cancelled or the driver is otherwise torn down.
func (d *Driver) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.started.Store(true)
		go d.run(ctx)
	})
}

// Stop halts the driver and waits for the run goroutine to exit.
// Safe to call multiple times and before Start.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	if d.started.Load() {
		<-d.done
	}
}

// Done is closed once the run goroutine has exited.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Events returns the event stream. It is closed when the driver exits.
// StateChanged events are dropped if the consumer falls behind;
// Finished events are always delivered while the driver is running.
func (d *Driver) Events() <-chan Event {
	return d.events
}

// Snapshot returns the most recent state snapshot.
func (d *Driver) Snapshot() puzzle.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

// Pending reports whether a resolution step is scheduled.
func (d *Driver) Pending() bool {
	return d.pending.Load()
}

// RemovePin queues a pin removal. Ignored once the driver has stopped.
func (d *Driver) RemovePin(pinID string) {
	d.send(command{kind: cmdRemovePin, pinID: pinID})
}

// Reset queues a reset to a fresh copy of the level.
func (d *Driver) Reset() {
	d.send(command{kind: cmdReset})
}

func (d *Driver) send(c command) {
	select {
	case d.cmds <- c:
	case <-d.stop:
	case <-d.done:
	}
}

// run is the single writer of d.state.
func (d *Driver) run(ctx context.Context) {
	defer close(d.done)
	defer close(d.events)

	timer := time.NewTimer(d.opts.TickDelay)
	defer timer.Stop()
	var timerC <-chan time.Time

	arm := func() {
		timer.Reset(d.opts.TickDelay)
		timerC = timer.C
		d.pending.Store(true)
	}

	// Evaluate the initial layout once, like any other change.
	arm()

	for {
		select {
		case <-ctx.Done():
			d.opts.Logger.Debug("driver cancelled", "err", ctx.Err())
			return
		case <-d.stop:
			d.opts.Logger.Debug("driver stopped")
			return
		case c := <-d.cmds:
			if d.handle(c) {
				arm()
			}
		case <-timerC:
			timerC = nil
			if d.tick(ctx) {
				arm()
			} else {
				d.pending.Store(false)
			}
		}
	}
}

// handle applies a player command. Returns true if a step should be scheduled.
func (d *Driver) handle(c command) bool {
	switch c.kind {
	case cmdRemovePin:
		if !d.state.RemovePin(c.pinID) {
			return false
		}
		d.opts.Logger.Debug("pin removed", "pin", c.pinID)
		d.publish(Event{Kind: EventPinRemoved, PinID: c.pinID, Snapshot: d.record()})
		return true

	case cmdReset:
		d.state.Reset()
		d.opts.Logger.Debug("puzzle reset")
		d.publish(Event{Kind: EventReset, Snapshot: d.record()})
		return true
	}
	return false
}

// tick runs one resolution step. Returns true if another step should follow.
func (d *Driver) tick(ctx context.Context) bool {
	// A fire that raced with a terminal transition is a no-op
	if d.state.Status.IsTerminal() {
		return false
	}

	step := d.state.Step()
	d.opts.Logger.Debug("tick", "tick", step.Tick, "changed", step.Changed, "status", step.Status, "reactions", len(step.Reactions))

	if step.Status.IsTerminal() {
		d.pending.Store(false)
		d.finish(ctx, step.Reactions)
		return false
	}
	if !step.Changed {
		return false
	}

	// A repeating configuration keeps ticking until the player acts, Stop is
	// called or ctx is cancelled.
	d.publish(Event{Kind: EventChanged, Snapshot: d.record(), Reactions: step.Reactions})
	return true
}

// finish reports the terminal outcome and delivers the Finished event.
func (d *Driver) finish(ctx context.Context, reactions []puzzle.Reaction) {
	out, _ := d.state.Outcome()
	if d.opts.Reporter != nil {
		out = d.opts.Reporter.Report(out)
	}
	d.opts.Logger.Info("puzzle finished", "status", out.Status, "message", out.Message, "ticks", d.state.Tick)

	ev := Event{Kind: EventFinished, Snapshot: d.record(), Reactions: reactions, Outcome: &out}
	select {
	case d.events <- ev:
	case <-ctx.Done():
	case <-d.stop:
	}
}

// publish delivers an event without blocking the step loop.
func (d *Driver) publish(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.opts.Logger.Debug("event dropped", "kind", ev.Kind)
	}
}

// record stores and returns the current snapshot.
func (d *Driver) record() puzzle.Snapshot {
	snap := d.state.Snapshot()
	d.mu.Lock()
	d.last = snap
	d.mu.Unlock()
	return snap
}

