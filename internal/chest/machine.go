package chest

import (
	"context"

	"github.com/qmuntal/stateless"
)

// State of the chest for the current day.
type State string

const (
	StateLocked   State = "Locked"
	StateUnlocked State = "Unlocked"
)

// Trigger moves the machine between states.
type Trigger string

const (
	TriggerOpen     Trigger = "Open"
	TriggerRestore  Trigger = "Restore"
	TriggerRollover Trigger = "Rollover"
	TriggerReset    Trigger = "Reset"
)

// turn carries one public call through the machine actions.
type turn struct {
	day      string
	restored string // message adopted by TriggerRestore
	// fromSession is set when the unlocked state only lives in memory.
	fromSession bool
	writeFailed bool
	out         *Outcome
}

func (t *turn) notice(err error) {
	t.out.Notices = append(t.out.Notices, err)
}

func turnOf(args []any) *turn {
	return args[0].(*turn)
}

func (c *Chest) newMachine() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateLocked)

	// State: Locked
	// Open selects today's message; Restore adopts one found in the store.
	fsm.Configure(StateLocked).
		OnEntryFrom(TriggerRollover, c.relock).
		OnEntryFrom(TriggerReset, c.relock).
		Permit(TriggerOpen, StateUnlocked).
		Permit(TriggerRestore, StateUnlocked).
		Ignore(TriggerRollover).
		Ignore(TriggerReset)

	// State: Unlocked
	// Opening again re-emits the stored message without selecting.
	fsm.Configure(StateUnlocked).
		OnEntryFrom(TriggerOpen, c.unlock).
		OnEntryFrom(TriggerRestore, c.restore).
		InternalTransition(TriggerOpen, c.reopen).
		InternalTransition(TriggerRestore, c.restore).
		Permit(TriggerRollover, StateLocked).
		Permit(TriggerReset, StateLocked)

	fsm.OnTransitioned(func(_ context.Context, tr stateless.Transition) {
		c.log.Debug("chest transition", "from", tr.Source, "to", tr.Destination, "trigger", tr.Trigger)
	})
	return fsm
}

func (c *Chest) unlock(ctx context.Context, args ...any) error {
	t := turnOf(args)

	h, err := c.readHistory(ctx)
	if err != nil {
		c.log.Warn("reading selection history failed; using session history", "error", err)
		t.notice(err)
		h = c.history
	}
	msg, next := c.picker.Next(h)
	c.history = next
	c.message = msg
	t.out.Fresh = true

	rec := Record{LastOpened: t.day, Open: true, Message: msg}
	c.last = &rec
	if err := c.writeUnlock(ctx, rec, next); err != nil {
		c.log.Warn("unlock not persisted; keeping it for this session", "day", t.day, "error", err)
		c.lastSaved = false
		t.writeFailed = true
		t.notice(err)
		return nil
	}
	c.lastSaved = true
	c.log.Info("chest unlocked", "day", t.day, "index", int(next))
	return nil
}

func (c *Chest) restore(_ context.Context, args ...any) error {
	t := turnOf(args)
	c.message = t.restored
	return nil
}

func (c *Chest) reopen(_ context.Context, args ...any) error {
	t := turnOf(args)
	c.log.Debug("chest already open today", "day", t.day)
	return nil
}

func (c *Chest) relock(_ context.Context, args ...any) error {
	t := turnOf(args)
	c.message = ""
	c.log.Debug("chest locked", "day", t.day)
	return nil
}
