// Package chest implements the once-a-day unlock of the message chest.
//
// The visible state is never stored directly. Every call re-derives it from
// the persisted record relative to today, then drives a small state machine:
//
//	Locked   --Open-->     Unlocked  (select, persist, fresh)
//	Locked   --Restore-->  Unlocked  (adopt stored message)
//	Unlocked --Open-->     Unlocked  (re-emit, no selection)
//	Unlocked --Rollover--> Locked
//	Unlocked --Reset-->    Locked
//
// Storage failures never block an unlock: the unlocked state is then kept in
// memory for the lifetime of the Chest and reported as not persisted. The
// Chest also remembers its own unlock, so a failed read later the same day
// re-emits today's message instead of selecting a new one.
package chest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/comigor/lovechest/internal/fault"
	"github.com/comigor/lovechest/internal/logger"
	"github.com/comigor/lovechest/internal/messages"
	"github.com/comigor/lovechest/internal/storage"
)

// Picker chooses the next message given the previous selection.
type Picker interface {
	Next(h messages.History) (string, messages.History)
}

var _ Picker = (*messages.Selector)(nil)

// Chest is safe for concurrent use; calls are serialized.
type Chest struct {
	mu sync.Mutex

	store    storage.Store
	picker   Picker
	now      func() time.Time
	loc      *time.Location
	renderer Renderer
	log      *slog.Logger
	fsm      *stateless.StateMachine

	message string
	history messages.History
	// last is today's unlock as made by this Chest; lastSaved reports
	// whether it reached the store.
	last      *Record
	lastSaved bool
	// degraded is set when the store cannot keep anything past this process.
	degraded error
}

// Option configures a Chest.
type Option func(*Chest)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Chest) { c.now = now }
}

// WithLocation sets the time zone whose calendar day gates unlocking.
func WithLocation(loc *time.Location) Option {
	return func(c *Chest) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithRenderer forwards every outcome's event to r.
func WithRenderer(r Renderer) Option {
	return func(c *Chest) { c.renderer = r }
}

// WithLogger replaces the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chest) { c.log = l }
}

// WithDegraded marks the store as unable to persist, e.g. a memory fallback
// after the database failed to open. Every outcome then carries err as a
// notice and reports nothing as persisted.
func WithDegraded(err error) Option {
	return func(c *Chest) { c.degraded = err }
}

// New builds a chest over store drawing messages from picker.
func New(store storage.Store, picker Picker, opts ...Option) *Chest {
	c := &Chest{
		store:   store,
		picker:  picker,
		now:     time.Now,
		loc:     time.Local,
		log:     logger.For("chest"),
		history: messages.None,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fsm = c.newMachine()
	return c
}

// Today returns the current day key.
func (c *Chest) Today() string {
	return Day(c.now().In(c.loc))
}

// Load derives the current state from storage. It never writes.
func (c *Chest) Load(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.begin()
	if err := c.refresh(ctx, t); err != nil {
		return Outcome{}, fmt.Errorf("load chest: %w", err)
	}
	return c.finish(ctx, t)
}

// Open unlocks today's message, or re-emits it if the chest is already open.
func (c *Chest) Open(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.begin()
	if err := c.refresh(ctx, t); err != nil {
		return Outcome{}, fmt.Errorf("open chest: %w", err)
	}
	if err := c.fsm.FireCtx(ctx, TriggerOpen, t); err != nil {
		return Outcome{}, fmt.Errorf("open chest: %w", err)
	}
	return c.finish(ctx, t)
}

// Reset clears every stored key and locks the chest.
func (c *Chest) Reset(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.begin()
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("clearing store failed", "error", err)
		t.writeFailed = true
		t.notice(err)
	}
	c.last = nil
	c.lastSaved = false
	c.history = messages.None
	if err := c.fsm.FireCtx(ctx, TriggerReset, t); err != nil {
		return Outcome{}, fmt.Errorf("reset chest: %w", err)
	}
	c.log.Info("chest reset", "day", t.day)
	return c.finish(ctx, t)
}

// State returns the machine state as of the last call.
func (c *Chest) State(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(ctx)
}

func (c *Chest) current(ctx context.Context) (State, error) {
	st, err := c.fsm.State(ctx)
	if err != nil {
		return "", err
	}
	s, ok := st.(State)
	if !ok {
		return "", fmt.Errorf("unexpected machine state %v", st)
	}
	return s, nil
}

func (c *Chest) begin() *turn {
	return &turn{day: c.Today(), out: &Outcome{}}
}

// refresh brings the machine in line with the stored record for t.day.
// Read failures count as "no record" unless this Chest unlocked today itself.
func (c *Chest) refresh(ctx context.Context, t *turn) error {
	rec, err := c.readRecord(ctx)
	readFailed := err != nil
	if readFailed {
		c.log.Warn("reading unlock record failed", "error", err)
		t.notice(err)
		rec = Record{}
	}

	if c.last != nil && c.last.LastOpened != t.day {
		c.last = nil
	}
	// A readable but invalid record after a saved unlock was changed
	// underneath us; let Open select again.
	if c.last != nil && !rec.ValidFor(t.day) && (readFailed || !c.lastSaved) {
		rec = *c.last
		t.fromSession = !c.lastSaved
	}

	if rec.ValidFor(t.day) {
		t.restored = rec.Message
		return c.fsm.FireCtx(ctx, TriggerRestore, t)
	}
	return c.fsm.FireCtx(ctx, TriggerRollover, t)
}

func (c *Chest) finish(ctx context.Context, t *turn) (Outcome, error) {
	st, err := c.current(ctx)
	if err != nil {
		return Outcome{}, err
	}
	out := t.out
	out.Event = Event{State: st, Day: t.day}
	if st == StateUnlocked {
		out.Event.Message = c.message
	}
	out.Persisted = !t.fromSession && !t.writeFailed
	if c.degraded != nil {
		out.Persisted = false
		out.Notices = append(out.Notices, c.degraded)
	}

	if c.renderer != nil {
		if err := c.renderer.Render(ctx, out.Event); err != nil {
			if _, ok := fault.KindOf(err); !ok {
				err = fault.Presentation("render "+string(st), err)
			}
			c.log.Warn("render failed", "state", st, "error", err)
			out.Notices = append(out.Notices, err)
		}
	}
	return *out, nil
}
