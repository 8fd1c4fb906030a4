package chest

import (
	"context"
	"errors"
	"time"

	"github.com/comigor/lovechest/internal/messages"
	"github.com/comigor/lovechest/internal/storage"
)

// dayLayout renders dates the way JavaScript's Date.toDateString does, so
// records written by the browser build compare equal.
const dayLayout = "Mon Jan 02 2006"

// Day returns the calendar-day key for t in t's location.
func Day(t time.Time) string { return t.Format(dayLayout) }

// Record is the persisted daily unlock.
type Record struct {
	LastOpened string
	Open       bool
	Message    string
}

// ValidFor reports whether r shows an unlocked chest on day. Anything else,
// including a same-day record without a message, reads as locked.
func (r Record) ValidFor(day string) bool {
	return r.LastOpened == day && r.Open && r.Message != ""
}

func (c *Chest) readRecord(ctx context.Context) (Record, error) {
	var rec Record
	date, _, err := c.store.Get(ctx, storage.KeyLastOpenedDate)
	if err != nil {
		return Record{}, err
	}
	open, _, err := c.store.Get(ctx, storage.KeyChestOpen)
	if err != nil {
		return Record{}, err
	}
	msg, _, err := c.store.Get(ctx, storage.KeyCurrentMessage)
	if err != nil {
		return Record{}, err
	}
	rec.LastOpened = date
	rec.Open = open == "true"
	rec.Message = msg
	return rec, nil
}

func (c *Chest) readHistory(ctx context.Context) (messages.History, error) {
	v, ok, err := c.store.Get(ctx, storage.KeyLastMessageIndex)
	if err != nil {
		return messages.None, err
	}
	if !ok {
		return messages.None, nil
	}
	return messages.ParseHistory(v), nil
}

// writeUnlock attempts every write even after a failure and joins the errors.
func (c *Chest) writeUnlock(ctx context.Context, rec Record, h messages.History) error {
	writes := []struct {
		key   storage.Key
		value string
	}{
		{storage.KeyLastMessageIndex, h.String()},
		{storage.KeyLastOpenedDate, rec.LastOpened},
		{storage.KeyCurrentMessage, rec.Message},
		{storage.KeyChestOpen, "true"},
	}
	var errs []error
	for _, w := range writes {
		if err := c.store.Set(ctx, w.key, w.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
