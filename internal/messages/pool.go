// Package messages holds the message pool and the no-immediate-repeat
// selector that draws today's message from it.
package messages

import (
	"errors"
	"fmt"
	"slices"
)

// ErrPoolTooSmall is returned when a pool cannot offer an alternative to the
// previous message.
var ErrPoolTooSmall = errors.New("message pool needs at least two messages")

// Default is the built-in pool used when configuration provides none.
var Default = []string{
	"Ich liebe dich!",
	"Du bist mein Ein und Alles!",
	"Du bist wundervoll!",
	"Du bist mein Sonnenschein!",
	"Du bist die schönste Frau der Welt!",
	"Du hast sooo tolle Haare!",
	"Fabi und Benni sind ein tolles Team!",
	"Wir passen soooo gut zusammen!",
	"Ich kann nicht genug von dir bekommen!",
	"Ich liebe dich so wie du bist!",
	"Mein Herz gehört dir!",
	"Wir tanzen genauso toll wie die in Dirty Dancing!",
	"Deine Haut ist so weich und schön. Ich liebe sie zu streicheln!",
	"Du bist so süß!",
	"Du bist so sexy!",
	"Wir fahren zusammen in den Urlaub!",
	"Die Zeit mit dir ist so schön!",
}

// Pool is an immutable, ordered list of messages.
type Pool struct {
	messages []string
}

// NewPool copies msgs into a pool. Empty messages are rejected because an
// unlocked chest must always show something.
func NewPool(msgs []string) (*Pool, error) {
	if len(msgs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPoolTooSmall, len(msgs))
	}
	for i, m := range msgs {
		if m == "" {
			return nil, fmt.Errorf("message %d is empty", i)
		}
	}
	return &Pool{messages: slices.Clone(msgs)}, nil
}

func (p *Pool) Len() int { return len(p.messages) }

// At returns the message at index i.
func (p *Pool) At(i int) string { return p.messages[i] }
