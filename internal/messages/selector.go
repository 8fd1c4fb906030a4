package messages

import (
	"math/rand/v2"
	"strconv"
)

// History is the index of the last selected message, or None.
type History int

// None means no message has been selected yet.
const None History = -1

// ParseHistory reads a stored decimal index. Anything unparsable is None;
// range is checked against the pool at selection time.
func ParseHistory(s string) History {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return None
	}
	return History(n)
}

func (h History) String() string { return strconv.Itoa(int(h)) }

// Selector draws messages uniformly while never repeating the previous one.
type Selector struct {
	pool *Pool
	intN func(n int) int
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand makes the selector draw from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) { s.intN = r.IntN }
}

// NewSelector returns a selector over pool using the global random source.
func NewSelector(pool *Pool, opts ...Option) *Selector {
	s := &Selector{pool: pool, intN: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pool returns the pool the selector draws from.
func (s *Selector) Pool() *Pool { return s.pool }

// Next picks the message to reveal after h and returns it with the new history.
func (s *Selector) Next(h History) (string, History) {
	i := pick(s.pool.Len(), h, s.intN)
	return s.pool.At(i), History(i)
}

// pick chooses an index in [0, n) other than last. An out-of-range last
// excludes nothing; with a single candidate left excluded, all indices are
// eligible again.
func pick(n int, last History, intN func(int) int) int {
	candidates := make([]int, 0, n)
	for i := range n {
		if History(i) != last {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		for i := range n {
			candidates = append(candidates, i)
		}
	}
	return candidates[intN(len(candidates))]
}
