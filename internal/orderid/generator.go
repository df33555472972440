package orderid

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

const _msPerSecond = 1000

var suffixRe = regexp.MustCompile(`-\d{1,4}$`)

type Option func(*Generator)

// WithClock replaces time.Now, used by tests to simulate day changes.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator produces ids of the form PREFIX-MMDDYYYY-SEQ-mmm. The sequence is
// per calendar day and per process; the gateway stays authoritative for
// uniqueness across instances.
type Generator struct {
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	date int
	day  string
	seq  int
}

func New(prefix string, opts ...Option) *Generator {
	g := &Generator{
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the following id. A clock that steps back across midnight
// keeps the current day and its counter.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if date := dateOf(now); date > g.date {
		g.date = date
		g.day = now.Format("01022006")
		g.seq = 0
	}
	g.seq++

	return fmt.Sprintf("%s-%s-%04d-%03d", g.prefix, g.day, g.seq, now.Nanosecond()/int(time.Millisecond)%_msPerSecond)
}

func dateOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Normalize strips a trailing -N..NNNN disambiguation suffix. The result is for
// correlation only and must never be fed into signature computation.
func Normalize(orderID string) string {
	return suffixRe.ReplaceAllString(orderID, "")
}
