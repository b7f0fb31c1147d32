// Package book implements the in-memory address book keyed by contact name.
package book

import (
	"log/slog"
	"time"

	"github.com/smileynet/addressbook/internal/contact"
)

// DefaultWindow is the number of days, starting today, covered by the
// upcoming birthdays report.
const DefaultWindow = 7

// Book maps contact names to records. Names are case-sensitive and keep
// their first insertion position, even when the record is replaced.
//
// A Book is not safe for concurrent use; callers serialize access.
type Book struct {
	order   []string
	records map[string]*contact.Record

	now           func() time.Time
	window        int
	shiftWeekends bool
	logger        *slog.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithClock sets the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithWindow sets the report window in days.
func WithWindow(days int) Option {
	return func(b *Book) { b.window = days }
}

// WithWeekendShift controls whether weekend birthdays are reported on Monday.
func WithWeekendShift(shift bool) Option {
	return func(b *Book) { b.shiftWeekends = shift }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// New creates an empty Book.
func New(opts ...Option) *Book {
	b := &Book{
		records:       make(map[string]*contact.Record),
		now:           time.Now,
		window:        DefaultWindow,
		shiftWeekends: true,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddRecord stores r under its name, replacing any record already there.
func (b *Book) AddRecord(r *contact.Record) {
	name := r.Name()
	if _, ok := b.records[name]; !ok {
		b.order = append(b.order, name)
	} else {
		b.logger.Debug("replacing record", "name", name)
	}
	b.records[name] = r
}

// Find returns the record stored under name.
func (b *Book) Find(name string) (*contact.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name, if any.
func (b *Book) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of records.
func (b *Book) Len() int { return len(b.records) }

// Records returns every record in insertion order.
func (b *Book) Records() []*contact.Record {
	out := make([]*contact.Record, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.records[name])
	}
	return out
}
