// Package collection holds the ordered, in-memory set of workouts. It is the
// only owner of record state; everything it hands out is a copy.
package collection

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lildude/mapty/internal/workout"
)

// ErrNotFound is returned when no workout has the requested ID.
var ErrNotFound = errors.New("workout not found")

// Option configures a Collection.
type Option func(*Collection)

// WithIDGenerator overrides the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Collection) { c.newID = fn }
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(c *Collection) { c.now = fn }
}

// Collection is an insertion-ordered set of workouts keyed by ID.
// It is not safe for concurrent use; the tracker serialises access.
type Collection struct {
	order []string
	byID  map[string]*workout.Record

	newID func() string
	now   func() time.Time
}

// New returns an empty Collection.
func New(opts ...Option) *Collection {
	c := &Collection{
		byID:  make(map[string]*workout.Record),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates in and appends a new workout at coords.
func (c *Collection) Create(coords workout.Coords, in workout.Input) (workout.Record, error) {
	id := c.newID()
	for c.byID[id] != nil {
		id = c.newID()
	}

	r, err := workout.New(id, c.now(), coords, in)
	if err != nil {
		return workout.Record{}, err
	}
	c.order = append(c.order, r.ID)
	c.byID[r.ID] = &r
	return r.Clone(), nil
}

// FindByID returns a copy of the workout with the given ID.
func (c *Collection) FindByID(id string) (workout.Record, error) {
	r, ok := c.byID[id]
	if !ok {
		return workout.Record{}, ErrNotFound
	}
	return r.Clone(), nil
}

// Update applies in to the workout with the given ID. Derived fields are
// always recomputed; the record is left untouched when in is invalid.
func (c *Collection) Update(id string, in workout.Input) (workout.Record, error) {
	r, ok := c.byID[id]
	if !ok {
		return workout.Record{}, ErrNotFound
	}
	if err := r.Apply(in); err != nil {
		return workout.Record{}, err
	}
	return r.Clone(), nil
}

// Delete removes the workout with the given ID.
func (c *Collection) Delete(id string) error {
	if _, ok := c.byID[id]; !ok {
		return ErrNotFound
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns copies of every workout in insertion order.
func (c *Collection) All() []workout.Record {
	out := make([]workout.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

// Replace swaps the contents for records, keeping their order. Derived fields
// are recomputed and later duplicates of an ID are dropped. It returns the
// number of records kept.
func (c *Collection) Replace(records []workout.Record) int {
	c.Reset()
	for _, r := range records {
		if _, dup := c.byID[r.ID]; dup || r.ID == "" {
			continue
		}
		rec := r.Clone()
		rec.Recompute()
		c.order = append(c.order, rec.ID)
		c.byID[rec.ID] = &rec
	}
	return len(c.order)
}

// Reset empties the collection.
func (c *Collection) Reset() {
	c.order = nil
	c.byID = make(map[string]*workout.Record)
}

// Len returns the number of workouts.
func (c *Collection) Len() int {
	return len(c.order)
}
