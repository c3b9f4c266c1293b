// Package tracker is the workout engine. It keeps the in-memory collection,
// the map markers, the rendered list and the durable store in step for every
// create, edit and delete.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lildude/mapty/internal/collection"
	"github.com/lildude/mapty/internal/editsession"
	"github.com/lildude/mapty/internal/markers"
	"github.com/lildude/mapty/internal/observability"
	"github.com/lildude/mapty/internal/persist"
	"github.com/lildude/mapty/internal/workout"
	"github.com/sirupsen/logrus"
)

// DefaultZoom is the zoom used for the initial view and when focusing a workout.
const DefaultZoom = 13

var (
	// ErrMapUnavailable is returned for map actions before a position is known.
	ErrMapUnavailable = errors.New("map is not available")
	// ErrNoCreateForm is returned when submitting a workout without a map click.
	ErrNoCreateForm = errors.New("no workout form is open")
	// ErrNoActiveEdit is returned when submitting an edit while idle.
	ErrNoActiveEdit = errors.New("no workout is being edited")
)

// Map is the map provider the engine draws on.
type Map interface {
	markers.MapProvider
	Load(center workout.Coords, zoom int)
	PanTo(coords workout.Coords, zoom int)
}

// ListRenderer renders the workout list. It only ever receives copies.
type ListRenderer interface {
	RenderRow(r workout.Record)
	ReplaceRow(r workout.Record)
	UpdateRowValues(r workout.Record)
	RemoveRow(id string)
	Clear()
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Alert(msg string)
	Warn(msg string)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCollection replaces the default collection, e.g. to fix IDs or the clock.
func WithCollection(c *collection.Collection) Option {
	return func(t *Tracker) { t.workouts = c }
}

// WithZoom sets the zoom used for the initial view and Focus.
func WithZoom(z int) Option {
	return func(t *Tracker) {
		if z > 0 {
			t.zoom = z
		}
	}
}

// Tracker serialises every user action behind a single mutex, so each one
// runs to completion before the next starts.
type Tracker struct {
	mu sync.Mutex

	workouts *collection.Collection
	markers  *markers.Registry
	view     Map
	list     ListRenderer
	store    *persist.Sync
	notify   Notifier
	log      logrus.FieldLogger

	edit     editsession.Session
	mapReady bool
	zoom     int
	pending  *workout.Coords
}

// New wires a tracker. Call Init before use.
func New(m Map, list ListRenderer, store *persist.Sync, notify Notifier, log logrus.FieldLogger, opts ...Option) *Tracker {
	t := &Tracker{
		view:   m,
		list:   list,
		store:  store,
		notify: notify,
		log:    log,
		zoom:   DefaultZoom,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.workouts == nil {
		t.workouts = collection.New()
	}
	t.markers = markers.NewRegistry(m, log)
	return t
}

// Init loads the stored workouts and renders their list rows. Markers follow
// once the map is ready. A store that cannot be read leaves the log empty.
func (t *Tracker) Init(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.markers.Clear()
	t.list.Clear()
	t.workouts.Reset()

	records, err := t.store.Load(ctx)
	if err != nil {
		t.persistFailed("load", err)
		records = nil
	}
	n := t.workouts.Replace(records)
	if n != len(records) {
		t.log.WithField("dropped", len(records)-n).Warn("ignoring duplicate stored workouts")
	}
	for _, r := range t.workouts.All() {
		t.list.RenderRow(r)
		if t.mapReady {
			t.markers.Add(r)
		}
	}
	observability.SetCurrent(n)
	t.log.WithField("count", n).Info("loaded workouts")
}

// MapReady creates the map at center and renders a marker for every workout.
// Calling it again only re-centers the map.
func (t *Tracker) MapReady(center workout.Coords) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.view.Load(center, t.zoom)
	if t.mapReady {
		return
	}
	t.mapReady = true
	for _, r := range t.workouts.All() {
		t.markers.Add(r)
	}
	t.log.WithFields(logrus.Fields{"center": center.String(), "markers": t.markers.Len()}).Debug("map ready")
}

// MapUnavailable reports that no position could be found. The map stays
// disabled.
func (t *Tracker) MapUnavailable(err error) {
	t.log.WithError(err).Warn("no position for map")
	t.notify.Alert("Could not get your position")
}

// OpenCreateForm opens the new workout form for a map click at coords. Any
// edit in progress is closed. Coordinates off the globe are rejected and
// change nothing.
func (t *Tracker) OpenCreateForm(coords workout.Coords) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.mapReady {
		return ErrMapUnavailable
	}
	if err := workout.ValidateCoords(coords); err != nil {
		return err
	}
	t.edit.End()
	c := coords
	t.pending = &c
	return nil
}

// CancelCreate closes the new workout form without touching any state.
func (t *Tracker) CancelCreate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
}

// Create logs a workout at the clicked position. Invalid input is alerted and
// leaves the form open with nothing changed.
func (t *Tracker) Create(ctx context.Context, in workout.Input) (workout.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		return workout.Record{}, ErrNoCreateForm
	}
	r, err := t.workouts.Create(*t.pending, in)
	if err != nil {
		t.notify.Alert(alertText(err))
		return workout.Record{}, err
	}

	t.markers.Add(r)
	t.list.RenderRow(r)
	t.persist(ctx, "save")
	t.pending = nil

	observability.RecordCreated(string(r.Kind))
	observability.SetCurrent(t.workouts.Len())
	t.log.WithFields(logrus.Fields{"workout_id": r.ID, "kind": r.Kind}).Info("created workout")
	return r, nil
}

// StartEdit enters editing for id and returns the record to prefill the edit
// form. It returns false, changing nothing, when id is unknown. The create
// form and any other edit are closed.
func (t *Tracker) StartEdit(id string) (workout.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, err := t.workouts.FindByID(id)
	if err != nil {
		return workout.Record{}, false
	}
	t.pending = nil
	if prev, replaced := t.edit.Begin(id); replaced && prev != id {
		t.log.WithFields(logrus.Fields{"workout_id": id, "previous_id": prev}).Debug("closed previous edit")
	}
	return r, true
}

// CancelEdit closes the edit form without touching any state.
func (t *Tracker) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edit.End()
}

// SubmitEdit applies in to the workout being edited. Invalid input is alerted
// and keeps the edit open. A kind change re-renders the row and marker; a
// same-kind edit updates the displayed values and replaces the marker only
// when its popup would read differently.
func (t *Tracker) SubmitEdit(ctx context.Context, in workout.Input) (workout.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.edit.Active()
	if !ok {
		return workout.Record{}, ErrNoActiveEdit
	}
	if err := workout.Validate(in); err != nil {
		t.notify.Alert(alertText(err))
		return workout.Record{}, err
	}

	before, err := t.workouts.FindByID(id)
	if err != nil {
		t.edit.End()
		return workout.Record{}, err
	}
	r, err := t.workouts.Update(id, in)
	if err != nil {
		return workout.Record{}, fmt.Errorf("updating workout %s: %w", id, err)
	}

	kindChanged := before.Kind != r.Kind
	if kindChanged {
		t.list.ReplaceRow(r)
		if t.mapReady {
			t.markers.Replace(r)
		}
	} else {
		t.list.UpdateRowValues(r)
		if t.mapReady && t.markers.Stale(r) {
			t.markers.Replace(r)
		}
	}
	t.persist(ctx, "save")
	t.edit.End()

	observability.RecordUpdated(kindChanged)
	t.log.WithFields(logrus.Fields{"workout_id": r.ID, "kind": r.Kind, "kind_changed": kindChanged}).Info("updated workout")
	return r, nil
}

// Delete removes a workout along with its marker and row. Unknown IDs are
// ignored.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, err := t.workouts.FindByID(id)
	if err != nil {
		return nil
	}
	if active, ok := t.edit.Active(); ok && active == id {
		t.edit.End()
	}

	t.markers.Remove(r)
	if err := t.workouts.Delete(id); err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	t.list.RemoveRow(id)
	t.persist(ctx, "save")

	observability.RecordDeleted()
	observability.SetCurrent(t.workouts.Len())
	t.log.WithField("workout_id", id).Info("deleted workout")
	return nil
}

// Focus pans the map to a workout. It returns false when the workout is
// unknown or the map is not ready.
func (t *Tracker) Focus(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.mapReady {
		return false
	}
	r, err := t.workouts.FindByID(id)
	if err != nil {
		return false
	}
	t.view.PanTo(r.Coords, t.zoom)
	return true
}

// Reset clears the store and every view, leaving an empty log.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Clear(ctx); err != nil {
		t.persistFailed("clear", err)
	}
	t.markers.Clear()
	t.list.Clear()
	t.workouts.Reset()
	t.edit.End()
	t.pending = nil

	observability.SetCurrent(0)
	t.log.Info("reset workouts")
}

// Workouts returns copies of every workout in creation order.
func (t *Tracker) Workouts() []workout.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.workouts.All()
}

// EditState returns the edit state and the ID being edited.
func (t *Tracker) EditState() (editsession.State, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, _ := t.edit.Active()
	return t.edit.State(), id
}

// CreateFormOpen returns the clicked position when the create form is open.
func (t *Tracker) CreateFormOpen() (workout.Coords, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return workout.Coords{}, false
	}
	return *t.pending, true
}

// MapAvailable reports whether MapReady has been called.
func (t *Tracker) MapAvailable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mapReady
}

func (t *Tracker) persist(ctx context.Context, op string) {
	if err := t.store.Save(ctx, t.workouts.All()); err != nil {
		t.persistFailed(op, err)
	}
}

// persistFailed reports a store failure. The in-memory state stays as is.
func (t *Tracker) persistFailed(op string, err error) {
	t.log.WithError(err).WithField("op", op).Warn("workout store failed")
	observability.RecordPersistFailure(op)
	switch op {
	case "load":
		t.notify.Warn("Your saved workouts could not be loaded.")
	default:
		t.notify.Warn("Your workouts could not be saved. Changes will be lost when you leave.")
	}
}

func alertText(err error) string {
	var ve *workout.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Inputs have to be positive numbers! (%s)", ve.Error())
	}
	return err.Error()
}
