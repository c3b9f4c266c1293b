// Package markers tracks which map marker belongs to which workout.
//
// Markers are indexed by workout ID. Two workouts logged at exactly the same
// spot each keep their own marker, so removing one never disturbs the other.
package markers

import (
	"fmt"

	"github.com/lildude/mapty/internal/workout"
	"github.com/sirupsen/logrus"
)

// Handle is an opaque reference to a marker rendered by the map provider.
type Handle int64

// Popup is the content bound to a marker.
type Popup struct {
	Content   string `json:"content"`
	ClassName string `json:"className"`
}

// MapProvider renders and disposes markers. The provider owns the marker; the
// registry only remembers the handle.
type MapProvider interface {
	AddMarker(coords workout.Coords, popup Popup) Handle
	RemoveMarker(h Handle)
}

// PopupFor returns the popup shown for a workout.
func PopupFor(r workout.Record) Popup {
	return Popup{
		Content:   fmt.Sprintf("%s %s", workout.Icon(r.Kind), r.Description),
		ClassName: fmt.Sprintf("%s-popup", r.Kind),
	}
}

type entry struct {
	coords workout.Coords
	popup  Popup
	handle Handle
}

// Registry keeps one live marker per workout.
type Registry struct {
	provider MapProvider
	log      logrus.FieldLogger
	byID     map[string]entry
}

// NewRegistry returns an empty registry rendering through provider.
func NewRegistry(provider MapProvider, log logrus.FieldLogger) *Registry {
	return &Registry{
		provider: provider,
		log:      log,
		byID:     make(map[string]entry),
	}
}

// Add renders a marker for r. An existing marker for the same workout is
// disposed first so there is never more than one.
func (reg *Registry) Add(r workout.Record) Handle {
	if old, ok := reg.byID[r.ID]; ok {
		reg.provider.RemoveMarker(old.handle)
	}
	popup := PopupFor(r)
	h := reg.provider.AddMarker(r.Coords, popup)
	reg.byID[r.ID] = entry{coords: r.Coords, popup: popup, handle: h}
	return h
}

// Replace swaps the marker for r with a freshly rendered one. It is used when
// a workout's appearance changes but its position does not.
func (reg *Registry) Replace(r workout.Record) Handle {
	if old, ok := reg.byID[r.ID]; ok && !old.coords.Equal(r.Coords) {
		reg.log.WithFields(logrus.Fields{
			"workout_id": r.ID,
			"from":       old.coords.String(),
			"to":         r.Coords.String(),
		}).Warn("marker replaced at different coordinates")
	}
	return reg.Add(r)
}

// Stale reports whether the marker for r shows different popup content than r
// would now produce.
func (reg *Registry) Stale(r workout.Record) bool {
	e, ok := reg.byID[r.ID]
	return !ok || e.popup != PopupFor(r)
}

// Remove disposes the marker for r. It is a no-op when r has no marker.
func (reg *Registry) Remove(r workout.Record) {
	e, ok := reg.byID[r.ID]
	if !ok {
		return
	}
	reg.provider.RemoveMarker(e.handle)
	delete(reg.byID, r.ID)
}

// Clear disposes every marker.
func (reg *Registry) Clear() {
	for id, e := range reg.byID {
		reg.provider.RemoveMarker(e.handle)
		delete(reg.byID, id)
	}
}

// Len returns the number of live markers.
func (reg *Registry) Len() int {
	return len(reg.byID)
}
