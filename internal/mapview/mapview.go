// Package mapview is the in-process map the browser UI mirrors. It owns marker
// handles, the current view and the popup bound to each marker.
package mapview

import (
	"sort"
	"sync"

	"github.com/lildude/mapty/internal/markers"
	"github.com/lildude/mapty/internal/workout"
)

// DefaultZoom is used when a map is created with a zoom of zero or less.
const DefaultZoom = 13

// Marker is a rendered marker as seen by the UI.
type Marker struct {
	Handle markers.Handle `json:"handle"`
	Coords workout.Coords `json:"coords"`
	Popup  markers.Popup  `json:"popup"`
}

// Snapshot is the serialisable state of the map.
type Snapshot struct {
	Ready   bool           `json:"ready"`
	Center  workout.Coords `json:"center"`
	Zoom    int            `json:"zoom"`
	Markers []Marker       `json:"markers"`
}

// Map is safe for concurrent use.
type Map struct {
	mu      sync.RWMutex
	ready   bool
	center  workout.Coords
	zoom    int
	next    markers.Handle
	markers map[markers.Handle]Marker
}

// New returns a map that is not ready yet.
func New() *Map {
	return &Map{markers: make(map[markers.Handle]Marker), zoom: DefaultZoom}
}

// Load centers the map and marks it ready.
func (m *Map) Load(center workout.Coords, zoom int) {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	m.center = center
	m.zoom = zoom
}

func (m *Map) AddMarker(coords workout.Coords, popup markers.Popup) markers.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.markers[m.next] = Marker{Handle: m.next, Coords: coords, Popup: popup}
	return m.next
}

func (m *Map) RemoveMarker(h markers.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, h)
}

// PanTo moves the view to coords at the given zoom.
func (m *Map) PanTo(coords workout.Coords, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = coords
	if zoom > 0 {
		m.zoom = zoom
	}
}

// Snapshot returns a copy of the map state with markers in creation order.
func (m *Map) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{Ready: m.ready, Center: m.center, Zoom: m.zoom, Markers: make([]Marker, 0, len(m.markers))}
	for _, mk := range m.markers {
		s.Markers = append(s.Markers, mk)
	}
	sort.Slice(s.Markers, func(i, j int) bool { return s.Markers[i].Handle < s.Markers[j].Handle })
	return s
}
