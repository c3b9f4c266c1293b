package mapview

import (
	"encoding/json"
	"testing"

	"github.com/lildude/mapty/internal/markers"
	"github.com/lildude/mapty/internal/workout"
)

func TestMarkers(t *testing.T) {
	m := New()
	if m.Snapshot().Ready {
		t.Fatal("expected new map not to be ready")
	}
	m.Load(workout.Coords{Lat: 1, Lng: 2}, 0)

	c := workout.Coords{Lat: 38.7, Lng: -9.1}
	h1 := m.AddMarker(c, markers.Popup{Content: "a", ClassName: "running-popup"})
	h2 := m.AddMarker(c, markers.Popup{Content: "b", ClassName: "cycling-popup"})
	if h1 == h2 {
		t.Fatalf("expected distinct handles, got %d twice", h1)
	}

	m.RemoveMarker(h1)
	m.RemoveMarker(h1)

	s := m.Snapshot()
	if len(s.Markers) != 1 || s.Markers[0].Handle != h2 {
		t.Fatalf("expected only marker %d, got %+v", h2, s.Markers)
	}
	if s.Zoom != DefaultZoom {
		t.Errorf("expected default zoom %d, got %d", DefaultZoom, s.Zoom)
	}
}

func TestPanTo(t *testing.T) {
	m := New()
	m.Load(workout.Coords{Lat: 1, Lng: 2}, 10)
	m.PanTo(workout.Coords{Lat: 3, Lng: 4}, 13)

	s := m.Snapshot()
	if s.Center != (workout.Coords{Lat: 3, Lng: 4}) || s.Zoom != 13 {
		t.Errorf("unexpected view %v@%d", s.Center, s.Zoom)
	}
}

func TestSnapshotJSON(t *testing.T) {
	m := New()
	m.Load(workout.Coords{Lat: 1, Lng: 2}, 12)
	m.AddMarker(workout.Coords{Lat: 1, Lng: 2}, markers.Popup{Content: "x", ClassName: "running-popup"})

	b, err := json.Marshal(m.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ready":true,"center":{"lat":1,"lng":2},"zoom":12,"markers":[{"handle":1,"coords":{"lat":1,"lng":2},"popup":{"content":"x","className":"running-popup"}}]}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}
