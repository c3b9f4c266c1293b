// Package workout defines the logged workout record and its kind-specific variants.
package workout

import (
	"errors"
	"fmt"
	"time"

	"github.com/lildude/mapty/internal/metric"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the workout variant.
type Kind string

const (
	Running Kind = "running"
	Cycling Kind = "cycling"
)

// ErrUnknownKind is returned when a kind string is neither running nor cycling.
var ErrUnknownKind = errors.New("unknown workout kind")

// ParseKind converts a form or storage value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Running, Cycling:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title returns the capitalised kind, e.g. "Running".
func (k Kind) Title() string {
	return cases.Title(language.English).String(string(k))
}

// Icon returns the emoji shown next to a workout in popups and list rows.
func Icon(k Kind) string {
	if k == Running {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coords is a latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal reports exact coordinate equality.
func (c Coords) Equal(o Coords) bool {
	return c.Lat == o.Lat && c.Lng == o.Lng
}

func (c Coords) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}

// RunningFields holds the running-only inputs and derived pace.
type RunningFields struct {
	CadenceSpm   int     `json:"cadenceSpm"`
	PaceMinPerKm float64 `json:"paceMinPerKm"`
}

// CyclingFields holds the cycling-only inputs and derived speed.
type CyclingFields struct {
	ElevationGainM float64 `json:"elevationGainM"`
	SpeedKmPerH    float64 `json:"speedKmPerH"`
}

// Record is a single logged workout. Exactly one of Running or Cycling is set,
// matching Kind.
type Record struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	Coords      Coords         `json:"coords"`
	DistanceKm  float64        `json:"distanceKm"`
	DurationMin float64        `json:"durationMin"`
	Kind        Kind           `json:"kind"`
	Description string         `json:"description"`
	Running     *RunningFields `json:"running,omitempty"`
	Cycling     *CyclingFields `json:"cycling,omitempty"`
}

// New builds a record from validated input. The derived fields are computed
// before it is returned.
func New(id string, createdAt time.Time, coords Coords, in Input) (Record, error) {
	if err := Validate(in); err != nil {
		return Record{}, err
	}
	r := Record{
		ID:        id,
		CreatedAt: createdAt,
		Coords:    coords,
	}
	r.assign(in)
	return r, nil
}

// Apply replaces the editable fields of r with in. Nothing is changed when in
// is invalid. ID, CreatedAt and Coords are never touched.
func (r *Record) Apply(in Input) error {
	if err := Validate(in); err != nil {
		return err
	}
	r.assign(in)
	return nil
}

func (r *Record) assign(in Input) {
	r.Kind = in.Kind
	r.DistanceKm = in.DistanceKm
	r.DurationMin = in.DurationMin
	r.Running, r.Cycling = nil, nil
	switch in.Kind {
	case Running:
		r.Running = &RunningFields{CadenceSpm: int(*in.CadenceSpm)}
	case Cycling:
		r.Cycling = &CyclingFields{ElevationGainM: *in.ElevationGainM}
	}
	r.Recompute()
}

// Recompute refreshes every derived field from the base fields.
func (r *Record) Recompute() {
	switch {
	case r.Running != nil:
		r.Running.PaceMinPerKm = metric.PaceMinPerKm(r.DistanceKm, r.DurationMin)
	case r.Cycling != nil:
		r.Cycling.SpeedKmPerH = metric.SpeedKmPerH(r.DistanceKm, r.DurationMin)
	}
	r.Description = Describe(r.Kind, r.CreatedAt)
}

// Describe returns the display title for a workout, e.g. "Running on April 14".
func Describe(k Kind, createdAt time.Time) string {
	return fmt.Sprintf("%s on %s %d", k.Title(), createdAt.Month(), createdAt.Day())
}

// Metric returns the kind's derived value: pace for running, speed for cycling.
func (r Record) Metric() float64 {
	if r.Running != nil {
		return r.Running.PaceMinPerKm
	}
	if r.Cycling != nil {
		return r.Cycling.SpeedKmPerH
	}
	return 0
}

// Input returns the editable fields of r, suitable for pre-populating an edit form.
func (r Record) Input() Input {
	in := Input{Kind: r.Kind, DistanceKm: r.DistanceKm, DurationMin: r.DurationMin}
	if r.Running != nil {
		c := float64(r.Running.CadenceSpm)
		in.CadenceSpm = &c
	}
	if r.Cycling != nil {
		e := r.Cycling.ElevationGainM
		in.ElevationGainM = &e
	}
	return in
}

// Clone returns a deep copy of r so callers can never mutate shared state.
func (r Record) Clone() Record {
	c := r
	if r.Running != nil {
		rf := *r.Running
		c.Running = &rf
	}
	if r.Cycling != nil {
		cf := *r.Cycling
		c.Cycling = &cf
	}
	return c
}
