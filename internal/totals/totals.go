// Package totals aggregates logged workouts into per-year running and cycling
// totals.
package totals

import (
	"sort"

	"github.com/lildude/mapty/internal/metric"
	"github.com/lildude/mapty/internal/workout"
)

// KindTotal sums the workouts of one kind.
type KindTotal struct {
	Count       int     `json:"count"`
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
}

// Year holds the totals for one calendar year.
type Year struct {
	Year           int       `json:"year"`
	Running        KindTotal `json:"running"`
	Cycling        KindTotal `json:"cycling"`
	ElevationGainM float64   `json:"elevationGainM"`
}

// Compute returns totals for every year with at least one workout, most
// recent year first. Years are taken from each workout's CreatedAt in its own
// location.
func Compute(records []workout.Record) []Year {
	byYear := make(map[int]*Year)
	for _, r := range records {
		y := r.CreatedAt.Year()
		t, ok := byYear[y]
		if !ok {
			t = &Year{Year: y}
			byYear[y] = t
		}

		var kt *KindTotal
		switch r.Kind {
		case workout.Running:
			kt = &t.Running
		case workout.Cycling:
			kt = &t.Cycling
			if r.Cycling != nil {
				t.ElevationGainM += r.Cycling.ElevationGainM
			}
		default:
			continue
		}
		kt.Count++
		kt.DistanceKm += r.DistanceKm
		kt.DurationMin += r.DurationMin
	}

	out := make([]Year, 0, len(byYear))
	for _, t := range byYear {
		t.Running.DistanceKm = metric.Round1(t.Running.DistanceKm)
		t.Cycling.DistanceKm = metric.Round1(t.Cycling.DistanceKm)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}
