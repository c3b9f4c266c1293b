package totals

import (
	"testing"
	"time"

	"github.com/lildude/mapty/internal/workout"
)

func f(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	mk := func(id string, year int, in workout.Input) workout.Record {
		r, err := workout.New(id, time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC), workout.Coords{}, in)
		if err != nil {
			t.Fatalf("building %s: %v", id, err)
		}
		return r
	}

	tests := []struct {
		desc    string
		records []workout.Record
		want    []Year
	}{
		{
			desc: "no workouts",
			want: []Year{},
		},
		{
			desc: "single run",
			records: []workout.Record{
				mk("a", 2024, workout.Input{Kind: workout.Running, DistanceKm: 5, DurationMin: 25, CadenceSpm: f(170)}),
			},
			want: []Year{{Year: 2024, Running: KindTotal{Count: 1, DistanceKm: 5, DurationMin: 25}}},
		},
		{
			desc: "mixed kinds in one year",
			records: []workout.Record{
				mk("a", 2024, workout.Input{Kind: workout.Running, DistanceKm: 5, DurationMin: 25, CadenceSpm: f(170)}),
				mk("b", 2024, workout.Input{Kind: workout.Cycling, DistanceKm: 20, DurationMin: 60, ElevationGainM: f(300)}),
				mk("c", 2024, workout.Input{Kind: workout.Cycling, DistanceKm: 10, DurationMin: 30, ElevationGainM: f(200)}),
			},
			want: []Year{{
				Year:           2024,
				Running:        KindTotal{Count: 1, DistanceKm: 5, DurationMin: 25},
				Cycling:        KindTotal{Count: 2, DistanceKm: 30, DurationMin: 90},
				ElevationGainM: 500,
			}},
		},
		{
			desc: "multiple years newest first",
			records: []workout.Record{
				mk("a", 2022, workout.Input{Kind: workout.Running, DistanceKm: 5, DurationMin: 25, CadenceSpm: f(170)}),
				mk("b", 2024, workout.Input{Kind: workout.Cycling, DistanceKm: 20, DurationMin: 60, ElevationGainM: f(300)}),
			},
			want: []Year{
				{Year: 2024, Cycling: KindTotal{Count: 1, DistanceKm: 20, DurationMin: 60}, ElevationGainM: 300},
				{Year: 2022, Running: KindTotal{Count: 1, DistanceKm: 5, DurationMin: 25}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Compute(tt.records)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d years, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("year %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
