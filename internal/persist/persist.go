// Package persist saves the workout log to a key/value store and loads it back.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lildude/mapty/internal/workout"
	"github.com/sirupsen/logrus"
)

// DefaultKey is the key the workout log is stored under.
const DefaultKey = "workouts"

// ErrPersistence is matched by every error caused by the underlying store.
var ErrPersistence = errors.New("persistence failure")

// Store is a synchronous single-blob key/value store. Get returns an empty
// string when nothing is stored under key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Sync serialises the workout log to a Store.
type Sync struct {
	store Store
	key   string
	log   logrus.FieldLogger
}

// New returns a Sync writing under key, or DefaultKey when key is empty.
func New(store Store, key string, log logrus.FieldLogger) *Sync {
	if key == "" {
		key = DefaultKey
	}
	return &Sync{store: store, key: key, log: log}
}

// storedWorkout is the flat on-disk shape of a record. The derived fields are
// written for anyone reading the blob but are recomputed on load.
type storedWorkout struct {
	ID             string     `json:"id"`
	CreatedAt      string     `json:"createdAt"`
	Coords         [2]float64 `json:"coords"`
	DistanceKm     float64    `json:"distanceKm"`
	DurationMin    float64    `json:"durationMin"`
	Kind           string     `json:"kind"`
	CadenceSpm     *float64   `json:"cadenceSpm,omitempty"`
	ElevationGainM *float64   `json:"elevationGainM,omitempty"`
	Description    string     `json:"description,omitempty"`
	PaceMinPerKm   *float64   `json:"paceMinPerKm,omitempty"`
	SpeedKmPerH    *float64   `json:"speedKmPerH,omitempty"`
}

func toStored(r workout.Record) storedWorkout {
	s := storedWorkout{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339Nano),
		Coords:      [2]float64{r.Coords.Lat, r.Coords.Lng},
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Kind:        string(r.Kind),
		Description: r.Description,
	}
	if r.Running != nil {
		cadence, pace := float64(r.Running.CadenceSpm), r.Running.PaceMinPerKm
		s.CadenceSpm, s.PaceMinPerKm = &cadence, &pace
	}
	if r.Cycling != nil {
		elevation, speed := r.Cycling.ElevationGainM, r.Cycling.SpeedKmPerH
		s.ElevationGainM, s.SpeedKmPerH = &elevation, &speed
	}
	return s
}

func fromStored(s storedWorkout) (workout.Record, error) {
	if s.ID == "" {
		return workout.Record{}, errors.New("missing id")
	}
	kind, err := workout.ParseKind(s.Kind)
	if err != nil {
		return workout.Record{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, s.CreatedAt)
	if err != nil {
		return workout.Record{}, fmt.Errorf("parsing createdAt: %w", err)
	}
	coords := workout.Coords{Lat: s.Coords[0], Lng: s.Coords[1]}

	return workout.New(s.ID, createdAt, coords, workout.Input{
		Kind:           kind,
		DistanceKm:     s.DistanceKm,
		DurationMin:    s.DurationMin,
		CadenceSpm:     s.CadenceSpm,
		ElevationGainM: s.ElevationGainM,
	})
}

// Save writes every record, in order, as a single JSON document.
func (s *Sync) Save(ctx context.Context, records []workout.Record) error {
	out := make([]storedWorkout, 0, len(records))
	for _, r := range records {
		out = append(out, toStored(r))
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling workouts: %w", err)
	}
	if err := s.store.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("%w: saving workouts: %w", ErrPersistence, err)
	}
	return nil
}

// Load reads the stored workouts back in order. Nothing stored yields an
// empty slice. Derived fields are always recomputed; entries that no longer
// validate are skipped with a warning.
func (s *Sync) Load(ctx context.Context) ([]workout.Record, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: loading workouts: %w", ErrPersistence, err)
	}
	if strings.TrimSpace(raw) == "" {
		return []workout.Record{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling stored workouts: %w", err)
	}

	records := make([]workout.Record, 0, len(entries))
	for i, entry := range entries {
		var sw storedWorkout
		r, err := decodeEntry(entry, &sw)
		if err != nil {
			s.log.WithFields(logrus.Fields{"index": i, "workout_id": sw.ID}).WithError(err).Warn("skipping stored workout")
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// decodeEntry decodes one stored workout into sw and rebuilds the record.
// sw keeps whatever fields decoded so a failure can still be logged by ID.
func decodeEntry(entry json.RawMessage, sw *storedWorkout) (workout.Record, error) {
	if err := json.Unmarshal(entry, sw); err != nil {
		return workout.Record{}, fmt.Errorf("decoding stored workout: %w", err)
	}
	return fromStored(*sw)
}

// Clear removes the stored workout log.
func (s *Sync) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("%w: clearing workouts: %w", ErrPersistence, err)
	}
	return nil
}
