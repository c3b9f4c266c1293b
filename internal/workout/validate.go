package workout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("inputs have to be positive numbers")

// Input is the set of user-editable fields submitted by the create and edit
// forms. The kind-specific fields are pointers so a missing value can be told
// apart from zero.
type Input struct {
	Kind           Kind     `json:"kind"`
	DistanceKm     float64  `json:"distanceKm"`
	DurationMin    float64  `json:"durationMin"`
	CadenceSpm     *float64 `json:"cadenceSpm,omitempty"`
	ElevationGainM *float64 `json:"elevationGainM,omitempty"`
}

// ValidationError describes the first invalid field of an Input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks in against the create/edit rules. Distance and duration
// must be finite and positive; running needs a positive whole cadence and
// cycling a finite, non-negative elevation gain.
func Validate(in Input) error {
	if _, err := ParseKind(string(in.Kind)); err != nil {
		return &ValidationError{Field: "kind", Reason: err.Error()}
	}
	if err := positive("distance", in.DistanceKm); err != nil {
		return err
	}
	if err := positive("duration", in.DurationMin); err != nil {
		return err
	}

	switch in.Kind {
	case Running:
		if in.CadenceSpm == nil {
			return &ValidationError{Field: "cadence", Reason: "required for running"}
		}
		if err := positive("cadence", *in.CadenceSpm); err != nil {
			return err
		}
		if *in.CadenceSpm != math.Trunc(*in.CadenceSpm) {
			return &ValidationError{Field: "cadence", Reason: "must be a whole number"}
		}
		if *in.CadenceSpm > math.MaxInt32 {
			return &ValidationError{Field: "cadence", Reason: "is out of range"}
		}
	case Cycling:
		if in.ElevationGainM == nil {
			return &ValidationError{Field: "elevation", Reason: "required for cycling"}
		}
		e := *in.ElevationGainM
		if !finite(e) {
			return &ValidationError{Field: "elevation", Reason: "must be a finite number"}
		}
		if e < 0 {
			return &ValidationError{Field: "elevation", Reason: "must not be negative"}
		}
	}
	return nil
}

// ValidateCoords checks that c is a finite position on the globe.
func ValidateCoords(c Coords) error {
	if !finite(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if !finite(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	return nil
}

func positive(field string, v float64) error {
	if !finite(v) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
