// Package geolocation resolves the user's starting position for the map.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/lildude/mapty/internal/client"
	"github.com/lildude/mapty/internal/workout"
)

// ErrUnavailable is returned when no position could be determined.
var ErrUnavailable = errors.New("could not get your position")

// Provider returns the current position.
type Provider interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

// Static always returns the same position. A nil Static reports ErrUnavailable.
type Static struct {
	coords *workout.Coords
}

// NewStatic returns a provider for a fixed position. Either value being nil
// means no position was configured.
func NewStatic(lat, lng *float64) *Static {
	if lat == nil || lng == nil {
		return &Static{}
	}
	return &Static{coords: &workout.Coords{Lat: *lat, Lng: *lng}}
}

// Configured reports whether a position was supplied.
func (s *Static) Configured() bool {
	return s != nil && s.coords != nil
}

func (s *Static) CurrentPosition(_ context.Context) (workout.Coords, error) {
	if !s.Configured() {
		return workout.Coords{}, ErrUnavailable
	}
	return *s.coords, nil
}

// lookup is the subset of an ip-api.com style response we use.
type lookup struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// HTTPProvider looks the position up from an IP geolocation endpoint.
type HTTPProvider struct {
	client *client.Client
}

// NewHTTPProvider returns a provider querying endpoint.
func NewHTTPProvider(endpoint string) (*HTTPProvider, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing geolocation url: %w", err)
	}
	return &HTTPProvider{client: client.NewClient(u, nil)}, nil
}

func (p *HTTPProvider) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	var res lookup
	if err := p.client.Get(ctx, "", &res); err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if res.Status != "" && res.Status != "success" {
		return workout.Coords{}, fmt.Errorf("%w: lookup %s: %s", ErrUnavailable, res.Status, res.Message)
	}
	pos := workout.Coords{Lat: res.Lat, Lng: res.Lon}
	if err := workout.ValidateCoords(pos); err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	// ip-api reports 0,0 for addresses it cannot place.
	if pos.Lat == 0 && pos.Lng == 0 {
		return workout.Coords{}, fmt.Errorf("%w: no location for this address", ErrUnavailable)
	}
	return pos, nil
}

// Chain tries each provider in turn and returns the first position found.
type Chain []Provider

func (c Chain) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	err := ErrUnavailable
	for _, p := range c {
		pos, perr := p.CurrentPosition(ctx)
		if perr == nil {
			return pos, nil
		}
		err = perr
		if ctx.Err() != nil {
			break
		}
	}
	return workout.Coords{}, err
}
