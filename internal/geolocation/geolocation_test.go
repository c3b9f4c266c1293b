package geolocation

import (
	"context"
	"errors"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/lildude/mapty/internal/workout"
)

const endpoint = "http://ip-api.com/json/"

func TestHTTPProvider(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name    string
		status  int
		body    string
		want    workout.Coords
		wantErr bool
	}{
		{
			name:   "successful lookup",
			status: 200,
			body:   `{"status":"success","lat":51.5074,"lon":-0.1278,"city":"London"}`,
			want:   workout.Coords{Lat: 51.5074, Lng: -0.1278},
		},
		{
			name:    "failed lookup",
			status:  200,
			body:    `{"status":"fail","message":"private range"}`,
			wantErr: true,
		},
		{
			name:    "out of range coordinates",
			status:  200,
			body:    `{"status":"success","lat":123,"lon":0}`,
			wantErr: true,
		},
		{
			name:    "unplaceable address",
			status:  200,
			body:    `{"status":"success","lat":0,"lon":0}`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  500,
			body:    `oops`,
			wantErr: true,
		},
		{
			name:    "not JSON",
			status:  200,
			body:    `<html></html>`,
			wantErr: true,
		},
	}

	p, err := NewHTTPProvider(endpoint)
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.RegisterResponder("GET", endpoint, httpmock.NewStringResponder(tc.status, tc.body))

			got, err := p.CurrentPosition(context.Background())
			if tc.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	lat, lng := 38.7, -9.1

	pos, err := NewStatic(&lat, &lng).CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != (workout.Coords{Lat: 38.7, Lng: -9.1}) {
		t.Errorf("unexpected position %v", pos)
	}

	if _, err := NewStatic(&lat, nil).CurrentPosition(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestChain(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("GET", endpoint,
		httpmock.NewStringResponder(200, `{"status":"success","lat":10,"lon":20}`))

	p, _ := NewHTTPProvider(endpoint)
	pos, err := Chain{NewStatic(nil, nil), p}.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != (workout.Coords{Lat: 10, Lng: 20}) {
		t.Errorf("unexpected position %v", pos)
	}

	if _, err := (Chain{}).CurrentPosition(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable from empty chain, got %v", err)
	}
}
