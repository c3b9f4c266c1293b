package cache

import (
	"context"
	"fmt"
	"os"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSetGet(t *testing.T) {
	r := miniredis.RunT(t)
	defer r.Close()
	t.Setenv("REDIS_URL", fmt.Sprintf("redis://%s", r.Addr()))
	ctx := context.Background()
	cache, err := NewRedisCache(ctx, os.Getenv("REDIS_URL"), "mapty:")
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	err = cache.Set(ctx, "test", `[{"id":"1"}]`)
	if err != nil {
		t.Error(err)
	}
	value, err := cache.Get(ctx, "test")
	if err != nil {
		t.Error(err)
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("expected [{\"id\":\"1\"}], got %s", value)
	}

	// Confirm the value is stored under the prefixed key
	raw, err := r.Get("mapty:test")
	if err != nil {
		t.Errorf("expected prefixed key in redis: %v", err)
	}
	if raw != value {
		t.Errorf("expected %s, got %s", value, raw)
	}
}

func TestGetMissing(t *testing.T) {
	r := miniredis.RunT(t)
	defer r.Close()
	ctx := context.Background()
	cache, err := NewRedisCache(ctx, fmt.Sprintf("redis://%s", r.Addr()), "")
	if err != nil {
		t.Fatal(err)
	}

	value, err := cache.Get(ctx, "missing")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %s", value)
	}
}

func TestRemove(t *testing.T) {
	r := miniredis.RunT(t)
	defer r.Close()
	ctx := context.Background()
	cache, err := NewRedisCache(ctx, fmt.Sprintf("redis://%s", r.Addr()), "")
	if err != nil {
		t.Fatal(err)
	}

	if err := cache.Set(ctx, "workouts", "[]"); err != nil {
		t.Fatal(err)
	}
	if err := cache.Remove(ctx, "workouts"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if r.Exists("workouts") {
		t.Error("expected key to be removed")
	}
	// Removing twice is fine
	if err := cache.Remove(ctx, "workouts"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	tests := []struct {
		desc string
		addr string
	}{
		{"invalid URL", "foobar"},
		{"unreachable server", "redis://127.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := NewRedisCache(context.Background(), tt.addr, ""); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestUnavailableAfterClose(t *testing.T) {
	r := miniredis.RunT(t)
	ctx := context.Background()
	cache, err := NewRedisCache(ctx, fmt.Sprintf("redis://%s", r.Addr()), "")
	if err != nil {
		t.Fatal(err)
	}
	r.Close()

	if err := cache.Set(ctx, "workouts", "[]"); err == nil {
		t.Error("expected error writing to a stopped server")
	}
}
