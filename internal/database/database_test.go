package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/lildude/mapty/internal/model"
)

func openTestStore(t *testing.T) *BlobStore {
	t.Helper()
	db, err := Open("", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewBlobStore(db)
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tests := []struct {
		desc  string
		op    func() error
		key   string
		want  string
		count int64
	}{
		{
			desc:  "missing key is empty",
			op:    func() error { return nil },
			key:   "workouts",
			want:  "",
			count: 0,
		},
		{
			desc:  "set creates a blob",
			op:    func() error { return s.Set(ctx, "workouts", `[{"id":"a"}]`) },
			key:   "workouts",
			want:  `[{"id":"a"}]`,
			count: 1,
		},
		{
			desc:  "set overwrites the blob",
			op:    func() error { return s.Set(ctx, "workouts", `[{"id":"b"}]`) },
			key:   "workouts",
			want:  `[{"id":"b"}]`,
			count: 1,
		},
		{
			desc:  "remove deletes the blob",
			op:    func() error { return s.Remove(ctx, "workouts") },
			key:   "workouts",
			want:  "",
			count: 0,
		},
		{
			desc:  "remove of a missing blob is fine",
			op:    func() error { return s.Remove(ctx, "workouts") },
			key:   "workouts",
			want:  "",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if err := tt.op(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := s.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			var count int64
			s.db.Unscoped().Model(&model.Blob{}).Count(&count)
			if count != tt.count {
				t.Errorf("expected %d rows, got %d", tt.count, count)
			}
		})
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	if _, err := Open("mysql://localhost/mapty", ""); err == nil {
		t.Error("expected error, got nil")
	}
}
