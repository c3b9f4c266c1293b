package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel logrus.Level
	}{
		{"ok", http.StatusOK, logrus.DebugLevel},
		{"not found", http.StatusNotFound, logrus.DebugLevel},
		{"server error", http.StatusInternalServerError, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			log.SetLevel(logrus.DebugLevel)

			h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("body")) //nolint:gosec // We don't care if this fails
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/workouts", http.NoBody))

			entry := hook.LastEntry()
			if entry == nil {
				t.Fatal("expected a log entry")
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("expected level %s, got %s", tt.wantLevel, entry.Level)
			}
			if entry.Data["status"] != tt.status {
				t.Errorf("expected status %d, got %v", tt.status, entry.Data["status"])
			}
			if entry.Data["path"] != "/api/workouts" {
				t.Errorf("expected path /api/workouts, got %v", entry.Data["path"])
			}
			if entry.Data["bytes"] != 4 {
				t.Errorf("expected 4 bytes, got %v", entry.Data["bytes"])
			}
		})
	}
}

func TestLoggingImplicitOK(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if got := hook.LastEntry().Data["status"]; got != http.StatusOK {
		t.Errorf("expected 200, got %v", got)
	}
}
