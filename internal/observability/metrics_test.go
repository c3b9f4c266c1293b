package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(workoutsCreated.WithLabelValues("running"))
	RecordCreated("running")
	if after := testutil.ToFloat64(workoutsCreated.WithLabelValues("running")); after != before+1 {
		t.Errorf("expected created counter %f, got %f", before+1, after)
	}

	before = testutil.ToFloat64(workoutsUpdated.WithLabelValues("true"))
	RecordUpdated(true)
	if after := testutil.ToFloat64(workoutsUpdated.WithLabelValues("true")); after != before+1 {
		t.Errorf("expected updated counter %f, got %f", before+1, after)
	}

	before = testutil.ToFloat64(persistFailures.WithLabelValues("save"))
	RecordPersistFailure("save")
	if after := testutil.ToFloat64(persistFailures.WithLabelValues("save")); after != before+1 {
		t.Errorf("expected failure counter %f, got %f", before+1, after)
	}

	SetCurrent(3)
	if got := testutil.ToFloat64(workoutsCurrent); got != 3 {
		t.Errorf("expected gauge 3, got %f", got)
	}
}
