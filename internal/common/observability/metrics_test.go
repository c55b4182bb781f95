package observability

import (
	"context"
	"testing"
	"time"
)

func TestRecorders(t *testing.T) {
	obs := New("observability-test")
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "evaluate-match", "completed")
	obs.RecordJobDuration(ctx, "evaluate-match", 120*time.Millisecond, "completed")
	obs.RecordMatchScore(ctx, 85, true)
	obs.RecordMatchScore(ctx, 40, false)
}

func TestRecordersOnZeroValue(t *testing.T) {
	// An exporter failure leaves a zero Observability in place.
	// Recording on it must be a no-op, not a panic.
	var obs Observability
	obs.RecordJobProcessed(context.Background(), "rank-scholarships", "failed")
	obs.RecordJobDuration(context.Background(), "rank-scholarships", time.Second, "failed")
	obs.RecordMatchScore(context.Background(), 0, false)
	obs.Shutdown()
}
