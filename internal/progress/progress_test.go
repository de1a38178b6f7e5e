package progress

import (
	"testing"
	"time"

	"github.com/go-forensics/hfsrecover/internal/types"
)

func TestProgressFirstCallAlwaysEmits(t *testing.T) {
	r := New("test-session")
	calls := 0
	r.since = func() time.Time { calls++; return time.Unix(int64(calls), 0) }
	r.Progress(&types.RecoveryStats{BlocksScanned: 1})
	if r.last.IsZero() {
		t.Fatalf("expected last to be recorded after first Progress call")
	}
}

func TestProgressThrottlesWithinInterval(t *testing.T) {
	r := New("test-session")
	base := time.Unix(1000, 0)
	r.since = func() time.Time { return base }
	r.Progress(&types.RecoveryStats{})
	firstLast := r.last

	r.since = func() time.Time { return base.Add(1 * time.Second) }
	r.Progress(&types.RecoveryStats{})
	if !r.last.Equal(firstLast) {
		t.Fatalf("expected throttled call to leave last unchanged")
	}
}

func TestProgressEmitsAfterInterval(t *testing.T) {
	r := New("test-session")
	base := time.Unix(2000, 0)
	r.since = func() time.Time { return base }
	r.Progress(&types.RecoveryStats{})

	later := base.Add(6 * time.Second)
	r.since = func() time.Time { return later }
	r.Progress(&types.RecoveryStats{})
	if !r.last.Equal(later) {
		t.Fatalf("expected progress to re-emit after the throttle interval elapsed")
	}
}
