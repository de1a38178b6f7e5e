// Package progress reports scan/extract progress on the diagnostic stream,
// throttled the way the original tool's 5-second logInfo lambda was (see
// DESIGN.md for why this stays on the stdlib log package).
package progress

import (
	"log"
	"os"
	"time"

	"github.com/go-forensics/hfsrecover/internal/types"
)

// Reporter throttles routine progress lines to once per interval while
// always emitting phase transitions and warnings immediately.
type Reporter struct {
	logger   *log.Logger
	session  string
	interval time.Duration
	last     time.Time
	since    func() time.Time
}

// New returns a Reporter writing to stderr, stamped with sessionID for log
// correlation across concurrent or repeated invocations.
func New(sessionID string) *Reporter {
	return &Reporter{
		logger:   log.New(os.Stderr, "", log.LstdFlags),
		session:  sessionID,
		interval: 5 * time.Second,
		since:    time.Now,
	}
}

// Phase unconditionally logs a phase transition (scan, defragment, extract).
func (r *Reporter) Phase(name string) {
	r.logger.Printf("[%s] phase: %s", r.session, name)
}

// Progress logs the current stats if at least the throttle interval has
// elapsed since the last emission. The very first call always emits.
func (r *Reporter) Progress(stats *types.RecoveryStats) {
	now := r.since()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		return
	}
	r.last = now
	r.logger.Printf("[%s] blocks=%d bytes=%d leaves=%d files=%d folders=%d extents=%d duplicates=%d",
		r.session, stats.BlocksScanned, stats.BytesScanned, stats.LeavesAccepted,
		stats.FilesIndexed, stats.FoldersIndexed, stats.ExtentsIndexed, stats.DuplicatesDropped)
}

// Warning logs a non-fatal diagnostic immediately, never throttled.
func (r *Reporter) Warning(msg string) {
	r.logger.Printf("[%s] Warning: %s", r.session, msg)
}
