// Package recover wires the preflight, scanner, indexer, defragmenter, path
// resolver, and extractor into a single recovery run, following the same
// Request/Validate/Handle/Format application shape used elsewhere in this
// module.
package recover

import (
	"time"

	"github.com/go-forensics/hfsrecover/internal/preflight"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Request describes one recovery (or verify-only) invocation.
type Request struct {
	ImagePath  string
	OutDir     string
	Config     types.RecoveryConfig
	VerifyOnly bool
}

// Summary is returned by Handle once a run completes.
type Summary struct {
	SessionID string
	Preflight *preflight.Report
	Stats     types.RecoveryStats
	Duration  time.Duration
}
