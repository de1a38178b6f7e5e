package recover

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/go-forensics/hfsrecover/internal/dedup"
	"github.com/go-forensics/hfsrecover/internal/defrag"
	"github.com/go-forensics/hfsrecover/internal/extract"
	"github.com/go-forensics/hfsrecover/internal/index"
	"github.com/go-forensics/hfsrecover/internal/pathresolve"
	"github.com/go-forensics/hfsrecover/internal/preflight"
	"github.com/go-forensics/hfsrecover/internal/progress"
	"github.com/go-forensics/hfsrecover/internal/scanner"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Handle runs preflight, and - unless req.VerifyOnly - the full scan,
// index, defragment, resolve, and extract pipeline. ctx is checked for
// cancellation at every stride of the scan loop and between files during
// extraction; preflight and defragmentation do not check it.
func Handle(ctx context.Context, req *Request) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	reporter := progress.New(sessionID)
	start := time.Now()

	imgFile, err := os.Open(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer imgFile.Close()

	stat, err := imgFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("statting image: %w", err)
	}

	report, err := preflight.Run(imgFile, stat.Size(), req.Config.SectorSize, req.Config.Permissive)
	if err != nil {
		return nil, err
	}
	if !report.PrimaryValid {
		reporter.Warning("primary volume header has an invalid signature")
	}
	if !report.AlternateValid {
		reporter.Warning("alternate volume header has an invalid signature")
	}

	summary := &Summary{SessionID: sessionID, Preflight: report}
	if req.VerifyOnly {
		summary.Duration = time.Since(start)
		return summary, nil
	}

	if _, err := imgFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewinding image: %w", err)
	}

	idx := index.New()
	stats := &types.RecoveryStats{}
	var dedupFilter *dedup.Filter
	if req.Config.Dedup {
		dedupFilter = dedup.New()
	}

	ix := index.NewIndexer(idx, uint32(req.Config.BlockSize), req.Config.Permissive, dedupFilter, stats,
		func(w index.Warning) { reporter.Warning(string(w)) })

	sc, err := scanner.New(imgFile, req.Config, ix, stats, reporter)
	if err != nil {
		return nil, fmt.Errorf("initializing scanner: %w", err)
	}
	if err := sc.Scan(ctx); err != nil {
		return nil, fmt.Errorf("scanning image: %w", err)
	}

	reporter.Phase("defragment")
	for i := range idx.Files {
		defrag.Defragment(idx, &idx.Files[i], func(w defrag.Warning) { reporter.Warning(string(w)) })
	}

	reporter.Phase("extract")
	resolver := pathresolve.New(idx, req.OutDir, func(w pathresolve.Warning) { reporter.Warning(string(w)) })
	src, err := extract.FileSource(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("opening image for extraction: %w", err)
	}
	defer src.Close()

	for i := range idx.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fi := &idx.Files[i]
		outPath := resolver.FilePath(fi)
		if err := extract.Extract(src, req.Config.BlockSize, fi, outPath); err != nil {
			reporter.Warning(err.Error())
			continue
		}
	}

	summary.Stats = *stats
	summary.Duration = time.Since(start)
	return summary, nil
}
