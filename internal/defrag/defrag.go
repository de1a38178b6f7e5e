// Package defrag extends a file's inline extent list using the
// extents-overflow map the indexer built during the scan. Grounded on the
// original recover.cpp defragment() loop.
package defrag

import (
	"github.com/go-forensics/hfsrecover/internal/index"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Warning is a non-fatal diagnostic raised when overflow lookup fails.
type Warning string

// Defragment repeatedly looks up (fi.FileID, fi.FoundBlocks) in idx.Overflow,
// appending every non-empty descriptor from the returned record and advancing
// FoundBlocks, until FoundBlocks reaches TotalBlocks or a lookup misses. A
// missing key stops defragmentation for this file; its known prefix is left
// intact for the extractor.
func Defragment(idx *index.Index, fi *types.FileInfo, warn func(Warning)) {
	if warn == nil {
		warn = func(Warning) {}
	}
	for fi.FoundBlocks < fi.TotalBlocks {
		key := types.ExtentOverflowKey{FileID: fi.FileID, StartBlock: fi.FoundBlocks}
		rec, ok := idx.Overflow[key]
		if !ok {
			warn("Couldn't find needed extent.")
			return
		}
		before := fi.FoundBlocks
		for _, ed := range rec {
			if ed.BlockCount == 0 {
				continue
			}
			fi.Extents = append(fi.Extents, ed)
			fi.FoundBlocks += ed.BlockCount
			if fi.FoundBlocks >= fi.TotalBlocks {
				break
			}
		}
		if fi.FoundBlocks == before {
			warn("Overflow record made no progress.")
			return
		}
	}
}
