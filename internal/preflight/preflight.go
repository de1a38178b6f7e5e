// Package preflight reads and reports on the primary and alternate volume
// headers before a scan begins. Grounded on the original recover.cpp
// verify() function; its output is advisory only, since the scanner never
// trusts tree roots.
package preflight

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-forensics/hfsrecover/internal/parsers/header"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Report summarizes what the preflight found in each header copy.
type Report struct {
	Primary        *types.VolumeHeader
	PrimaryValid   bool
	Alternate      *types.VolumeHeader
	AlternateValid bool
}

// Run reads the primary header at 2*sectorSize from the start of src, and
// the alternate header at 2*sectorSize from the end, and validates each
// signature. If both signatures are bad and permissive is false, it returns
// a fatal error; otherwise it always returns the report it was able to
// build, even when one or both headers are invalid.
func Run(src io.ReaderAt, size int64, sectorSize int64, permissive bool) (*Report, error) {
	report := &Report{}

	primaryOff := 2 * sectorSize
	if h, err := readHeader(src, primaryOff); err == nil {
		report.Primary = h
		report.PrimaryValid = header.ValidSignature(h)
	}

	altOff := size - 2*sectorSize
	if altOff >= 0 {
		if h, err := readHeader(src, altOff); err == nil {
			report.Alternate = h
			report.AlternateValid = header.ValidSignature(h)
		}
	}

	if !report.PrimaryValid && !report.AlternateValid && !permissive {
		return report, errors.New("Incorrect signature for HFSPlus in both headers")
	}
	return report, nil
}

func readHeader(src io.ReaderAt, off int64) (*types.VolumeHeader, error) {
	buf := make([]byte, header.Size)
	if _, err := src.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("reading header at %d: %w", off, err)
	}
	return header.Parse(buf)
}
