// Package extents decodes HFSPlusExtentKey / HFSPlusExtentRecord pairs from
// the extents-overflow B-tree.
package extents

import (
	"fmt"

	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Key offsets within an HFSPlusExtentKey.
const (
	offKeyLength  = 0
	offForkType   = 2
	offFileID     = 4
	offStartBlock = 8
)

// ParseKey reads a fixed-length HFSPlusExtentKey starting at off.
func ParseKey(buf []byte, off int) (*types.ExtentKey, error) {
	keyLength, err := decode.Uint16(buf, off+offKeyLength)
	if err != nil {
		return nil, err
	}
	forkType, err := decode.Int8(buf, off+offForkType)
	if err != nil {
		return nil, err
	}
	fileID, err := decode.Uint32(buf, off+offFileID)
	if err != nil {
		return nil, err
	}
	startBlock, err := decode.Uint32(buf, off+offStartBlock)
	if err != nil {
		return nil, err
	}
	return &types.ExtentKey{
		KeyLength:  keyLength,
		ForkType:   uint8(forkType),
		FileID:     fileID,
		StartBlock: startBlock,
	}, nil
}

// IsDataFork reports whether the key refers to the data fork; the core
// ignores resource forks (see spec.md Non-goals).
func IsDataFork(k *types.ExtentKey) bool {
	return k.ForkType == 0
}

// ParseRecord reads the eight-descriptor HFSPlusExtentRecord that follows an
// extent key at off.
func ParseRecord(buf []byte, off int) (*types.ExtentRecord, error) {
	if !decode.AccessIsSafe(len(buf), off+types.ExtentRecordSize) {
		return nil, fmt.Errorf("extent record: %w", &decode.ErrShortBuffer{Want: off + types.ExtentRecordSize, Have: len(buf)})
	}
	var rec types.ExtentRecord
	for i := 0; i < types.ExtentDensity; i++ {
		base := off + i*types.ExtentDescriptorSize
		startBlock, err := decode.Uint32(buf, base)
		if err != nil {
			return nil, err
		}
		blockCount, err := decode.Uint32(buf, base+4)
		if err != nil {
			return nil, err
		}
		rec[i] = types.ExtentDescriptor{StartBlock: startBlock, BlockCount: blockCount}
	}
	return &rec, nil
}
