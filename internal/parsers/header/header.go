// Package header parses the HFSPlusVolumeHeader copies used by the
// preflight check. It is deliberately shallow: the scanner never trusts
// these values for tree traversal, only the preflight report does.
package header

import (
	"fmt"

	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Size is the fixed on-disk size of an HFSPlusVolumeHeader.
const Size = 512

// Field offsets within the 512-byte header, per Apple TN1150.
const (
	offSignature       = 0
	offVersion         = 2
	offAttributes      = 4
	offLastMountedVer  = 8
	offJournalInfoBlk  = 12
	offCreateDate      = 16
	offModifyDate      = 20
	offBackupDate      = 24
	offCheckedDate     = 28
	offFileCount       = 32
	offFolderCount     = 36
	offBlockSize       = 40
	offTotalBlocks     = 44
	offFreeBlocks      = 48
	offNextCatalogID   = 64
	offWriteCount      = 68
	offEncodingsBitmap = 72
	offFinderInfo      = 80
)

// Parse decodes a 512-byte HFSPlusVolumeHeader copy. It never fails on a bad
// signature - that is reported, not an error - only on a short buffer.
func Parse(buf []byte) (*types.VolumeHeader, error) {
	if len(buf) < Size {
		return nil, fmt.Errorf("parsing volume header: %w", &decode.ErrShortBuffer{Want: Size, Have: len(buf)})
	}

	h := &types.VolumeHeader{}
	var err error
	if h.Signature, err = decode.Uint16(buf, offSignature); err != nil {
		return nil, err
	}
	if h.Version, err = decode.Uint16(buf, offVersion); err != nil {
		return nil, err
	}
	if h.Attributes, err = decode.Uint32(buf, offAttributes); err != nil {
		return nil, err
	}
	if h.LastMountVersion, err = decode.Uint32(buf, offLastMountedVer); err != nil {
		return nil, err
	}
	if h.JournalInfoBlock, err = decode.Uint32(buf, offJournalInfoBlk); err != nil {
		return nil, err
	}
	if h.CreateDate, err = decode.Uint32(buf, offCreateDate); err != nil {
		return nil, err
	}
	if h.ModifyDate, err = decode.Uint32(buf, offModifyDate); err != nil {
		return nil, err
	}
	if h.BackupDate, err = decode.Uint32(buf, offBackupDate); err != nil {
		return nil, err
	}
	if h.CheckedDate, err = decode.Uint32(buf, offCheckedDate); err != nil {
		return nil, err
	}
	if h.FileCount, err = decode.Uint32(buf, offFileCount); err != nil {
		return nil, err
	}
	if h.FolderCount, err = decode.Uint32(buf, offFolderCount); err != nil {
		return nil, err
	}
	if h.BlockSize, err = decode.Uint32(buf, offBlockSize); err != nil {
		return nil, err
	}
	if h.TotalBlocks, err = decode.Uint32(buf, offTotalBlocks); err != nil {
		return nil, err
	}
	if h.FreeBlocks, err = decode.Uint32(buf, offFreeBlocks); err != nil {
		return nil, err
	}
	if h.NextCatalogID, err = decode.Uint32(buf, offNextCatalogID); err != nil {
		return nil, err
	}
	if h.WriteCount, err = decode.Uint32(buf, offWriteCount); err != nil {
		return nil, err
	}
	if h.EncodingsBitmap, err = decode.Uint64(buf, offEncodingsBitmap); err != nil {
		return nil, err
	}
	for i := 0; i < 8; i++ {
		v, err := decode.Uint32(buf, offFinderInfo+i*4)
		if err != nil {
			return nil, err
		}
		h.FinderInfo[i] = v
	}
	return h, nil
}

// ValidSignature reports whether the header carries a recognized HFS+
// family signature. HFSX ("HX") is accepted here as a documented extension
// of the original tool, which only checked "H+".
func ValidSignature(h *types.VolumeHeader) bool {
	return h.Signature == types.SigHFSPlus || h.Signature == types.SigHFSX
}
