// Package catalog decodes HFSPlusCatalogKey records and the folder, file,
// and thread bodies that follow them. Every parse here is shape-based: the
// caller (the classifier) has already decided this looks like a catalog
// record, and these functions extract the fields needed to index it.
package catalog

import (
	"fmt"

	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Key offsets within an HFSPlusCatalogKey, relative to its start.
const (
	offKeyLength  = 0
	offParentID   = 2
	offNameLength = 6
	offNameUnicode = 8
)

// ParseKey reads the key length, parent id and node name starting at off.
// The returned key's KeyLength is the on-disk key length (excluding the
// 2-byte length prefix itself), matching HFSPlusCatalogKey.keyLength.
func ParseKey(buf []byte, off int) (*types.CatalogKey, error) {
	keyLength, err := decode.Uint16(buf, off+offKeyLength)
	if err != nil {
		return nil, err
	}
	parentID, err := decode.Uint32(buf, off+offParentID)
	if err != nil {
		return nil, err
	}
	nameLength, err := decode.Uint16(buf, off+offNameLength)
	if err != nil {
		return nil, err
	}
	if nameLength > types.MaxNodeNameChars {
		return nil, fmt.Errorf("catalog key: name length %d exceeds max %d", nameLength, types.MaxNodeNameChars)
	}
	name, err := decode.UTF16LowByteDowncast(buf, off+offNameUnicode, nameLength)
	if err != nil {
		return nil, err
	}
	return &types.CatalogKey{
		KeyLength:  keyLength,
		ParentID:   parentID,
		NameLength: nameLength,
		Name:       name,
	}, nil
}

// ShapeMatches reports whether keyLength is consistent with a catalog key
// carrying a name of nameLength UTF-16 code units - the low-entropy
// coincidence the classifier relies on as its first-level signature.
func ShapeMatches(keyLength, nameLength uint16) bool {
	return keyLength == nameLength*2+types.CatalogKeyMinimumLength
}

// ParseFolder reads an HFSPlusCatalogFolder body starting at off. The
// caller must have already verified recordType == RecordTypeFolder.
func ParseFolder(buf []byte, off int) (*types.CatalogFolder, error) {
	if !decode.AccessIsSafe(len(buf), off+types.CatalogFolderRecordSize) {
		return nil, fmt.Errorf("catalog folder record: %w", &decode.ErrShortBuffer{Want: off + types.CatalogFolderRecordSize, Have: len(buf)})
	}
	recordType, err := decode.Uint16(buf, off)
	if err != nil {
		return nil, err
	}
	// recordType(2) + flags(2) + valence(4) precede folderID.
	folderID, err := decode.Uint32(buf, off+8)
	if err != nil {
		return nil, err
	}
	return &types.CatalogFolder{RecordType: recordType, FolderID: folderID}, nil
}

// Offsets within HFSPlusCatalogFile used by the recovery core.
const (
	fileOffRecordType  = 0
	fileOffFileID      = 8 // recordType(2) + flags(2) + reserved1(4) precede fileID
	fileOffDataForkOff = 88 // dataFork ForkData begins after the fixed header
)

// ForkData offsets relative to the start of an HFSPlusForkData
// (logicalSize uint64, clumpSize uint32, totalBlocks uint32, extents[8]).
const (
	forkOffLogicalSize = 0
	forkOffTotalBlocks = 12
	forkOffExtents     = 16
)

// ParseFile reads an HFSPlusCatalogFile body starting at off, including its
// data fork's inline extent array (up to ExtentDensity descriptors, but the
// caller only keeps as many as are needed to cover totalBlocks).
func ParseFile(buf []byte, off int) (*types.CatalogFile, error) {
	if !decode.AccessIsSafe(len(buf), off+types.CatalogFileRecordSize) {
		return nil, fmt.Errorf("catalog file record: %w", &decode.ErrShortBuffer{Want: off + types.CatalogFileRecordSize, Have: len(buf)})
	}
	recordType, err := decode.Uint16(buf, off+fileOffRecordType)
	if err != nil {
		return nil, err
	}
	fileID, err := decode.Uint32(buf, off+fileOffFileID)
	if err != nil {
		return nil, err
	}
	dataForkOff := off + fileOffDataForkOff
	logicalSize, err := decode.Uint64(buf, dataForkOff+forkOffLogicalSize)
	if err != nil {
		return nil, err
	}
	totalBlocks, err := decode.Uint32(buf, dataForkOff+forkOffTotalBlocks)
	if err != nil {
		return nil, err
	}
	var extents types.ExtentRecord
	for i := 0; i < types.ExtentDensity; i++ {
		base := dataForkOff + forkOffExtents + i*types.ExtentDescriptorSize
		startBlock, err := decode.Uint32(buf, base)
		if err != nil {
			return nil, err
		}
		blockCount, err := decode.Uint32(buf, base+4)
		if err != nil {
			return nil, err
		}
		extents[i] = types.ExtentDescriptor{StartBlock: startBlock, BlockCount: blockCount}
	}
	return &types.CatalogFile{
		RecordType:  recordType,
		FileID:      fileID,
		LogicalSize: logicalSize,
		TotalBlocks: totalBlocks,
		Extents:     extents,
	}, nil
}

// ThreadRecordSize computes the total size of an HFSPlusCatalogThread body
// starting at off: the fixed header (recordType, reserved, parentID) plus
// the variable-length HFSUniStr255 name that follows it.
func ThreadRecordSize(buf []byte, off int) (int, error) {
	const fixedHeader = 10 // recordType(2) + reserved(4) + parentID(4)
	nameLength, err := decode.Uint16(buf, off+fixedHeader)
	if err != nil {
		return 0, err
	}
	return fixedHeader + 2*(int(nameLength)+1), nil
}

// RecordBodySize returns the size, in bytes, of the record body that
// follows a catalog key of the given recordType, or an error if
// recordType isn't one the core recognizes.
func RecordBodySize(buf []byte, recordOff int, recordType uint16) (int, error) {
	switch recordType {
	case types.RecordTypeFolder:
		return types.CatalogFolderRecordSize, nil
	case types.RecordTypeFile:
		return types.CatalogFileRecordSize, nil
	case types.RecordTypeFolderThread, types.RecordTypeFileThread:
		return ThreadRecordSize(buf, recordOff)
	default:
		return 0, fmt.Errorf("catalog record: unrecognized record type %#x", recordType)
	}
}

// IsKnownRecordType reports whether recordType is one of the four catalog
// record kinds the classifier accepts.
func IsKnownRecordType(recordType uint16) bool {
	switch recordType {
	case types.RecordTypeFolder, types.RecordTypeFile, types.RecordTypeFolderThread, types.RecordTypeFileThread:
		return true
	default:
		return false
	}
}
