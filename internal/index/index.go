// Package index holds the three indices the scanner populates - folders by
// id, files as a list, and the extents-overflow map - and the Indexer that
// decodes classified records into them.
package index

import (
	"fmt"

	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/dedup"
	"github.com/go-forensics/hfsrecover/internal/parsers/catalog"
	"github.com/go-forensics/hfsrecover/internal/parsers/extents"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Index is the shared in-memory state built by a scan. Folders and Overflow
// silently overwrite on duplicate keys (matching the original's map
// semantics); Files may contain duplicates from overlapping node accepts
// unless a dedup filter is attached to the Indexer.
type Index struct {
	Folders  map[uint32]types.FolderInfo
	Files    []types.FileInfo
	Overflow map[types.ExtentOverflowKey]types.ExtentRecord
}

// New returns an empty Index ready for indexing.
func New() *Index {
	return &Index{
		Folders:  make(map[uint32]types.FolderInfo),
		Overflow: make(map[types.ExtentOverflowKey]types.ExtentRecord),
	}
}

// Warning is emitted for non-fatal conditions encountered while indexing a
// single record; the caller decides how to surface it (see internal/progress).
type Warning string

// Indexer converts classified records from on-disk layout into Index
// entries. It is not safe for concurrent use; scanning runs strictly
// single-threaded.
type Indexer struct {
	idx        *Index
	blockSize  uint32
	permissive bool
	dedup      *dedup.Filter
	stats      *types.RecoveryStats
	warn       func(Warning)
}

// NewIndexer returns an Indexer writing into idx.
func NewIndexer(idx *Index, blockSize uint32, permissive bool, dedupFilter *dedup.Filter, stats *types.RecoveryStats, warn func(Warning)) *Indexer {
	if warn == nil {
		warn = func(Warning) {}
	}
	return &Indexer{idx: idx, blockSize: blockSize, permissive: permissive, dedup: dedupFilter, stats: stats, warn: warn}
}

// IndexCatalogRecord decodes the catalog key/record pair found at off in
// buf and, for folder and file records, adds it to the index. Thread
// records are parsed far enough to be skipped cleanly but are never stored.
func (ix *Indexer) IndexCatalogRecord(buf []byte, off int) error {
	key, err := catalog.ParseKey(buf, off)
	if err != nil {
		return fmt.Errorf("indexing catalog record: %w", err)
	}
	recordOff := off + int(key.KeyLength) + 2
	recordType, err := decode.Uint16(buf, recordOff)
	if err != nil {
		return fmt.Errorf("indexing catalog record: %w", err)
	}

	switch recordType {
	case types.RecordTypeFolder:
		folder, err := catalog.ParseFolder(buf, recordOff)
		if err != nil {
			return fmt.Errorf("indexing folder record: %w", err)
		}
		ix.idx.Folders[folder.FolderID] = types.FolderInfo{Name: key.Name, ParentID: key.ParentID}
		if ix.stats != nil {
			ix.stats.FoldersIndexed++
		}
		return nil

	case types.RecordTypeFile:
		file, err := catalog.ParseFile(buf, recordOff)
		if err != nil {
			return fmt.Errorf("indexing file record: %w", err)
		}
		return ix.indexFile(key, file)

	case types.RecordTypeFolderThread, types.RecordTypeFileThread:
		// Accepted by the classifier so the node parses cleanly, never stored.
		return nil

	default:
		return fmt.Errorf("indexing catalog record: unrecognized record type %#x", recordType)
	}
}

func (ix *Indexer) indexFile(key *types.CatalogKey, file *types.CatalogFile) error {
	if file.LogicalSize == 0 {
		return nil // empty files carry no recoverable content
	}

	blockSize := uint64(ix.blockSize)
	tooSmall := uint64(file.TotalBlocks)*blockSize < file.LogicalSize
	tooBig := file.TotalBlocks > 0 && uint64(file.TotalBlocks-1)*blockSize >= file.LogicalSize
	if tooSmall || tooBig {
		if !ix.permissive {
			ix.warn("Dropped file with inconsistent block size arithmetic.")
			return nil
		}
		ix.warn("Block size appears wrong.")
	}

	fi := types.FileInfo{
		Name:        key.Name,
		ParentID:    key.ParentID,
		FileID:      file.FileID,
		LogicalSize: file.LogicalSize,
		TotalBlocks: file.TotalBlocks,
	}
	for i := 0; i < types.ExtentDensity && fi.FoundBlocks < fi.TotalBlocks; i++ {
		fi.Extents = append(fi.Extents, file.Extents[i])
		fi.FoundBlocks += file.Extents[i].BlockCount
	}

	if ix.dedup != nil && ix.dedup.Seen(fi.FileID, fi.ParentID, fi.Name) {
		if ix.stats != nil {
			ix.stats.DuplicatesDropped++
		}
		return nil
	}

	ix.idx.Files = append(ix.idx.Files, fi)
	if ix.stats != nil {
		ix.stats.FilesIndexed++
	}
	return nil
}

// IndexExtentRecord decodes the extent overflow key/record pair found at
// off in buf and inserts it into the overflow map, overwriting any existing
// entry with the same key.
func (ix *Indexer) IndexExtentRecord(buf []byte, off int) error {
	key, err := extents.ParseKey(buf, off)
	if err != nil {
		return fmt.Errorf("indexing extent record: %w", err)
	}
	rec, err := extents.ParseRecord(buf, off+types.ExtentKeySize)
	if err != nil {
		return fmt.Errorf("indexing extent record: %w", err)
	}
	ix.idx.Overflow[types.ExtentOverflowKey{FileID: key.FileID, StartBlock: key.StartBlock}] = *rec
	if ix.stats != nil {
		ix.stats.ExtentsIndexed++
	}
	return nil
}
