package types

// FolderInfo is a directory entry recovered from a catalog folder record.
type FolderInfo struct {
	Name     string
	ParentID uint32
}

// FileInfo is a file entry recovered from a catalog file record, mutated in
// place by the defragmenter as overflow extents are discovered.
type FileInfo struct {
	Name        string
	ParentID    uint32
	FileID      uint32
	LogicalSize uint64
	TotalBlocks uint32
	FoundBlocks uint32
	Extents     []ExtentDescriptor
}

// ExtentOverflowKey is the (fileID, startBlock) composite key for the
// extents-overflow map. The original tool packs this pair into a 64-bit
// union; Go map keys need not be integers, so this module uses the pair
// directly as a comparable struct key instead.
type ExtentOverflowKey struct {
	FileID     uint32
	StartBlock uint32
}

// RecoveryConfig holds every tunable the scan and extraction pipeline reads.
type RecoveryConfig struct {
	SectorSize      int64
	BlockSize       int64
	BufferSize      int64
	CatalogNodeSize int64
	ExtentNodeSize  int64
	StopBlock       int64
	Permissive      bool
	Dedup           bool
}

// RecoveryStats holds the running counters the progress reporter surfaces.
type RecoveryStats struct {
	BlocksScanned     int64
	BytesScanned      int64
	LeavesAccepted    int64
	FilesIndexed      int
	FoldersIndexed    int
	ExtentsIndexed    int
	DuplicatesDropped int
}
