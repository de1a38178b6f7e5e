// Package classifier implements the node-carving signature: given a buffer
// that might be a B-tree leaf node, decide whether it shapes up as a
// catalog leaf, an extent leaf, or neither. Nothing here trusts the node's
// own "kind" byte beyond an optional hint - the shape of its records, cross
// checked against the trailing record-offset table, is the real signature.
package classifier

import (
	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/parsers/catalog"
	"github.com/go-forensics/hfsrecover/internal/parsers/extents"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Kind is the result of classifying a candidate node.
type Kind int

const (
	Neither Kind = iota
	CatalogLeaf
	ExtentLeaf
)

func (k Kind) String() string {
	switch k {
	case CatalogLeaf:
		return "catalog-leaf"
	case ExtentLeaf:
		return "extent-leaf"
	default:
		return "neither"
	}
}

// Warning is a non-fatal structural observation surfaced to the caller so
// it can be logged; it never changes the classification outcome itself.
type Warning string

// Result carries the classifier's verdict plus the offsets (relative to
// the start of buf) of every folder, file and extent record it recognized
// (thread records are matched but not listed), and any permissive-mode
// warnings it accumulated along the way.
type Result struct {
	Kind            Kind
	CatalogRecords  []int // offsets of folder/file records only (thread records are skipped here)
	ExtentRecords   []int
	Warnings        []Warning
}

// Classify walks buf from the end of the node descriptor, attempting a
// catalog-shape match and then an extent-shape match at each cursor
// position. permissive relaxes the record-offset table cross-check (never
// a bounds check).
func Classify(buf []byte, permissive bool) Result {
	nodeSize := len(buf)

	// The trailing record-offset table is walked in reverse starting two
	// slots from the tail; the original tool's first (discarded) read
	// consumes the free-space-offset slot before per-record comparisons
	// begin - preserved here for bit-for-bit behavioral parity.
	reverseCursor := nodeSize - 2
	if !decode.AccessIsSafe(nodeSize, reverseCursor+2) {
		return Result{Kind: Neither}
	}
	reverseCursor -= 2

	cursor := types.BTNodeDescriptorSize
	var res Result
	sawCatalogShape := false
	numRead := 0

	for cursor < nodeSize {
		if !decode.AccessIsSafe(nodeSize, reverseCursor+2) {
			break
		}
		tailOffset, err := decode.Uint16(buf, reverseCursor)
		if err != nil {
			break
		}

		keyLength, err := decode.Uint16(buf, cursor)
		if err != nil {
			break
		}

		update, isCatalog, catalogRecordOffset, ok := tryCatalogShape(buf, cursor, keyLength)
		if ok {
			sawCatalogShape = true
			if isCatalog {
				res.CatalogRecords = append(res.CatalogRecords, catalogRecordOffset)
			}
		} else {
			update, ok = tryExtentShape(buf, cursor, keyLength)
			if ok {
				res.ExtentRecords = append(res.ExtentRecords, cursor)
			}
		}
		if !ok {
			break
		}

		if int(tailOffset) != cursor+update {
			if !permissive {
				break
			}
			res.Warnings = append(res.Warnings, "Read record with incorrect offset label.")
		}

		reverseCursor -= 2
		cursor += update
		numRead++
	}

	if numRead == 0 {
		return Result{Kind: Neither}
	}
	if len(res.CatalogRecords) > 0 && len(res.ExtentRecords) > 0 {
		// Catalog and extent shapes cannot coexist in a real node; reject.
		return Result{Kind: Neither}
	}
	if len(res.ExtentRecords) > 0 {
		res.Kind = ExtentLeaf
		return res
	}
	// Either real catalog records were found, or only thread records were
	// (which still classify the node as a catalog leaf, just with nothing
	// further to index from it).
	if sawCatalogShape {
		res.Kind = CatalogLeaf
		return res
	}
	return Result{Kind: Neither}
}

// tryCatalogShape attempts to interpret the record at cursor as a catalog
// key + body. It returns the number of bytes to advance the cursor, whether
// the matched record is a folder/file record (as opposed to a thread
// record), the offset of the catalog key itself (== cursor, returned for
// caller convenience), and whether the shape matched at all.
func tryCatalogShape(buf []byte, cursor int, keyLength uint16) (update int, isFolderOrFile bool, keyOffset int, ok bool) {
	key, err := catalog.ParseKey(buf, cursor)
	if err != nil {
		return 0, false, 0, false
	}
	if !catalog.ShapeMatches(keyLength, key.NameLength) {
		return 0, false, 0, false
	}

	recordOff := cursor + int(keyLength) + 2
	recordType, err := decode.Uint16(buf, recordOff)
	if err != nil {
		return 0, false, 0, false
	}
	if !catalog.IsKnownRecordType(recordType) {
		return 0, false, 0, false
	}

	bodySize, err := catalog.RecordBodySize(buf, recordOff, recordType)
	if err != nil {
		return 0, false, 0, false
	}

	update = int(keyLength) + 2 + bodySize
	isFolderOrFile = recordType == types.RecordTypeFolder || recordType == types.RecordTypeFile
	return update, isFolderOrFile, cursor, true
}

// tryExtentShape attempts to interpret the record at cursor as an extent
// overflow key + record.
func tryExtentShape(buf []byte, cursor int, keyLength uint16) (update int, ok bool) {
	if keyLength != types.ExtentKeyMaximumLength {
		return 0, false
	}
	key, err := extents.ParseKey(buf, cursor)
	if err != nil {
		return 0, false
	}
	if !extents.IsDataFork(key) {
		return 0, false
	}
	return types.ExtentKeySize + types.ExtentRecordSize, true
}
