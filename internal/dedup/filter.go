// Package dedup implements an optional (fileID, parentID, name) duplicate
// filter for accepted records. It folds the composite identity key with
// cespare/xxhash/v2 rather than hashing strings with the stdlib.
package dedup

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Filter is a seen-set keyed by a 64-bit hash of (fileID, parentID, name).
// It is not safe for concurrent use; the indexer that owns it runs on a
// single goroutine.
type Filter struct {
	seen map[uint64]struct{}
}

// New returns an empty Filter.
func New() *Filter {
	return &Filter{seen: make(map[uint64]struct{})}
}

// Seen reports whether (fileID, parentID, name) has been observed before,
// recording it as seen if not. The first call for a given triple always
// returns false.
func (f *Filter) Seen(fileID, parentID uint32, name string) bool {
	key := f.hash(fileID, parentID, name)
	if _, ok := f.seen[key]; ok {
		return true
	}
	f.seen[key] = struct{}{}
	return false
}

func (f *Filter) hash(fileID, parentID uint32, name string) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], fileID)
	binary.BigEndian.PutUint32(buf[4:8], parentID)
	h.Write(buf[:])
	h.WriteString(name)
	return h.Sum64()
}

// Len reports the number of distinct triples seen so far.
func (f *Filter) Len() int {
	return len(f.seen)
}
