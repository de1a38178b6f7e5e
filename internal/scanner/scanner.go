// Package scanner implements the node-carving sweep: a doubled sliding
// buffer read sequentially from the image, handed to the classifier at
// every stride position. Grounded on the original recover.cpp scan loop
// (doubled backbuffer, halfway-mark refill, per-block progress logging),
// adapted to classify at two independent node sizes since the catalog and
// extents-overflow trees may not share one on disk.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-forensics/hfsrecover/internal/classifier"
	"github.com/go-forensics/hfsrecover/internal/decode"
	"github.com/go-forensics/hfsrecover/internal/index"
	"github.com/go-forensics/hfsrecover/internal/progress"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// nodeKindOffset is the byte offset of the signed "kind" field within a
// BTNodeDescriptor: fLink (4B) + bLink (4B) precede it.
const nodeKindOffset = 8

// Scanner walks an image sequentially, classifying each stride-aligned
// window and forwarding accepted records to an Indexer.
type Scanner struct {
	img        io.Reader
	buf        []byte
	bufferSize int64

	catalogNodeSize int64
	extentNodeSize  int64
	stopBlock       int64
	permissive      bool

	indexer  *index.Indexer
	stats    *types.RecoveryStats
	reporter *progress.Reporter

	blockNumber int64
}

// New returns a Scanner reading from img per cfg, forwarding accepted
// records to ix and recording running counts in stats. reporter may be nil.
func New(img io.Reader, cfg types.RecoveryConfig, ix *index.Indexer, stats *types.RecoveryStats, reporter *progress.Reporter) (*Scanner, error) {
	if cfg.BufferSize <= 0 {
		return nil, errors.New("buffer size must be positive")
	}
	if cfg.CatalogNodeSize <= 0 || cfg.ExtentNodeSize <= 0 {
		return nil, errors.New("catalog and extent node sizes must be positive")
	}
	maxNode := cfg.CatalogNodeSize
	if cfg.ExtentNodeSize > maxNode {
		maxNode = cfg.ExtentNodeSize
	}
	if cfg.BufferSize < maxNode {
		return nil, fmt.Errorf("buffer size %d smaller than largest node size %d", cfg.BufferSize, maxNode)
	}

	return &Scanner{
		img:             img,
		buf:             make([]byte, cfg.BufferSize*2),
		bufferSize:      cfg.BufferSize,
		catalogNodeSize: cfg.CatalogNodeSize,
		extentNodeSize:  cfg.ExtentNodeSize,
		stopBlock:       cfg.StopBlock,
		permissive:      cfg.Permissive,
		indexer:         ix,
		stats:           stats,
		reporter:        reporter,
	}, nil
}

// Scan reads and classifies the entire image, or until ctx is cancelled or
// stopBlock is reached. Classification failures are never fatal; only I/O
// errors and an empty image abort the scan.
func (s *Scanner) Scan(ctx context.Context) error {
	n, err := io.ReadFull(s.img, s.buf)
	eof := false
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
		eof = true
	default:
		return fmt.Errorf("scanning image: %w", err)
	}
	if n == 0 {
		return errors.New("image is empty")
	}

	minStride := s.catalogNodeSize
	if s.extentNodeSize < minStride {
		minStride = s.extentNodeSize
	}

	if s.reporter != nil {
		s.reporter.Phase("scan")
	}

	pos := int64(0)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.stopBlock > 0 && s.blockNumber >= s.stopBlock {
			break
		}

		if pos >= s.bufferSize {
			if eof {
				break
			}
			copy(s.buf[:s.bufferSize], s.buf[s.bufferSize:])
			nn, rerr := io.ReadFull(s.img, s.buf[s.bufferSize:])
			switch {
			case rerr == nil:
			case errors.Is(rerr, io.EOF):
				eof = true
			case errors.Is(rerr, io.ErrUnexpectedEOF):
				for i := s.bufferSize + int64(nn); i < int64(len(s.buf)); i++ {
					s.buf[i] = 0
				}
				eof = true
			default:
				return fmt.Errorf("scanning image: %w", rerr)
			}
			pos -= s.bufferSize
			s.blockNumber++
			if s.stats != nil {
				s.stats.BlocksScanned = s.blockNumber
				s.stats.BytesScanned = s.blockNumber * s.bufferSize
			}
			if s.reporter != nil && s.stats != nil {
				s.reporter.Progress(s.stats)
			}
		}

		pos += s.classifyAt(pos, minStride)
	}

	if s.reporter != nil && s.stats != nil {
		s.reporter.Progress(s.stats)
	}
	return nil
}

// classifyAt attempts a catalog-shape match then an extent-shape match at
// the window starting at pos, forwarding any accepted records. It returns
// the number of bytes the caller should advance the stride by.
func (s *Scanner) classifyAt(pos int64, minStride int64) int64 {
	kind, err := decode.Int8(s.buf, int(pos)+nodeKindOffset)
	if err != nil {
		return minStride
	}
	if !s.permissive && kind != types.BTreeLeafNode {
		return minStride
	}

	if end := pos + s.catalogNodeSize; end <= int64(len(s.buf)) {
		window := s.buf[pos:end]
		if res := classifier.Classify(window, s.permissive); res.Kind == classifier.CatalogLeaf {
			s.accept(window, res)
			return s.catalogNodeSize
		}
	}

	if end := pos + s.extentNodeSize; end <= int64(len(s.buf)) {
		window := s.buf[pos:end]
		if res := classifier.Classify(window, s.permissive); res.Kind == classifier.ExtentLeaf {
			s.accept(window, res)
			return s.extentNodeSize
		}
	}

	return minStride
}

func (s *Scanner) accept(window []byte, res classifier.Result) {
	if s.stats != nil {
		s.stats.LeavesAccepted++
	}
	for _, w := range res.Warnings {
		s.warn(string(w))
	}
	for _, off := range res.CatalogRecords {
		if err := s.indexer.IndexCatalogRecord(window, off); err != nil {
			s.warn(err.Error())
		}
	}
	for _, off := range res.ExtentRecords {
		if err := s.indexer.IndexExtentRecord(window, off); err != nil {
			s.warn(err.Error())
		}
	}
}

func (s *Scanner) warn(msg string) {
	if s.reporter != nil {
		s.reporter.Warning(msg)
	}
}
