// Package extract copies a file's extents from the image to its resolved
// output path, byte-exact to logicalSize. Grounded on the original
// recover.cpp save() function, including its reopen-and-reseek fallback for
// handles whose position state has drifted.
package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/go-forensics/hfsrecover/internal/types"
)

// Source is a seekable, reopenable view of the image. Reopen returns a fresh
// handle positioned at offset 0, used when a seek on the current handle
// fails - this matters for images that are block devices or large sparse
// files whose handle position can drift out from under a plain Seek.
type Source interface {
	io.ReadSeeker
	Reopen() (Source, error)
	Close() error
}

// FileSource opens a Source backed by a regular file at path.
func FileSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return &fileSource{path: path, file: f}, nil
}

type fileSource struct {
	path string
	file *os.File
}

func (s *fileSource) Read(p []byte) (int, error)       { return s.file.Read(p) }
func (s *fileSource) Seek(o int64, w int) (int64, error) { return s.file.Seek(o, w) }
func (s *fileSource) Close() error                       { return s.file.Close() }

func (s *fileSource) Reopen() (Source, error) {
	_ = s.file.Close()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("reopening image: %w", err)
	}
	s.file = f
	return s, nil
}

// Extract copies fi's extents from src to outPath, truncating the final
// block of the final extent so the output is exactly fi.LogicalSize bytes.
func Extract(src Source, blockSize int64, fi *types.FileInfo, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", outPath, err)
	}
	defer out.Close()

	buf := make([]byte, blockSize)
	sizeLeft := fi.LogicalSize

	for _, ext := range fi.Extents {
		pos := int64(ext.StartBlock) * blockSize
		if _, err := src.Seek(pos, io.SeekStart); err != nil {
			reopened, rerr := src.Reopen()
			if rerr != nil {
				return fmt.Errorf("extracting %q: %w", outPath, rerr)
			}
			src = reopened
			if _, err := src.Seek(pos, io.SeekStart); err != nil {
				return fmt.Errorf("extracting %q: seek failed after reopen: %w", outPath, err)
			}
		}

		for blocks := ext.BlockCount; blocks > 0 && sizeLeft > 0; blocks-- {
			n := blockSize
			if sizeLeft < uint64(n) {
				n = int64(sizeLeft)
			}
			if _, err := io.ReadFull(src, buf[:n]); err != nil {
				return fmt.Errorf("extracting %q: reading image: %w", outPath, err)
			}
			if _, err := out.Write(buf[:n]); err != nil {
				return fmt.Errorf("extracting %q: writing output: %w", outPath, err)
			}
			sizeLeft -= uint64(n)
		}
	}

	return nil
}
