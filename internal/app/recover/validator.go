package recover

import (
	"errors"

	"github.com/go-forensics/hfsrecover/internal/types"
)

// Validate checks that every tunable is within a usable range. It never
// touches the filesystem - Handle does that.
func Validate(cfg types.RecoveryConfig) error {
	if cfg.SectorSize <= 0 {
		return errors.New("sector size must be positive")
	}
	if cfg.BlockSize <= 0 {
		return errors.New("block size must be positive")
	}
	if cfg.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	if cfg.CatalogNodeSize <= 0 {
		return errors.New("catalog node size must be positive")
	}
	if cfg.ExtentNodeSize <= 0 {
		return errors.New("extent node size must be positive")
	}
	maxNode := cfg.CatalogNodeSize
	if cfg.ExtentNodeSize > maxNode {
		maxNode = cfg.ExtentNodeSize
	}
	if cfg.BufferSize < maxNode {
		return errors.New("buffer size must be at least as large as the largest node size")
	}
	if cfg.StopBlock < 0 {
		return errors.New("stop block must not be negative")
	}
	return nil
}

// Validate checks the request as a whole: a usable config plus the paths
// Handle will need.
func (r *Request) Validate() error {
	if r.ImagePath == "" {
		return errors.New("image path is required")
	}
	if !r.VerifyOnly && r.OutDir == "" {
		return errors.New("output directory is required")
	}
	return Validate(r.Config)
}
