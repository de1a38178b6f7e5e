// Package pathresolve rebuilds a file's absolute output path by walking the
// folder map's parent chain, creating directories along the way. Grounded
// on the original recover.cpp makeFolder() recursion.
package pathresolve

import (
	"os"
	"path/filepath"

	"github.com/go-forensics/hfsrecover/internal/index"
	"github.com/go-forensics/hfsrecover/internal/types"
)

// Warning is a non-fatal diagnostic raised for a missing parent id or a
// directory that could not be created.
type Warning string

// Resolver rebuilds output paths against a fixed output root and folder
// index, creating directories as it walks. A directory creation failure is
// warned, never fatal - the walk continues and a later write simply fails
// for that one file.
type Resolver struct {
	idx     *index.Index
	outRoot string
	warn    func(Warning)
}

// New returns a Resolver rooted at outRoot.
func New(idx *index.Index, outRoot string, warn func(Warning)) *Resolver {
	if warn == nil {
		warn = func(Warning) {}
	}
	return &Resolver{idx: idx, outRoot: outRoot, warn: warn}
}

// FolderPath walks parentID's chain upward, creating every directory it
// passes through with 0777 permissions, and returns the resolved directory
// (not including any file name). Ids below FirstUserCatalogNodeID terminate
// recursion at the output root. A parent id missing from the folder map
// diverts the walk to a sibling "lost" directory.
func (r *Resolver) FolderPath(parentID uint32) string {
	if parentID < types.FirstUserCatalogNodeID {
		r.mkdir(r.outRoot)
		return r.outRoot
	}

	folder, ok := r.idx.Folders[parentID]
	if !ok {
		r.warn("Couldn't find folder in chain.")
		path := filepath.Join(r.outRoot, "lost")
		r.mkdir(path)
		return path
	}

	path := filepath.Join(r.FolderPath(folder.ParentID), folder.Name)
	r.mkdir(path)
	return path
}

// FilePath returns the full output path for fi, creating its parent
// directory chain as a side effect.
func (r *Resolver) FilePath(fi *types.FileInfo) string {
	return filepath.Join(r.FolderPath(fi.ParentID), fi.Name)
}

func (r *Resolver) mkdir(path string) {
	if err := os.MkdirAll(path, 0777); err != nil {
		r.warn(Warning("Couldn't create folder: " + err.Error()))
	}
}
