package recover

import "fmt"

// Format renders a Summary as the human-readable report printed by the CLI.
func Format(s *Summary) string {
	out := fmt.Sprintf("Session %s\n", s.SessionID)

	if s.Preflight != nil {
		out += fmt.Sprintf("Preflight: primary valid=%t, alternate valid=%t\n",
			s.Preflight.PrimaryValid, s.Preflight.AlternateValid)
		if h := s.Preflight.Primary; s.Preflight.PrimaryValid && h != nil {
			out += fmt.Sprintf("Primary header: %d files, %d folders, block size %d\n",
				h.FileCount, h.FolderCount, h.BlockSize)
		}
		if h := s.Preflight.Alternate; s.Preflight.AlternateValid && h != nil {
			out += fmt.Sprintf("Alternate header: %d files, %d folders, block size %d\n",
				h.FileCount, h.FolderCount, h.BlockSize)
		}
	}

	out += fmt.Sprintf("Found %d files, %d folders, %d overflow extents\n",
		s.Stats.FilesIndexed, s.Stats.FoldersIndexed, s.Stats.ExtentsIndexed)
	if s.Stats.DuplicatesDropped > 0 {
		out += fmt.Sprintf("Dropped %d duplicate records\n", s.Stats.DuplicatesDropped)
	}
	out += fmt.Sprintf("Scanned %d blocks (%d bytes) in %v\n",
		s.Stats.BlocksScanned, s.Stats.BytesScanned, s.Duration)

	return out
}
