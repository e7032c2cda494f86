package snapshot

import "path/filepath"

// Join anchors a run-relative path at dir. Absolute paths and an empty dir
// leave p unchanged.
func Join(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
