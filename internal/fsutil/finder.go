// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExtensionError reports an explicitly named file whose extension is not
// one of those asked for.
type ExtensionError struct {
	Path       string
	Extensions []string
}

// Error implements the error interface for ExtensionError.
func (e *ExtensionError) Error() string {
	return fmt.Sprintf("file %s does not have one of the extensions %s", e.Path, strings.Join(e.Extensions, ", "))
}

// HasExtension reports whether path ends in one of the extensions.
func HasExtension(path string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// CollectFiles expands paths into the files carrying one of the extensions.
// Named files must carry one of them; directories are searched recursively.
// The result is deduplicated and sorted per argument so later arguments
// override earlier ones in a stable way. A missing path is an error.
func CollectFiles(paths []string, extensions ...string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		all = append(all, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if !HasExtension(path, extensions...) {
				return nil, &ExtensionError{Path: path, Extensions: extensions}
			}
			add(path)
			continue
		}

		var found []string
		for _, ext := range extensions {
			files, err := FindFilesByExtension(path, ext)
			if err != nil {
				return nil, err
			}
			found = append(found, files...)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
