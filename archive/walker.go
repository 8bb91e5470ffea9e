// Package archive builds a Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is called for each matching file in the archive. The file
// argument is the zip.File entry. Returning an error stops the walk.
type WalkFunc func(archive string, file *zip.File) error

// MatchFunc decides whether a zip entry name is visited.
type MatchFunc func(name string) bool

// Prefix matches entry names under the given archive path prefix.
func Prefix(prefix string) MatchFunc {
	return func(name string) bool { return strings.HasPrefix(name, prefix) }
}

// Exact matches a single entry name.
func Exact(name string) MatchFunc {
	return func(n string) bool { return n == name }
}

// Walk visits every file entry in the archive accepted by match, calling
// walkFn for each. Entries with path traversal components ("..") or absolute
// paths fail the walk to prevent Zip Slip attacks. Directory entries are
// skipped.
func Walk(archive string, match MatchFunc, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
