package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/photoclean/photoclean/internal/imagefile"
)

// Discover walks root, collects files with recognized image extensions, and
// returns the paths sorted lexicographically for deterministic processing
// order. When recursive is false only the top-level directory is scanned.
func Discover(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if imagefile.ByExtension(path) != imagefile.FormatUnknown {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
