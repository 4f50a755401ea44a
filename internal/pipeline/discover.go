package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog file extensions (lowercase, with leading dot).
var catalogExtensions = map[string]bool{
	".tsv": true,
	".txt": true,
}

// Discover returns the catalog files to process. A file argument is
// returned as-is whatever its extension. A directory is walked recursively,
// hidden directories are pruned, and the matches are sorted lexicographically
// for deterministic processing order.
func Discover(input string) ([]string, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{input}, nil
	}

	var files []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != input && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if catalogExtensions[ext] {
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

// OutputPathFor maps a discovered input file to its output path. For a
// directory run the file's path relative to inputRoot is mirrored under
// outputRoot. For a single-file run outputRoot is the output file, unless
// it is an existing directory, in which case the input's base name is used
// inside it.
func OutputPathFor(inputRoot, outputRoot, path string, inputIsDir bool) string {
	if !inputIsDir {
		if fi, err := os.Stat(outputRoot); err == nil && fi.IsDir() {
			return filepath.Join(outputRoot, filepath.Base(path))
		}
		return outputRoot
	}
	rel, err := filepath.Rel(inputRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(outputRoot, rel)
}
