package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Discover walks root recursively and returns every file of the given kind
// in lexical order. Top-level directories named in exclude are skipped, as
// are macOS "._" resource-fork files.
func Discover(root string, kind Kind, exclude []string) ([]string, error) {
	var files []string
	err := walk(root, exclude, func(path string) {
		if k, ok := KindOf(path); ok && k == kind {
			files = append(files, path)
		}
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Count returns how many files Discover would return.
func Count(root string, kind Kind, exclude []string) (int, error) {
	files, err := Discover(root, kind, exclude)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func walk(root string, exclude []string, visit func(path string)) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && filepath.Dir(path) == root && slices.Contains(exclude, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "._") || !d.Type().IsRegular() {
			return nil
		}
		visit(path)
		return nil
	})
}

// RelativeKey returns path relative to root with "/" separators, the form
// used by the metadata filename columns.
func RelativeKey(root, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

// FlattenName turns a relative key into a single file name by replacing
// every "/" with "-".
func FlattenName(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}
