package texture

import (
	"os"
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".bmp": true, ".tga": true,
}

// Index maps content-addressed references ("sha256:<hex>") to files in a
// content directory, where each file is named by its hex digest.
type Index struct {
	entries map[string]string // lowercase hex → full path
}

// BuildIndex scans dir and its subdirectories for image files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !imageExts[ext] {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if _, exists := idx.entries[stem]; !exists {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

// ResolvePath returns the file for a content reference, or ("", false).
func (idx *Index) ResolvePath(ref string) (string, bool) {
	if idx == nil {
		return "", false
	}
	hex := strings.TrimPrefix(strings.ToLower(ref), "sha256:")
	path, ok := idx.entries[hex]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
