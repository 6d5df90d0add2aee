package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// mediaExtensions lists the inputs a batch picks up (lowercase, with dot).
var mediaExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".mov": true,
	".avi": true, ".wmv": true, ".flv": true, ".webm": true,
	".ts": true, ".m2ts": true, ".mpg": true, ".mpeg": true,
	".vob": true, ".ogv": true,
}

// IsMedia reports whether path has a known media extension. Dotfiles
// (e.g. macOS "._movie.mkv" resource forks) never count.
func IsMedia(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return mediaExtensions[strings.ToLower(filepath.Ext(base))]
}

// Discover returns every media file under dir in lexicographic order.
// Directories named "extras" (any case) are not descended into.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && strings.EqualFold(d.Name(), "extras"):
			return filepath.SkipDir
		case !d.IsDir() && IsMedia(path):
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}
