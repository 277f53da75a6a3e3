package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Supported audio file extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".m4b":  true,
	".aac":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".wma":  true,
	".opus": true,
}

// Cover art is recognized by basename and extension.
var (
	coverNames = map[string]bool{
		"cover":  true,
		"folder": true,
		"album":  true,
		"front":  true,
	}
	coverExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)

// Discover walks sourceDir and returns the audio tasks followed by the cover
// tasks, each group sorted lexicographically for deterministic queueing.
// Covers come last so they never delay audio conversions; pass
// withImages=false to skip them entirely.
func Discover(sourceDir string, withImages bool) ([]Task, error) {
	var audio, covers []Task

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case audioExtensions[ext]:
			audio = append(audio, Task{Kind: KindAudio, Path: path, RelPath: rel})
		case withImages && isCover(d.Name(), ext):
			covers = append(covers, Task{Kind: KindCover, Path: path, RelPath: rel})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(audio, func(i, j int) bool { return audio[i].RelPath < audio[j].RelPath })
	sort.Slice(covers, func(i, j int) bool { return covers[i].RelPath < covers[j].RelPath })

	return append(audio, covers...), nil
}

// isCover matches cover art by case-insensitive basename and extension.
func isCover(name, ext string) bool {
	if !coverExtensions[ext] {
		return false
	}
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	return coverNames[base]
}
