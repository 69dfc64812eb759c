// Package objects loads world-object metadata from the local map data file.
// The file only changes on deploy, so parsed contents are cached keyed by the
// file's modification time.
package objects

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/palworld-go/palmap/pkg/core"
)

// ErrDataFile is returned when the map data file is missing or corrupt.
var ErrDataFile = errors.New("map data file unavailable")

// Loader reads MapObjects from a JSON file with an mtime-keyed cache.
type Loader struct {
	mu     sync.Mutex
	path   string
	mtime  time.Time
	cached []core.MapObject
}

// NewLoader creates a loader for the given data file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns all objects from the data file, re-parsing only when the
// file's modification time changed since the last call.
func (l *Loader) Load() ([]core.MapObject, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFile, err)
	}

	if l.cached != nil && info.ModTime().Equal(l.mtime) {
		return l.cached, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFile, err)
	}

	var objects []core.MapObject
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDataFile, l.path, err)
	}

	l.cached = objects
	l.mtime = info.ModTime()
	return objects, nil
}

// Visible returns the objects served to the map page: everything except the
// generic pal category, which is far too dense to render as markers.
func (l *Loader) Visible() ([]core.MapObject, error) {
	all, err := l.Load()
	if err != nil {
		return nil, err
	}
	return Exclude(all, core.CategoryPal), nil
}

// Exclude filters out objects of the given categories, preserving order.
func Exclude(objects []core.MapObject, categories ...core.ObjectCategory) []core.MapObject {
	drop := make(map[core.ObjectCategory]struct{}, len(categories))
	for _, c := range categories {
		drop[c] = struct{}{}
	}
	out := make([]core.MapObject, 0, len(objects))
	for _, o := range objects {
		if _, skip := drop[o.Category]; skip {
			continue
		}
		out = append(out, o)
	}
	return out
}
