// Package fs provides a lazily listed directory entry, used for walking
// profile directories.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Entry struct {
	path string

	listed      bool
	dirs, files map[string]Entry
}

func NewEntry(path string) Entry {
	return Entry{
		path: path,
	}
}

func (e *Entry) list() error {
	entries, err := os.ReadDir(e.path)
	if err != nil {
		return fmt.Errorf("cannot read \"%s\" directory: %w", e.path, err)
	}

	var dirs, files = make(map[string]Entry), make(map[string]Entry)

	for _, entry := range entries {
		path := filepath.Join(e.path, entry.Name())
		if entry.IsDir() {
			dirs[entry.Name()] = NewEntry(path)
		} else {
			files[entry.Name()] = NewEntry(path)
		}
	}
	e.dirs = dirs
	e.files = files
	e.listed = true
	return nil
}

func (e *Entry) Dirs() (map[string]Entry, error) {
	if !e.listed {
		err := e.list()
		if err != nil {
			return map[string]Entry{}, err
		}
	}
	return e.dirs, nil
}

func (e *Entry) Files() (map[string]Entry, error) {
	if !e.listed {
		err := e.list()
		if err != nil {
			return map[string]Entry{}, err
		}
	}
	return e.files, nil
}

// FileNames returns sorted names of regular files in the directory.
func (e *Entry) FileNames() ([]string, error) {
	files, err := e.Files()
	if err != nil {
		return nil, err
	}

	var names = make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Entry) Path() string {
	return e.path
}
