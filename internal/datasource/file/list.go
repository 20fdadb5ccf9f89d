package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrIsDir is returned when a single file was expected.
	ErrIsDir = errors.New("is a directory")
	// ErrNotDir is returned when a directory was expected.
	ErrNotDir = errors.New("not a directory")
)

// ListTables returns the regular files in dir whose extension is one of
// exts (case-insensitive, with leading dot), sorted by path. Subdirectories
// are not descended into.
func ListTables(dir string, exts []string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("list %s: %w", dir, ErrNotDir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if want[strings.ToLower(filepath.Ext(e.Name()))] {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
