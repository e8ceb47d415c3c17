package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Source lists punch files and opens them for reading. Names returned by
// List are passed back to Open unchanged.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// terminal exports are named like BADGE.Z20, BADGE.Z38 or BADGE.Z70
var terminalExt = regexp.MustCompile(`\.z[a-z0-9]+$`)

// IsPunchFile reports whether name looks like a terminal export: a .txt
// file, a .Z<suffix> file other than .zip, or one of the extra extensions.
func IsPunchFile(name string, extra []string) bool {
	lower := strings.ToLower(path.Base(filepath.ToSlash(name)))
	if strings.HasSuffix(lower, ".txt") {
		return true
	}
	if terminalExt.MatchString(lower) && !strings.HasSuffix(lower, ".zip") {
		return true
	}
	for _, ext := range extra {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Dir discovers punch files directly inside a directory.
type Dir struct {
	Path       string
	Extensions []string
}

// List returns the matching regular files sorted by name. Sub directories
// are not visited.
func (d Dir) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.Path, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if IsPunchFile(e.Name(), d.Extensions) {
			names = append(names, filepath.Join(d.Path, e.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return openFile(name)
}

// Files is an explicit list of paths, processed in the given order.
type Files []string

func (f Files) List(ctx context.Context) ([]string, error) {
	return append([]string(nil), f...), nil
}

func (f Files) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return openFile(name)
}

func openFile(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	// caller closes
	return file, nil
}
