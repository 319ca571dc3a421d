// Package wcaexport reads the public results export and selects the
// competitors of a region.
package wcaexport

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Export table names.
const (
	TableCompetitions = "WCA_export_Competitions.tsv"
	TableResults      = "WCA_export_Results.tsv"
)

// Source opens tables of one export.
type Source interface {
	// OpenTable opens a table by file name. Names match case-insensitively.
	OpenTable(name string) (io.ReadCloser, error)
	Close() error
}

// Open returns a Source over an export archive (.zip) or an extracted directory.
func Open(exportPath string) (Source, error) {
	info, err := os.Stat(exportPath)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	if info.IsDir() {
		return &dirSource{root: exportPath}, nil
	}
	r, err := zip.OpenReader(exportPath)
	if err != nil {
		return nil, fmt.Errorf("open export archive %s: %w", exportPath, err)
	}
	return &zipSource{r: r}, nil
}

type dirSource struct {
	root string
}

func (s *dirSource) OpenTable(name string) (io.ReadCloser, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read export dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return os.Open(filepath.Join(s.root, e.Name()))
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
}

func (s *dirSource) Close() error { return nil }

type zipSource struct {
	r *zip.ReadCloser
}

func (s *zipSource) OpenTable(name string) (io.ReadCloser, error) {
	for _, f := range s.r.File {
		if strings.EqualFold(path.Base(f.Name), name) {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
}

func (s *zipSource) Close() error { return s.r.Close() }
