package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// ErrUnsupportedFormat is returned for catalog files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// ParseJSON reads an array of packages. IDs are always derived from the
// provider and package name, as for CSV; an id in the input is ignored so an
// import cannot collide with user-added packages. Lines in rejections are
// 1-based array positions.
func ParseJSON(r io.Reader) (*Result, error) {
	var pkgs []catalog.Package
	if err := json.NewDecoder(r).Decode(&pkgs); err != nil {
		return nil, fmt.Errorf("decoding catalog json: %w", err)
	}

	b := newBuilder()
	for i, p := range pkgs {
		p.ID = catalog.Slug(p.Provider, p.Name)
		SortStays(p.Stays)
		b.add(i+1, p, nil)
	}
	return b.result(), nil
}

// LoadFile ingests a catalog file, choosing the parser by extension.
func LoadFile(path string) (*Result, error) {
	var parse func(io.Reader) (*Result, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parse = ParseCSV
	case ".json":
		parse = ParseJSON
	default:
		return nil, fmt.Errorf("loading %s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	res, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return res, nil
}
