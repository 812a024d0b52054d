// Package netcdf moves datasets between the domain model and classic-format
// NetCDF files on disk.
package netcdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ctessum/cdf"

	"github.com/oceanobs/ctd-split/internal/domain"
)

// Reader loads a whole-cruise NetCDF file into memory.
// It implements pipeline.CruiseExtractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a reader for the given cruise file path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads the configured cruise file.
func (r *Reader) Extract(_ context.Context) (*domain.Dataset, error) {
	ds, err := ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("cruise file loaded",
		"path", r.path,
		"dimensions", len(ds.Dims),
		"variables", len(ds.Vars),
	)
	return ds, nil
}

// ReadFile reads a classic-format NetCDF file into a dataset. The record
// dimension's length, if any, is resolved from the file size.
func ReadFile(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cruise file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("read NetCDF header of %s: %w", path, err)
	}
	ds, err := readDataset(cf, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

func readDataset(cf *cdf.File, fileSize int64) (*domain.Dataset, error) {
	h := cf.Header

	ds := &domain.Dataset{Attrs: readAttrs(h, "")}
	names := h.Dimensions("")
	lengths := h.Lengths("")
	for i, name := range names {
		n := lengths[i]
		if n == 0 {
			n = int(h.NumRecs(fileSize))
		}
		ds.Dims = append(ds.Dims, domain.Dim{Name: name, Length: n})
	}

	for _, name := range h.Variables() {
		v, err := readVariable(cf, name, ds)
		if err != nil {
			return nil, err
		}
		ds.Vars = append(ds.Vars, v)
	}
	return ds, nil
}

func readVariable(cf *cdf.File, name string, ds *domain.Dataset) (*domain.Variable, error) {
	h := cf.Header
	dims := h.Dimensions(name)

	// Explicit corner vectors so record variables read across slabs.
	n := 1
	begin := make([]int, len(dims))
	end := make([]int, len(dims))
	for i, d := range dims {
		length, ok := ds.DimLength(d)
		if !ok || length <= 0 {
			return nil, fmt.Errorf("variable %s: dimension %s has no resolvable length", name, d)
		}
		n *= length
		end[i] = length - 1
	}

	rd := cf.Reader(name, begin, end)
	buf := rd.Zero(n)
	if _, err := rd.Read(buf); err != nil {
		return nil, fmt.Errorf("read variable %s: %w", name, err)
	}

	values := buf
	if _, isChar := h.ZeroValue(name, 0).(string); isChar {
		values = string(buf.([]uint8))
	}

	return &domain.Variable{
		Name:   name,
		Dims:   dims,
		Attrs:  readAttrs(h, name),
		Values: values,
	}, nil
}

func readAttrs(h *cdf.Header, varName string) domain.AttrList {
	names := h.Attributes(varName)
	if len(names) == 0 {
		return nil
	}
	attrs := make(domain.AttrList, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, domain.Attr{Name: name, Value: h.GetAttribute(varName, name)})
	}
	return attrs
}
