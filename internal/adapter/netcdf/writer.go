package netcdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ctessum/cdf"

	"github.com/oceanobs/ctd-split/internal/domain"
)

// dirSafeRe collapses path-hostile characters in cruise identifiers.
var dirSafeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Writer writes station slices as NetCDF files beneath an output directory.
// It implements pipeline.StationLoader.
type Writer struct {
	outDir string
	prefix string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at outDir. prefix is the station file
// name prefix passed to domain.StationFileName.
func NewWriter(outDir, prefix string, logger *slog.Logger) *Writer {
	return &Writer{outDir: outDir, prefix: prefix, logger: logger}
}

// Load writes one station slice to <outDir>/<cruiseID>/<prefix>_station_<id>.nc,
// creating directories as needed, and returns the written path. Output files
// are created once and never mutated afterwards.
func (w *Writer) Load(_ context.Context, cruiseID string, st domain.Station) (string, error) {
	dir := w.outDir
	if cruiseID != "" {
		dir = filepath.Join(dir, dirSafeRe.ReplaceAllString(cruiseID, "-"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, domain.StationFileName(w.prefix, st.ID))
	if err := WriteFile(path, st.Data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes a dataset to a classic-format NetCDF file. All dimensions
// are written as fixed; station slices have a known profile count, so no
// record dimension is needed.
func WriteFile(path string, ds *domain.Dataset) error {
	h, err := buildHeader(ds)
	if err != nil {
		return fmt.Errorf("define %s: %w", path, err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create station file: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("write NetCDF header of %s: %w", path, err)
	}
	for _, v := range ds.Vars {
		wr := f.Writer(v.Name, nil, nil)
		// The strider reports io.EOF when a write lands exactly on its end
		// bound; a write of the full variable is still a success.
		if n, err := wr.Write(v.Values); err != nil && !(errors.Is(err, io.EOF) && n == v.Len()) {
			return fmt.Errorf("write variable %s to %s: %w", v.Name, path, err)
		}
	}
	if err := ff.Sync(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func buildHeader(ds *domain.Dataset) (*cdf.Header, error) {
	names := make([]string, len(ds.Dims))
	lengths := make([]int, len(ds.Dims))
	for i, d := range ds.Dims {
		if d.Length <= 0 {
			return nil, fmt.Errorf("dimension %s has length %d", d.Name, d.Length)
		}
		names[i] = d.Name
		lengths[i] = d.Length
	}
	h := cdf.NewHeader(names, lengths)

	for _, a := range ds.Attrs {
		if !validAttrValue(a.Value) {
			return nil, fmt.Errorf("global attribute %s has unsupported type %T", a.Name, a.Value)
		}
		h.AddAttribute("", a.Name, a.Value)
	}
	for _, v := range ds.Vars {
		if !validAttrValue(v.Values) {
			return nil, fmt.Errorf("variable %s has unsupported data type %T", v.Name, v.Values)
		}
		h.AddVariable(v.Name, v.Dims, v.Values)
		for _, a := range v.Attrs {
			if !validAttrValue(a.Value) {
				return nil, fmt.Errorf("attribute %s:%s has unsupported type %T", v.Name, a.Name, a.Value)
			}
			h.AddAttribute(v.Name, a.Name, a.Value)
		}
	}

	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, errs[0]
	}
	return h, nil
}

// validAttrValue reports whether v is one of the classic-format value types.
func validAttrValue(v any) bool {
	switch v.(type) {
	case string, []uint8, []int16, []int32, []float32, []float64:
		return true
	}
	return false
}
