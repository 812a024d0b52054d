package netcdf_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanobs/ctd-split/internal/adapter/netcdf"
	"github.com/oceanobs/ctd-split/internal/domain"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Dims: []domain.Dim{
			{Name: "TIME", Length: 2},
			{Name: "DEPTH", Length: 3},
			{Name: "STRING4", Length: 4},
		},
		Vars: []*domain.Variable{
			{
				Name: "TIME", Dims: []string{"TIME"},
				Values: []float64{25860.5, 25860.6},
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "time"},
					{Name: "units", Value: "days since 1950-01-01T00:00:00Z"},
				},
			},
			{
				Name: "STATION", Dims: []string{"TIME", "STRING4"},
				Values: "S7  S7  ",
			},
			{
				Name: "TEMP", Dims: []string{"TIME", "DEPTH"},
				Values: []float32{4.1, 4.0, 3.9, 4.2, 4.1, 4.0},
				Attrs: domain.AttrList{
					{Name: "units", Value: "degree_Celsius"},
					{Name: "_FillValue", Value: []float32{-2147483647}},
				},
			},
			{
				Name: "TEMP_QC", Dims: []string{"TIME", "DEPTH"},
				Values: []uint8{1, 1, 1, 1, 1, 9},
			},
			{
				Name: "CAST", Dims: []string{"TIME"},
				Values: []int32{12, 13},
			},
		},
		Attrs: domain.AttrList{
			{Name: "id", Value: "AR_PR_CT_58GS_2020113"},
			{Name: "title", Value: "Cruise file"},
			{Name: "geospatial_lat_min", Value: []float64{60.25}},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cruise.nc")
	want := testDataset()

	require.NoError(t, netcdf.WriteFile(path, want))
	got, err := netcdf.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, want.Dims, got.Dims)
	assert.Equal(t, want.Attrs, got.Attrs)

	require.Len(t, got.Vars, len(want.Vars))
	for i, wv := range want.Vars {
		gv := got.Vars[i]
		assert.Equal(t, wv.Name, gv.Name)
		assert.Equal(t, wv.Dims, gv.Dims)
		assert.Equal(t, wv.Attrs, gv.Attrs)
		assert.Equal(t, wv.Values, gv.Values, "variable %s data", wv.Name)
	}
}

func TestReadFile_RecordDimension(t *testing.T) {
	// Archive cruise files commonly carry the profile axis as the record
	// dimension. Build one directly so the reader's length resolution from
	// the file size is exercised.
	path := filepath.Join(t.TempDir(), "record.nc")

	h := cdf.NewHeader([]string{"TIME", "DEPTH"}, []int{0, 2})
	h.AddVariable("TIME", []string{"TIME"}, []float64{})
	h.AddVariable("TEMP", []string{"TIME", "DEPTH"}, []float32{})
	h.Define()
	require.Empty(t, h.Check())

	ff, err := os.Create(path)
	require.NoError(t, err)
	f, err := cdf.Create(ff, h)
	require.NoError(t, err)

	// Unbounded record writers extend the file one record slab at a time.
	times := []float64{1, 2, 3}
	temps := []float32{10, 11, 20, 21, 30, 31}
	_, err = f.Writer("TIME", nil, nil).Write(times)
	require.NoError(t, err)
	_, err = f.Writer("TEMP", nil, nil).Write(temps)
	require.NoError(t, err)
	require.NoError(t, cdf.UpdateNumRecs(ff))
	require.NoError(t, ff.Close())

	ds, err := netcdf.ReadFile(path)
	require.NoError(t, err)

	n, ok := ds.DimLength("TIME")
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, times, ds.Var("TIME").Values)
	assert.Equal(t, temps, ds.Var("TEMP").Values)
}

func TestReadFile_Errors(t *testing.T) {
	_, err := netcdf.ReadFile(filepath.Join(t.TempDir(), "absent.nc"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.nc")
	require.NoError(t, os.WriteFile(bad, []byte("not a netcdf file"), 0o644))
	_, err = netcdf.ReadFile(bad)
	require.Error(t, err)
}

func TestWriter_Load(t *testing.T) {
	outDir := t.TempDir()
	w := netcdf.NewWriter(outDir, "nansen", discardLogger())

	st := domain.Station{
		ID:       "7",
		Profiles: 2,
		Data: &domain.Dataset{
			Dims: []domain.Dim{{Name: "TIME", Length: 2}},
			Vars: []*domain.Variable{
				{Name: "TIME", Dims: []string{"TIME"}, Values: []float64{1, 2}},
			},
			Attrs: domain.AttrList{{Name: "station", Value: "7"}},
		},
	}

	path, err := w.Load(t.Context(), "AR_PR_CT_58GS/2020113", st)
	require.NoError(t, err)

	// The cruise id is sanitized into a single directory name.
	assert.Equal(t, filepath.Join(outDir, "AR_PR_CT_58GS-2020113", "nansen_station_7.nc"), path)

	ds, err := netcdf.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7", ds.Attrs.GetString("station"))
	assert.Equal(t, []float64{1, 2}, ds.Var("TIME").Values)
}

func TestWriter_LoadWithoutCruiseID(t *testing.T) {
	outDir := t.TempDir()
	w := netcdf.NewWriter(outDir, "", discardLogger())

	st := domain.Station{
		ID: "4",
		Data: &domain.Dataset{
			Dims: []domain.Dim{{Name: "TIME", Length: 1}},
			Vars: []*domain.Variable{
				{Name: "TIME", Dims: []string{"TIME"}, Values: []float64{1}},
			},
		},
	}

	path, err := w.Load(t.Context(), "", st)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "station_station_4.nc"), path)
}

func TestWriteFile_InvalidDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")

	t.Run("zero-length dimension", func(t *testing.T) {
		ds := &domain.Dataset{Dims: []domain.Dim{{Name: "TIME", Length: 0}}}
		require.Error(t, netcdf.WriteFile(path, ds))
	})

	t.Run("unsupported value type", func(t *testing.T) {
		ds := &domain.Dataset{
			Dims: []domain.Dim{{Name: "TIME", Length: 1}},
			Vars: []*domain.Variable{
				{Name: "TIME", Dims: []string{"TIME"}, Values: []int64{1}},
			},
		}
		require.Error(t, netcdf.WriteFile(path, ds))
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
