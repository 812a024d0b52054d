package domain_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanobs/ctd-split/internal/domain"
)

// rewriteCruise is a two-station cruise with the cruise-level attributes the
// rewrite touches: doi, history and last-observation bookkeeping.
func rewriteCruise() *domain.Dataset {
	return &domain.Dataset{
		Dims: []domain.Dim{
			{Name: "TIME", Length: 3},
			{Name: "DEPTH", Length: 2},
		},
		Vars: []*domain.Variable{
			{
				Name: "TIME", Dims: []string{"TIME"},
				Values: []float64{0.5, 1.0, 2.0},
				Attrs:  domain.AttrList{{Name: "units", Value: "days since 1950-01-01T00:00:00Z"}},
			},
			{
				Name: "LATITUDE", Dims: []string{"TIME"},
				Values: []float64{60.5, 60.0, 61.0},
			},
			{
				Name: "LONGITUDE", Dims: []string{"TIME"},
				Values: []float64{5.0, 5.5, 6.0},
			},
			{
				Name: "STATION", Dims: []string{"TIME"},
				Values: []int32{7, 7, 8},
			},
			{
				Name: "PRES", Dims: []string{"TIME", "DEPTH"},
				Values: []float32{1, 2, 3, -9, 5, 6},
				Attrs:  domain.AttrList{{Name: "_FillValue", Value: []float32{-9}}},
			},
			{
				Name: "TEMP", Dims: []string{"TIME", "DEPTH"},
				Values: []float32{4, 4, 4, 4, 4, 4},
			},
			{
				Name: "TEMP_QC", Dims: []string{"TIME", "DEPTH"},
				Values: []uint8{1, 1, 1, 9, 1, 1},
			},
		},
		Attrs: domain.AttrList{
			{Name: "id", Value: "AR_PR_CT_58GS_2020113"},
			{Name: "doi", Value: "10.0000/example-cruise"},
			{Name: "history", Value: "2020-11-01T00:00:00Z: archived"},
			{Name: "format_version", Value: "1.4"},
			{Name: "last_latitude_observation", Value: []float64{61.0}},
			{Name: "last_longitude_observation", Value: []float64{6.0}},
			{Name: "last_date_observation", Value: "2020-10-22T07:35:31Z"},
		},
	}
}

func frozenClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })
	return now
}

func TestRewriteGlobalAttributes(t *testing.T) {
	frozenClock(t)

	stations, err := domain.SplitStations(rewriteCruise(), "STATION")
	require.NoError(t, err)
	require.Len(t, stations, 2)

	st := stations[0] // station "7", profiles at days 0.5 and 1.0
	require.NoError(t, domain.RewriteGlobalAttributes(&st, "AR_PR_CT"))
	attrs := st.Data.Attrs

	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, "7", attrs.GetString("station"))
		assert.Equal(t, "AR_PR_CT_58GS_2020113_7", attrs.GetString("id"))
		assert.Equal(t, "AR_PR_CT_station_7", attrs.GetString("title"))
		assert.Equal(t, "Descending CTD profile", attrs.GetString("comment"))
	})

	t.Run("time coverage", func(t *testing.T) {
		assert.Equal(t, "1950-01-01T12:00:00Z", attrs.GetString("time_coverage_start"))
		assert.Equal(t, "1950-01-02T00:00:00Z", attrs.GetString("time_coverage_end"))
	})

	t.Run("geospatial extents", func(t *testing.T) {
		lat, _ := attrs.Get("geospatial_lat_min")
		assert.Equal(t, []float64{60.0}, lat)
		lat, _ = attrs.Get("geospatial_lat_max")
		assert.Equal(t, []float64{60.5}, lat)
		lon, _ := attrs.Get("geospatial_lon_min")
		assert.Equal(t, []float64{5.0}, lon)
		lon, _ = attrs.Get("geospatial_lon_max")
		assert.Equal(t, []float64{5.5}, lon)
	})

	t.Run("vertical extent skips fill values", func(t *testing.T) {
		// Station 7 spans PRES rows {1,2} and {3,-9}; -9 is the fill.
		v, _ := attrs.Get("geospatial_vertical_min")
		assert.Equal(t, []float64{1}, v)
		v, _ = attrs.Get("geospatial_vertical_max")
		assert.Equal(t, []float64{3}, v)
		assert.Equal(t, "dbar", attrs.GetString("geospatial_vertical_units"))
		assert.Equal(t, "1 dbar", attrs.GetString("geospatial_vertical_resolution"))
	})

	t.Run("provenance", func(t *testing.T) {
		assert.Equal(t, "2026-03-01T12:00:00Z", attrs.GetString("date_created"))
		assert.Equal(t, "2026-03-01T12:00:00Z", attrs.GetString("date_update"))
		assert.Equal(t,
			"2020-11-01T00:00:00Z: archived\n2026-03-01T12:00:00Z: single-station file split from the cruise dataset",
			attrs.GetString("history"))
	})

	t.Run("doi becomes references", func(t *testing.T) {
		assert.Equal(t, "https://doi.org/10.0000/example-cruise", attrs.GetString("references"))
		_, ok := attrs.Get("doi")
		assert.False(t, ok)
	})

	t.Run("cruise bookkeeping dropped", func(t *testing.T) {
		for _, name := range []string{
			"last_latitude_observation",
			"last_longitude_observation",
			"last_date_observation",
			"format_version",
		} {
			_, ok := attrs.Get(name)
			assert.False(t, ok, "attribute %s should be dropped", name)
		}
	})

	t.Run("measurement variables tagged", func(t *testing.T) {
		assert.Equal(t, "physicalMeasurement", st.Data.Var("TEMP").Attrs.GetString("coverage_content_type"))
		assert.Equal(t, "physicalMeasurement", st.Data.Var("PRES").Attrs.GetString("coverage_content_type"))
		_, ok := st.Data.Var("TEMP_QC").Attrs.Get("coverage_content_type")
		assert.False(t, ok, "QC ancillaries are not measurements")
		_, ok = st.Data.Var("LATITUDE").Attrs.Get("coverage_content_type")
		assert.False(t, ok, "coordinate variables are not measurements")
	})
}

func TestRewriteGlobalAttributes_MissingCoordinates(t *testing.T) {
	frozenClock(t)

	st := domain.Station{
		ID: "3",
		Data: &domain.Dataset{
			Dims: []domain.Dim{{Name: "TIME", Length: 1}},
			Vars: []*domain.Variable{
				{Name: "STATION", Dims: []string{"TIME"}, Values: []int32{3}},
			},
		},
	}
	require.NoError(t, domain.RewriteGlobalAttributes(&st, ""))

	attrs := st.Data.Attrs
	assert.Equal(t, "3", attrs.GetString("station"))
	assert.Equal(t, "station_station_3", attrs.GetString("title"))
	for _, name := range []string{"time_coverage_start", "geospatial_lat_min", "geospatial_vertical_units"} {
		_, ok := attrs.Get(name)
		assert.False(t, ok, "attribute %s requires a coordinate variable", name)
	}
	assert.NotEmpty(t, attrs.GetString("history"))
}

func TestRewriteGlobalAttributes_BadTimeUnits(t *testing.T) {
	frozenClock(t)

	stations, err := domain.SplitStations(rewriteCruise(), "STATION")
	require.NoError(t, err)
	st := stations[0]
	st.Data.Var("TIME").Attrs.Set("units", "fortnights since whenever")

	err = domain.RewriteGlobalAttributes(&st, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIME")
}

func TestStationFileName(t *testing.T) {
	tests := []struct {
		prefix, id, want string
	}{
		{"AR_PR_CT", "7", "AR_PR_CT_station_7.nc"},
		{"", "7", "station_station_7.nc"},
		{"cruise", "st 4/b", "cruise_station_st-4-b.nc"},
		{"cruise", "A.1-b_2", "cruise_station_A.1-b_2.nc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.StationFileName(tt.prefix, tt.id))
	}
}
