package domain

import (
	"fmt"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Coordinate variable names used by the source CTD convention.
const (
	TimeVar      = "TIME"
	LatitudeVar  = "LATITUDE"
	LongitudeVar = "LONGITUDE"
	PressureVar  = "PRES"
)

const attrTimeLayout = "2006-01-02T15:04:05Z"

// unwantedAttrs are cruise-level attributes that make no sense on a
// single-station file and are dropped during the rewrite.
var unwantedAttrs = []string{
	"last_latitude_observation",
	"last_longitude_observation",
	"last_date_observation",
	"format_version",
}

// fileNameSafeRe matches characters that are kept verbatim in file names;
// everything else is collapsed to '-'.
var fileNameSafeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RewriteGlobalAttributes overwrites a station slice's cruise-level global
// attributes with per-station metadata derived from the slice's own
// variables:
//
//   - station, id and title identify the cast,
//   - time_coverage_start/end come from the decoded TIME variable,
//   - geospatial lat/lon/vertical extents come from LATITUDE, LONGITUDE
//     and PRES,
//   - provenance (date_created, date_update, history) is stamped with the
//     package clock,
//   - the cruise doi moves to references, and per-cruise bookkeeping
//     attributes are dropped.
//
// Coordinate variables absent from the source convention are skipped rather
// than treated as fatal; measurement data is never touched. filePrefix is the
// output naming prefix, used to derive the title.
func RewriteGlobalAttributes(st *Station, filePrefix string) error {
	attrs := &st.Data.Attrs

	attrs.Set("station", st.ID)
	if id := attrs.GetString("id"); id != "" {
		attrs.Set("id", id+"_"+st.ID)
	}
	attrs.Set("title", strings.TrimSuffix(StationFileName(filePrefix, st.ID), ".nc"))
	attrs.Set("comment", "Descending CTD profile")

	if err := rewriteTimeCoverage(st.Data, attrs); err != nil {
		return err
	}
	if err := rewriteGeospatial(st.Data, attrs); err != nil {
		return err
	}

	now := clock.Now().UTC().Format(attrTimeLayout)
	attrs.Set("date_created", now)
	attrs.Set("date_update", now)
	history := fmt.Sprintf("%s: single-station file split from the cruise dataset", now)
	if prev := attrs.GetString("history"); prev != "" {
		history = prev + "\n" + history
	}
	attrs.Set("history", history)

	if doi := attrs.GetString("doi"); doi != "" {
		attrs.Set("references", "https://doi.org/"+doi)
	}
	attrs.Del("doi")
	for _, name := range unwantedAttrs {
		attrs.Del(name)
	}

	tagMeasurementVariables(st.Data)
	return nil
}

func rewriteTimeCoverage(ds *Dataset, attrs *AttrList) error {
	tv := ds.Var(TimeVar)
	if tv == nil {
		return nil
	}
	units := tv.Attrs.GetString("units")
	if units == "" {
		return nil
	}
	codec, err := ParseTimeUnits(units)
	if err != nil {
		return fmt.Errorf("variable %s: %w", TimeVar, err)
	}
	vals, err := tv.Float64s()
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return nil
	}
	attrs.Set("time_coverage_start", codec.Decode(floats.Min(vals)).Format(attrTimeLayout))
	attrs.Set("time_coverage_end", codec.Decode(floats.Max(vals)).Format(attrTimeLayout))
	return nil
}

func rewriteGeospatial(ds *Dataset, attrs *AttrList) error {
	if err := setExtent(ds, attrs, LatitudeVar, "geospatial_lat_min", "geospatial_lat_max"); err != nil {
		return err
	}
	if err := setExtent(ds, attrs, LongitudeVar, "geospatial_lon_min", "geospatial_lon_max"); err != nil {
		return err
	}
	if err := setExtent(ds, attrs, PressureVar, "geospatial_vertical_min", "geospatial_vertical_max"); err != nil {
		return err
	}
	if ds.Var(PressureVar) != nil {
		attrs.Set("geospatial_vertical_units", "dbar")
		attrs.Set("geospatial_vertical_resolution", "1 dbar")
	}
	return nil
}

func setExtent(ds *Dataset, attrs *AttrList, varName, minAttr, maxAttr string) error {
	v := ds.Var(varName)
	if v == nil {
		return nil
	}
	vals, err := v.Float64s()
	if err != nil {
		return err
	}
	vals = dropFillValues(vals, v.Attrs)
	if len(vals) == 0 {
		return nil
	}
	attrs.Set(minAttr, []float64{floats.Min(vals)})
	attrs.Set(maxAttr, []float64{floats.Max(vals)})
	return nil
}

// dropFillValues filters NaNs and the variable's declared _FillValue so fill
// records in ragged profiles do not distort the extents.
func dropFillValues(vals []float64, attrs AttrList) []float64 {
	fill, hasFill := fillValue(attrs)
	out := vals[:0]
	for _, x := range vals {
		if x != x {
			continue
		}
		if hasFill && x == fill {
			continue
		}
		out = append(out, x)
	}
	return out
}

func fillValue(attrs AttrList) (float64, bool) {
	v, ok := attrs.Get("_FillValue")
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case []uint8:
		if len(d) == 1 {
			return float64(int8(d[0])), true
		}
	case []int16:
		if len(d) == 1 {
			return float64(d[0]), true
		}
	case []int32:
		if len(d) == 1 {
			return float64(d[0]), true
		}
	case []float32:
		if len(d) == 1 {
			return float64(d[0]), true
		}
	case []float64:
		if len(d) == 1 {
			return d[0], true
		}
	}
	return 0, false
}

// tagMeasurementVariables marks depth-resolved measurement variables with
// coverage_content_type=physicalMeasurement. Quality-control (QC) and data-
// mode (DM) ancillary variables and coordinate variables are left alone.
func tagMeasurementVariables(ds *Dataset) {
	for _, v := range ds.Vars {
		if len(v.Dims) < 2 {
			continue
		}
		if strings.Contains(v.Name, "QC") || strings.Contains(v.Name, "DM") {
			continue
		}
		v.Attrs.Set("coverage_content_type", "physicalMeasurement")
	}
}

// StationFileName returns the deterministic output file name for a station.
// An empty prefix falls back to "station".
func StationFileName(prefix, stationID string) string {
	if prefix == "" {
		prefix = "station"
	}
	safe := fileNameSafeRe.ReplaceAllString(stationID, "-")
	return fmt.Sprintf("%s_station_%s.nc", prefix, safe)
}
