package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Station is one cast: a contiguous run of profile records sharing a
// station identifier, carried as a sliced dataset.
type Station struct {
	ID       string
	Index    int // order of the station within the cruise
	Profiles int // number of profile records in the slice
	Data     *Dataset
}

// SplitStations cuts a cruise dataset into stations along the profile axis.
// Boundaries are detected via value transitions of the station-identifier
// variable; each returned slice has a constant identifier, and concatenating
// all slices in order reconstructs the input.
//
// It fails if the station variable is absent, is not indexed by a profile
// dimension, carries an unusable identifier, or if an identifier recurs in
// disjoint runs (which would make per-station file paths ambiguous).
func SplitStations(ds *Dataset, stationVar string) ([]Station, error) {
	v := ds.Var(stationVar)
	if v == nil {
		return nil, fmt.Errorf("station variable %q not found", stationVar)
	}
	if len(v.Dims) == 0 {
		return nil, fmt.Errorf("station variable %s is scalar; expected it to be indexed by the profile dimension", stationVar)
	}
	axis := v.Dims[0]
	axisLen, ok := ds.DimLength(axis)
	if !ok || axisLen == 0 {
		return nil, fmt.Errorf("station variable %s: profile dimension %s is empty", stationVar, axis)
	}

	ids, err := stationIdentifiers(v, axisLen)
	if err != nil {
		return nil, err
	}

	var stations []Station
	seen := make(map[string]bool)
	start := 0
	for i := 1; i <= axisLen; i++ {
		if i < axisLen && ids[i] == ids[start] {
			continue
		}
		id := ids[start]
		if seen[id] {
			return nil, fmt.Errorf("station %s occurs in disjoint runs along %s; input is not grouped by station", id, axis)
		}
		seen[id] = true

		slice, err := ds.SliceProfiles(axis, start, i)
		if err != nil {
			return nil, err
		}
		stations = append(stations, Station{ID: id, Index: len(stations), Profiles: i - start, Data: slice})
		start = i
	}
	return stations, nil
}

// stationIdentifiers renders the station variable as one identifier string
// per profile record.
func stationIdentifiers(v *Variable, axisLen int) ([]string, error) {
	if s, ok := v.Values.(string); ok {
		// Character identifiers: one fixed-width row per profile.
		if len(v.Dims) != 2 || axisLen == 0 || len(s)%axisLen != 0 {
			return nil, fmt.Errorf("station variable %s: character identifiers must be shaped (profile, strlen)", v.Name)
		}
		width := len(s) / axisLen
		ids := make([]string, axisLen)
		for i := range ids {
			ids[i] = strings.TrimRight(s[i*width:(i+1)*width], " \x00")
			if ids[i] == "" {
				return nil, fmt.Errorf("station variable %s: empty identifier at profile %d", v.Name, i)
			}
		}
		return ids, nil
	}

	if len(v.Dims) != 1 {
		return nil, fmt.Errorf("station variable %s: expected 1-D numeric or 2-D character data, got %d dimensions", v.Name, len(v.Dims))
	}
	vals, err := v.Float64s()
	if err != nil {
		return nil, err
	}
	if len(vals) != axisLen {
		return nil, fmt.Errorf("station variable %s: %d values for %d profiles", v.Name, len(vals), axisLen)
	}
	ids := make([]string, axisLen)
	for i, x := range vals {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("station variable %s: identifier at profile %d is not a number", v.Name, i)
		}
		ids[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return ids, nil
}
