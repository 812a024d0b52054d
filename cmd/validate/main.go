// Command validate performs end-to-end integrity checks on a directory of
// single-station NetCDF files against the parent cruise file they were split
// from. It verifies profile coverage, data round-trips, station identity and
// the per-station attribute rewrite.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -parent cruise.nc \
//	  -dir out/AR_PR_CT_58GS_2020113 \
//	  -station-var STATION
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/oceanobs/ctd-split/internal/adapter/netcdf"
	"github.com/oceanobs/ctd-split/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	parent := flag.String("parent", "", "path to the parent cruise NetCDF file")
	dir := flag.String("dir", "", "directory containing the single-station output files")
	stationVar := flag.String("station-var", "STATION", "name of the station-identifier variable")
	prefix := flag.String("prefix", "", "station file name prefix used at split time")
	flag.Parse()

	if *parent == "" || *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*parent, *dir, *stationVar, *prefix); code != 0 {
		os.Exit(code)
	}
}

func run(parentPath, dir, stationVar, prefix string) int {
	fmt.Println("=== CTD Station Split Validation ===")
	fmt.Println()

	cruise, err := netcdf.ReadFile(parentPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load parent file: %v\n", err)
		return 1
	}
	stations, err := domain.SplitStations(cruise, stationVar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: split parent file: %v\n", err)
		return 1
	}

	files := make(map[string]*domain.Dataset, len(stations))
	for _, st := range stations {
		path := filepath.Join(dir, domain.StationFileName(prefix, st.ID))
		ds, err := netcdf.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load station file: %v\n", err)
			return 1
		}
		files[st.ID] = ds
	}

	phases := []*phase{
		validateCoverage(stations, files, dir),
		validateRoundTrip(stations, files),
		validateStationIdentity(cruise, stations, files, stationVar),
		validateAttributeRewrite(stations, files),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Stations: %d, profiles: %d, output files checked: %d\n",
		len(stations), countProfiles(stations), len(files))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func countProfiles(stations []domain.Station) int {
	n := 0
	for _, st := range stations {
		n += st.Profiles
	}
	return n
}

// ── Phase 1: Coverage ──
// Every detected station has exactly one output file, and the directory
// holds nothing else, so the union of the slices is the whole cruise.

func validateCoverage(stations []domain.Station, files map[string]*domain.Dataset, dir string) *phase {
	p := &phase{name: "Phase 1: Coverage (no loss, no extras)"}

	for _, st := range stations {
		if files[st.ID] == nil {
			p.errorf("station %s: output file missing", st.ID)
		}
	}

	entries, err := filepath.Glob(filepath.Join(dir, "*.nc"))
	if err != nil {
		p.errorf("list output directory: %v", err)
		return p
	}
	if len(entries) != len(stations) {
		p.errorf("output directory has %d .nc files, expected %d", len(entries), len(stations))
	}
	return p
}

// ── Phase 2: Data round-trip ──
// Variable data in each output file equals the corresponding slice of the
// parent file.

func validateRoundTrip(stations []domain.Station, files map[string]*domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Data round-trip (values intact)"}

	for _, st := range stations {
		out := files[st.ID]
		if out == nil {
			continue
		}
		for _, v := range st.Data.Vars {
			ov := out.Var(v.Name)
			if ov == nil {
				p.errorf("station %s: variable %s missing from output", st.ID, v.Name)
				continue
			}
			if !reflect.DeepEqual(ov.Values, v.Values) {
				p.errorf("station %s: variable %s data differs from parent slice", st.ID, v.Name)
			}
			if !reflect.DeepEqual(ov.Dims, v.Dims) {
				p.errorf("station %s: variable %s dimensions %v, expected %v", st.ID, v.Name, ov.Dims, v.Dims)
			}
		}
	}
	return p
}

// ── Phase 3: Station identity ──
// The station attribute matches the slice's constant identifier and the id
// attribute carries the station suffix.

func validateStationIdentity(cruise *domain.Dataset, stations []domain.Station, files map[string]*domain.Dataset, stationVar string) *phase {
	p := &phase{name: "Phase 3: Station identity"}
	cruiseID := cruise.Attrs.GetString("id")

	for _, st := range stations {
		out := files[st.ID]
		if out == nil {
			continue
		}
		if got := out.Attrs.GetString("station"); got != st.ID {
			p.errorf("station %s: station attribute is %q", st.ID, got)
		}
		if cruiseID != "" {
			want := cruiseID + "_" + st.ID
			if got := out.Attrs.GetString("id"); got != want {
				p.errorf("station %s: id attribute is %q, expected %q", st.ID, got, want)
			}
		}
		if out.Var(stationVar) == nil {
			p.errorf("station %s: station variable %s missing from output", st.ID, stationVar)
		}
	}
	return p
}

// ── Phase 4: Attribute rewrite ──
// Derived attributes are present, cruise-only attributes are gone.

func validateAttributeRewrite(stations []domain.Station, files map[string]*domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Attribute rewrite"}

	dropped := []string{"doi", "last_latitude_observation", "last_longitude_observation", "last_date_observation", "format_version"}
	required := []string{"date_created", "date_update", "history", "comment"}

	for _, st := range stations {
		out := files[st.ID]
		if out == nil {
			continue
		}
		for _, name := range dropped {
			if _, ok := out.Attrs.Get(name); ok {
				p.errorf("station %s: attribute %s should have been dropped", st.ID, name)
			}
		}
		for _, name := range required {
			if _, ok := out.Attrs.Get(name); !ok {
				p.errorf("station %s: attribute %s missing", st.ID, name)
			}
		}
		if out.Var(domain.TimeVar) != nil {
			if out.Attrs.GetString("time_coverage_start") == "" || out.Attrs.GetString("time_coverage_end") == "" {
				p.errorf("station %s: time coverage attributes missing", st.ID)
			}
		}
		if start, end := out.Attrs.GetString("time_coverage_start"), out.Attrs.GetString("time_coverage_end"); start != "" && end != "" && strings.Compare(start, end) > 0 {
			p.errorf("station %s: time_coverage_start %s after time_coverage_end %s", st.ID, start, end)
		}
		checkExtent(p, st.ID, out, domain.LatitudeVar, "geospatial_lat_min", "geospatial_lat_max")
		checkExtent(p, st.ID, out, domain.LongitudeVar, "geospatial_lon_min", "geospatial_lon_max")
	}
	return p
}

// checkExtent recomputes a min/max pair from the output file's own variable
// and compares it with the written attributes.
func checkExtent(p *phase, stationID string, ds *domain.Dataset, varName, minAttr, maxAttr string) {
	v := ds.Var(varName)
	if v == nil {
		return
	}
	vals, err := v.Float64s()
	if err != nil || len(vals) == 0 {
		return
	}
	lo, hi := vals[0], vals[0]
	for _, x := range vals[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if got, ok := attrFloat(ds.Attrs, minAttr); !ok || !floatEq(got, lo) {
		p.errorf("station %s: %s does not match %s minimum %g", stationID, minAttr, varName, lo)
	}
	if got, ok := attrFloat(ds.Attrs, maxAttr); !ok || !floatEq(got, hi) {
		p.errorf("station %s: %s does not match %s maximum %g", stationID, maxAttr, varName, hi)
	}
}

func attrFloat(attrs domain.AttrList, name string) (float64, bool) {
	v, ok := attrs.Get(name)
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case []float64:
		if len(d) == 1 {
			return d[0], true
		}
	case []float32:
		if len(d) == 1 {
			return float64(d[0]), true
		}
	}
	return 0, false
}

func floatEq(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
