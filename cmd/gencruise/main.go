// Command gencruise writes a small synthetic whole-cruise CTD NetCDF file.
// It is used to try out ctdsplit without real archive data and to regenerate
// validation fixtures.
//
// Usage:
//
//	go run ./cmd/gencruise -out cruise.nc -stations 3 -profiles 2 -levels 5
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/oceanobs/ctd-split/internal/adapter/netcdf"
	"github.com/oceanobs/ctd-split/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "cruise.nc", "output path for the synthetic cruise file")
	stations := flag.Int("stations", 3, "number of stations")
	profiles := flag.Int("profiles", 2, "profile records per station")
	levels := flag.Int("levels", 5, "depth levels per profile")
	flag.Parse()

	if *stations < 1 || *profiles < 1 || *levels < 1 {
		flag.Usage()
		return fmt.Errorf("stations, profiles and levels must all be positive")
	}

	ds := buildCruise(*stations, *profiles, *levels)
	if err := netcdf.WriteFile(*out, ds); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d stations, %d profiles, %d levels\n", *out, *stations, *stations**profiles, *levels)
	return nil
}

// buildCruise synthesizes a cruise dataset in the shape documented by the
// domain package: a TIME profile axis with per-profile coordinates and
// station identifiers, and depth-resolved PRES/TEMP/PSAL with QC ancillaries.
func buildCruise(stations, profilesPerStation, levels int) *domain.Dataset {
	n := stations * profilesPerStation

	times := make([]float64, n)
	lats := make([]float64, n)
	lons := make([]float64, n)
	ids := make([]int32, n)
	pres := make([]float32, n*levels)
	temp := make([]float32, n*levels)
	psal := make([]float32, n*levels)
	tempQC := make([]uint8, n*levels)

	for i := 0; i < n; i++ {
		st := i / profilesPerStation
		times[i] = 25860.0 + float64(st) + float64(i%profilesPerStation)*0.05 // days since 1950-10-20-ish
		lats[i] = 78.0 + float64(st)*0.25
		lons[i] = 30.0 + float64(st)*0.5
		ids[i] = int32(st + 1)
		for j := 0; j < levels; j++ {
			k := i*levels + j
			pres[k] = float32(j + 1)
			temp[k] = float32(4.0 - 0.1*float64(j) + 0.01*float64(st))
			psal[k] = float32(34.5 + 0.02*float64(j))
			tempQC[k] = uint8(1)
		}
	}
	// Make the deepest sample of the last profile a fill record, like a
	// ragged cast.
	pres[n*levels-1] = -2147483647
	temp[n*levels-1] = -2147483647
	psal[n*levels-1] = -2147483647
	tempQC[n*levels-1] = uint8(9)

	fill := []float32{-2147483647}

	return &domain.Dataset{
		Dims: []domain.Dim{
			{Name: "TIME", Length: n},
			{Name: "DEPTH", Length: levels},
		},
		Vars: []*domain.Variable{
			{
				Name: "TIME", Dims: []string{"TIME"}, Values: times,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "time"},
					{Name: "units", Value: "days since 1950-01-01T00:00:00Z"},
				},
			},
			{
				Name: "LATITUDE", Dims: []string{"TIME"}, Values: lats,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "latitude"},
					{Name: "units", Value: "degree_north"},
				},
			},
			{
				Name: "LONGITUDE", Dims: []string{"TIME"}, Values: lons,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "longitude"},
					{Name: "units", Value: "degree_east"},
				},
			},
			{
				Name: "STATION", Dims: []string{"TIME"}, Values: ids,
				Attrs: domain.AttrList{
					{Name: "long_name", Value: "station number"},
				},
			},
			{
				Name: "PRES", Dims: []string{"TIME", "DEPTH"}, Values: pres,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "sea_water_pressure"},
					{Name: "units", Value: "dbar"},
					{Name: "_FillValue", Value: fill},
				},
			},
			{
				Name: "TEMP", Dims: []string{"TIME", "DEPTH"}, Values: temp,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "sea_water_temperature"},
					{Name: "units", Value: "degree_Celsius"},
					{Name: "_FillValue", Value: fill},
					{Name: "ancillary_variables", Value: "TEMP_QC"},
				},
			},
			{
				Name: "PSAL", Dims: []string{"TIME", "DEPTH"}, Values: psal,
				Attrs: domain.AttrList{
					{Name: "standard_name", Value: "sea_water_practical_salinity"},
					{Name: "units", Value: "1e-3"},
					{Name: "_FillValue", Value: fill},
				},
			},
			{
				Name: "TEMP_QC", Dims: []string{"TIME", "DEPTH"}, Values: tempQC,
				Attrs: domain.AttrList{
					{Name: "long_name", Value: "quality flag"},
					{Name: "flag_values", Value: []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
				},
			},
		},
		Attrs: domain.AttrList{
			{Name: "id", Value: "AR_PR_CT_58GS_2020113"},
			{Name: "title", Value: "Synthetic CTD cruise"},
			{Name: "summary", Value: "Synthetic whole-cruise CTD dataset for exercising the splitter."},
			{Name: "doi", Value: "10.0000/synthetic-cruise"},
			{Name: "history", Value: "2020-11-01T00:00:00Z: generated"},
			{Name: "format_version", Value: "1.4"},
			{Name: "last_latitude_observation", Value: []float64{78.5}},
			{Name: "last_longitude_observation", Value: []float64{31.0}},
			{Name: "last_date_observation", Value: "2020-10-22T07:35:31Z"},
		},
	}
}
