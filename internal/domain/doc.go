// Package domain models CTD (conductivity-temperature-depth) cruise datasets
// and the station-splitting rules applied to them.
//
// # Data Source
//
// Input files are classic-format NetCDF archives of a whole cruise: every
// cast made during the survey concatenated along a profile dimension, the
// way national data centres publish CTD collections. The splitter was built
// against Copernicus/OceanSITES-style CTD files and needs only the
// conventions described here; other sources may require the station and
// coordinate variable names to be adjusted via configuration.
//
// # Dataset Shape
//
//	TIME(TIME)            profile axis; numeric, CF units such as
//	                      "days since 1950-01-01T00:00:00Z"
//	LATITUDE(TIME)        one position per cast, decimal degrees north
//	LONGITUDE(TIME)       decimal degrees east
//	STATION(TIME[,len])   station identifier, numeric or fixed-width characters
//	PRES(TIME, DEPTH)     sea pressure per sample, dbar
//	<PARAM>(TIME, DEPTH)  depth-resolved measurements (TEMP, PSAL, ...)
//	<PARAM>_QC, <PARAM>_DM  ancillary quality-control and data-mode variables
//
// Ragged casts pad the trailing samples of a row with the variable's
// _FillValue; extents derived from a slice ignore fill values and NaNs.
//
// # Station Boundaries
//
// A station is a maximal contiguous run of profile records with the same
// station-identifier value. The input must be grouped by station: an
// identifier recurring in disjoint runs is rejected, since output paths are
// derived from the identifier and would collide. Concatenating the slices in
// order reconstructs the cruise exactly; no record is dropped or duplicated.
//
// # Attribute Rewriting
//
// Output files keep the cruise's global attributes except where a
// per-station value applies:
//
//	station                      the slice's constant identifier
//	id                           cruise id + "_" + station id
//	title                        output file name without extension
//	time_coverage_start/end      min/max decoded TIME of the slice
//	geospatial_lat_min/max       min/max LATITUDE of the slice
//	geospatial_lon_min/max       min/max LONGITUDE of the slice
//	geospatial_vertical_min/max  min/max valid PRES of the slice
//	date_created, date_update    rewrite timestamp (injectable clock)
//	history                      one appended provenance line
//	references                   "https://doi.org/" + cruise doi
//	comment                      "Descending CTD profile"
//
// The cruise-level doi, last_*_observation and format_version attributes are
// dropped. Depth-resolved measurement variables gain
// coverage_content_type=physicalMeasurement; QC/DM ancillaries do not.
package domain
