package domain

import "slices"

// GlobalRegion is the region selection meaning "no region restriction".
const GlobalRegion = "Global"

// RequiredColumns are the dataset columns every source must provide, in the
// order they are reported when missing.
var RequiredColumns = []string{
	"who_region",
	"iso3",
	"country_name",
	"year",
	"pm25_concentration",
	"pm10_concentration",
	"no2_concentration",
}

// Observation is one country-year row of the WHO ambient air quality database.
// Concentrations are in µg/m³; nil means the value was not reported.
type Observation struct {
	CountryName string   `json:"country_name"`
	ISO3        string   `json:"iso3"`
	WHORegion   string   `json:"who_region"`
	Year        int      `json:"year"`
	PM25        *float64 `json:"pm25_concentration"`
	PM10        *float64 `json:"pm10_concentration"`
	NO2         *float64 `json:"no2_concentration"`
}

// countryKey groups observations by country. ISO3 is preferred; rows without
// one fall back to the country name.
func (o Observation) countryKey() string {
	if o.ISO3 != "" {
		return o.ISO3
	}
	return "name:" + o.CountryName
}

// Dataset is an ordered, read-only collection of observations. Functions in
// this package never modify a Dataset in place.
type Dataset []Observation

// CheckColumns returns a *MissingColumnsError naming every required column
// absent from header, or nil.
func CheckColumns(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Years returns the distinct years in the dataset in ascending order.
func (d Dataset) Years() []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for i := range d {
		if _, ok := seen[d[i].Year]; ok {
			continue
		}
		seen[d[i].Year] = struct{}{}
		years = append(years, d[i].Year)
	}
	slices.Sort(years)
	return years
}

// YearRange returns the smallest and largest year. ok is false for an empty dataset.
func (d Dataset) YearRange() (minYear, maxYear int, ok bool) {
	years := d.Years()
	if len(years) == 0 {
		return 0, 0, false
	}
	return years[0], years[len(years)-1], true
}

// Regions returns GlobalRegion followed by the distinct non-empty WHO regions
// in lexical order.
func (d Dataset) Regions() []string {
	seen := make(map[string]struct{})
	var regions []string
	for i := range d {
		r := d[i].WHORegion
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		regions = append(regions, r)
	}
	slices.Sort(regions)
	return append([]string{GlobalRegion}, regions...)
}
