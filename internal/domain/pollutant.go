package domain

import (
	"fmt"
	"strings"
)

// Pollutant identifies one of the WHO ambient air-quality measures.
type Pollutant string

const (
	PM25 Pollutant = "pm25"
	PM10 Pollutant = "pm10"
	NO2  Pollutant = "no2"
)

// pollutantInfo holds the fixed reference data for a pollutant: its source
// column, display label, WHO annual guideline and risk breakpoints.
type pollutantInfo struct {
	column    string
	label     string
	guideline float64 // µg/m³, annual mean
	// Inclusive upper bounds for Safe, Moderate and High. Anything above the
	// last bound is Very High.
	bounds [3]float64
}

// pollutants is read-only after package initialization.
var pollutants = map[Pollutant]pollutantInfo{
	PM25: {column: "pm25_concentration", label: "PM2.5", guideline: 5.0, bounds: [3]float64{5, 15, 35}},
	PM10: {column: "pm10_concentration", label: "PM10", guideline: 15.0, bounds: [3]float64{15, 30, 50}},
	NO2:  {column: "no2_concentration", label: "NO₂", guideline: 10.0, bounds: [3]float64{10, 20, 40}},
}

// AllPollutants returns the supported pollutants in display order.
func AllPollutants() []Pollutant {
	return []Pollutant{PM25, PM10, NO2}
}

// Valid reports whether p is a supported pollutant.
func (p Pollutant) Valid() bool {
	_, ok := pollutants[p]
	return ok
}

// Label returns the display label, e.g. "PM2.5". Unknown pollutants return
// their raw identifier.
func (p Pollutant) Label() string {
	if info, ok := pollutants[p]; ok {
		return info.label
	}
	return string(p)
}

// Column returns the dataset column holding this pollutant's concentration.
func (p Pollutant) Column() string {
	return pollutants[p].column
}

// Guideline returns the WHO annual guideline in µg/m³ and whether p is known.
func (p Pollutant) Guideline() (float64, bool) {
	info, ok := pollutants[p]
	return info.guideline, ok
}

// ParsePollutant resolves an identifier ("pm25"), label ("PM2.5", "NO₂") or
// column name ("no2_concentration"), case-insensitively.
func ParsePollutant(s string) (Pollutant, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "no2", "no₂":
		return NO2, nil
	}
	for p, info := range pollutants {
		if key == string(p) || key == strings.ToLower(info.label) || key == info.column {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPollutant, s)
}

// Value returns the observation's concentration for p, or nil when the value
// is missing or p is unknown.
func (o Observation) Value(p Pollutant) *float64 {
	switch p {
	case PM25:
		return o.PM25
	case PM10:
		return o.PM10
	case NO2:
		return o.NO2
	default:
		return nil
	}
}
