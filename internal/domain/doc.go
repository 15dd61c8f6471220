// Package domain models the WHO Ambient Air Quality Database and the
// statistics a dashboard derives from it.
//
// # Data Source
//
// The WHO database publishes one row per country and year with annual mean
// concentrations of fine particulate matter (PM2.5), coarse particulate matter
// (PM10) and nitrogen dioxide (NO₂), all in µg/m³. Many country-years report
// only some pollutants; a missing value is a reporting gap, not an error, and is
// carried as a nil pointer.
//
// Required columns:
//
//	who_region, iso3, country_name, year,
//	pm25_concentration, pm10_concentration, no2_concentration
//
// # WHO Guidelines
//
// Annual guideline values (WHO Global Air Quality Guidelines, 2021):
//
//	PM2.5: 5 µg/m³ | PM10: 15 µg/m³ | NO₂: 10 µg/m³
//
// # Risk Tiers
//
// Concentrations map to a four-level tier with inclusive upper bounds:
//
//	PM2.5: ≤5 Safe | ≤15 Moderate | ≤35 High | >35 Very High
//	PM10:  ≤15 Safe | ≤30 Moderate | ≤50 High | >50 Very High
//	NO₂:   ≤10 Safe | ≤20 Moderate | ≤40 High | >40 Very High
//
// Missing values classify as N/A.
//
// # Statistics
//
// Every central value in this package is an arithmetic mean that ignores
// missing values. The share of countries exceeding the guideline first
// averages each country's selected years, then counts countries whose mean is
// strictly greater than the guideline. Countries are identified by ISO3, or by
// name when the ISO3 code is blank.
package domain
