package domain

import "time"

// CountrySummaryEvent is one country row of a report, flattened for
// downstream consumers of the summary topic.
type CountrySummaryEvent struct {
	ISO3        string    `json:"iso3"`
	CountryName string    `json:"country_name"`
	WHORegion   string    `json:"who_region"`
	Pollutant   Pollutant `json:"pollutant"`
	Years       []int     `json:"years"`
	Region      string    `json:"region"`
	Value       *float64  `json:"value"`
	Guideline   float64   `json:"guideline"`
	Ratio       *float64  `json:"ratio_to_guideline"`
	Tier        RiskTier  `json:"tier"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Key identifies the country within the topic. Countries without an ISO3
// code fall back to their name.
func (e CountrySummaryEvent) Key() string {
	if e.ISO3 != "" {
		return e.ISO3
	}
	return e.CountryName
}

// SummaryEvents flattens the country table of r, one event per country.
func SummaryEvents(r Report) []CountrySummaryEvent {
	events := make([]CountrySummaryEvent, 0, len(r.Countries))
	for _, c := range r.Countries {
		events = append(events, CountrySummaryEvent{
			ISO3:        c.ISO3,
			CountryName: c.CountryName,
			WHORegion:   c.WHORegion,
			Pollutant:   r.Pollutant.ID,
			Years:       r.Selection.Years,
			Region:      r.Selection.Region,
			Value:       c.Value,
			Guideline:   r.Pollutant.Guideline,
			Ratio:       c.Ratio,
			Tier:        c.Tier,
			GeneratedAt: r.GeneratedAt,
		})
	}
	return events
}
