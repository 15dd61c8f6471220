package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// CountrySummary is one row of the country-level table: a country's mean
// concentration over the selection and its risk tier.
type CountrySummary struct {
	ISO3        string   `json:"iso3"`
	CountryName string   `json:"country_name"`
	WHORegion   string   `json:"who_region"`
	Value       *float64 `json:"value"`
	Tier        RiskTier `json:"tier"`
	Ratio       *float64 `json:"ratio_to_guideline"`
}

// YearPoint is one point of the yearly trend series.
type YearPoint struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
	Tier  RiskTier `json:"tier"`
}

// PollutantInfo describes the pollutant a report was computed for.
type PollutantInfo struct {
	ID        Pollutant `json:"id"`
	Label     string    `json:"label"`
	Column    string    `json:"column"`
	Guideline float64   `json:"guideline"`
}

// Report bundles everything a dashboard needs for one selection and pollutant.
type Report struct {
	Pollutant PollutantInfo   `json:"pollutant"`
	Selection Selection       `json:"selection"`
	Rows      int             `json:"rows"`
	Aggregate AggregateResult `json:"aggregate"`

	CentralTier RiskTier       `json:"central_tier"`
	WorstTier   RiskTier       `json:"worst_tier"`
	BestTier    RiskTier       `json:"best_tier"`
	WorstRatio  *float64       `json:"worst_ratio_to_guideline"`
	Exceedance  ExceedanceBand `json:"exceedance"`

	Trend     []YearPoint      `json:"trend"`
	Highest   []CountrySummary `json:"highest"`
	Lowest    []CountrySummary `json:"lowest"`
	Countries []CountrySummary `json:"countries"`

	GeneratedAt time.Time `json:"generated_at"`
}

// BuildReport filters d by sel and computes the aggregate, tiers, trend,
// rankings (at most rankSize entries each) and country table for p.
func BuildReport(d Dataset, sel Selection, p Pollutant, rankSize int) (Report, error) {
	if !p.Valid() {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownPollutant, string(p))
	}
	subset, err := Filter(d, sel)
	if err != nil {
		return Report{}, err
	}

	agg := Aggregate(subset, p)
	countries := CountrySummaries(subset, p)
	limit, _ := p.Guideline()

	var worstValue, bestValue *float64
	if agg.Worst != nil {
		worstValue = &agg.Worst.Value
	}
	if agg.Best != nil {
		bestValue = &agg.Best.Value
	}

	return Report{
		Pollutant: PollutantInfo{ID: p, Label: p.Label(), Column: p.Column(), Guideline: limit},
		Selection: Selection{Years: sortedYears(sel.Years), Region: regionOrGlobal(sel.Region)},
		Rows:      len(subset),
		Aggregate: agg,

		CentralTier: Classify(agg.CentralTendency, p),
		WorstTier:   Classify(worstValue, p),
		BestTier:    Classify(bestValue, p),
		WorstRatio:  RatioToGuideline(worstValue, p),
		Exceedance:  ClassifyExceedance(agg.PctExceeding),

		Trend:     Trend(subset, p),
		Highest:   Highest(countries, rankSize),
		Lowest:    Lowest(countries, rankSize),
		Countries: countries,

		GeneratedAt: clock.Now().UTC(),
	}, nil
}

// CountrySummaries computes each country's mean for p over subset, ordered by
// ISO3. Countries without data are kept with a nil value and TierNA.
func CountrySummaries(subset Dataset, p Pollutant) []CountrySummary {
	type acc struct {
		row CountrySummary
		sum float64
		n   int
	}
	index := make(map[string]int)
	var accs []acc

	for i := range subset {
		o := &subset[i]
		key := o.countryKey()
		j, ok := index[key]
		if !ok {
			j = len(accs)
			index[key] = j
			accs = append(accs, acc{row: CountrySummary{ISO3: o.ISO3, CountryName: o.CountryName, WHORegion: o.WHORegion}})
		}
		if v, ok := present(o.Value(p)); ok {
			accs[j].sum += v
			accs[j].n++
		}
	}

	out := make([]CountrySummary, 0, len(accs))
	for _, a := range accs {
		row := a.row
		if a.n > 0 {
			row.Value = ptr(a.sum / float64(a.n))
		}
		row.Tier = Classify(row.Value, p)
		row.Ratio = RatioToGuideline(row.Value, p)
		out = append(out, row)
	}
	slices.SortStableFunc(out, func(a, b CountrySummary) int {
		return cmp.Or(cmp.Compare(a.ISO3, b.ISO3), cmp.Compare(a.CountryName, b.CountryName))
	})
	return out
}

// Trend returns the mean of p per year in ascending year order.
func Trend(subset Dataset, p Pollutant) []YearPoint {
	byYear := make(map[int]Dataset)
	for i := range subset {
		byYear[subset[i].Year] = append(byYear[subset[i].Year], subset[i])
	}

	points := make([]YearPoint, 0, len(byYear))
	for _, y := range subset.Years() {
		mean := Mean(byYear[y], p)
		points = append(points, YearPoint{Year: y, Value: mean, Tier: Classify(mean, p)})
	}
	return points
}

// Highest returns up to n countries with data, highest mean first.
func Highest(countries []CountrySummary, n int) []CountrySummary {
	return rank(countries, n, func(a, b float64) int { return cmp.Compare(b, a) })
}

// Lowest returns up to n countries with data, lowest mean first.
func Lowest(countries []CountrySummary, n int) []CountrySummary {
	return rank(countries, n, cmp.Compare[float64])
}

func rank(countries []CountrySummary, n int, byValue func(a, b float64) int) []CountrySummary {
	withData := make([]CountrySummary, 0, len(countries))
	for _, c := range countries {
		if c.Value != nil {
			withData = append(withData, c)
		}
	}
	slices.SortStableFunc(withData, func(a, b CountrySummary) int {
		return cmp.Or(byValue(*a.Value, *b.Value), cmp.Compare(a.ISO3, b.ISO3))
	})
	if n >= 0 && len(withData) > n {
		withData = withData[:n]
	}
	return withData
}

func sortedYears(years []int) []int {
	out := slices.Clone(years)
	slices.Sort(out)
	return slices.Compact(out)
}

func regionOrGlobal(region string) string {
	if region == "" {
		return GlobalRegion
	}
	return region
}
