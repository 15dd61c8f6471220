package domain

import "math"

// Extreme identifies the observation holding a subset's highest or lowest value.
type Extreme struct {
	CountryName string  `json:"country_name"`
	ISO3        string  `json:"iso3"`
	Value       float64 `json:"value"`
	Year        int     `json:"year"`
}

// AggregateResult summarizes one pollutant over a subset. Every pointer field
// is independently nil when the subset holds no data for it.
type AggregateResult struct {
	// CentralTendency is the mean over all non-null country-year values.
	CentralTendency *float64 `json:"central_tendency"`
	// PctExceeding is the share (0-100) of countries whose mean is strictly
	// above the WHO guideline.
	PctExceeding *float64 `json:"pct_exceeding"`
	Worst        *Extreme `json:"worst"`
	Best         *Extreme `json:"best"`
	MaxValue     *float64 `json:"max_value"`
	MinValue     *float64 `json:"min_value"`
}

// Aggregate computes the summary statistics for pollutant p over subset in a
// single pass. Ties for worst/best keep the first row in subset order.
func Aggregate(subset Dataset, p Pollutant) AggregateResult {
	var (
		sum         float64
		n           int
		worst, best *Extreme
		groups      = newCountryMeans()
	)

	for i := range subset {
		o := &subset[i]
		v, ok := present(o.Value(p))
		if !ok {
			continue
		}
		sum += v
		n++
		groups.add(o.countryKey(), v)

		if worst == nil || v > worst.Value {
			worst = extremeOf(o, v)
		}
		if best == nil || v < best.Value {
			best = extremeOf(o, v)
		}
	}

	var res AggregateResult
	if n == 0 {
		return res
	}

	res.CentralTendency = ptr(sum / float64(n))
	res.Worst = worst
	res.Best = best
	res.MaxValue = ptr(worst.Value)
	res.MinValue = ptr(best.Value)

	if limit, ok := p.Guideline(); ok {
		res.PctExceeding = groups.pctAbove(limit)
	}
	return res
}

// Mean returns the mean of p's non-null values in subset, or nil.
func Mean(subset Dataset, p Pollutant) *float64 {
	var sum float64
	var n int
	for i := range subset {
		if v, ok := present(subset[i].Value(p)); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return ptr(sum / float64(n))
}

// countryMeans accumulates per-country running sums keyed by country identifier,
// remembering first-seen order so iteration is deterministic.
type countryMeans struct {
	index map[string]int
	keys  []string
	sums  []float64
	ns    []int
}

func newCountryMeans() *countryMeans {
	return &countryMeans{index: make(map[string]int)}
}

func (c *countryMeans) add(key string, v float64) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.keys)
		c.index[key] = i
		c.keys = append(c.keys, key)
		c.sums = append(c.sums, 0)
		c.ns = append(c.ns, 0)
	}
	c.sums[i] += v
	c.ns[i]++
}

// pctAbove returns the percentage of countries whose mean is strictly greater
// than limit, or nil when no country has data.
func (c *countryMeans) pctAbove(limit float64) *float64 {
	if len(c.keys) == 0 {
		return nil
	}
	above := 0
	for i := range c.keys {
		if c.sums[i]/float64(c.ns[i]) > limit {
			above++
		}
	}
	return ptr(100 * float64(above) / float64(len(c.keys)))
}

func extremeOf(o *Observation, v float64) *Extreme {
	return &Extreme{CountryName: o.CountryName, ISO3: o.ISO3, Value: v, Year: o.Year}
}

// present unwraps a concentration, treating nil and NaN as missing.
func present(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) {
		return 0, false
	}
	return *v, true
}

func ptr(v float64) *float64 { return &v }
