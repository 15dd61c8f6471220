package domain

import "math"

// RiskTier is an ordered severity label derived from a concentration.
// Higher values are more severe; TierNA sorts below every real tier.
type RiskTier int

const (
	TierNA RiskTier = iota
	TierSafe
	TierModerate
	TierHigh
	TierVeryHigh
)

func (t RiskTier) String() string {
	switch t {
	case TierSafe:
		return "Safe"
	case TierModerate:
		return "Moderate"
	case TierHigh:
		return "High"
	case TierVeryHigh:
		return "Very High"
	default:
		return "N/A"
	}
}

// MarshalText renders the tier by label so JSON and CSV carry "Very High"
// rather than an integer.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier label. Unrecognized labels decode as TierNA.
func (t *RiskTier) UnmarshalText(b []byte) error {
	for tier := TierSafe; tier <= TierVeryHigh; tier++ {
		if tier.String() == string(b) {
			*t = tier
			return nil
		}
	}
	*t = TierNA
	return nil
}

// Classify maps a concentration to its risk tier using the pollutant's
// breakpoints (inclusive upper bounds):
//   - pm25: ≤5 Safe, ≤15 Moderate, ≤35 High, else Very High
//   - pm10: ≤15 Safe, ≤30 Moderate, ≤50 High, else Very High
//   - no2:  ≤10 Safe, ≤20 Moderate, ≤40 High, else Very High
//
// Returns TierNA when value is nil or NaN, or the pollutant is unknown.
func Classify(value *float64, p Pollutant) RiskTier {
	if value == nil || math.IsNaN(*value) {
		return TierNA
	}
	info, ok := pollutants[p]
	if !ok {
		return TierNA
	}

	x := *value
	switch {
	case x <= info.bounds[0]:
		return TierSafe
	case x <= info.bounds[1]:
		return TierModerate
	case x <= info.bounds[2]:
		return TierHigh
	default:
		return TierVeryHigh
	}
}

// RatioToGuideline returns value divided by the pollutant's WHO guideline,
// unclamped. Returns nil when value is nil or NaN, or the pollutant is unknown.
func RatioToGuideline(value *float64, p Pollutant) *float64 {
	if value == nil || math.IsNaN(*value) {
		return nil
	}
	limit, ok := p.Guideline()
	if !ok {
		return nil
	}
	r := *value / limit
	return &r
}

// ExceedanceBand summarizes how widespread guideline exceedance is.
type ExceedanceBand string

const (
	BandNA         ExceedanceBand = "N/A"
	BandLow        ExceedanceBand = "Low"
	BandMixed      ExceedanceBand = "Mixed"
	BandWidespread ExceedanceBand = "Widespread"
)

// ClassifyExceedance bands a percentage of countries above the guideline:
// <25 Low, ≤75 Mixed, >75 Widespread.
func ClassifyExceedance(pct *float64) ExceedanceBand {
	if pct == nil || math.IsNaN(*pct) {
		return BandNA
	}
	switch {
	case *pct < 25:
		return BandLow
	case *pct <= 75:
		return BandMixed
	default:
		return BandWidespread
	}
}
