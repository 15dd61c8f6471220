package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoValue is shown in place of a missing number.
const NoValue = "—"

var printer = message.NewPrinter(language.English)

// FormatConcentration renders a concentration rounded to whole µg/m³ with
// thousands separators, e.g. "1,234 µg/m³".
func FormatConcentration(v *float64) string {
	if v == nil {
		return NoValue
	}
	return printer.Sprintf("%.0f µg/m³", *v)
}

// FormatRatio renders how many times a value exceeds the WHO guideline,
// e.g. "2.4× WHO".
func FormatRatio(v *float64, p Pollutant) string {
	r := RatioToGuideline(v, p)
	if r == nil {
		return NoValue
	}
	return printer.Sprintf("%.1f× WHO", *r)
}

// FormatPercent renders a 0-100 share rounded to a whole percent, e.g. "75%".
func FormatPercent(v *float64) string {
	if v == nil {
		return NoValue
	}
	return printer.Sprintf("%.0f%%", *v)
}
