package domain

// Selection is a user's filter choice: one or more years and a WHO region.
// An empty Region or GlobalRegion applies no region restriction.
type Selection struct {
	Years  []int  `json:"years"`
	Region string `json:"region"`
}

func (s Selection) global() bool {
	return s.Region == "" || s.Region == GlobalRegion
}

// Filter returns the observations whose year is selected and whose region
// matches, preserving source order. The input dataset is not modified.
// Returns ErrInvalidSelection when no years are selected.
func Filter(d Dataset, sel Selection) (Dataset, error) {
	if len(sel.Years) == 0 {
		return nil, ErrInvalidSelection
	}

	years := make(map[int]struct{}, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = struct{}{}
	}

	out := make(Dataset, 0, len(d))
	for i := range d {
		if _, ok := years[d[i].Year]; !ok {
			continue
		}
		if !sel.global() && d[i].WHORegion != sel.Region {
			continue
		}
		out = append(out, d[i])
	}
	return out, nil
}
