package layout

// DefaultOverscan is the number of extra items materialized on each side
// of the visible window to mask scroll-induced pop-in.
const DefaultOverscan = 5

// Window is the virtualized subset of a layout: only the slots whose
// vertical extent intersects the scroll viewport (plus overscan) are
// materialized. TotalHeight still accounts for every item so the scroll
// bar keeps its full length.
type Window struct {
	Slots       []Slot  `json:"slots"`
	Start       int     `json:"start"`
	End         int     `json:"end"` // exclusive
	TotalHeight float64 `json:"totalHeight"`
}

// Visible selects the slots intersecting [scrollTop, scrollTop+viewportHeight],
// expanded by overscan items before and after. The window is the index
// range spanning the first and last intersecting slot; lane imbalance
// can pull a few extra items into that span, which only widens the
// overscan.
func Visible(l Layout, scrollTop, viewportHeight float64, overscan int) Window {
	if overscan < 0 {
		overscan = DefaultOverscan
	}

	top := scrollTop
	bottom := scrollTop + viewportHeight

	first, last := -1, -1
	for i, s := range l.Slots {
		if s.Top+s.Height >= top && s.Top <= bottom {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	if first == -1 {
		return Window{Slots: []Slot{}, TotalHeight: l.TotalHeight}
	}

	start := first - overscan
	if start < 0 {
		start = 0
	}
	end := last + overscan + 1
	if end > len(l.Slots) {
		end = len(l.Slots)
	}

	return Window{
		Slots:       l.Slots[start:end],
		Start:       start,
		End:         end,
		TotalHeight: l.TotalHeight,
	}
}
