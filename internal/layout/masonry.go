package layout

import (
	"github.com/timmy/memeboard/internal/domain"
)

// DefaultItemHeight is the estimated height, in logical units, for an
// item whose image dimensions are unknown. Avoids dividing by a zero
// aspect ratio.
const DefaultItemHeight = 400.0

// Slot is the computed position of one item in the masonry grid.
// Derived data: a pure function of the item order, viewport width, lane
// count, and gap. Never persisted.
type Slot struct {
	ItemIndex int     `json:"itemIndex"`
	Lane      int     `json:"lane"`
	Top       float64 `json:"top"`
	Left      float64 `json:"left"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Layout is a full grid computation result.
type Layout struct {
	Slots       []Slot  `json:"slots"`
	Lanes       int     `json:"lanes"`
	ColumnWidth float64 `json:"columnWidth"`
	TotalHeight float64 `json:"totalHeight"`
}

// Params are the inputs of one layout computation.
type Params struct {
	ContainerWidth float64
	Lanes          int
	Gap            float64
}

// Compute partitions items into lanes and positions every item.
//
// Placement is greedy: each item goes to the currently shortest lane
// (lowest index on ties), which keeps cumulative lane heights balanced
// when aspect ratios vary. The greedy rule is deterministic for a fixed
// item order, so recomputation with unchanged inputs yields identical
// slots.
func Compute(items []domain.MemeSummary, p Params) Layout {
	if p.Lanes < 1 {
		p.Lanes = 1
	}

	colWidth := (p.ContainerWidth - p.Gap*float64(p.Lanes+1)) / float64(p.Lanes)
	if colWidth < 0 {
		colWidth = 0
	}

	laneHeights := make([]float64, p.Lanes)
	for i := range laneHeights {
		laneHeights[i] = p.Gap
	}

	slots := make([]Slot, len(items))
	for i, item := range items {
		lane := shortestLane(laneHeights)

		height := DefaultItemHeight
		if ratio := item.AspectRatio(); ratio > 0 {
			height = colWidth / ratio
		}

		slots[i] = Slot{
			ItemIndex: i,
			Lane:      lane,
			Top:       laneHeights[lane],
			Left:      p.Gap + float64(lane)*(colWidth+p.Gap),
			Width:     colWidth,
			Height:    height,
		}
		laneHeights[lane] += height + p.Gap
	}

	total := 0.0
	for _, h := range laneHeights {
		if h > total {
			total = h
		}
	}

	return Layout{
		Slots:       slots,
		Lanes:       p.Lanes,
		ColumnWidth: colWidth,
		TotalHeight: total,
	}
}

func shortestLane(heights []float64) int {
	lane := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[lane] {
			lane = i
		}
	}
	return lane
}
