package layout

import (
	"math"
	"testing"

	"github.com/timmy/memeboard/internal/domain"
)

func itemsWithSizes(sizes ...[2]int) []domain.MemeSummary {
	items := make([]domain.MemeSummary, len(sizes))
	for i, s := range sizes {
		items[i] = domain.MemeSummary{Width: s[0], Height: s[1]}
	}
	return items
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestComputeColumnWidth verifies the column width accounts for the
// outer gaps and the gaps between lanes.
func TestComputeColumnWidth(t *testing.T) {
	l := Compute(nil, Params{ContainerWidth: 1024, Lanes: 4, Gap: 8})

	// 1024 - 8*5 = 984 across 4 lanes.
	if !almostEqual(l.ColumnWidth, 246) {
		t.Errorf("column width: got %f, want 246", l.ColumnWidth)
	}
}

// TestComputeGreedyPlacement verifies each item lands in the currently
// shortest lane, lowest index on ties.
func TestComputeGreedyPlacement(t *testing.T) {
	// Square items on two lanes: ties resolve to lane 0 first, then the
	// shorter lane alternates.
	items := itemsWithSizes([2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100})
	l := Compute(items, Params{ContainerWidth: 216, Lanes: 2, Gap: 8})

	wantLanes := []int{0, 1, 0, 1}
	for i, slot := range l.Slots {
		if slot.Lane != wantLanes[i] {
			t.Errorf("slots[%d].Lane: got %d, want %d", i, slot.Lane, wantLanes[i])
		}
		if slot.ItemIndex != i {
			t.Errorf("slots[%d].ItemIndex: got %d, want %d", i, slot.ItemIndex, i)
		}
	}
}

// TestComputeBalancesUnevenRatios verifies a run of tall items does not
// pile into one lane.
func TestComputeBalancesUnevenRatios(t *testing.T) {
	// One very tall item followed by short wide ones.
	items := itemsWithSizes(
		[2]int{100, 400}, // tall, lane 0
		[2]int{400, 100}, // short, lane 1
		[2]int{400, 100}, // lane 1 still shorter than lane 0
		[2]int{400, 100},
	)
	l := Compute(items, Params{ContainerWidth: 216, Lanes: 2, Gap: 8})

	if l.Slots[0].Lane != 0 {
		t.Errorf("tall item lane: got %d, want 0", l.Slots[0].Lane)
	}
	if l.Slots[1].Lane != 1 || l.Slots[2].Lane != 1 {
		t.Error("short items should fill the empty lane before stacking under the tall one")
	}
}

// TestComputeDeterministic verifies recomputation with identical inputs
// yields identical slots.
func TestComputeDeterministic(t *testing.T) {
	items := itemsWithSizes(
		[2]int{600, 800}, [2]int{800, 600}, [2]int{640, 640},
		[2]int{540, 960}, [2]int{900, 600}, [2]int{600, 800},
	)
	p := Params{ContainerWidth: 1280, Lanes: 5, Gap: 8}

	first := Compute(items, p)
	second := Compute(items, p)

	if len(first.Slots) != len(second.Slots) {
		t.Fatalf("slot counts differ: %d vs %d", len(first.Slots), len(second.Slots))
	}
	for i := range first.Slots {
		if first.Slots[i] != second.Slots[i] {
			t.Errorf("slots[%d] differ: %+v vs %+v", i, first.Slots[i], second.Slots[i])
		}
	}
	if first.TotalHeight != second.TotalHeight {
		t.Errorf("total heights differ: %f vs %f", first.TotalHeight, second.TotalHeight)
	}
}

// TestComputeUnknownDimensionsUseDefaultHeight verifies an item without
// usable dimensions gets the estimated height instead of a division by
// zero.
func TestComputeUnknownDimensionsUseDefaultHeight(t *testing.T) {
	items := []domain.MemeSummary{
		{Width: 0, Height: 0},
		{Width: -1, Height: 100},
	}
	l := Compute(items, Params{ContainerWidth: 216, Lanes: 1, Gap: 8})

	for i, slot := range l.Slots {
		if !almostEqual(slot.Height, DefaultItemHeight) {
			t.Errorf("slots[%d].Height: got %f, want %f", i, slot.Height, DefaultItemHeight)
		}
	}
}

// TestComputeScalesHeightByAspectRatio verifies height = colWidth/ratio.
func TestComputeScalesHeightByAspectRatio(t *testing.T) {
	items := itemsWithSizes([2]int{600, 800})
	l := Compute(items, Params{ContainerWidth: 216, Lanes: 1, Gap: 8})

	// colWidth = 216 - 8*2 = 200; ratio = 0.75; height = 200/0.75.
	want := 200.0 / 0.75
	if !almostEqual(l.Slots[0].Height, want) {
		t.Errorf("height: got %f, want %f", l.Slots[0].Height, want)
	}
	if !almostEqual(l.Slots[0].Width, 200) {
		t.Errorf("width: got %f, want 200", l.Slots[0].Width)
	}
}

// TestComputeTotalHeight verifies total height is the tallest lane.
func TestComputeTotalHeight(t *testing.T) {
	items := itemsWithSizes([2]int{100, 100}, [2]int{100, 200})
	l := Compute(items, Params{ContainerWidth: 216, Lanes: 2, Gap: 8})

	// Lane 1 holds the 1:2 item: gap + height + gap.
	colWidth := l.ColumnWidth
	want := 8 + colWidth*2 + 8
	if !almostEqual(l.TotalHeight, want) {
		t.Errorf("total height: got %f, want %f", l.TotalHeight, want)
	}
}

func TestComputeEmptyAndSingle(t *testing.T) {
	empty := Compute(nil, Params{ContainerWidth: 1024, Lanes: 4, Gap: 8})
	if len(empty.Slots) != 0 {
		t.Errorf("empty layout produced %d slots", len(empty.Slots))
	}

	single := Compute(itemsWithSizes([2]int{600, 800}), Params{ContainerWidth: 1024, Lanes: 4, Gap: 8})
	if len(single.Slots) != 1 || single.Slots[0].Lane != 0 {
		t.Errorf("single item layout: %+v", single.Slots)
	}
}

// TestComputeBalanceBound verifies the greedy property: no lane's
// cumulative height exceeds the shortest lane's by more than one item's
// height, for a pseudo-random mix of aspect ratios.
func TestComputeBalanceBound(t *testing.T) {
	ratios := [][2]int{
		{600, 800}, {800, 600}, {640, 640}, {540, 960},
		{900, 600}, {300, 400}, {1200, 300}, {400, 1000},
	}
	items := make([]domain.MemeSummary, 120)
	for i := range items {
		r := ratios[(i*7)%len(ratios)]
		items[i] = domain.MemeSummary{Width: r[0], Height: r[1]}
	}

	for _, lanes := range []int{2, 3, 4, 5} {
		l := Compute(items, Params{ContainerWidth: 1280, Lanes: lanes, Gap: 8})

		laneHeights := make([]float64, lanes)
		maxItemHeight := 0.0
		for _, s := range l.Slots {
			if s.Top+s.Height > laneHeights[s.Lane] {
				laneHeights[s.Lane] = s.Top + s.Height
			}
			if s.Height > maxItemHeight {
				maxItemHeight = s.Height
			}
		}

		tallest, shortest := laneHeights[0], laneHeights[0]
		for _, h := range laneHeights[1:] {
			if h > tallest {
				tallest = h
			}
			if h < shortest {
				shortest = h
			}
		}

		// 8 per item for the inter-item gap.
		if tallest-shortest > maxItemHeight+8 {
			t.Errorf("lanes=%d: height spread %f exceeds one item height %f",
				lanes, tallest-shortest, maxItemHeight)
		}
	}
}

// TestComputeClampsLanes verifies a non-positive lane count degrades to
// a single lane instead of panicking.
func TestComputeClampsLanes(t *testing.T) {
	l := Compute(itemsWithSizes([2]int{100, 100}), Params{ContainerWidth: 320, Lanes: 0, Gap: 8})
	if l.Lanes != 1 {
		t.Errorf("lanes: got %d, want 1", l.Lanes)
	}
}
