package layout

// Breakpoint maps a minimum viewport width to a lane count.
type Breakpoint struct {
	MinWidth int
	Lanes    int
}

// DefaultBreakpoints is the lane table for the gallery. Monotonic in
// width: narrower viewports get fewer lanes.
var DefaultBreakpoints = []Breakpoint{
	{MinWidth: 0, Lanes: 1},
	{MinWidth: 640, Lanes: 2},
	{MinWidth: 768, Lanes: 3},
	{MinWidth: 1024, Lanes: 4},
	{MinWidth: 1280, Lanes: 5},
}

// LanesForWidth returns the lane count for a viewport width using the
// given breakpoint table (DefaultBreakpoints when nil).
func LanesForWidth(width int, table []Breakpoint) int {
	if table == nil {
		table = DefaultBreakpoints
	}
	lanes := 1
	for _, bp := range table {
		if width >= bp.MinWidth {
			lanes = bp.Lanes
		}
	}
	return lanes
}
