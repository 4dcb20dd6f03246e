package layout

// firstLane is the lane of the first branch.
const firstLane = 1

// LaneTracker holds the current lane during traversal.
//
// Enter and Exit bracket the placement of a merge's second parent and must
// be balanced, so the lane returns to its previous value once a merge
// subtree is placed, however deeply merges nest. Next advances the baseline
// lane between top-level branches and is independent of merge nesting.
type LaneTracker struct {
	lane  int
	depth int
}

// Reset sets the lane back to the first lane.
func (t *LaneTracker) Reset() {
	t.lane = firstLane
	t.depth = 0
}

// Current returns the current lane.
func (t *LaneTracker) Current() int { return t.lane }

// Depth returns the number of open Enter calls.
func (t *LaneTracker) Depth() int { return t.depth }

// Enter moves to the lane of a merge's second parent.
func (t *LaneTracker) Enter() {
	t.lane++
	t.depth++
}

// Exit returns to the lane that was current before the matching Enter.
func (t *LaneTracker) Exit() {
	if t.depth == 0 {
		panic("layout: unbalanced lane exit")
	}
	t.lane--
	t.depth--
}

// Next advances the baseline lane for the next branch.
func (t *LaneTracker) Next() { t.lane++ }
