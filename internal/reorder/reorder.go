// Package reorder implements moving a block of selected items within a
// single ordered id sequence. The dragged group collapses into a contiguous
// run starting at the drop target's current index; everything else flows
// around it in original order.
package reorder

// GroupReorder computes the new order of seq after dropping the dragged
// group onto overID. activeID is the grabbed item and must be a group
// member. The group keeps its original relative order and ends up occupying
// contiguous positions.
//
// Any invalid input (overID inside the group, activeID outside it, unknown
// ids) returns seq unchanged. That is the defined no-op failure mode, not
// an error.
func GroupReorder(seq, groupIDs []string, activeID, overID string) []string {
	if len(groupIDs) == 0 {
		return seq
	}

	index := make(map[string]int, len(seq))
	for i, id := range seq {
		index[id] = i
	}

	inGroup := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		if _, ok := index[id]; !ok {
			return seq
		}
		inGroup[id] = true
	}

	if !inGroup[activeID] {
		return seq
	}
	overIdx, ok := index[overID]
	if !ok || inGroup[overID] {
		return seq
	}

	// Split seq into group members and the rest, both in original order.
	group := make([]string, 0, len(groupIDs))
	rest := make([]string, 0, len(seq)-len(groupIDs))
	for _, id := range seq {
		if inGroup[id] {
			group = append(group, id)
		} else {
			rest = append(rest, id)
		}
	}

	// The block starts exactly at the drop target's current index, clamped
	// so the whole group fits.
	desiredStart := overIdx
	if max := len(seq) - len(group); desiredStart > max {
		desiredStart = max
	}
	if desiredStart < 0 {
		desiredStart = 0
	}

	out := make([]string, 0, len(seq))
	gi, ri := 0, 0
	for pos := 0; pos < len(seq); pos++ {
		if pos >= desiredStart && pos < desiredStart+len(group) {
			out = append(out, group[gi])
			gi++
		} else {
			out = append(out, rest[ri])
			ri++
		}
	}
	return out
}
