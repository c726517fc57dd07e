package pricing

// DistributeDiscount allocates an order-level discount across line items
// proportionally to their pre-discount line totals. Items 1..N-1 get the
// rounded proportional share; the last item (by stable input order) takes
// whatever remains, so the allocations always sum to the input discount
// exactly. Concentrating the rounding residue on the last line is a
// deliberate tie-break; a residue too big for the last line spills back onto
// earlier lines with room.
//
// The discount is clamped to the gross total first, so every allocation
// satisfies 0 <= alloc[i] <= lineTotals[i]. A zero gross (all items free)
// yields all-zero allocations.
func DistributeDiscount(discount int64, lineTotals []int64) []int64 {
	allocations := make([]int64, len(lineTotals))
	if len(lineTotals) == 0 || discount <= 0 {
		return allocations
	}

	var gross int64
	for _, t := range lineTotals {
		gross += t
	}
	if gross == 0 {
		return allocations
	}
	if discount > gross {
		discount = gross
	}

	last := len(lineTotals) - 1
	var assigned int64
	for i, t := range lineTotals {
		if i == last {
			allocations[i] = discount - assigned
			break
		}
		alloc := Round(float64(discount) * float64(t) / float64(gross))
		if alloc > t {
			alloc = t
		}
		remaining := discount - assigned
		if alloc > remaining {
			alloc = remaining
		}
		allocations[i] = alloc
		assigned += alloc
	}

	// On skewed carts the earlier shares can all round down, leaving a
	// remainder bigger than a small last line. Cap the last line at its own
	// total and push the overflow back onto lines with room left; discount
	// <= gross guarantees the overflow fits.
	if allocations[last] > lineTotals[last] {
		overflow := allocations[last] - lineTotals[last]
		allocations[last] = lineTotals[last]
		for i := last - 1; i >= 0 && overflow > 0; i-- {
			room := lineTotals[i] - allocations[i]
			if room > overflow {
				room = overflow
			}
			allocations[i] += room
			overflow -= room
		}
	}

	return allocations
}
