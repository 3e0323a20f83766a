package matching

// solveGreedy repeatedly pairs the lowest remaining vertex with its cheapest
// remaining partner.
//
// Complexity: O(n²).
func solveGreedy(cost [][]int64) ([]int, error) {
	n, err := validate(cost)
	if err != nil {
		return nil, err
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	mate := make([]int, n)
	for len(remaining) > 1 {
		u := remaining[0]
		remaining = remaining[1:]

		bestIdx, bestC := -1, Inf
		for i, v := range remaining {
			if c := cost[u][v]; c < bestC {
				bestC, bestIdx = c, i
			}
		}
		if bestIdx < 0 {
			return nil, ErrNoPerfectMatching
		}

		v := remaining[bestIdx]
		mate[u], mate[v] = v, u
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return mate, nil
}
