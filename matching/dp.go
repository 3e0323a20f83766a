package matching

import "fmt"

// solveDP pairs the lowest unmatched vertex with every candidate partner and
// memoizes the best cost of each remaining subset.
//
// Complexity: O(n·2ⁿ) states touched, O(2ⁿ) memory.
func solveDP(cost [][]int64) ([]int, error) {
	n, err := validate(cost)
	if err != nil {
		return nil, err
	}
	if n > MaxDPSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, n, MaxDPSize)
	}
	if n == 0 {
		return []int{}, nil
	}

	full := 1<<uint(n) - 1
	best := make([]int64, full+1) // best[mask] = min cost to match vertices in mask
	choice := make([]int8, full+1)
	for m := range best {
		best[m] = Inf
	}
	best[0] = 0

	// masks grow monotonically; every sub-state is smaller than its parent
	for mask := 1; mask <= full; mask++ {
		if popcount(mask)%2 != 0 {
			continue
		}
		i := lowestBit(mask)
		rest := mask &^ (1 << uint(i))
		for j := i + 1; j < n; j++ {
			if rest&(1<<uint(j)) == 0 || cost[i][j] == Inf {
				continue
			}
			sub := best[rest&^(1<<uint(j))]
			if sub == Inf {
				continue
			}
			if c := sub + cost[i][j]; c < best[mask] {
				best[mask] = c
				choice[mask] = int8(j)
			}
		}
	}
	if best[full] == Inf {
		return nil, ErrNoPerfectMatching
	}

	mate := make([]int, n)
	for mask := full; mask != 0; {
		i := lowestBit(mask)
		j := int(choice[mask])
		mate[i], mate[j] = j, i
		mask &^= 1<<uint(i) | 1<<uint(j)
	}

	return mate, nil
}

func lowestBit(mask int) int {
	i := 0
	for mask&1 == 0 {
		mask >>= 1
		i++
	}

	return i
}

func popcount(x int) int {
	c := 0
	for x != 0 {
		x &= x - 1
		c++
	}

	return c
}
