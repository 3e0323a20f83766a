package matching

import (
	"errors"
	"fmt"
	"math"
)

// Inf marks a forbidden pair in a cost matrix.
const Inf int64 = math.MaxInt64

// MaxDPSize is the largest instance SubsetDP accepts.
const MaxDPSize = 20

// exactDPCutoff is the largest instance Exact hands to SubsetDP.
const exactDPCutoff = 12

// Sentinel errors returned by solvers.
var (
	// ErrOddVertexCount indicates a perfect matching was requested on an odd
	// number of vertices.
	ErrOddVertexCount = errors.New("matching: odd vertex count")

	// ErrNoPerfectMatching indicates the finite entries admit no perfect matching.
	ErrNoPerfectMatching = errors.New("matching: no perfect matching")

	// ErrTooLarge indicates the instance exceeds a backend's size limit.
	ErrTooLarge = errors.New("matching: instance too large")

	// ErrNotSquare indicates a ragged or non-square cost matrix.
	ErrNotSquare = errors.New("matching: cost matrix is not square")

	// ErrNegativeCost indicates a cost below zero.
	ErrNegativeCost = errors.New("matching: negative cost")
)

// Solver computes a minimum-cost perfect matching.
type Solver interface {
	// Solve returns mate with mate[i] = j and mate[j] = i for every pair.
	// cost is read-only and must be symmetric.
	Solve(cost [][]int64) ([]int, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(cost [][]int64) ([]int, error)

// Solve implements Solver.
func (f SolverFunc) Solve(cost [][]int64) ([]int, error) { return f(cost) }

// validate checks shape, parity and sign and returns n.
func validate(cost [][]int64) (int, error) {
	n := len(cost)
	for i, row := range cost {
		if len(row) != n {
			return 0, fmt.Errorf("%w: row %d has %d entries, want %d", ErrNotSquare, i, len(row), n)
		}
		for j, c := range row {
			if c < 0 {
				return 0, fmt.Errorf("%w: cost[%d][%d] = %d", ErrNegativeCost, i, j, c)
			}
		}
	}
	if n%2 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrOddVertexCount, n)
	}

	return n, nil
}

// Cost sums cost[i][mate[i]] over every matched pair once.
// It returns Inf if any pair is forbidden.
func Cost(cost [][]int64, mate []int) int64 {
	var total int64
	for i, j := range mate {
		if j < i {
			continue
		}
		c := cost[i][j]
		if c == Inf {
			return Inf
		}
		total += c
	}

	return total
}

// Exact returns the default exact solver: SubsetDP up to 12 vertices and
// Blossom beyond.
func Exact() Solver {
	return SolverFunc(func(cost [][]int64) ([]int, error) {
		if len(cost) <= exactDPCutoff {
			return solveDP(cost)
		}

		return solveBlossom(cost)
	})
}

// SubsetDP returns the bitmask dynamic-programming solver.
func SubsetDP() Solver { return SolverFunc(solveDP) }

// Blossom returns the weighted blossom solver.
func Blossom() Solver { return SolverFunc(solveBlossom) }

// Greedy returns the nearest-partner heuristic. It is fast but may return a
// costlier matching than the optimum.
func Greedy() Solver { return SolverFunc(solveGreedy) }

// ByName maps "exact", "blossom", "dp" and "greedy" to their solvers.
func ByName(name string) (Solver, error) {
	switch name {
	case "", "exact":
		return Exact(), nil
	case "blossom":
		return Blossom(), nil
	case "dp":
		return SubsetDP(), nil
	case "greedy":
		return Greedy(), nil
	default:
		return nil, fmt.Errorf("matching: unknown solver %q", name)
	}
}
