// Package matching computes minimum-cost perfect matchings on complete
// graphs given as dense cost matrices.
//
// A Solver receives an n×n symmetric matrix where cost[i][j] is the price of
// pairing i with j and Inf marks a forbidden pair. It returns mate, with
// mate[i] the partner of i.
//
// Backends:
//
//	Blossom()  – Edmonds' weighted blossom algorithm, O(n³), exact
//	SubsetDP() – bitmask dynamic program, O(n²·2ⁿ), exact, n ≤ MaxDPSize
//	Greedy()   – repeated nearest partner, O(n²), not exact
//	Exact()    – SubsetDP for small n, Blossom otherwise
package matching
