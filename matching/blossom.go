package matching

import "fmt"

// solveBlossom converts the minimum-cost perfect matching into a
// maximum-weight maximum-cardinality matching with w = M - c, M above every
// finite cost, and runs Edmonds' primal-dual blossom algorithm on it.
//
// Every perfect matching has n/2 edges, so maximizing Σw over maximum
// cardinality matchings minimizes Σc. All arithmetic stays in integers.
//
// Complexity: O(n³).
func solveBlossom(cost [][]int64) ([]int, error) {
	n, err := validate(cost)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []int{}, nil
	}

	var maxCost int64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c := cost[i][j]; c != Inf && c > maxCost {
				maxCost = c
			}
		}
	}
	var edges []wedge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c := cost[i][j]; c != Inf {
				edges = append(edges, wedge{i: i, j: j, w: maxCost + 1 - c})
			}
		}
	}

	mate := newBlossomState(n, edges).run()
	for v, m := range mate {
		if m < 0 {
			return nil, fmt.Errorf("%w: vertex %d unmatched", ErrNoPerfectMatching, v)
		}
	}

	return mate, nil
}

type wedge struct {
	i, j int
	w    int64
}

// Label values. labelBreadcrumb is OR-ed onto S-labels during scanBlossom.
const (
	labelFree       = 0
	labelS          = 1
	labelT          = 2
	labelBreadcrumb = 4
)

// blossomState holds the primal-dual bookkeeping. Vertices are 0..n-1,
// non-trivial blossoms n..2n-1. Edge k has endpoints 2k and 2k+1;
// endpoint[p] is the vertex at endpoint p and p^1 is the opposite endpoint.
type blossomState struct {
	n     int
	edges []wedge

	endpoint  []int
	neighbend [][]int // neighbend[v] = remote endpoints of edges at v

	mate             []int // mate[v] = remote endpoint of v's matched edge, or -1
	label            []int
	labelend         []int
	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int
	dualvar          []int64
	allowedge        []bool
	queue            []int
}

func newBlossomState(n int, edges []wedge) *blossomState {
	s := &blossomState{n: n, edges: edges}

	var maxW int64
	for _, e := range edges {
		if e.w > maxW {
			maxW = e.w
		}
	}

	s.endpoint = make([]int, 2*len(edges))
	s.neighbend = make([][]int, n)
	for k, e := range edges {
		s.endpoint[2*k], s.endpoint[2*k+1] = e.i, e.j
		s.neighbend[e.i] = append(s.neighbend[e.i], 2*k+1)
		s.neighbend[e.j] = append(s.neighbend[e.j], 2*k)
	}

	s.mate = filled(n, -1)
	s.label = make([]int, 2*n)
	s.labelend = filled(2*n, -1)
	s.inblossom = make([]int, n)
	for v := range s.inblossom {
		s.inblossom[v] = v
	}
	s.blossomparent = filled(2*n, -1)
	s.blossomchilds = make([][]int, 2*n)
	s.blossombase = filled(2*n, -1)
	for v := 0; v < n; v++ {
		s.blossombase[v] = v
	}
	s.blossomendps = make([][]int, 2*n)
	s.bestedge = filled(2*n, -1)
	s.blossombestedges = make([][]int, 2*n)
	for b := n; b < 2*n; b++ {
		s.unusedblossoms = append(s.unusedblossoms, b)
	}
	s.dualvar = make([]int64, 2*n)
	for v := 0; v < n; v++ {
		s.dualvar[v] = maxW
	}
	s.allowedge = make([]bool, len(edges))

	return s
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// wrap maps a possibly negative position onto [0, n).
func wrap(j, n int) int {
	return ((j % n) + n) % n
}

func (s *blossomState) slack(k int) int64 {
	e := s.edges[k]

	return s.dualvar[e.i] + s.dualvar[e.j] - 2*e.w
}

func (s *blossomState) leaves(b int) []int {
	if b < s.n {
		return []int{b}
	}
	var out []int
	for _, t := range s.blossomchilds[b] {
		if t < s.n {
			out = append(out, t)
		} else {
			out = append(out, s.leaves(t)...)
		}
	}

	return out
}

// assignLabel labels w (and its top-level blossom) with t reached through
// endpoint p. A T-blossom immediately labels its mate S.
func (s *blossomState) assignLabel(w, t, p int) {
	b := s.inblossom[w]
	s.label[w], s.label[b] = t, t
	s.labelend[w], s.labelend[b] = p, p
	s.bestedge[w], s.bestedge[b] = -1, -1
	switch t {
	case labelS:
		s.queue = append(s.queue, s.leaves(b)...)
	case labelT:
		base := s.blossombase[b]
		s.assignLabel(s.endpoint[s.mate[base]], labelS, s.mate[base]^1)
	}
}

// scanBlossom walks back from v and w along alternating trees. It returns
// the base of a new blossom, or -1 if the trees differ (augmenting path).
func (s *blossomState) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inblossom[v]
		if s.label[b]&labelBreadcrumb != 0 {
			base = s.blossombase[b]
			break
		}
		path = append(path, b)
		s.label[b] = labelS | labelBreadcrumb
		if s.labelend[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelend[b]]
			b = s.inblossom[v]
			v = s.endpoint[s.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = labelS
	}

	return base
}

// addBlossom contracts the odd cycle closed by edge k into a new S-blossom
// with the given base.
func (s *blossomState) addBlossom(base, k int) {
	v, w := s.edges[k].i, s.edges[k].j
	bb := s.inblossom[base]
	bv := s.inblossom[v]
	bw := s.inblossom[w]

	b := s.unusedblossoms[len(s.unusedblossoms)-1]
	s.unusedblossoms = s.unusedblossoms[:len(s.unusedblossoms)-1]
	s.blossombase[b] = base
	s.blossomparent[b] = -1
	s.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		s.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelend[bv])
		v = s.endpoint[s.labelend[bv]]
		bv = s.inblossom[v]
	}
	path = append(path, bb)
	reverseInts(path)
	reverseInts(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		s.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelend[bw]^1)
		w = s.endpoint[s.labelend[bw]]
		bw = s.inblossom[w]
	}
	s.blossomchilds[b] = path
	s.blossomendps[b] = endps

	s.label[b] = labelS
	s.labelend[b] = s.labelend[bb]
	s.dualvar[b] = 0
	for _, leaf := range s.leaves(b) {
		if s.label[s.inblossom[leaf]] == labelT {
			s.queue = append(s.queue, leaf)
		}
		s.inblossom[leaf] = b
	}

	// least-slack edges from the new blossom to each neighbouring S-blossom
	bestedgeto := filled(2*s.n, -1)
	for _, sub := range path {
		var nblists [][]int
		if s.blossombestedges[sub] == nil {
			for _, leaf := range s.leaves(sub) {
				nb := make([]int, len(s.neighbend[leaf]))
				for i, p := range s.neighbend[leaf] {
					nb[i] = p / 2
				}
				nblists = append(nblists, nb)
			}
		} else {
			nblists = [][]int{s.blossombestedges[sub]}
		}
		for _, nblist := range nblists {
			for _, kk := range nblist {
				j := s.edges[kk].j
				if s.inblossom[j] == b {
					j = s.edges[kk].i
				}
				bj := s.inblossom[j]
				if bj != b && s.label[bj] == labelS &&
					(bestedgeto[bj] == -1 || s.slack(kk) < s.slack(bestedgeto[bj])) {
					bestedgeto[bj] = kk
				}
			}
		}
		s.blossombestedges[sub] = nil
		s.bestedge[sub] = -1
	}

	best := []int{}
	for _, kk := range bestedgeto {
		if kk != -1 {
			best = append(best, kk)
		}
	}
	s.blossombestedges[b] = best
	s.bestedge[b] = -1
	for _, kk := range best {
		if s.bestedge[b] == -1 || s.slack(kk) < s.slack(s.bestedge[b]) {
			s.bestedge[b] = kk
		}
	}
}

// expandBlossom dissolves blossom b. Outside end-of-stage, a T-blossom's
// children are relabeled so the alternating tree stays consistent.
func (s *blossomState) expandBlossom(b int, endstage bool) {
	for _, sub := range s.blossomchilds[b] {
		s.blossomparent[sub] = -1
		switch {
		case sub < s.n:
			s.inblossom[sub] = sub
		case endstage && s.dualvar[sub] == 0:
			s.expandBlossom(sub, endstage)
		default:
			for _, leaf := range s.leaves(sub) {
				s.inblossom[leaf] = sub
			}
		}
	}

	if !endstage && s.label[b] == labelT {
		childs := s.blossomchilds[b]
		endps := s.blossomendps[b]
		nc := len(childs)

		entrychild := s.inblossom[s.endpoint[s.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			j -= nc
			jstep, endptrick = 1, 0
		} else {
			jstep, endptrick = -1, 1
		}

		// relabel the even-length path from the entry child to the base
		p := s.labelend[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = labelFree
			s.label[s.endpoint[endps[wrap(j-endptrick, nc)]^endptrick^1]] = labelFree
			s.assignLabel(s.endpoint[p^1], labelT, p)
			s.allowedge[endps[wrap(j-endptrick, nc)]/2] = true
			j += jstep
			p = endps[wrap(j-endptrick, nc)] ^ endptrick
			s.allowedge[p/2] = true
			j += jstep
		}

		bv := childs[wrap(j, nc)]
		s.label[s.endpoint[p^1]], s.label[bv] = labelT, labelT
		s.labelend[s.endpoint[p^1]], s.labelend[bv] = p, p
		s.bestedge[bv] = -1

		// children on the odd path that were reached get their T-label back
		j += jstep
		for childs[wrap(j, nc)] != entrychild {
			bv = childs[wrap(j, nc)]
			if s.label[bv] == labelS {
				j += jstep
				continue
			}
			v := -1
			for _, leaf := range s.leaves(bv) {
				v = leaf
				if s.label[leaf] != labelFree {
					break
				}
			}
			if v >= 0 && s.label[v] != labelFree {
				s.label[v] = labelFree
				s.label[s.endpoint[s.mate[s.blossombase[bv]]]] = labelFree
				s.assignLabel(v, labelT, s.labelend[v])
			}
			j += jstep
		}
	}

	s.label[b], s.labelend[b] = -1, -1
	s.blossomchilds[b], s.blossomendps[b] = nil, nil
	s.blossombase[b] = -1
	s.blossombestedges[b] = nil
	s.bestedge[b] = -1
	s.unusedblossoms = append(s.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges inside b along the path
// from vertex v to the base, making v the new base.
func (s *blossomState) augmentBlossom(b, v int) {
	t := v
	for s.blossomparent[t] != b {
		t = s.blossomparent[t]
	}
	if t >= s.n {
		s.augmentBlossom(t, v)
	}

	childs := s.blossomchilds[b]
	endps := s.blossomendps[b]
	nc := len(childs)

	i := indexOf(childs, t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= nc
		jstep, endptrick = 1, 0
	} else {
		jstep, endptrick = -1, 1
	}
	for j != 0 {
		j += jstep
		t = childs[wrap(j, nc)]
		p := endps[wrap(j-endptrick, nc)] ^ endptrick
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = childs[wrap(j, nc)]
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}

	s.blossomchilds[b] = rotate(childs, i)
	s.blossomendps[b] = rotate(endps, i)
	s.blossombase[b] = s.blossombase[s.blossomchilds[b][0]]
}

// augmentMatching flips the augmenting path through edge k.
func (s *blossomState) augmentMatching(k int) {
	v, w := s.edges[k].i, s.edges[k].j
	for _, start := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		sv, p := start[0], start[1]
		for {
			bs := s.inblossom[sv]
			if bs >= s.n {
				s.augmentBlossom(bs, sv)
			}
			s.mate[sv] = p
			if s.labelend[bs] == -1 {
				break
			}
			t := s.endpoint[s.labelend[bs]]
			bt := s.inblossom[t]
			sv = s.endpoint[s.labelend[bt]]
			j := s.endpoint[s.labelend[bt]^1]
			if bt >= s.n {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelend[bt]
			p = s.labelend[bt] ^ 1
		}
	}
}

// run executes up to n stages, each growing the matching by one edge, and
// returns mate as vertex ids (-1 for unmatched).
func (s *blossomState) run() []int {
	n := s.n
	for stage := 0; stage < n; stage++ {
		for i := range s.label {
			s.label[i] = labelFree
			s.bestedge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			s.blossombestedges[b] = nil
		}
		for k := range s.allowedge {
			s.allowedge[k] = false
		}
		s.queue = s.queue[:0]

		for v := 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inblossom[v]] == labelFree {
				s.assignLabel(v, labelS, -1)
			}
		}

		var augmented bool
		for {
			augmented = s.scan()
			if augmented {
				break
			}
			if done := s.adjustDuals(); done {
				break
			}
		}
		if !augmented {
			break
		}

		// end of stage: expand S-blossoms with zero dual
		for b := n; b < 2*n; b++ {
			if s.blossomparent[b] == -1 && s.blossombase[b] >= 0 &&
				s.label[b] == labelS && s.dualvar[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}

	mate := make([]int, n)
	for v := 0; v < n; v++ {
		mate[v] = -1
		if s.mate[v] >= 0 {
			mate[v] = s.endpoint[s.mate[v]]
		}
	}

	return mate
}

// scan grows the alternating forest from queued S-vertices over tight edges.
// It reports whether the matching was augmented.
func (s *blossomState) scan() bool {
	for len(s.queue) > 0 {
		v := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]

		for _, p := range s.neighbend[v] {
			k := p / 2
			w := s.endpoint[p]
			if s.inblossom[v] == s.inblossom[w] {
				continue
			}
			var kslack int64
			if !s.allowedge[k] {
				kslack = s.slack(k)
				if kslack <= 0 {
					s.allowedge[k] = true
				}
			}

			switch {
			case s.allowedge[k]:
				switch {
				case s.label[s.inblossom[w]] == labelFree:
					s.assignLabel(w, labelT, p^1)
				case s.label[s.inblossom[w]] == labelS:
					if base := s.scanBlossom(v, w); base >= 0 {
						s.addBlossom(base, k)
					} else {
						s.augmentMatching(k)

						return true
					}
				case s.label[w] == labelFree:
					s.label[w] = labelT
					s.labelend[w] = p ^ 1
				}
			case s.label[s.inblossom[w]] == labelS:
				b := s.inblossom[v]
				if s.bestedge[b] == -1 || kslack < s.slack(s.bestedge[b]) {
					s.bestedge[b] = k
				}
			case s.label[w] == labelFree:
				if s.bestedge[w] == -1 || kslack < s.slack(s.bestedge[w]) {
					s.bestedge[w] = k
				}
			}
		}
	}

	return false
}

// adjustDuals applies the largest dual change that keeps every slack
// non-negative, then acts on the constraint that became tight. It reports
// whether the stage is over without augmentation.
func (s *blossomState) adjustDuals() bool {
	n := s.n
	deltatype := -1
	var delta int64
	deltaedge, deltablossom := -1, -1

	// type 2: S-vertex to free vertex
	for v := 0; v < n; v++ {
		if s.label[s.inblossom[v]] == labelFree && s.bestedge[v] != -1 {
			d := s.slack(s.bestedge[v])
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 2, s.bestedge[v]
			}
		}
	}
	// type 3: half the slack between two S-blossoms
	for b := 0; b < 2*n; b++ {
		if s.blossomparent[b] == -1 && s.label[b] == labelS && s.bestedge[b] != -1 {
			d := s.slack(s.bestedge[b]) / 2
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 3, s.bestedge[b]
			}
		}
	}
	// type 4: dual of a T-blossom reaches zero
	for b := n; b < 2*n; b++ {
		if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 && s.label[b] == labelT &&
			(deltatype == -1 || s.dualvar[b] < delta) {
			delta, deltatype, deltablossom = s.dualvar[b], 4, b
		}
	}
	if deltatype == -1 {
		// no further progress possible: maximum cardinality reached
		deltatype = 1
		delta = s.dualvar[0]
		for v := 1; v < n; v++ {
			if s.dualvar[v] < delta {
				delta = s.dualvar[v]
			}
		}
		if delta < 0 {
			delta = 0
		}
	}

	for v := 0; v < n; v++ {
		switch s.label[s.inblossom[v]] {
		case labelS:
			s.dualvar[v] -= delta
		case labelT:
			s.dualvar[v] += delta
		}
	}
	for b := n; b < 2*n; b++ {
		if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 {
			switch s.label[b] {
			case labelS:
				s.dualvar[b] += delta
			case labelT:
				s.dualvar[b] -= delta
			}
		}
	}

	switch deltatype {
	case 1:
		return true
	case 2:
		s.allowedge[deltaedge] = true
		i, j := s.edges[deltaedge].i, s.edges[deltaedge].j
		if s.label[s.inblossom[i]] == labelFree {
			i = j
		}
		s.queue = append(s.queue, i)
	case 3:
		s.allowedge[deltaedge] = true
		s.queue = append(s.queue, s.edges[deltaedge].i)
	case 4:
		s.expandBlossom(deltablossom, false)
	}

	return false
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}

	return -1
}

func reverseInts(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

func rotate(xs []int, i int) []int {
	out := make([]int, 0, len(xs))
	out = append(out, xs[i:]...)

	return append(out, xs[:i]...)
}
