package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/qudec/core"
)

// Dijkstra computes shortest distances from source to the vertices of g.
//
// Returns a Result whose Dist/Prev slices span g.IDSpan(). With WithTargets,
// only the targets (and vertices popped before the last target) are
// guaranteed final; other entries may hold tentative distances.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. g must contain source and every target (ErrVertexNotFound).
//  3. No traversed edge may have a negative cost (ErrNegativeWeight).
//
// Complexity:
//
//   - Time:  O((V + E) log V), less with targets.
//   - Space: O(V + E)
func Dijkstra(g *core.Graph, source int, opts ...Option) (*Result, error) {
	// 1) Build Options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs
	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.HasVertex(source) {
		return nil, fmt.Errorf("%w: source %d", ErrVertexNotFound, source)
	}

	n := g.IDSpan()
	r := &runner{
		g:       g,
		options: cfg,
		res: &Result{
			Source: source,
			Dist:   make([]int64, n),
			Prev:   make([]int, n),
		},
		visited: make([]bool, n),
	}

	// 3) Register targets; the source is finalized first so it never counts.
	if cfg.Targets != nil {
		r.isTarget = make([]bool, n)
		for _, t := range cfg.Targets {
			if !g.HasVertex(t) {
				return nil, fmt.Errorf("%w: target %d", ErrVertexNotFound, t)
			}
			if !r.isTarget[t] {
				r.isTarget[t] = true
				r.pending++
			}
		}
	}

	// 4) Run
	r.init()
	if err := r.process(); err != nil {
		return nil, err
	}

	return r.res, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g        *core.Graph
	options  Options
	res      *Result
	visited  []bool
	isTarget []bool // nil when no early termination
	pending  int    // targets not yet finalized
	pq       nodePQ
}

// init sets every distance to Inf, every predecessor to NoPrev and pushes the source.
func (r *runner) init() {
	for i := range r.res.Dist {
		r.res.Dist[i] = Inf
		r.res.Prev[i] = NoPrev
	}
	r.res.Dist[r.res.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.res.Source, dist: 0})
}

// process pops vertices in distance order until the heap is empty, the cap is
// exceeded, or every target has been finalized.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[u] = true

		if r.isTarget != nil && r.isTarget[u] {
			r.pending--
			if r.pending == 0 {
				return nil
			}
		}

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax examines each edge incident to u and improves neighbor distances.
func (r *runner) relax(u int) error {
	neighbors, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get neighbors of %d: %w", u, err)
	}

	du := r.res.Dist[u]
	for _, e := range neighbors {
		v := e.Other(u)
		if r.visited[v] {
			continue
		}

		w := r.options.WeightFn(e)
		if w < 0 {
			return fmt.Errorf("%w: edge %d-%d weight=%d", ErrNegativeWeight, e.U, e.V, w)
		}
		if w >= r.options.InfEdgeThreshold {
			continue
		}

		nd := du + w
		if nd > r.options.MaxDistance || nd >= r.res.Dist[v] {
			continue
		}
		r.res.Dist[v] = nd
		r.res.Prev[v] = u
		heap.Push(&r.pq, &nodeItem{id: v, dist: nd})
	}

	return nil
}

// Path reconstructs the vertex sequence src → dst from a predecessor slice.
// A path from a vertex to itself is the single-element slice [src].
//
// Complexity: O(path length).
func Path(prev []int, src, dst int) ([]int, error) {
	if dst < 0 || dst >= len(prev) || src < 0 || src >= len(prev) {
		return nil, fmt.Errorf("%w: %d→%d out of range", ErrNoPath, src, dst)
	}

	path := []int{dst}
	for cur := dst; cur != src; {
		cur = prev[cur]
		if cur == NoPrev || len(path) > len(prev) {
			return nil, fmt.Errorf("%w: %d→%d", ErrNoPath, src, dst)
		}
		path = append(path, cur)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// nodeItem is a vertex and its tentative distance in the priority queue.
type nodeItem struct {
	id   int
	dist int64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, using lazy decrease-key.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

// Less orders by distance, then by id for deterministic tie-breaking.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
