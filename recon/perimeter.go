package recon

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/venuekit/floorplan/plan"
)

// Perimeter extracts the closed point loop bounding the room, or nil when
// the wall graph contains no usable cycle (open chains, trees, fewer than
// three points). Cycles are collected by depth-first search with back-edge
// tracking; among all cycles the one enclosing the largest area wins, so a
// branching layout degrades to "the biggest room" instead of an arbitrary
// walk.
func Perimeter(doc *plan.Document) []plan.Point {
	adj := adjacency(doc)
	if len(adj) < 3 {
		return nil
	}

	// Deterministic traversal order keeps output stable across runs.
	nodes := make([]int, 0, len(adj))
	for id := range adj {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)

	var (
		best     []int
		bestArea float64
		visited  = map[int]bool{}
		onStack  = map[int]int{} // node -> index in stack
		stack    []int
	)

	consider := func(cycle []int) {
		if len(cycle) < 3 {
			return
		}
		if area := loopArea(doc, cycle); area > bestArea {
			bestArea = area
			best = append(best[:0], cycle...)
		}
	}

	var dfs func(node, parent int)
	dfs = func(node, parent int) {
		visited[node] = true
		onStack[node] = len(stack)
		stack = append(stack, node)
		for _, nb := range adj[node] {
			if nb == parent {
				continue
			}
			if pos, ok := onStack[nb]; ok {
				// back edge: the stack slice from nb to node is a cycle
				consider(stack[pos:])
				continue
			}
			if !visited[nb] {
				dfs(nb, node)
			}
		}
		delete(onStack, node)
		stack = stack[:len(stack)-1]
	}

	for _, id := range nodes {
		if !visited[id] {
			dfs(id, -1)
		}
	}
	if best == nil {
		return nil
	}

	out := make([]plan.Point, 0, len(best))
	for _, id := range best {
		p, ok := doc.Point(id)
		if !ok {
			return nil
		}
		out = append(out, *p)
	}
	return out
}

// adjacency builds the undirected point-id graph of wall endpoints,
// skipping zero-length walls and deduplicating parallel edges.
func adjacency(doc *plan.Document) map[int][]int {
	adj := map[int][]int{}
	seen := map[[2]int]bool{}
	for _, w := range doc.Walls {
		a, b, ok := doc.WallEnds(w)
		if !ok || a.Equal(b) {
			continue
		}
		key := [2]int{w.StartPointID, w.EndPointID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[w.StartPointID] = append(adj[w.StartPointID], w.EndPointID)
		adj[w.EndPointID] = append(adj[w.EndPointID], w.StartPointID)
	}
	for _, nbs := range adj {
		sort.Ints(nbs)
	}
	return adj
}

// loopArea is the absolute shoelace area of a point-id loop, in square
// plan pixels.
func loopArea(doc *plan.Document, loop []int) float64 {
	var sum float64
	n := len(loop)
	for i := 0; i < n; i++ {
		p, okP := doc.Point(loop[i])
		q, okQ := doc.Point(loop[(i+1)%n])
		if !okP || !okQ {
			return 0
		}
		sum += p.X*q.Y - q.X*p.Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// ringArea is the signed shoelace area of a 2D ring in the plan's
// pixel-down convention.
func ringArea(ring []cp.Vector) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		p, q := ring[i], ring[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Triangulate ear-clips a simple polygon given as an open ring of plan
// vertices, returning index triples into the ring. Degenerate input yields
// nil.
func Triangulate(ring []cp.Vector) [][3]int {
	n := len(ring)
	if n < 3 {
		return nil
	}

	// Work on a counter-clockwise copy (positive shoelace in plan coords).
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if ringArea(ring) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	var tris [][3]int
	guard := 0
	for len(idx) > 3 && guard < n*n {
		guard++
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if !isEar(ring, idx, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or collinear mess; bail with what we have.
			return tris
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isEar(ring []cp.Vector, idx []int, prev, cur, next int) bool {
	a, b, c := ring[prev], ring[cur], ring[next]
	// Convex corner in CCW order: positive cross product.
	if cross2(b.Sub(a), c.Sub(b)) <= 0 {
		return false
	}
	for _, other := range idx {
		if other == prev || other == cur || other == next {
			continue
		}
		if pointInTriangle(ring[other], a, b, c) {
			return false
		}
	}
	return true
}

func cross2(a, b cp.Vector) float64 { return a.X*b.Y - a.Y*b.X }

func pointInTriangle(p, a, b, c cp.Vector) bool {
	d1 := cross2(b.Sub(a), p.Sub(a))
	d2 := cross2(c.Sub(b), p.Sub(b))
	d3 := cross2(a.Sub(c), p.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
