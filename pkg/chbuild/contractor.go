package chbuild

import (
	"container/heap"
	"log"
	"time"
)

// maxShortcutsPerNode bounds how many shortcuts a single contraction
// step may introduce; nodes that would exceed it are pushed to the
// core and contracted last, same cutoff the teacher uses to keep the
// overlay from blowing up on dense cores.
const maxShortcutsPerNode = 1000

// pqEntry is one node's current contraction priority.
type pqEntry struct {
	node     uint32
	priority int64
}

// priorityQueue is a container/heap-backed min-priority-queue over
// pqEntry, indexed by node so priorities can be updated lazily.
type priorityQueue struct {
	items []pqEntry
	index map[uint32]int
}

func newPriorityQueue(n int) *priorityQueue {
	return &priorityQueue{
		items: make([]pqEntry, 0, n),
		index: make(map[uint32]int, n),
	}
}

func (pq *priorityQueue) Len() int { return len(pq.items) }
func (pq *priorityQueue) Less(i, j int) bool {
	return pq.items[i].priority < pq.items[j].priority
}
func (pq *priorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.index[pq.items[i].node] = i
	pq.index[pq.items[j].node] = j
}
func (pq *priorityQueue) Push(x any) {
	e := x.(pqEntry)
	pq.index[e.node] = len(pq.items)
	pq.items = append(pq.items, e)
}
func (pq *priorityQueue) Pop() any {
	n := len(pq.items)
	e := pq.items[n-1]
	pq.items = pq.items[:n-1]
	delete(pq.index, e.node)
	return e
}

func (pq *priorityQueue) update(node uint32, priority int64) {
	i, ok := pq.index[node]
	if !ok {
		heap.Push(pq, pqEntry{node, priority})
		return
	}
	pq.items[i].priority = priority
	heap.Fix(pq, i)
}

// contractionGraph holds the mutable forward/backward adjacency lists
// that contraction rewrites in place as shortcuts are found, plus the
// bookkeeping needed to compute node priorities.
type contractionGraph struct {
	outAdj             [][]adjEntry
	inAdj              [][]adjEntry
	contracted         []bool
	contractedNeighbor []int32
	level              []int32
	rank               []uint32
}

func newContractionGraph(g *Graph) *contractionGraph {
	cg := &contractionGraph{
		outAdj:             make([][]adjEntry, g.NumNodes),
		inAdj:              make([][]adjEntry, g.NumNodes),
		contracted:         make([]bool, g.NumNodes),
		contractedNeighbor: make([]int32, g.NumNodes),
		level:              make([]int32, g.NumNodes),
		rank:               make([]uint32, g.NumNodes),
	}
	for _, e := range g.Edges {
		if e.Forward {
			cg.outAdj[e.From] = append(cg.outAdj[e.From], adjEntry{to: e.To, weight: e.Weight, middle: -1, geometryID: e.GeometryID})
			cg.inAdj[e.To] = append(cg.inAdj[e.To], adjEntry{to: e.From, weight: e.Weight, middle: -1, geometryID: e.GeometryID})
		}
		if e.Backward {
			cg.outAdj[e.To] = append(cg.outAdj[e.To], adjEntry{to: e.From, weight: e.Weight, middle: -1, geometryID: e.GeometryID})
			cg.inAdj[e.From] = append(cg.inAdj[e.From], adjEntry{to: e.To, weight: e.Weight, middle: -1, geometryID: e.GeometryID})
		}
	}
	return cg
}

// computePriority follows the teacher's edge-difference heuristic:
// (shortcuts that would be added - edges that would be removed), plus
// a tiebreak nudging toward contracting already-contracted-adjacent
// and high-level nodes later.
func computePriority(cg *contractionGraph, ws *witnessState, node uint32) int64 {
	shortcuts, _ := findShortcuts(cg, ws, node, false)
	removed := len(cg.inAdj[node]) + len(cg.outAdj[node])
	edgeDiff := len(shortcuts) - removed
	return int64(edgeDiff)*1 + int64(cg.contractedNeighbor[node])*2 + int64(cg.level[node])
}

// shortcutToAdd is a pending shortcut discovered by findShortcuts,
// not yet spliced into the adjacency lists.
type shortcutToAdd struct {
	from, to uint32
	weight   uint32
	forward  bool
	backward bool
}

// findShortcuts runs one batch witness search per in-neighbor of node
// and, for each out-neighbor not covered by a cheaper witness path,
// records the shortcut that would have to be added if node were
// contracted now. When apply is true the shortcuts are spliced into
// cg's adjacency lists and node is marked contracted.
func findShortcuts(cg *contractionGraph, ws *witnessState, node uint32, apply bool) ([]shortcutToAdd, int) {
	var shortcuts []shortcutToAdd

	maxOut := uint32(0)
	for _, e := range cg.outAdj[node] {
		if !cg.contracted[e.to] && e.weight > maxOut {
			maxOut = e.weight
		}
	}

	for _, in := range cg.inAdj[node] {
		if cg.contracted[in.to] {
			continue
		}
		maxWeight := in.weight + maxOut
		batchWitnessSearch(ws, cg.outAdj, in.to, node, maxWeight, cg.contracted)

		for _, out := range cg.outAdj[node] {
			if cg.contracted[out.to] || out.to == in.to {
				continue
			}
			viaWeight := in.weight + out.weight
			if ws.dist[out.to] <= viaWeight {
				continue // a witness path beats going through node
			}
			shortcuts = append(shortcuts, shortcutToAdd{
				from: in.to, to: out.to, weight: viaWeight, forward: true, backward: false,
			})
		}
	}

	if apply {
		for _, sc := range shortcuts {
			cg.outAdj[sc.from] = append(cg.outAdj[sc.from], adjEntry{to: sc.to, weight: sc.weight, middle: int32(node), geometryID: 0})
			cg.inAdj[sc.to] = append(cg.inAdj[sc.to], adjEntry{to: sc.from, weight: sc.weight, middle: int32(node), geometryID: 0})
		}
		cg.contracted[node] = true
		for _, e := range cg.outAdj[node] {
			cg.contractedNeighbor[e.to]++
		}
		for _, e := range cg.inAdj[node] {
			cg.contractedNeighbor[e.to]++
		}
	}

	return shortcuts, len(cg.inAdj[node]) + len(cg.outAdj[node])
}

// ContractionResult is the overlay produced by Contract: every node's
// contraction rank plus the forward/backward upward graphs that only
// contain edges directed from a lower-rank node to a higher-rank one
// (including shortcuts), ready to be serialized by BuildShards.
type ContractionResult struct {
	NumNodes uint32
	Rank     []uint32
	Forward  [][]adjEntry
	Backward [][]adjEntry
}

// Contract runs node-ordering contraction over g: nodes are repeatedly
// popped off a priority queue (lowest edge-difference first), their
// shortcuts are added, and their neighbors' priorities are refreshed.
// Nodes whose shortcut count would exceed maxShortcutsPerNode are
// deferred to a core processed last, in arbitrary remaining order.
func Contract(g *Graph) *ContractionResult {
	start := time.Now()
	cg := newContractionGraph(g)
	ws := newWitnessState(g.NumNodes)

	pq := newPriorityQueue(int(g.NumNodes))
	for n := uint32(0); n < g.NumNodes; n++ {
		heap.Push(pq, pqEntry{n, computePriority(cg, ws, n)})
	}

	var core []uint32
	nextRank := uint32(0)

	logInterval := 50000
	processed := 0

	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqEntry)
		node := top.node
		if cg.contracted[node] {
			continue
		}

		fresh := computePriority(cg, ws, node)
		if fresh > top.priority {
			pq.update(node, fresh)
			continue
		}

		shortcuts, _ := findShortcuts(cg, ws, node, false)
		if len(shortcuts) > maxShortcutsPerNode {
			core = append(core, node)
			continue
		}

		findShortcuts(cg, ws, node, true)
		cg.rank[node] = nextRank
		nextRank++

		for _, e := range cg.outAdj[node] {
			if !cg.contracted[e.to] {
				pq.update(e.to, computePriority(cg, ws, e.to))
			}
		}
		for _, e := range cg.inAdj[node] {
			if !cg.contracted[e.to] {
				pq.update(e.to, computePriority(cg, ws, e.to))
			}
		}

		processed++
		if processed%logInterval == 0 {
			log.Printf("chbuild: contracted %d/%d nodes (%s)", processed, g.NumNodes, time.Since(start))
			switch logInterval {
			case 50000:
				logInterval = 10000
			case 10000:
				logInterval = 1000
			case 1000:
				logInterval = 100
			}
		}
	}

	for _, node := range core {
		if cg.contracted[node] {
			continue
		}
		findShortcuts(cg, ws, node, true)
		cg.rank[node] = nextRank
		nextRank++
	}

	log.Printf("chbuild: contraction done, %d nodes ranked (%s)", nextRank, time.Since(start))

	return buildOverlay(g.NumNodes, cg)
}

// buildOverlay keeps, from the fully-contracted adjacency lists, only
// the edges that point from a lower-rank node to a higher-rank node
// (the upward graph queries search over), split into forward and
// backward directions.
func buildOverlay(numNodes uint32, cg *contractionGraph) *ContractionResult {
	res := &ContractionResult{
		NumNodes: numNodes,
		Rank:     cg.rank,
		Forward:  make([][]adjEntry, numNodes),
		Backward: make([][]adjEntry, numNodes),
	}
	for n := uint32(0); n < numNodes; n++ {
		for _, e := range cg.outAdj[n] {
			if cg.rank[e.to] > cg.rank[n] {
				res.Forward[n] = append(res.Forward[n], e)
			}
		}
		for _, e := range cg.inAdj[n] {
			if cg.rank[e.to] > cg.rank[n] {
				res.Backward[n] = append(res.Backward[n], e)
			}
		}
	}
	return res
}
