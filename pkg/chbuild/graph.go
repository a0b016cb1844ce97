// Package chbuild turns a plain node-based edge graph into the
// segmented, node-range-sharded CH graph files that pkg/chshard and
// pkg/chfacade serve at query time. It is the bridge the system
// overview calls "downstream contraction tools."
package chbuild

// InputEdge is one directed original-graph edge as produced by the
// extraction pipeline's edge file.
type InputEdge struct {
	From, To   uint32
	Weight     uint32
	Forward    bool
	Backward   bool
	GeometryID uint32
}

// Graph is a plain node count plus flat list of original edges, built
// once before contraction.
type Graph struct {
	NumNodes uint32
	Edges    []InputEdge
}

// adjEntry is one entry in the mutable adjacency lists contraction
// builds up and mutates as shortcuts are discovered.
type adjEntry struct {
	to         uint32
	weight     uint32
	middle     int32 // -1 for original edges, else the contracted middle node
	geometryID uint32
}
