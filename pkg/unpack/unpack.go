// Package unpack expands a path of CH overlay nodes into the original
// edges it represents, by recursively resolving shortcut edges back to
// their middle node.
package unpack

import (
	"errors"
	"fmt"

	"github.com/raymond0/osrm-backend/pkg/chfacade"
	"github.com/raymond0/osrm-backend/pkg/chshard"
)

// ErrSegmentationFailure is returned when neither a forward nor a
// backward edge can be located for a hop during unpacking, typically
// indicating a missing shard.
var ErrSegmentationFailure = errors.New("unpack: segmentation failure")

// maxUnpackDepth bounds the explicit stack so a corrupt or cyclic
// shortcut chain cannot unpack forever.
const maxUnpackDepth = 200

type hop struct {
	a, b  chshard.NID
	depth int
}

// EmitFunc is invoked once per original (non-shortcut) edge produced by
// expanding a shortcut path, in forward order along the path.
type EmitFunc func(from, to chshard.NID, edge chshard.Edge) error

// Unpack expands the CH overlay path given by the ordered node list
// `path` against facade f, invoking emit once per original edge in
// forward order. The concatenation of emitted edges is a contiguous
// path from path[0] to path[len(path)-1] in the original graph.
func Unpack(f *chfacade.Facade, path []chshard.NID, emit EmitFunc) error {
	for i := 0; i+1 < len(path); i++ {
		if err := unpackHop(f, path[i], path[i+1], emit); err != nil {
			return err
		}
	}
	return nil
}

// unpackHop expands a single (a, b) overlay hop using an explicit stack
// so arbitrarily deep shortcut chains don't recurse on the Go call
// stack. Stack items are pushed in reverse order (right half then left
// half) so the left half is popped and processed first, preserving
// forward emission order.
func unpackHop(f *chfacade.Facade, a, b chshard.NID, emit EmitFunc) error {
	stack := []hop{{a, b, 0}}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if h.depth > maxUnpackDepth {
			return fmt.Errorf("%w: max unpack depth exceeded between %d and %d", ErrSegmentationFailure, h.a, h.b)
		}

		edge, err := findDirectedEdge(f, h.a, h.b)
		if err != nil {
			return err
		}

		if middle, ok := edge.MiddleNode(); edge.Shortcut && ok {
			// Push the right half first so the left half pops next (LIFO).
			stack = append(stack, hop{middle, h.b, h.depth + 1})
			stack = append(stack, hop{h.a, middle, h.depth + 1})
			continue
		}

		if err := emit(h.a, h.b, edge); err != nil {
			return err
		}
	}
	return nil
}

// findDirectedEdge tries findSmallestForward(a,b) first, then
// findSmallestBackward(b,a), per §4.G. A node that no loaded shard owns
// counts as "no edge found" on that side, so a missing shard ends in
// ErrSegmentationFailure.
func findDirectedEdge(f *chfacade.Facade, a, b chshard.NID) (chshard.Edge, error) {
	if edge, ok, err := f.FindSmallestForward(a, b); err != nil && !errors.Is(err, chfacade.ErrNodeNotResolvable) {
		return chshard.Edge{}, err
	} else if ok {
		return edge, nil
	}
	if edge, ok, err := f.FindSmallestBackward(b, a); err != nil && !errors.Is(err, chfacade.ErrNodeNotResolvable) {
		return chshard.Edge{}, err
	} else if ok {
		return edge, nil
	}
	return chshard.Edge{}, fmt.Errorf("%w: no edge between %d and %d", ErrSegmentationFailure, a, b)
}
