// Package density implements the "in-town?" query over a forest of
// administrative boundary trees (pkg/boundary).
package density

import (
	"github.com/raymond0/osrm-backend/pkg/boundary"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

// Classifier answers in-town queries against a loaded BoundaryList. The
// ordering of top-level countries in the list is insignificant, since
// country membership is a disjoint union.
type Classifier struct {
	list boundary.BoundaryList
}

// New wraps an already-parsed BoundaryList.
func New(list boundary.BoundaryList) *Classifier {
	return &Classifier{list: list}
}

// IsInTown projects fp to the planar coordinate and reports whether it
// falls in any top-level country's in-town region, at that country's own
// target density threshold.
func (c *Classifier) IsInTown(fp geo.FC) bool {
	p := geo.Project(fp)
	for i := range c.list.Countries {
		country := &c.list.Countries[i]
		if country.IsInTown(p, country.TargetDensity) {
			return true
		}
	}
	return false
}
