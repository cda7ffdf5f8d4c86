package diff

import (
	"sort"

	"dxf-toolkit/pkg/geometry"
)

// fingerprint is the coarse bucketing key: shape kind, layer (when layer
// sensitivity is on), block/tag name, and the anchor's cell on a grid one
// order of magnitude coarser than the tolerance. Distinct geometry may share
// a fingerprint; the matcher resolves collisions by exact comparison.
type fingerprint struct {
	kind  Kind
	layer string
	name  string
	cell  geometry.Cell
}

// groupKey identifies entities that could in principle match regardless of
// position: same kind, same block/tag name, and same layer when layer
// sensitivity is on. The position band searches within a group because a
// band wider than the fingerprint grid reaches beyond neighboring cells.
type groupKey struct {
	kind  Kind
	layer string
	name  string
}

// candidate wraps an indexed entity with its consumption state.
type candidate struct {
	n        *Normalized
	consumed bool
}

// Index buckets one drawing's normalized entities by fingerprint so the
// matcher can pair entities in near-linear time instead of O(n^2) pairwise
// scans. Insertion order is preserved within each bucket.
type Index struct {
	buckets map[fingerprint][]*candidate
	groups  map[groupKey][]*candidate
	step    float64
	layers  bool
	all     []*candidate
}

// NewIndex builds a fingerprint index over a normalized entity set.
func NewIndex(entities []*Normalized, cfg Config) *Index {
	idx := &Index{
		buckets: make(map[fingerprint][]*candidate, len(entities)),
		groups:  make(map[groupKey][]*candidate),
		step:    cfg.fingerprintStep(),
		layers:  cfg.LayerSensitive,
	}
	for _, n := range entities {
		c := &candidate{n: n}
		key := idx.keyFor(n, geometry.CellOf(n.Anchor, idx.step))
		idx.buckets[key] = append(idx.buckets[key], c)
		g := idx.groupFor(n)
		idx.groups[g] = append(idx.groups[g], c)
		idx.all = append(idx.all, c)
	}
	return idx
}

func (idx *Index) groupFor(n *Normalized) groupKey {
	g := groupKey{kind: n.Kind, name: n.Name}
	if idx.layers {
		g.layer = n.Layer
	}
	return g
}

func (idx *Index) keyFor(n *Normalized, cell geometry.Cell) fingerprint {
	key := fingerprint{kind: n.Kind, name: n.Name, cell: cell}
	if idx.layers {
		key.layer = n.Layer
	}
	return key
}

// cellOf returns the fingerprint cell for an entity in this index's grid.
func (idx *Index) cellOf(n *Normalized) geometry.Cell {
	return geometry.CellOf(n.Anchor, idx.step)
}

// Candidates returns the unconsumed entities whose fingerprint cell is the
// query's cell or one of its 26 neighbors, ordered by original document
// position. Probing neighbors guarantees an anchor within tolerance is never
// lost to a quantization boundary.
func (idx *Index) Candidates(n *Normalized) []*candidate {
	center := idx.cellOf(n)
	var out []*candidate
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				cell := geometry.Cell{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}
				for _, c := range idx.buckets[idx.keyFor(n, cell)] {
					if !c.consumed {
						out = append(out, c)
					}
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n.ord < out[j].n.ord })
	return out
}

// GroupCandidates returns the unconsumed entities of the query's match group
// (same kind, name and, when layer sensitivity is on, layer) regardless of
// position, ordered by original document position. Used for the position
// band, whose radius is independent of the fingerprint grid.
func (idx *Index) GroupCandidates(n *Normalized) []*candidate {
	var out []*candidate
	for _, c := range idx.groups[idx.groupFor(n)] {
		if !c.consumed {
			out = append(out, c)
		}
	}
	return out
}

// Unconsumed returns every entity never claimed by the matcher, in original
// document order.
func (idx *Index) Unconsumed() []*Normalized {
	var out []*Normalized
	for _, c := range idx.all {
		if !c.consumed {
			out = append(out, c.n)
		}
	}
	return out
}
