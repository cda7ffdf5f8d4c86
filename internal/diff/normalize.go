package diff

import (
	"fmt"
	"math"

	"dxf-toolkit/internal/dxf"
	"dxf-toolkit/pkg/geometry"
)

// Kind is the closed set of shape tags the engine compares. Everything else
// is filtered at normalization and reported in the diagnostics.
type Kind int

const (
	KindLine Kind = iota
	KindCircle
	KindArc
	KindPolyline
	KindText // TEXT, MTEXT and ATTRIB label entities
	KindInsert
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "LINE"
	case KindCircle:
		return "CIRCLE"
	case KindArc:
		return "ARC"
	case KindPolyline:
		return "POLYLINE"
	case KindText:
		return "TEXT"
	case KindInsert:
		return "INSERT"
	case KindPoint:
		return "POINT"
	default:
		return "OTHER"
	}
}

// Normalized is the canonical, comparable form of one drawing entity.
// Two Normalized values with the same Kind, Layer, Name and a signature
// within tolerance describe the same logical shape regardless of drawing
// order or file handle.
type Normalized struct {
	Kind  Kind
	Layer string
	Name  string // block name for INSERT placements, attribute tag for ATTRIB

	// Signature is the ordered tuple of geometric values compared under the
	// configured tolerance. Values are kept unrounded; quantization happens
	// only when fingerprinting.
	Signature []float64

	// Anchor is the representative point used for fingerprint bucketing.
	Anchor geometry.Point3

	// Text is the cleaned label content for text-bearing kinds.
	Text string

	// Source points back to the originating entity (or, for expanded block
	// members, a synthetic absolute-coordinate entity). Used only to
	// materialize rendered output, never for equality.
	Source *dxf.Entity

	ord int // position in original document order
}

// Diagnostics accumulates per-entity issues that do not abort a comparison.
type Diagnostics struct {
	SkippedUnsupported int
	SkippedMalformed   int
	ByType             map[string]int
	Warnings           []string
}

// Skipped returns the total number of entities excluded from the diff.
func (d *Diagnostics) Skipped() int {
	return d.SkippedUnsupported + d.SkippedMalformed
}

// Empty reports whether there is nothing worth surfacing to the user.
func (d *Diagnostics) Empty() bool {
	return d.Skipped() == 0 && len(d.Warnings) == 0
}

func (d *Diagnostics) noteUnsupported(typ dxf.Type) {
	d.SkippedUnsupported++
	if d.ByType == nil {
		d.ByType = make(map[string]int)
	}
	d.ByType[string(typ)]++
}

func (d *Diagnostics) noteMalformed(typ dxf.Type, format string, args ...any) {
	d.SkippedMalformed++
	if d.ByType == nil {
		d.ByType = make(map[string]int)
	}
	d.ByType[string(typ)]++
	d.Warnings = append(d.Warnings, fmt.Sprintf("%s: ", typ)+fmt.Sprintf(format, args...))
}

// NormalizedSet is the normalizer output for one document.
type NormalizedSet struct {
	Entities    []*Normalized
	Diagnostics Diagnostics
}

// NormalizeDocument converts every modelspace entity of a document into its
// canonical comparable form. Unsupported and malformed entities are counted
// in the diagnostics and excluded, never silently dropped.
func NormalizeDocument(doc *dxf.Document, cfg Config) *NormalizedSet {
	set := &NormalizedSet{}
	for _, e := range doc.Entities {
		if cfg.ExpandBlocks && e.Type == dxf.TypeInsert {
			expandInsert(doc, e, cfg, set)
			continue
		}
		appendNormalized(e, cfg, set)
	}
	return set
}

func appendNormalized(e *dxf.Entity, cfg Config, set *NormalizedSet) {
	n, err := Normalize(e, cfg)
	if err != nil {
		set.Diagnostics.noteMalformed(e.Type, "%v", err)
		return
	}
	if n == nil {
		set.Diagnostics.noteUnsupported(e.Type)
		return
	}
	n.ord = len(set.Entities)
	set.Entities = append(set.Entities, n)
}

// Normalize converts one entity into its canonical form. A nil result with a
// nil error means the entity kind is outside the supported set; an error
// means the entity is malformed. Neither is a hard failure for the caller.
func Normalize(e *dxf.Entity, cfg Config) (*Normalized, error) {
	tol := cfg.Tolerance
	switch e.Type {
	case dxf.TypeLine:
		start, end := e.Start, e.End
		// Orientation-independent: the lexicographically smaller endpoint
		// (on the tolerance grid) comes first.
		qs := geometry.QuantizePoint(start, tol)
		qe := geometry.QuantizePoint(end, tol)
		if qe.Less(qs) {
			start, end = end, start
		}
		return &Normalized{
			Kind:      KindLine,
			Layer:     e.Layer,
			Signature: []float64{start.X, start.Y, start.Z, end.X, end.Y, end.Z},
			Anchor:    start,
			Source:    e,
		}, nil

	case dxf.TypeCircle:
		if e.Radius <= 0 {
			return nil, fmt.Errorf("non-positive radius %g", e.Radius)
		}
		return &Normalized{
			Kind:      KindCircle,
			Layer:     e.Layer,
			Signature: []float64{e.Center.X, e.Center.Y, e.Center.Z, e.Radius},
			Anchor:    e.Center,
			Source:    e,
		}, nil

	case dxf.TypeArc:
		if e.Radius <= 0 {
			return nil, fmt.Errorf("non-positive radius %g", e.Radius)
		}
		return &Normalized{
			Kind:  KindArc,
			Layer: e.Layer,
			Signature: []float64{
				e.Center.X, e.Center.Y, e.Center.Z, e.Radius,
				geometry.NormalizeAngle(e.StartAngle),
				geometry.NormalizeAngle(e.EndAngle),
			},
			Anchor: e.Center,
			Source: e,
		}, nil

	case dxf.TypeLWPolyline, dxf.TypePolyline:
		if len(e.Vertices) == 0 {
			return nil, fmt.Errorf("polyline with zero vertices")
		}
		verts := canonicalVertices(e.Vertices, e.Closed, tol)
		sig := make([]float64, 0, len(verts)*3)
		for _, v := range verts {
			sig = append(sig, v.X, v.Y, v.Z)
		}
		return &Normalized{
			Kind:      KindPolyline,
			Layer:     e.Layer,
			Signature: sig,
			Anchor:    verts[0],
			Source:    e,
		}, nil

	case dxf.TypeText, dxf.TypeMText, dxf.TypeAttrib:
		n := &Normalized{
			Kind:  KindText,
			Layer: e.Layer,
			Signature: []float64{
				e.Insert.X, e.Insert.Y, e.Insert.Z,
				e.Height,
				geometry.NormalizeAngle(e.Rotation),
			},
			Anchor: e.Insert,
			Text:   e.PlainText(),
			Source: e,
		}
		if e.Type == dxf.TypeAttrib {
			n.Name = e.AttTag
		}
		return n, nil

	case dxf.TypeInsert:
		return &Normalized{
			Kind:  KindInsert,
			Layer: e.Layer,
			Name:  e.BlockName,
			Signature: []float64{
				e.Insert.X, e.Insert.Y, e.Insert.Z,
				e.ScaleX, e.ScaleY, e.ScaleZ,
				geometry.NormalizeAngle(e.Rotation),
			},
			Anchor: e.Insert,
			Source: e,
		}, nil

	case dxf.TypePoint:
		return &Normalized{
			Kind:      KindPoint,
			Layer:     e.Layer,
			Signature: []float64{e.Insert.X, e.Insert.Y, e.Insert.Z},
			Anchor:    e.Insert,
			Source:    e,
		}, nil
	}
	return nil, nil
}

// canonicalVertices makes closed loops comparable independently of which
// vertex the trace started from: the loop is rotated so the
// lexicographically smallest vertex (on the tolerance grid) comes first.
// Open polylines are oriented so the smaller endpoint leads.
func canonicalVertices(verts []geometry.Point3, closed bool, tol float64) []geometry.Point3 {
	if !closed {
		first := geometry.QuantizePoint(verts[0], tol)
		last := geometry.QuantizePoint(verts[len(verts)-1], tol)
		if last.Less(first) {
			out := make([]geometry.Point3, len(verts))
			for i, v := range verts {
				out[len(verts)-1-i] = v
			}
			return out
		}
		return verts
	}

	min := 0
	for i := 1; i < len(verts); i++ {
		qi := geometry.QuantizePoint(verts[i], tol)
		qm := geometry.QuantizePoint(verts[min], tol)
		if qi.Less(qm) {
			min = i
		}
	}
	if min == 0 {
		return verts
	}
	out := make([]geometry.Point3, 0, len(verts))
	out = append(out, verts[min:]...)
	out = append(out, verts[:min]...)
	return out
}

// expandInsert flattens a block reference into its member entities at
// absolute coordinates, so a relocated block reference diffs as moved
// geometry rather than an opaque placement change.
func expandInsert(doc *dxf.Document, ins *dxf.Entity, cfg Config, set *NormalizedSet) {
	block := doc.BlockByName(ins.BlockName)
	if block == nil {
		set.Diagnostics.Warnings = append(set.Diagnostics.Warnings,
			fmt.Sprintf("INSERT: unresolved block %q, compared as placement", ins.BlockName))
		appendNormalized(ins, cfg, set)
		return
	}

	tr := geometry.InsertionTransform(ins.Insert, ins.Rotation, ins.ScaleX, ins.ScaleY, ins.ScaleZ)
	sx, sy, _ := tr.ScaleFactors()
	for _, member := range block.Entities {
		abs := transformEntity(member, tr, sx, sy)
		abs.Layer = pickLayer(member.Layer, ins.Layer)
		appendNormalized(abs, cfg, set)
	}
	for _, attrib := range ins.Attribs {
		appendNormalized(attrib, cfg, set)
	}
}

// transformEntity produces a synthetic absolute-coordinate copy of a block
// member. The copy also serves as the render source for diff output.
func transformEntity(e *dxf.Entity, tr geometry.Transform, sx, sy float64) *dxf.Entity {
	abs := *e
	abs.Tags = nil
	avgScale := (sx + sy) / 2

	switch e.Type {
	case dxf.TypeLine:
		abs.Start = tr.Apply(e.Start)
		abs.End = tr.Apply(e.End)
	case dxf.TypeCircle, dxf.TypeArc:
		abs.Center = tr.Apply(e.Center)
		abs.Radius = e.Radius * avgScale
	case dxf.TypeLWPolyline, dxf.TypePolyline:
		abs.Vertices = make([]geometry.Point3, len(e.Vertices))
		for i, v := range e.Vertices {
			abs.Vertices[i] = tr.Apply(v)
		}
	default:
		abs.Insert = tr.Apply(e.Insert)
		if e.Height > 0 {
			abs.Height = e.Height * sy
		}
	}
	return &abs
}

func pickLayer(memberLayer, insertLayer string) string {
	// Layer "0" in a block definition inherits the insertion layer.
	if memberLayer == "" || memberLayer == "0" {
		return insertLayer
	}
	return memberLayer
}

// signatureWithin reports whether two signatures agree elementwise within
// the given tolerance. A small relative slack keeps values that differ by
// exactly the tolerance on the equal side despite floating-point noise.
func signatureWithin(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	limit := tol * (1 + 1e-9)
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > limit {
			return false
		}
	}
	return true
}
