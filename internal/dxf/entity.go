// Package dxf provides a typed document model for DXF drawings plus an ASCII
// tag reader and writer. It covers the subset of DXF the toolkit needs:
// modelspace entities, block definitions, the layer table, and header
// variables. It is not a full CAD kernel.
package dxf

import (
	"regexp"
	"strings"

	"dxf-toolkit/pkg/geometry"
)

// Type identifies a DXF entity kind (the value of group code 0).
type Type string

// Entity types the toolkit understands. Anything else is carried through
// untyped with its raw tags intact.
const (
	TypeLine       Type = "LINE"
	TypeCircle     Type = "CIRCLE"
	TypeArc        Type = "ARC"
	TypeLWPolyline Type = "LWPOLYLINE"
	TypePolyline   Type = "POLYLINE"
	TypeText       Type = "TEXT"
	TypeMText      Type = "MTEXT"
	TypeInsert     Type = "INSERT"
	TypePoint      Type = "POINT"
	TypeAttrib     Type = "ATTRIB"
)

// Tag is one group-code/value pair as it appears in the file.
type Tag struct {
	Code  int
	Value string
}

// Entity is a single drawing primitive. Geometry fields are populated
// according to Type; unused fields stay zero.
type Entity struct {
	Type   Type
	Handle string
	Layer  string
	Color  int // AutoCAD color index, 256 = by layer

	Start Point // LINE start
	End   Point // LINE end

	Center     Point   // CIRCLE, ARC
	Radius     float64 // CIRCLE, ARC
	StartAngle float64 // ARC, degrees
	EndAngle   float64 // ARC, degrees

	Vertices []Point // LWPOLYLINE, POLYLINE
	Closed   bool    // LWPOLYLINE, POLYLINE

	Insert   Point   // TEXT, MTEXT, INSERT, POINT, ATTRIB insertion/location
	Height   float64 // TEXT, MTEXT, ATTRIB
	Rotation float64 // degrees
	Text     string  // TEXT, MTEXT (raw, including inline format codes), ATTRIB value
	AttTag   string  // ATTRIB tag name

	BlockName              string  // INSERT
	ScaleX, ScaleY, ScaleZ float64 // INSERT, default 1

	Attribs []*Entity // ATTRIB entities attached to an INSERT

	// Tags holds the raw group-code pairs the entity was read from,
	// in file order. Empty for entities built in memory.
	Tags []Tag
}

// Point is an alias kept local so callers importing dxf alone get coordinates.
type Point = geometry.Point3

var mtextFormatCode = regexp.MustCompile(`\\[A-Za-z0-9.]+;`)

// PlainText returns the entity's text content with MTEXT inline format codes
// removed and paragraph breaks collapsed to single spaces.
func (e *Entity) PlainText() string {
	text := mtextFormatCode.ReplaceAllString(e.Text, "")
	text = strings.ReplaceAll(text, `\P`, " ")
	return strings.TrimSpace(text)
}

// IsTextBearing reports whether the entity carries label content.
func (e *Entity) IsTextBearing() bool {
	switch e.Type {
	case TypeText, TypeMText, TypeAttrib:
		return true
	}
	return false
}
