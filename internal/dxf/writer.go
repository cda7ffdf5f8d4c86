package dxf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteFile serializes a document to an ASCII DXF file.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Write(doc, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Sync()
}

// Write serializes a document as ASCII DXF: header, layer table, and
// modelspace entities. Block definitions are not written; diff output
// is flattened to modelspace before it reaches the writer.
func Write(doc *Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	out := &tagWriter{w: bw}

	out.pair(0, "SECTION")
	out.pair(2, "HEADER")
	out.pair(9, "$ACADVER")
	out.pair(1, "AC1009")
	out.pair(0, "ENDSEC")

	out.pair(0, "SECTION")
	out.pair(2, "TABLES")
	out.pair(0, "TABLE")
	out.pair(2, "LAYER")
	out.pair(70, strconv.Itoa(len(doc.Layers)))
	for _, l := range doc.Layers {
		out.pair(0, "LAYER")
		out.pair(2, l.Name)
		out.pair(70, "0")
		out.pair(62, strconv.Itoa(l.Color))
		lt := l.LineType
		if lt == "" {
			lt = "CONTINUOUS"
		}
		out.pair(6, lt)
	}
	out.pair(0, "ENDTAB")
	out.pair(0, "ENDSEC")

	out.pair(0, "SECTION")
	out.pair(2, "ENTITIES")
	for _, e := range doc.Entities {
		writeEntity(out, e)
	}
	out.pair(0, "ENDSEC")
	out.pair(0, "EOF")

	if out.err != nil {
		return out.err
	}
	return bw.Flush()
}

type tagWriter struct {
	w   io.Writer
	err error
}

func (t *tagWriter) pair(code int, value string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%d\r\n%s\r\n", code, value)
}

func (t *tagWriter) float(code int, v float64) {
	t.pair(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (t *tagWriter) point(e Point) {
	t.float(10, e.X)
	t.float(20, e.Y)
	t.float(30, e.Z)
}

func (t *tagWriter) common(e *Entity) {
	if e.Layer != "" {
		t.pair(8, e.Layer)
	}
	if e.Color != 0 {
		t.pair(62, strconv.Itoa(e.Color))
	}
}

func writeEntity(out *tagWriter, e *Entity) {
	switch e.Type {
	case TypeLine:
		out.pair(0, "LINE")
		out.common(e)
		out.point(e.Start)
		out.float(11, e.End.X)
		out.float(21, e.End.Y)
		out.float(31, e.End.Z)

	case TypeCircle:
		out.pair(0, "CIRCLE")
		out.common(e)
		out.point(e.Center)
		out.float(40, e.Radius)

	case TypeArc:
		out.pair(0, "ARC")
		out.common(e)
		out.point(e.Center)
		out.float(40, e.Radius)
		out.float(50, e.StartAngle)
		out.float(51, e.EndAngle)

	case TypeLWPolyline:
		out.pair(0, "LWPOLYLINE")
		out.common(e)
		out.pair(90, strconv.Itoa(len(e.Vertices)))
		flags := 0
		if e.Closed {
			flags = 1
		}
		out.pair(70, strconv.Itoa(flags))
		for _, v := range e.Vertices {
			out.float(10, v.X)
			out.float(20, v.Y)
		}

	case TypePolyline:
		out.pair(0, "POLYLINE")
		out.common(e)
		flags := 0
		if e.Closed {
			flags = 1
		}
		out.pair(70, strconv.Itoa(flags))
		out.pair(66, "1")
		for _, v := range e.Vertices {
			out.pair(0, "VERTEX")
			if e.Layer != "" {
				out.pair(8, e.Layer)
			}
			out.point(v)
		}
		out.pair(0, "SEQEND")

	case TypeText, TypeAttrib:
		out.pair(0, "TEXT")
		out.common(e)
		out.point(e.Insert)
		out.float(40, textHeight(e))
		if e.Rotation != 0 {
			out.float(50, e.Rotation)
		}
		out.pair(1, displayText(e))

	case TypeMText:
		out.pair(0, "MTEXT")
		out.common(e)
		out.point(e.Insert)
		out.float(40, textHeight(e))
		if e.Rotation != 0 {
			out.float(50, e.Rotation)
		}
		out.pair(1, e.Text)

	case TypePoint:
		out.pair(0, "POINT")
		out.common(e)
		out.point(e.Insert)

	default:
		// Unsupported kinds become a text marker at their anchor so the
		// diff drawing still shows that something lives there.
		out.pair(0, "TEXT")
		out.common(e)
		out.point(e.Insert)
		out.float(40, 2.5)
		out.pair(1, "["+string(e.Type)+"]")
	}
}

func textHeight(e *Entity) float64 {
	if e.Height > 0 {
		return e.Height
	}
	return 2.5
}

func displayText(e *Entity) string {
	if e.Type == TypeAttrib && e.Text == "" {
		return "[" + e.AttTag + "]"
	}
	return e.Text
}
