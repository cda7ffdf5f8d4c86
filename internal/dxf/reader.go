package dxf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFile parses an ASCII DXF file from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Read parses an ASCII DXF stream: alternating group-code and value lines,
// organized into sections.
func Read(r io.Reader) (*Document, error) {
	tags, err := scanTags(r)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	cur := &cursor{tags: tags}

	for !cur.done() {
		t := cur.next()
		if t.Code == 0 && t.Value == "EOF" {
			break
		}
		if t.Code != 0 || t.Value != "SECTION" {
			continue
		}
		name := cur.next()
		if name.Code != 2 {
			return nil, fmt.Errorf("SECTION without name tag (code %d)", name.Code)
		}
		switch name.Value {
		case "HEADER":
			readHeader(cur, doc)
		case "TABLES":
			readTables(cur, doc)
		case "BLOCKS":
			readBlocks(cur, doc)
		case "ENTITIES":
			readEntities(cur, doc)
		default:
			skipSection(cur)
		}
	}
	return doc, nil
}

func scanTags(r io.Reader) ([]Tag, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var tags []Tag
	line := 0
	for sc.Scan() {
		line++
		codeStr := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return nil, fmt.Errorf("line %d: group code %q has no value line", line, codeStr)
		}
		line++
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad group code %q", line-1, codeStr)
		}
		tags = append(tags, Tag{Code: code, Value: strings.TrimRight(sc.Text(), "\r\n")})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

type cursor struct {
	tags []Tag
	pos  int
}

func (c *cursor) done() bool { return c.pos >= len(c.tags) }

func (c *cursor) next() Tag {
	t := c.tags[c.pos]
	c.pos++
	return t
}

func (c *cursor) peek() Tag {
	return c.tags[c.pos]
}

// collect gathers tags up to (not including) the next code-0 tag.
func (c *cursor) collect() []Tag {
	start := c.pos
	for !c.done() && c.peek().Code != 0 {
		c.pos++
	}
	return c.tags[start:c.pos]
}

func readHeader(c *cursor, doc *Document) {
	for !c.done() {
		t := c.next()
		if t.Code == 0 && t.Value == "ENDSEC" {
			return
		}
		if t.Code != 9 {
			continue
		}
		v := HeaderVar{Name: t.Value}
		for !c.done() && c.peek().Code != 9 && c.peek().Code != 0 {
			v.Tags = append(v.Tags, c.next())
		}
		doc.Header = append(doc.Header, v)
	}
}

func readTables(c *cursor, doc *Document) {
	for !c.done() {
		t := c.next()
		if t.Code != 0 {
			continue
		}
		switch t.Value {
		case "ENDSEC":
			return
		case "LAYER":
			tags := c.collect()
			layer := Layer{Color: 7, LineType: "CONTINUOUS"}
			for _, tag := range tags {
				switch tag.Code {
				case 2:
					layer.Name = tag.Value
				case 62:
					layer.Color = atoiOr(tag.Value, 7)
				case 6:
					layer.LineType = tag.Value
				}
			}
			if layer.Name != "" {
				doc.AddLayer(layer)
			}
		}
	}
}

func readBlocks(c *cursor, doc *Document) {
	for !c.done() {
		t := c.next()
		if t.Code != 0 {
			continue
		}
		switch t.Value {
		case "ENDSEC":
			return
		case "BLOCK":
			block := &Block{}
			for _, tag := range c.collect() {
				switch tag.Code {
				case 2:
					block.Name = tag.Value
				case 10:
					block.Base.X = atofOr(tag.Value)
				case 20:
					block.Base.Y = atofOr(tag.Value)
				case 30:
					block.Base.Z = atofOr(tag.Value)
				}
			}
			for !c.done() {
				if c.peek().Code == 0 && c.peek().Value == "ENDBLK" {
					c.next()
					c.collect()
					break
				}
				e := readEntity(c)
				if e == nil {
					break
				}
				block.Entities = append(block.Entities, e)
			}
			doc.AddBlock(block)
		}
	}
}

func readEntities(c *cursor, doc *Document) {
	for !c.done() {
		if c.peek().Code == 0 && c.peek().Value == "ENDSEC" {
			c.next()
			return
		}
		e := readEntity(c)
		if e == nil {
			return
		}
		doc.AddEntity(e)
	}
}

// readEntity consumes one entity starting at its code-0 tag. POLYLINE vertex
// runs and INSERT attribute runs are folded into the owning entity.
func readEntity(c *cursor) *Entity {
	if c.done() || c.peek().Code != 0 {
		return nil
	}
	head := c.next()
	e := buildEntity(Type(head.Value), c.collect())
	e.Tags = append([]Tag{head}, e.Tags...)

	switch e.Type {
	case TypePolyline:
		for !c.done() && c.peek().Code == 0 {
			if c.peek().Value == "VERTEX" {
				c.next()
				var v Point
				for _, tag := range c.collect() {
					switch tag.Code {
					case 10:
						v.X = atofOr(tag.Value)
					case 20:
						v.Y = atofOr(tag.Value)
					case 30:
						v.Z = atofOr(tag.Value)
					}
				}
				e.Vertices = append(e.Vertices, v)
				continue
			}
			if c.peek().Value == "SEQEND" {
				c.next()
				c.collect()
			}
			break
		}
	case TypeInsert:
		for !c.done() && c.peek().Code == 0 {
			if c.peek().Value == "ATTRIB" {
				attrib := readEntity(c)
				e.Attribs = append(e.Attribs, attrib)
				continue
			}
			if c.peek().Value == "SEQEND" {
				c.next()
				c.collect()
			}
			break
		}
	}
	return e
}

func buildEntity(typ Type, tags []Tag) *Entity {
	e := &Entity{Type: typ, Color: 256, ScaleX: 1, ScaleY: 1, ScaleZ: 1}
	e.Tags = append(e.Tags, tags...)

	var mtextChunks []string
	for _, t := range tags {
		switch t.Code {
		case 5:
			e.Handle = t.Value
		case 8:
			e.Layer = t.Value
		case 62:
			e.Color = atoiOr(t.Value, 256)
		}

		switch typ {
		case TypeLine:
			switch t.Code {
			case 10:
				e.Start.X = atofOr(t.Value)
			case 20:
				e.Start.Y = atofOr(t.Value)
			case 30:
				e.Start.Z = atofOr(t.Value)
			case 11:
				e.End.X = atofOr(t.Value)
			case 21:
				e.End.Y = atofOr(t.Value)
			case 31:
				e.End.Z = atofOr(t.Value)
			}
		case TypeCircle, TypeArc:
			switch t.Code {
			case 10:
				e.Center.X = atofOr(t.Value)
			case 20:
				e.Center.Y = atofOr(t.Value)
			case 30:
				e.Center.Z = atofOr(t.Value)
			case 40:
				e.Radius = atofOr(t.Value)
			case 50:
				e.StartAngle = atofOr(t.Value)
			case 51:
				e.EndAngle = atofOr(t.Value)
			}
		case TypeLWPolyline:
			switch t.Code {
			case 70:
				e.Closed = atoiOr(t.Value, 0)&1 != 0
			case 10:
				e.Vertices = append(e.Vertices, Point{X: atofOr(t.Value)})
			case 20:
				if n := len(e.Vertices); n > 0 {
					e.Vertices[n-1].Y = atofOr(t.Value)
				}
			}
		case TypePolyline:
			if t.Code == 70 {
				e.Closed = atoiOr(t.Value, 0)&1 != 0
			}
		case TypeText, TypeMText, TypeAttrib:
			switch t.Code {
			case 10:
				e.Insert.X = atofOr(t.Value)
			case 20:
				e.Insert.Y = atofOr(t.Value)
			case 30:
				e.Insert.Z = atofOr(t.Value)
			case 40:
				e.Height = atofOr(t.Value)
			case 50:
				e.Rotation = atofOr(t.Value)
			case 1:
				e.Text = t.Value
			case 3:
				mtextChunks = append(mtextChunks, t.Value)
			case 2:
				if typ == TypeAttrib {
					e.AttTag = t.Value
				}
			}
		case TypeInsert:
			switch t.Code {
			case 2:
				e.BlockName = t.Value
			case 10:
				e.Insert.X = atofOr(t.Value)
			case 20:
				e.Insert.Y = atofOr(t.Value)
			case 30:
				e.Insert.Z = atofOr(t.Value)
			case 41:
				e.ScaleX = atofOr(t.Value)
			case 42:
				e.ScaleY = atofOr(t.Value)
			case 43:
				e.ScaleZ = atofOr(t.Value)
			case 50:
				e.Rotation = atofOr(t.Value)
			}
		case TypePoint:
			switch t.Code {
			case 10:
				e.Insert.X = atofOr(t.Value)
			case 20:
				e.Insert.Y = atofOr(t.Value)
			case 30:
				e.Insert.Z = atofOr(t.Value)
			}
		default:
			// Unsupported types keep an anchor point so downstream
			// consumers can still place a marker.
			switch t.Code {
			case 10:
				e.Insert.X = atofOr(t.Value)
			case 20:
				e.Insert.Y = atofOr(t.Value)
			case 30:
				e.Insert.Z = atofOr(t.Value)
			}
		}
	}

	// MTEXT content arrives as code-3 chunks followed by a final code-1 chunk.
	if typ == TypeMText && len(mtextChunks) > 0 {
		e.Text = strings.Join(mtextChunks, "") + e.Text
	}
	return e
}

func skipSection(c *cursor) {
	for !c.done() {
		t := c.next()
		if t.Code == 0 && t.Value == "ENDSEC" {
			return
		}
	}
}

func atofOr(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
