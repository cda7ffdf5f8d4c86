package dxf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dxfText(pairs ...string) string {
	return strings.Join(pairs, "\n") + "\n"
}

func TestReadEntities(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "5", "2A", "8", "WALL",
		"10", "0.0", "20", "0.0", "30", "0.0",
		"11", "10.0", "21", "0.0", "31", "0.0",
		"0", "CIRCLE", "8", "DOOR",
		"10", "5.0", "20", "5.0", "30", "0.0", "40", "2.0",
		"0", "ARC", "8", "0",
		"10", "1.0", "20", "1.0", "30", "0.0", "40", "3.0", "50", "0.0", "51", "90.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 3)

	line := doc.Entities[0]
	assert.Equal(t, TypeLine, line.Type)
	assert.Equal(t, "2A", line.Handle)
	assert.Equal(t, "WALL", line.Layer)
	assert.Equal(t, Point{X: 10}, line.End)

	circle := doc.Entities[1]
	assert.Equal(t, TypeCircle, circle.Type)
	assert.Equal(t, Point{X: 5, Y: 5}, circle.Center)
	assert.Equal(t, 2.0, circle.Radius)

	arc := doc.Entities[2]
	assert.Equal(t, TypeArc, arc.Type)
	assert.Equal(t, 90.0, arc.EndAngle)
}

func TestReadMTextChunks(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "MTEXT", "8", "NOTES",
		"10", "1.0", "20", "2.0", "30", "0.0", "40", "2.5",
		"3", `ROOM `,
		"1", `\fArial;101\P`,
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 1)

	mtext := doc.Entities[0]
	assert.Equal(t, `ROOM \fArial;101\P`, mtext.Text)
	assert.Equal(t, "ROOM 101", mtext.PlainText())
}

func TestReadLWPolyline(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "LWPOLYLINE", "8", "OUTLINE",
		"90", "3", "70", "1",
		"10", "0.0", "20", "0.0",
		"10", "10.0", "20", "0.0",
		"10", "10.0", "20", "10.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 1)

	poly := doc.Entities[0]
	assert.True(t, poly.Closed)
	require.Len(t, poly.Vertices, 3)
	assert.Equal(t, Point{X: 10, Y: 10}, poly.Vertices[2])
}

func TestReadPolylineVertices(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "POLYLINE", "8", "PATH", "70", "0", "66", "1",
		"0", "VERTEX", "8", "PATH", "10", "0.0", "20", "0.0", "30", "0.0",
		"0", "VERTEX", "8", "PATH", "10", "4.0", "20", "4.0", "30", "0.0",
		"0", "SEQEND",
		"0", "LINE", "10", "0", "20", "0", "30", "0", "11", "1", "21", "1", "31", "0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 2)
	assert.Equal(t, TypePolyline, doc.Entities[0].Type)
	require.Len(t, doc.Entities[0].Vertices, 2)
	assert.Equal(t, TypeLine, doc.Entities[1].Type)
}

func TestReadBlocksAndInsert(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "2", "CHAIR", "10", "0", "20", "0", "30", "0",
		"0", "LINE", "8", "0", "10", "0", "20", "0", "30", "0", "11", "1", "21", "0", "31", "0",
		"0", "ENDBLK",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "INSERT", "8", "FURNITURE", "2", "CHAIR",
		"10", "5.0", "20", "6.0", "30", "0.0", "41", "2.0", "42", "2.0", "50", "90.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	block := doc.BlockByName("CHAIR")
	require.NotNil(t, block)
	require.Len(t, block.Entities, 1)

	require.Len(t, doc.Entities, 1)
	ins := doc.Entities[0]
	assert.Equal(t, TypeInsert, ins.Type)
	assert.Equal(t, "CHAIR", ins.BlockName)
	assert.Equal(t, 2.0, ins.ScaleX)
	assert.Equal(t, 90.0, ins.Rotation)
	assert.Equal(t, 1.0, ins.ScaleZ, "unset scale defaults to 1")
}

func TestReadLayersAndHeader(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVER", "1", "AC1024",
		"0", "ENDSEC",
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LAYER", "70", "1",
		"0", "LAYER", "2", "WALL", "62", "1", "6", "DASHED",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, doc.Header, 1)
	assert.Equal(t, "$ACADVER", doc.Header[0].Name)

	require.Len(t, doc.Layers, 1)
	assert.Equal(t, Layer{Name: "WALL", Color: 1, LineType: "DASHED"}, doc.Layers[0])
}

func TestReadUnknownEntityKeepsAnchorAndTags(t *testing.T) {
	input := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "3DFACE", "8", "MESH", "10", "1.5", "20", "2.5", "30", "0.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 1)

	e := doc.Entities[0]
	assert.Equal(t, Type("3DFACE"), e.Type)
	assert.Equal(t, Point{X: 1.5, Y: 2.5}, e.Insert)
	assert.NotEmpty(t, e.Tags)
	assert.Equal(t, Tag{Code: 0, Value: "3DFACE"}, e.Tags[0])
}

func TestReadBadGroupCode(t *testing.T) {
	_, err := Read(strings.NewReader("zero\nSECTION\n"))
	require.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.AddLayer(Layer{Name: "ADDED", Color: 3})
	doc.AddEntity(&Entity{
		Type:  TypeLine,
		Layer: "ADDED",
		Color: 3,
		Start: Point{X: 0, Y: 0},
		End:   Point{X: 10, Y: 0},
	})
	doc.AddEntity(&Entity{
		Type:   TypeCircle,
		Layer:  "ADDED",
		Color:  3,
		Center: Point{X: 5, Y: 5},
		Radius: 2,
	})
	doc.AddEntity(&Entity{
		Type:   TypeMText,
		Layer:  "ADDED",
		Color:  3,
		Insert: Point{X: 1, Y: 1},
		Height: 2.5,
		Text:   "ROOM 101",
	})

	var b strings.Builder
	require.NoError(t, Write(doc, &b))

	back, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, back.Layers, 1)
	require.Len(t, back.Entities, 3)
	assert.Equal(t, Point{X: 10}, back.Entities[0].End)
	assert.Equal(t, 2.0, back.Entities[1].Radius)
	assert.Equal(t, "ROOM 101", back.Entities[2].Text)
}
