package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dxf-toolkit/internal/dxf"
	"dxf-toolkit/pkg/geometry"
)

func TestCompareLabelsRoomRename(t *testing.T) {
	docA := docOf(
		line("WALL", 0, 0, 10, 0),
		mtext("NOTES", "ROOM 101", 1, 1),
	)
	docB := docOf(
		line("WALL", 0, 0, 10, 0),
		mtext("NOTES", "ROOM 102", 1, 1),
	)

	res, err := CompareLabels(docA, docB, DefaultConfig())
	require.NoError(t, err)

	// The line is not a label and never appears in a label diff.
	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, StatusModified, e.Status)
	assert.Equal(t, "ROOM 101", e.TextA)
	assert.Equal(t, "ROOM 102", e.TextB)
	assert.Equal(t, "NOTES", e.Layer())
	assert.Equal(t, "~ ROOM 101 -> ROOM 102 @ NOTES", ChangeLine(e))
}

func TestCompareLabelsMovedRefinement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModifiedPositionBand = 5
	cfg.ReportMoved = true

	docA := docOf(mtext("NOTES", "PUMP-1", 0, 0))
	docB := docOf(mtext("NOTES", "PUMP-1", 2, 0))

	res, err := CompareLabels(docA, docB, cfg)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, StatusMoved, res.Entries[0].Status)
	assert.Equal(t, "> PUMP-1 @ NOTES", ChangeLine(res.Entries[0]))

	// Without the flag the same change stays MODIFIED.
	cfg.ReportMoved = false
	res, err = CompareLabels(docA, docB, cfg)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, StatusModified, res.Entries[0].Status)
}

func TestCompareLabelsOrdering(t *testing.T) {
	docA := docOf(
		mtext("NOTES", "KEEP", 0, 0),
		mtext("NOTES", "OLD", 10, 0),
		mtext("NOTES", "BEFORE", 20, 0),
	)
	docB := docOf(
		mtext("NOTES", "KEEP", 0, 0),
		mtext("NOTES", "AFTER", 20, 0),
		mtext("NOTES", "NEW", 30, 0),
	)

	res, err := CompareLabels(docA, docB, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Entries, 4)

	// Removed first, then added, then modified, unchanged last.
	assert.Equal(t, StatusRemoved, res.Entries[0].Status)
	assert.Equal(t, "OLD", res.Entries[0].TextA)
	assert.Equal(t, StatusAdded, res.Entries[1].Status)
	assert.Equal(t, "NEW", res.Entries[1].TextB)
	assert.Equal(t, StatusModified, res.Entries[2].Status)
	assert.Equal(t, "AFTER", res.Entries[2].TextB)
	assert.Equal(t, StatusUnchanged, res.Entries[3].Status)
}

func TestCompareLabelsAttribByTag(t *testing.T) {
	attrib := func(tag, text string, x float64) *dxf.Entity {
		return &dxf.Entity{
			Type:   dxf.TypeAttrib,
			Layer:  "TITLE",
			AttTag: tag,
			Insert: geometry.Point3{X: x},
			Height: 3,
			Text:   text,
		}
	}

	docA := docOf(attrib("DRAWN_BY", "SUZUKI", 0))
	docB := docOf(attrib("CHECKED_BY", "SUZUKI", 0))

	// Same spot, same text, but a different attribute tag is a different
	// label.
	res, err := CompareLabels(docA, docB, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, StatusRemoved, res.Entries[0].Status)
	assert.Equal(t, StatusAdded, res.Entries[1].Status)
}

func TestExtractLabelEntities(t *testing.T) {
	doc := docOf(
		line("WALL", 0, 0, 1, 1),
		mtext("NOTES", "ROOM 101", 0, 0),
		mtext("NOTES", "", 5, 5),
		&dxf.Entity{Type: dxf.TypeText, Layer: "NOTES", Text: "SCALE 1:50"},
	)

	labels := ExtractLabelEntities(doc, DefaultConfig())
	require.Len(t, labels, 2)
	assert.Equal(t, "ROOM 101", labels[0].Text)
	assert.Equal(t, "SCALE 1:50", labels[1].Text)
}
