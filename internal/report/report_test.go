package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dxf-toolkit/internal/diff"
	"dxf-toolkit/internal/dxf"
	"dxf-toolkit/internal/partslist"
	"dxf-toolkit/pkg/geometry"
)

func labelDoc(texts ...string) *dxf.Document {
	doc := dxf.NewDocument()
	for i, s := range texts {
		doc.AddEntity(&dxf.Entity{
			Type:   dxf.TypeMText,
			Layer:  "NOTES",
			Insert: geometry.Point3{X: float64(i) * 10},
			Height: 2.5,
			Text:   s,
		})
	}
	return doc
}

func TestLabelDiffMarkdown(t *testing.T) {
	docB := labelDoc("ROOM 102")
	docB.AddEntity(&dxf.Entity{
		Type: dxf.TypeMText, Layer: "NOTES",
		Insert: geometry.Point3{X: 50}, Height: 2.5, Text: "NEW",
	})

	res, err := diff.CompareLabels(labelDoc("ROOM 101", "GONE"), docB, diff.DefaultConfig())
	require.NoError(t, err)

	md := LabelDiffMarkdown(res, "old.dxf", "new.dxf")

	assert.Contains(t, md, "## Label diff: old.dxf vs new.dxf")
	assert.Contains(t, md, "- removed: 1")
	assert.Contains(t, md, "- added: 1")
	assert.Contains(t, md, "- GONE @ NOTES")
	assert.Contains(t, md, "+ NEW @ NOTES")
	assert.Contains(t, md, "~ ROOM 101 -> ROOM 102 @ NOTES")
	assert.NotContains(t, md, "Skipped in drawing",
		"no diagnostics section when nothing was skipped")
}

func TestLabelDiffMarkdownDiagnostics(t *testing.T) {
	docA := labelDoc("ROOM 101")
	docA.AddEntity(&dxf.Entity{Type: dxf.TypeLWPolyline, Layer: "OUTLINE"})

	res, err := diff.CompareLabels(docA, labelDoc("ROOM 101"), diff.DefaultConfig())
	require.NoError(t, err)

	md := LabelDiffMarkdown(res, "a", "b")
	assert.Contains(t, md, "### Skipped in drawing A")
	assert.Contains(t, md, "- malformed entities: 1")
	assert.Contains(t, md, "- warning: ")
}

func TestPartsListMarkdown(t *testing.T) {
	md := PartsListMarkdown(partslist.Compare(
		[]string{"CN3", "RY1"},
		[]string{"CN3", "FUSE_01"},
	))

	assert.Contains(t, md, "- drawing labels: 2 (unique: 2)")
	assert.Contains(t, md, "- common unique labels: 1")
	assert.Contains(t, md, "### Missing from drawing (listed in parts list)\n- FUSE_01")
	assert.Contains(t, md, "### Missing from parts list (present in drawing)\n- RY1")
}

func TestGeometricSummaryMarkdown(t *testing.T) {
	docA := dxf.NewDocument()
	docA.AddEntity(&dxf.Entity{
		Type: dxf.TypeLine, Layer: "WALL",
		End: geometry.Point3{X: 10},
	})

	res, err := diff.Compare(docA, dxf.NewDocument(), diff.DefaultConfig())
	require.NoError(t, err)

	md := GeometricSummaryMarkdown(res, "a.dxf", "b.dxf")
	assert.Contains(t, md, "## Drawing diff: a.dxf vs b.dxf")
	assert.Contains(t, md, "- removed: 1")
	assert.Contains(t, md, "- matched: 0 (unchanged: 0, modified: 0)")
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "plan_labels.md", OutputName("/tmp/plan.dxf", "labels", "md"))
	assert.Equal(t, "plan_structure.xlsx", OutputName("plan.xlsx.dxf", "structure", "xlsx"))
	assert.Equal(t, "old_vs_new_diff.dxf", ComparisonName("old.dxf", "a/new.dxf", "diff", "dxf"))
	assert.Equal(t, "old_vs_new.md", ComparisonName("old.dxf", "new.dxf", "", "md"))
}

func TestBaseNameNoExtension(t *testing.T) {
	assert.Equal(t, "README", baseName("docs/README"))
	assert.True(t, strings.HasPrefix(OutputName("README", "out", "md"), "README_"))
}
