package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dxf-toolkit/internal/dxf"
)

func textDoc(texts ...string) *dxf.Document {
	doc := dxf.NewDocument()
	for _, s := range texts {
		doc.AddEntity(&dxf.Entity{Type: dxf.TypeMText, Layer: "NOTES", Text: s})
	}
	return doc
}

func TestExtractPlain(t *testing.T) {
	doc := textDoc("CN3", `\fArial;RY1\P`, "", "FUSE_01")
	doc.AddEntity(&dxf.Entity{Type: dxf.TypeLine, Layer: "WALL"})

	got, info := Extract(doc, Options{Sort: SortNone})
	assert.Equal(t, []string{"CN3", "RY1", "FUSE_01"}, got)
	assert.Equal(t, 3, info.TotalExtracted)
	assert.Equal(t, 0, info.FilteredCount)
	assert.Equal(t, 3, info.FinalCount)
}

func TestExtractSorted(t *testing.T) {
	doc := textDoc("RY1", "CN3", "FUSE_01")

	asc, _ := Extract(doc, DefaultOptions())
	assert.Equal(t, []string{"CN3", "FUSE_01", "RY1"}, asc)

	desc, _ := Extract(doc, Options{Sort: SortDesc})
	assert.Equal(t, []string{"RY1", "FUSE_01", "CN3"}, desc)
}

func TestExtractFiltersNonParts(t *testing.T) {
	doc := textDoc(
		"CN3",          // kept: part symbol
		"(M5)",         // dropped: parenthesis
		"12V",          // dropped: starts with a digit
		"R",            // dropped: bare letter code
		"R12",          // dropped: letter followed by digits
		"L1.5",         // dropped: dotted number
		"VCC+",         // dropped: polarity suffix
		"PWR_GND",      // dropped: contains GND
		"AWG18",        // dropped: wire gauge
		"see sheet",    // dropped: lowercase prose
		"☆重要",          // dropped: decoration marker
		"注1 取付方向",      // dropped: note marker
		"FUSE_01 (M5)", // kept, qualifier stripped
	)

	got, info := Extract(doc, Options{FilterNonParts: true, Sort: SortAsc})
	require.Equal(t, []string{"CN3", "FUSE_01"}, got)

	assert.Equal(t, 13, info.TotalExtracted)
	assert.Equal(t, 11, info.FilteredCount)
	assert.Equal(t, 2, info.FinalCount)

	reasons := map[string]string{}
	for _, f := range info.FilteredOut {
		reasons[f.Label] = f.Reason
	}
	assert.Equal(t, "starts with a digit", reasons["12V"])
	assert.Equal(t, "contains GND", reasons["PWR_GND"])
	assert.Equal(t, "wire gauge marking", reasons["AWG18"])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "CN3", Normalize("  cn3 "))
	assert.Equal(t, "FUSE_01", Normalize("fuse_01"))
}
