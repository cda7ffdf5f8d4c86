package diff

import (
	"fmt"

	"dxf-toolkit/internal/dxf"
)

// ColorScheme maps diff statuses to AutoCAD color indices.
type ColorScheme struct {
	Removed   int
	Added     int
	Modified  int
	Unchanged int
}

// DefaultColors returns the conventional scheme: red for removed, green for
// added, yellow for modified, unchanged left to its layer.
func DefaultColors() ColorScheme {
	return ColorScheme{Removed: 1, Added: 3, Modified: 2, Unchanged: 256}
}

// RenderedEntity is one output entity with its status styling resolved.
type RenderedEntity struct {
	Entity *dxf.Entity
	Status Status
	Layer  string
	Color  int
}

// Render resolves each diff entry to the entity that represents it (the B
// side where both exist, the A side for removals) and assigns status layer
// and color. Every entry of the result appears exactly once.
func Render(res *Result, colors ColorScheme) []RenderedEntity {
	out := make([]RenderedEntity, 0, len(res.Entries))
	for _, entry := range res.Entries {
		n := entry.B
		if entry.Status == StatusRemoved {
			n = entry.A
		}
		out = append(out, RenderedEntity{
			Entity: n.Source,
			Status: entry.Status,
			Layer:  entry.Status.String(),
			Color:  colorFor(entry.Status, colors),
		})
	}
	return out
}

// BuildDiffDocument materializes a diff result as a new drawing: entities
// from both inputs on REMOVED/ADDED/MODIFIED/UNCHANGED layers, styled by
// status. The input documents are never mutated; rendered entities are
// restyled copies.
func BuildDiffDocument(res *Result, colors ColorScheme) *dxf.Document {
	doc := dxf.NewDocument()
	doc.AddLayer(dxf.Layer{Name: StatusRemoved.String(), Color: colors.Removed})
	doc.AddLayer(dxf.Layer{Name: StatusAdded.String(), Color: colors.Added})
	doc.AddLayer(dxf.Layer{Name: StatusModified.String(), Color: colors.Modified})
	doc.AddLayer(dxf.Layer{Name: StatusUnchanged.String(), Color: colors.Unchanged})

	for _, re := range Render(res, colors) {
		clone := *re.Entity
		clone.Layer = re.Layer
		clone.Color = re.Color
		doc.AddEntity(&clone)
	}
	return doc
}

func colorFor(s Status, colors ColorScheme) int {
	switch s {
	case StatusRemoved:
		return colors.Removed
	case StatusAdded:
		return colors.Added
	case StatusModified, StatusMoved:
		return colors.Modified
	default:
		return colors.Unchanged
	}
}

// ChangeLine formats one label diff entry as a single report line:
//
//	+ text @ layer        added
//	- text @ layer        removed
//	~ old -> new @ layer  modified
//	> text @ layer        moved
func ChangeLine(e LabelEntry) string {
	switch e.Status {
	case StatusAdded:
		return fmt.Sprintf("+ %s @ %s", e.TextB, e.Layer())
	case StatusRemoved:
		return fmt.Sprintf("- %s @ %s", e.TextA, e.Layer())
	case StatusMoved:
		return fmt.Sprintf("> %s @ %s", e.TextB, e.Layer())
	case StatusModified:
		return fmt.Sprintf("~ %s -> %s @ %s", e.TextA, e.TextB, e.Layer())
	default:
		return fmt.Sprintf("= %s @ %s", e.TextB, e.Layer())
	}
}
