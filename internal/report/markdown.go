// Package report renders comparison results as markdown documents and
// provides the toolkit's output-file naming conventions.
package report

import (
	"fmt"
	"strings"

	"dxf-toolkit/internal/diff"
	"dxf-toolkit/internal/partslist"
)

// LabelDiffMarkdown renders a label comparison as a markdown change report.
// Unchanged labels are omitted; the diagnostics summary is appended whenever
// entities were skipped, so the reader is never misled by a diff that
// silently excluded content.
func LabelDiffMarkdown(res *diff.LabelResult, nameA, nameB string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Label diff: %s vs %s\n\n", nameA, nameB)

	fmt.Fprintf(&b, "### Summary\n")
	fmt.Fprintf(&b, "- matched: %d\n", res.Summary.Matched)
	fmt.Fprintf(&b, "- added: %d\n", res.Summary.Added)
	fmt.Fprintf(&b, "- removed: %d\n", res.Summary.Removed)
	fmt.Fprintf(&b, "- modified: %d\n", res.Summary.Modified)
	b.WriteString("\n")

	writeGroup := func(title string, statuses ...diff.Status) {
		fmt.Fprintf(&b, "### %s\n", title)
		found := false
		for _, e := range res.Entries {
			for _, s := range statuses {
				if e.Status == s {
					b.WriteString(diff.ChangeLine(e) + "\n")
					found = true
				}
			}
		}
		if !found {
			b.WriteString("- none\n")
		}
		b.WriteString("\n")
	}

	writeGroup("Removed labels", diff.StatusRemoved)
	writeGroup("Added labels", diff.StatusAdded)
	writeGroup("Changed labels", diff.StatusModified, diff.StatusMoved)

	appendDiagnostics(&b, "A", res.DiagnosticsA)
	appendDiagnostics(&b, "B", res.DiagnosticsB)
	return b.String()
}

// PartsListMarkdown renders a drawing-labels vs parts-list comparison.
func PartsListMarkdown(c partslist.Comparison) string {
	var b strings.Builder
	b.WriteString("## Drawing labels vs circuit symbols\n\n")

	b.WriteString("### Overview\n")
	fmt.Fprintf(&b, "- drawing labels: %d (unique: %d)\n", c.LabelCount, c.UniqueLabels)
	fmt.Fprintf(&b, "- circuit symbols: %d (unique: %d)\n", c.SymbolCount, c.UniqueSymbols)
	fmt.Fprintf(&b, "- common unique labels: %d\n", c.CommonUnique)
	fmt.Fprintf(&b, "- missing from drawing: %d\n", len(c.MissingFromDrawing))
	fmt.Fprintf(&b, "- missing from parts list: %d\n\n", len(c.MissingFromList))

	writeList := func(title string, items []string) {
		fmt.Fprintf(&b, "### %s\n", title)
		if len(items) == 0 {
			b.WriteString("- none\n\n")
			return
		}
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}

	writeList("Missing from drawing (listed in parts list)", c.MissingFromDrawing)
	writeList("Missing from parts list (present in drawing)", c.MissingFromList)
	return b.String()
}

// GeometricSummaryMarkdown renders the counts of a geometric diff for
// display or logging by the calling layer.
func GeometricSummaryMarkdown(res *diff.Result, nameA, nameB string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Drawing diff: %s vs %s\n\n", nameA, nameB)
	fmt.Fprintf(&b, "- matched: %d (unchanged: %d, modified: %d)\n",
		res.Summary.Matched, res.Summary.Unchanged, res.Summary.Modified)
	fmt.Fprintf(&b, "- added: %d\n", res.Summary.Added)
	fmt.Fprintf(&b, "- removed: %d\n", res.Summary.Removed)
	appendDiagnostics(&b, "A", res.DiagnosticsA)
	appendDiagnostics(&b, "B", res.DiagnosticsB)
	return b.String()
}

func appendDiagnostics(b *strings.Builder, side string, d diff.Diagnostics) {
	if d.Empty() {
		return
	}
	fmt.Fprintf(b, "\n### Skipped in drawing %s\n", side)
	fmt.Fprintf(b, "- unsupported entities: %d\n", d.SkippedUnsupported)
	fmt.Fprintf(b, "- malformed entities: %d\n", d.SkippedMalformed)
	for _, w := range d.Warnings {
		b.WriteString("- warning: " + w + "\n")
	}
}
