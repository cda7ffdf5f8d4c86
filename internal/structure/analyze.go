// Package structure produces raw structural dumps of a drawing file: a flat
// group-code table suitable for spreadsheet export and a markdown hierarchy
// of sections, tables, blocks and entities.
package structure

import (
	"fmt"
	"sort"
	"strconv"

	"dxf-toolkit/internal/dxf"
)

// Row is one line of the flat structure table.
type Row struct {
	Section string
	Type    string
	Code    string
	Meaning string
	Value   string
}

// Analyze flattens a parsed drawing into group-code rows, section by
// section, in file order.
func Analyze(doc *dxf.Document) []Row {
	var rows []Row

	for _, v := range doc.Header {
		for _, t := range v.Tags {
			rows = append(rows, Row{
				Section: "HEADER",
				Type:    "HEADER_VAR",
				Code:    strconv.Itoa(t.Code),
				Meaning: "Variable Name",
				Value:   fmt.Sprintf("%s = %s", v.Name, t.Value),
			})
		}
	}

	for _, l := range doc.Layers {
		rows = append(rows,
			Row{Section: "TABLES(LAYERS)", Type: "LAYER", Code: "-", Meaning: "TABLE Entry", Value: "name = " + l.Name},
			Row{Section: "TABLES(LAYERS)", Type: "LAYER", Code: "-", Meaning: "TABLE Entry", Value: "color = " + strconv.Itoa(l.Color)},
			Row{Section: "TABLES(LAYERS)", Type: "LAYER", Code: "-", Meaning: "TABLE Entry", Value: "linetype = " + l.LineType},
		)
	}

	for _, b := range doc.Blocks {
		for _, e := range b.Entities {
			rows = append(rows, entityRows("BLOCKS", e)...)
		}
	}

	for _, e := range doc.Entities {
		rows = append(rows, entityRows("ENTITIES", e)...)
	}

	return rows
}

func entityRows(section string, e *dxf.Entity) []Row {
	rows := make([]Row, 0, len(e.Tags))
	for _, t := range e.Tags {
		rows = append(rows, Row{
			Section: section,
			Type:    string(e.Type),
			Code:    strconv.Itoa(t.Code),
			Meaning: dxf.GroupCodeMeaning(t.Code),
			Value:   t.Value,
		})
	}
	return rows
}

// Hierarchy renders the drawing's internal organization as markdown lines:
// sections, table entries, block definitions and entities with their tags
// sorted by group code.
func Hierarchy(doc *dxf.Document) []string {
	var out []string

	out = append(out, "## SECTION: HEADER")
	for _, v := range doc.Header {
		out = append(out, "### VAR: "+v.Name)
		for _, t := range v.Tags {
			out = append(out, fmt.Sprintf("- %d (%s): %s", t.Code, dxf.GroupCodeMeaning(t.Code), t.Value))
		}
	}

	out = append(out, "## SECTION: TABLES")
	out = append(out, "### TABLE: LAYERS")
	for _, l := range doc.Layers {
		out = append(out, "#### ENTRY: "+l.Name)
		out = append(out, "- color: "+strconv.Itoa(l.Color))
		out = append(out, "- linetype: "+l.LineType)
	}

	out = append(out, "## SECTION: BLOCKS")
	for _, b := range doc.Blocks {
		out = append(out, "### BLOCK: "+b.Name)
		for _, e := range b.Entities {
			out = append(out, "#### ENTITY: "+string(e.Type))
			out = append(out, sortedTagLines(e)...)
		}
	}

	out = append(out, "## SECTION: ENTITIES")
	for _, e := range doc.Entities {
		out = append(out, "### ENTITY: "+string(e.Type))
		out = append(out, sortedTagLines(e)...)
	}

	return out
}

func sortedTagLines(e *dxf.Entity) []string {
	tags := make([]dxf.Tag, len(e.Tags))
	copy(tags, e.Tags)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Code < tags[j].Code })

	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		lines = append(lines, fmt.Sprintf("- %d (%s): %s", t.Code, dxf.GroupCodeMeaning(t.Code), t.Value))
	}
	return lines
}
