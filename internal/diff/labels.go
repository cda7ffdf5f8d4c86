package diff

import (
	"sort"

	"dxf-toolkit/internal/dxf"
)

// LabelEntry is one classified label change. TextA/TextB carry both sides'
// content for direct display.
type LabelEntry struct {
	Status Status
	A, B   *Normalized
	TextA  string
	TextB  string
}

// Layer returns the layer the label lives on, preferring the B side.
func (e LabelEntry) Layer() string {
	if e.B != nil {
		return e.B.Layer
	}
	if e.A != nil {
		return e.A.Layer
	}
	return ""
}

// LabelResult is the outcome of a label-only comparison. Entries are ordered
// by status group (REMOVED, ADDED, MODIFIED/MOVED, UNCHANGED) and, within a
// group, by the original document order of the earlier-mentioned entity.
type LabelResult struct {
	Entries      []LabelEntry
	Summary      Summary
	DiagnosticsA Diagnostics
	DiagnosticsB Diagnostics
}

// CompareLabels runs the matching algorithm restricted to text-bearing
// entities and classifies the textual changes between two drawings.
func CompareLabels(docA, docB *dxf.Document, cfg Config) (*LabelResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setA := labelSubset(NormalizeDocument(docA, cfg))
	setB := labelSubset(NormalizeDocument(docB, cfg))

	res := compareSets(setA, setB, cfg)

	out := &LabelResult{
		Summary:      res.Summary,
		DiagnosticsA: res.DiagnosticsA,
		DiagnosticsB: res.DiagnosticsB,
	}
	for _, entry := range res.Entries {
		le := LabelEntry{Status: entry.Status, A: entry.A, B: entry.B}
		if entry.A != nil {
			le.TextA = entry.A.Text
		}
		if entry.B != nil {
			le.TextB = entry.B.Text
		}
		// Identical text at a different position is a move, not an edit.
		if cfg.ReportMoved && entry.Status == StatusModified && le.TextA == le.TextB {
			le.Status = StatusMoved
		}
		out.Entries = append(out.Entries, le)
	}

	sort.SliceStable(out.Entries, func(i, j int) bool {
		gi, gj := statusGroup(out.Entries[i].Status), statusGroup(out.Entries[j].Status)
		if gi != gj {
			return gi < gj
		}
		return entryOrd(out.Entries[i]) < entryOrd(out.Entries[j])
	})
	return out, nil
}

// labelSubset keeps only text-bearing entities, renumbering them so matcher
// ordering follows their relative document order. Diagnostics carry over
// unchanged.
func labelSubset(set *NormalizedSet) *NormalizedSet {
	out := &NormalizedSet{Diagnostics: set.Diagnostics}
	for _, n := range set.Entities {
		if n.Kind != KindText {
			continue
		}
		n.ord = len(out.Entities)
		out.Entities = append(out.Entities, n)
	}
	return out
}

func statusGroup(s Status) int {
	switch s {
	case StatusRemoved:
		return 0
	case StatusAdded:
		return 1
	case StatusModified, StatusMoved:
		return 2
	default:
		return 3
	}
}

func entryOrd(e LabelEntry) int {
	if e.A != nil {
		return e.A.ord
	}
	return e.B.ord
}

// ExtractLabelEntities returns the normalized text-bearing entities of a
// document, for callers that only need the labels of one drawing.
func ExtractLabelEntities(doc *dxf.Document, cfg Config) []*Normalized {
	set := NormalizeDocument(doc, cfg)
	var out []*Normalized
	for _, n := range set.Entities {
		if n.Kind == KindText && n.Text != "" {
			out = append(out, n)
		}
	}
	return out
}
