package partslist

import (
	"sort"

	"dxf-toolkit/internal/labels"
)

// Comparison is the multiset difference between drawing labels and the
// parts-list circuit symbols.
type Comparison struct {
	LabelCount         int
	UniqueLabels       int
	SymbolCount        int
	UniqueSymbols      int
	CommonUnique       int
	MissingFromDrawing []string // in the parts list but not in the drawing
	MissingFromList    []string // in the drawing but not in the parts list
}

// Compare performs a count-aware comparison: a symbol listed three times but
// drawn twice is reported missing once. Labels and symbols are normalized
// (trimmed, upper-cased) before counting.
func Compare(drawingLabels, circuitSymbols []string) Comparison {
	labelCounts := countNormalized(drawingLabels)
	symbolCounts := countNormalized(circuitSymbols)

	c := Comparison{
		LabelCount:    len(drawingLabels),
		UniqueLabels:  len(labelCounts),
		SymbolCount:   len(circuitSymbols),
		UniqueSymbols: len(symbolCounts),
	}

	for label := range labelCounts {
		if _, ok := symbolCounts[label]; ok {
			c.CommonUnique++
		}
	}

	c.MissingFromDrawing = expandSurplus(symbolCounts, labelCounts)
	c.MissingFromList = expandSurplus(labelCounts, symbolCounts)
	return c
}

func countNormalized(values []string) map[string]int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if n := labels.Normalize(v); n != "" {
			counts[n]++
		}
	}
	return counts
}

// expandSurplus returns each element of a that exceeds its count in b,
// repeated per missing occurrence, sorted.
func expandSurplus(a, b map[string]int) []string {
	var out []string
	for v, n := range a {
		if extra := n - b[v]; extra > 0 {
			for i := 0; i < extra; i++ {
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
