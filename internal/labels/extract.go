// Package labels extracts text labels from drawings and optionally filters
// out annotations that are not circuit part symbols.
package labels

import (
	"regexp"
	"sort"
	"strings"

	"dxf-toolkit/internal/dxf"
)

// SortOrder controls the ordering of extracted labels.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
	SortNone SortOrder = "none"
)

// Options configures label extraction.
type Options struct {
	FilterNonParts bool      // Drop labels that do not look like part symbols
	Sort           SortOrder // Output ordering
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{Sort: SortAsc}
}

// Info reports what extraction did, for display next to the label list.
type Info struct {
	TotalExtracted int
	FilteredCount  int
	FinalCount     int
	FilteredOut    []FilteredLabel
}

// FilteredLabel records one dropped label and why it was dropped.
type FilteredLabel struct {
	Label  string
	Reason string
}

// filterRule drops labels matching a pattern, with a human-readable reason.
type filterRule struct {
	match  func(string) bool
	reason string
}

var filterRules = []filterRule{
	{matchRe(`^\(`), "starts with a parenthesis"},
	{matchRe(`^\d`), "starts with a digit"},
	{matchRe(`^[A-Z]{1,2}$`), "bare one/two-letter code"},
	{matchRe(`^[A-Z]\d+$`), "single letter followed by digits"},
	{matchRe(`^[A-Z]\d+\.\d+$`), "single letter with dotted number"},
	{matchRe(`^[A-Za-z]+[\+\-]$`), "letters ending in + or -"},
	{func(s string) bool { return strings.Contains(s, "GND") }, "contains GND"},
	{func(s string) bool { return strings.HasPrefix(s, "AWG") }, "wire gauge marking"},
	{matchRe(`^[a-z]+( [a-z]+)+$`), "lowercase prose"},
	{func(s string) bool { return strings.HasPrefix(s, "☆") }, "decoration marker"},
	{func(s string) bool { return strings.HasPrefix(s, "注") }, "note marker"},
}

func matchRe(pattern string) func(string) bool {
	re := regexp.MustCompile(pattern)
	return re.MatchString
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// Extract pulls every TEXT/MTEXT label out of a drawing's modelspace,
// stripping MTEXT inline format codes. With FilterNonParts set, labels that
// match any of the non-part heuristics are dropped and recorded in the
// returned Info.
func Extract(doc *dxf.Document, opts Options) ([]string, Info) {
	var labels []string
	for _, e := range doc.Entities {
		if e.Type != dxf.TypeText && e.Type != dxf.TypeMText {
			continue
		}
		if text := e.PlainText(); text != "" {
			labels = append(labels, text)
		}
	}

	info := Info{TotalExtracted: len(labels)}

	if opts.FilterNonParts {
		kept := labels[:0:0]
		for _, label := range labels {
			if reason, dropped := classify(label); dropped {
				info.FilteredOut = append(info.FilteredOut, FilteredLabel{Label: label, Reason: reason})
				continue
			}
			// Parenthesized qualifiers like "(M5)" are annotations, not
			// part of the symbol itself.
			clean := strings.TrimSpace(parenthetical.ReplaceAllString(label, ""))
			if clean != "" {
				kept = append(kept, clean)
			}
		}
		info.FilteredCount = info.TotalExtracted - len(kept)
		labels = kept
	}

	switch opts.Sort {
	case SortAsc:
		sort.Strings(labels)
	case SortDesc:
		sort.Sort(sort.Reverse(sort.StringSlice(labels)))
	}

	info.FinalCount = len(labels)
	return labels, info
}

func classify(label string) (reason string, dropped bool) {
	for _, rule := range filterRules {
		if rule.match(label) {
			return rule.reason, true
		}
	}
	return "", false
}

// Normalize canonicalizes a label for multiset comparison: trimmed and
// upper-cased.
func Normalize(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}
