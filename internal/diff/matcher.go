package diff

import (
	"dxf-toolkit/internal/dxf"
)

// Status classifies one diff entry.
type Status int

const (
	StatusUnchanged Status = iota
	StatusModified
	StatusAdded
	StatusRemoved
	// StatusMoved refines MODIFIED for labels whose text is identical but
	// whose placement changed. Only emitted when Config.ReportMoved is set.
	StatusMoved
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "UNCHANGED"
	case StatusModified:
		return "MODIFIED"
	case StatusAdded:
		return "ADDED"
	case StatusRemoved:
		return "REMOVED"
	case StatusMoved:
		return "MOVED"
	default:
		return "UNKNOWN"
	}
}

// Entry pairs an entity from drawing A with its counterpart in drawing B.
// ADDED entries have no A side, REMOVED entries no B side. Entries are
// created once per run and immutable afterwards.
type Entry struct {
	Status Status
	A, B   *Normalized
}

// Summary holds the counts reported alongside a diff result.
type Summary struct {
	Matched   int // Unchanged + Modified
	Unchanged int
	Modified  int
	Added     int
	Removed   int
	SkippedA  int
	SkippedB  int
}

// Result is the complete outcome of one comparison: every comparable entity
// of both drawings appears in exactly one entry.
type Result struct {
	Entries      []Entry
	Summary      Summary
	DiagnosticsA Diagnostics
	DiagnosticsB Diagnostics
}

// Compare diffs two parsed drawings. Recoverable per-entity issues are
// accumulated in the result diagnostics; only configuration errors fail.
func Compare(docA, docB *dxf.Document, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setA := NormalizeDocument(docA, cfg)
	setB := NormalizeDocument(docB, cfg)
	return compareSets(setA, setB, cfg), nil
}

// compareSets runs the matching algorithm over two normalized sets.
//
// For each entity of A in document order, candidates sharing its fingerprint
// are examined in B's document order and the first acceptable one is
// consumed, in three stages of decreasing strictness:
//
//  1. signature within tolerance and identical text  -> UNCHANGED
//  2. signature within tolerance, text differs       -> MODIFIED
//  3. signature within the looser position band, searched across the whole
//     kind/layer/name group                          -> MODIFIED
//     (with no band configured: any remaining bucket-mate of the same
//     fingerprint cell)
//
// Entities of A with no acceptable candidate are REMOVED; entities of B
// never consumed are ADDED. The first-in-B-order tie-break keeps results
// reproducible across runs.
func compareSets(setA, setB *NormalizedSet, cfg Config) *Result {
	idx := NewIndex(setB.Entities, cfg)

	res := &Result{
		DiagnosticsA: setA.Diagnostics,
		DiagnosticsB: setB.Diagnostics,
	}
	res.Summary.SkippedA = setA.Diagnostics.Skipped()
	res.Summary.SkippedB = setB.Diagnostics.Skipped()

	for _, ea := range setA.Entities {
		cands := idx.Candidates(ea)

		match, status := selectCandidate(idx, ea, cands, cfg)
		if match == nil {
			res.Entries = append(res.Entries, Entry{Status: StatusRemoved, A: ea})
			res.Summary.Removed++
			continue
		}
		match.consumed = true
		res.Entries = append(res.Entries, Entry{Status: status, A: ea, B: match.n})
		res.Summary.Matched++
		if status == StatusUnchanged {
			res.Summary.Unchanged++
		} else {
			res.Summary.Modified++
		}
	}

	for _, eb := range idx.Unconsumed() {
		res.Entries = append(res.Entries, Entry{Status: StatusAdded, B: eb})
		res.Summary.Added++
	}
	return res
}

func selectCandidate(idx *Index, ea *Normalized, cands []*candidate, cfg Config) (*candidate, Status) {
	// Stage 1: exact match within tolerance.
	for _, c := range cands {
		if signatureWithin(ea.Signature, c.n.Signature, cfg.Tolerance) && ea.Text == c.n.Text {
			return c, StatusUnchanged
		}
	}
	// Stage 2: same place, different text.
	for _, c := range cands {
		if signatureWithin(ea.Signature, c.n.Signature, cfg.Tolerance) {
			return c, StatusModified
		}
	}
	// Stage 3: likely the same shape, slightly moved. The band can exceed
	// the fingerprint grid, so it searches the whole match group rather than
	// the cell neighborhood.
	if cfg.ModifiedPositionBand > 0 {
		for _, c := range idx.GroupCandidates(ea) {
			if signatureWithin(ea.Signature, c.n.Signature, cfg.ModifiedPositionBand) {
				return c, StatusModified
			}
		}
		return nil, 0
	}
	cell := idx.cellOf(ea)
	for _, c := range cands {
		if idx.cellOf(c.n) == cell {
			return c, StatusModified
		}
	}
	return nil, 0
}
