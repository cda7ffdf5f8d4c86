package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"dxf-toolkit/internal/diff"
	"dxf-toolkit/internal/dxf"
	"dxf-toolkit/internal/history"
	"dxf-toolkit/internal/labels"
	"dxf-toolkit/internal/report"
	"dxf-toolkit/internal/structure"
	"dxf-toolkit/internal/version"
)

const maxUploadBytes = 256 << 20

type handlers struct {
	logger *slog.Logger
	runs   *history.Store
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Full()})
}

// geometricDiff diffs two uploaded drawings and streams back a new DXF with
// entities color-coded by status. Counts travel in response headers so a
// client saving the file still sees them.
func (h *handlers) geometricDiff(w http.ResponseWriter, r *http.Request) {
	docA, nameA, docB, nameB, ok := h.readDrawingPair(w, r)
	if !ok {
		return
	}
	cfg, err := diffConfigFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res, err := diff.Compare(docA, docB, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.recordRun("compare", nameA, nameB, res.Summary, time.Since(start))

	out := diff.BuildDiffDocument(res, diff.DefaultColors())

	w.Header().Set("Content-Type", "application/dxf")
	w.Header().Set("Content-Disposition",
		"attachment; filename="+strconv.Quote(report.ComparisonName(nameA, nameB, "diff", "dxf")))
	w.Header().Set("X-Diff-Matched", strconv.Itoa(res.Summary.Matched))
	w.Header().Set("X-Diff-Added", strconv.Itoa(res.Summary.Added))
	w.Header().Set("X-Diff-Removed", strconv.Itoa(res.Summary.Removed))
	w.Header().Set("X-Diff-Modified", strconv.Itoa(res.Summary.Modified))
	w.Header().Set("X-Diff-Skipped", strconv.Itoa(res.Summary.SkippedA+res.Summary.SkippedB))
	if err := dxf.Write(out, w); err != nil {
		h.logger.Error("write diff response", "err", err)
	}
}

// diffSummary returns only the counts and diagnostics of a geometric diff.
func (h *handlers) diffSummary(w http.ResponseWriter, r *http.Request) {
	docA, nameA, docB, nameB, ok := h.readDrawingPair(w, r)
	if !ok {
		return
	}
	cfg, err := diffConfigFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res, err := diff.Compare(docA, docB, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.recordRun("compare", nameA, nameB, res.Summary, time.Since(start))

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":       res.Summary,
		"diagnostics_a": res.DiagnosticsA,
		"diagnostics_b": res.DiagnosticsB,
	})
}

// labelDiff compares the text labels of two uploaded drawings and returns a
// markdown change report.
func (h *handlers) labelDiff(w http.ResponseWriter, r *http.Request) {
	docA, nameA, docB, nameB, ok := h.readDrawingPair(w, r)
	if !ok {
		return
	}
	cfg, err := diffConfigFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res, err := diff.CompareLabels(docA, docB, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.recordRun("label-diff", nameA, nameB, res.Summary, time.Since(start))

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		"attachment; filename="+strconv.Quote(report.ComparisonName(nameA, nameB, "label_diff", "md")))
	fmt.Fprint(w, report.LabelDiffMarkdown(res, nameA, nameB))
}

// extractLabels returns the labels of one uploaded drawing as JSON.
func (h *handlers) extractLabels(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := h.readDrawing(w, r, "file")
	if !ok {
		return
	}
	opts := labels.DefaultOptions()
	opts.FilterNonParts = formBool(r, "filter_non_parts")
	if sort := r.FormValue("sort"); sort != "" {
		opts.Sort = labels.SortOrder(sort)
	}

	list, info := labels.Extract(doc, opts)
	writeJSON(w, http.StatusOK, map[string]any{"labels": list, "info": info})
}

// structureDump returns the drawing's group-code table as CSV or XLSX.
func (h *handlers) structureDump(w http.ResponseWriter, r *http.Request) {
	doc, name, ok := h.readDrawing(w, r, "file")
	if !ok {
		return
	}
	rows := structure.Analyze(doc)

	if r.FormValue("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			"attachment; filename="+strconv.Quote(report.OutputName(name, "structure", "csv")))
		if err := structure.WriteCSV(rows, w); err != nil {
			h.logger.Error("write structure csv", "err", err)
		}
		return
	}

	// XLSX needs a seekable target; go through a temp file.
	tmp, err := tempXLSX(rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer tmp.cleanup()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		"attachment; filename="+strconv.Quote(report.OutputName(name, "structure", "xlsx")))
	http.ServeFile(w, r, tmp.path)
}

func (h *handlers) listHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.runs.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *handlers) recordRun(tool, nameA, nameB string, s diff.Summary, elapsed time.Duration) {
	_, err := h.runs.Record(history.Run{
		Tool:     tool,
		InputA:   nameA,
		InputB:   nameB,
		Matched:  s.Matched,
		Added:    s.Added,
		Removed:  s.Removed,
		Modified: s.Modified,
		Skipped:  s.SkippedA + s.SkippedB,
		Duration: elapsed,
	})
	if err != nil {
		h.logger.Warn("record run", "tool", tool, "err", err)
	}
}

func (h *handlers) readDrawingPair(w http.ResponseWriter, r *http.Request) (docA *dxf.Document, nameA string, docB *dxf.Document, nameB string, ok bool) {
	docA, nameA, ok = h.readDrawing(w, r, "file_a")
	if !ok {
		return nil, "", nil, "", false
	}
	docB, nameB, ok = h.readDrawing(w, r, "file_b")
	if !ok {
		return nil, "", nil, "", false
	}
	return docA, nameA, docB, nameB, true
}

func (h *handlers) readDrawing(w http.ResponseWriter, r *http.Request, field string) (*dxf.Document, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return nil, "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing upload field %q", field))
		return nil, "", false
	}
	defer file.Close()

	doc, err := readUpload(file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("parse %s: %w", header.Filename, err))
		return nil, "", false
	}
	return doc, header.Filename, true
}

func readUpload(file multipart.File) (*dxf.Document, error) {
	return dxf.Read(file)
}

func diffConfigFromForm(r *http.Request) (diff.Config, error) {
	cfg := diff.DefaultConfig()
	if v := r.FormValue("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("bad tolerance %q", v)
		}
		cfg.Tolerance = tol
	}
	if v := r.FormValue("position_band"); v != "" {
		band, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("bad position_band %q", v)
		}
		cfg.ModifiedPositionBand = band
	}
	if v := r.FormValue("layer_sensitive"); v != "" {
		cfg.LayerSensitive = v == "true" || v == "1"
	}
	cfg.ReportMoved = formBool(r, "report_moved")
	cfg.ExpandBlocks = formBool(r, "expand_blocks")
	return cfg, nil
}

func formBool(r *http.Request, field string) bool {
	v := r.FormValue(field)
	return v == "true" || v == "1"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
