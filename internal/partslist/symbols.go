// Package partslist extracts circuit symbols from a parts-list workbook and
// compares them against the labels found in a drawing.
package partslist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers expected in the parts-list workbook.
const (
	colSymbol   = "符号"     // symbol code
	colComment  = "構成コメント" // composition comment
	colQuantity = "構成数"    // quantity
	colDrawing  = "図面番号"   // drawing number
)

// ExtractInfo reports what symbol extraction did.
type ExtractInfo struct {
	AssemblyNumber string
	TotalRows      int
	ProcessedRows  int
	TotalSymbols   int
}

var leadingAlpha = regexp.MustCompile(`^[A-Za-z]+`)

// ExtractSymbols reads the circuit symbols belonging to one assembly out of
// a parts-list workbook. Rows are selected starting after the row whose
// drawing-number column equals the assembly number, until the next row with
// a non-blank drawing number.
//
// Each selected row contributes its symbols (from the composition comment
// when it is underscore-joined, otherwise from the symbol column). When a
// row lists fewer symbols than its quantity the shortfall is padded with
// placeholder symbols; surplus symbols get a trailing "?".
func ExtractSymbols(path, assemblyNumber string) ([]string, ExtractInfo, error) {
	if assemblyNumber == "" {
		base := filepath.Base(path)
		assemblyNumber = strings.TrimSuffix(base, filepath.Ext(base))
	}
	info := ExtractInfo{AssemblyNumber: assemblyNumber}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, info, fmt.Errorf("open parts list %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, info, err
	}
	if len(rows) == 0 {
		return nil, info, fmt.Errorf("parts list %s is empty", path)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colSymbol, colComment, colQuantity, colDrawing} {
		if _, ok := cols[required]; !ok {
			return nil, info, fmt.Errorf("column %q not found in %s", required, path)
		}
	}

	data := rows[1:]
	info.TotalRows = len(data)

	var symbols []string
	processing := false
	for _, row := range data {
		drawing := strings.TrimSpace(cell(row, cols[colDrawing]))
		if !processing {
			if drawing == assemblyNumber {
				processing = true
			}
			continue
		}
		if drawing != "" {
			break
		}
		info.ProcessedRows++
		symbols = append(symbols, rowSymbols(row, cols)...)
	}

	if info.ProcessedRows == 0 {
		return nil, info, fmt.Errorf("no rows found for assembly %q", assemblyNumber)
	}

	info.TotalSymbols = len(symbols)
	return symbols, info, nil
}

func rowSymbols(row []string, cols map[string]int) []string {
	comment := strings.TrimSpace(cell(row, cols[colComment]))
	symbolCell := strings.TrimSpace(cell(row, cols[colSymbol]))

	var base []string
	if strings.Contains(comment, "_") {
		base = strings.Split(comment, "_")
	} else {
		base = strings.Split(symbolCell, "_")
	}
	kept := base[:0]
	for _, s := range base {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	base = kept

	qty, _ := strconv.Atoi(strings.TrimSpace(cell(row, cols[colQuantity])))

	switch {
	case len(base) < qty:
		alpha := ""
		if len(base) > 0 {
			alpha = leadingAlpha.FindString(base[len(base)-1])
		}
		missing := qty - len(base)
		for i := 1; i <= missing; i++ {
			base = append(base, fmt.Sprintf("%s-X%03d", alpha, i))
		}
	case len(base) > qty && qty > 0:
		surplus := len(base) - qty
		base = base[:qty]
		for i := 0; i < surplus && qty-i-1 >= 0; i++ {
			base[qty-i-1] += "?"
		}
	}
	return base
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
