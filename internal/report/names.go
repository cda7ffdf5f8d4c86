package report

import (
	"path/filepath"
	"strings"
)

// baseName strips the directory and every extension from a file name, so
// "plan.xlsx.dxf" becomes "plan".
func baseName(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" {
			return base
		}
		base = strings.TrimSuffix(base, ext)
	}
}

// OutputName derives the conventional output file name for a single-input
// tool: "<base>_<suffix>.<ext>".
func OutputName(input, suffix, ext string) string {
	return baseName(input) + "_" + suffix + "." + ext
}

// ComparisonName derives the conventional output file name for a two-input
// tool: "<baseA>_vs_<baseB>[_<suffix>].<ext>".
func ComparisonName(inputA, inputB, suffix, ext string) string {
	name := baseName(inputA) + "_vs_" + baseName(inputB)
	if suffix != "" {
		name += "_" + suffix
	}
	return name + "." + ext
}
