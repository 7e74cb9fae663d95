// Package tables reconstructs property lines from raw table grids so the
// extractor sees "label value unit" text regardless of the source layout.
package tables

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/polymerlab/matsheet/internal/units"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Vendors annotate metric cells with an averaged reading in a comment
	// column; that reading is more trustworthy than the displayed range.
	averageValueRe = regexp.MustCompile(`Average value:\s*([\d\.]+)\s*([A-Za-z°/%μµ³²·\-]+)`)
	rangeValueRe   = regexp.MustCompile(`([\d\.]+)\s*(?:[-–~]+|to)\s*([\d\.]+)\s*([A-Za-z°/%μµ³²·\-]+)`)
)

// NormalizeCell collapses internal whitespace and trims a raw cell.
func NormalizeCell(cell string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cell, " "))
}

// NormalizeMetricCell resolves a metric cell to a single "value unit" string.
// An "Average value" annotation in the comment cell wins; otherwise a range in
// the metric cell collapses to its mean (4 decimals); otherwise the cell
// passes through normalized.
func NormalizeMetricCell(metric, comment string) string {
	if m := averageValueRe.FindStringSubmatch(comment); m != nil {
		return m[1] + " " + m[2]
	}
	if m := rangeValueRe.FindStringSubmatch(metric); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil {
			mean := units.Round((lo+hi)/2, 4)
			return strconv.FormatFloat(mean, 'f', -1, 64) + " " + m[3]
		}
	}
	return NormalizeCell(metric)
}

// Lines walks a raw table grid and reconstructs one candidate line per data
// row. Header rows configure the column layout for the rows below them;
// banner and section rows are dropped.
func Lines(rows [][]string) []string {
	var lines []string

	metricIdx := -1
	unitIdx, valueIdx := -1, -1

	for _, row := range rows {
		cells := make([]string, len(row))
		empty := true
		for i, c := range row {
			cells[i] = NormalizeCell(c)
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		if mi, ok := metricHeader(cells); ok {
			metricIdx = mi
			unitIdx, valueIdx = -1, -1
			continue
		}
		if ui, vi, ok := unitValueHeader(cells); ok {
			unitIdx, valueIdx = ui, vi
			metricIdx = -1
			continue
		}
		if sectionRow(cells) {
			continue
		}
		if cells[0] == "" || len([]rune(cells[0])) > 120 {
			continue
		}

		if metricIdx >= 0 && metricIdx < len(cells) {
			comment := ""
			if metricIdx+2 < len(cells) {
				comment = cells[metricIdx+2]
			}
			if v := NormalizeMetricCell(cells[metricIdx], comment); v != "" {
				lines = append(lines, cells[0]+" "+v)
			}
			continue
		}
		if unitIdx >= 0 && valueIdx >= 0 {
			if unitIdx < len(cells) && valueIdx < len(cells) {
				lines = append(lines, cells[0]+" "+cells[valueIdx]+" "+cells[unitIdx])
			}
			continue
		}
		if len(cells) >= 3 {
			lines = append(lines, cells[0]+" "+cells[1]+" "+cells[2])
		} else if len(cells) >= 2 {
			lines = append(lines, cells[0]+" "+cells[1])
		}
	}

	return lines
}

// metricHeader detects a MatWeb-style "Metric | English" header row and
// returns the metric column index.
func metricHeader(cells []string) (int, bool) {
	metricIdx := -1
	hasEnglish := false
	for i, c := range cells {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "metric") {
			metricIdx = i
		}
		if strings.Contains(lower, "english") {
			hasEnglish = true
		}
	}
	if metricIdx >= 0 && hasEnglish {
		return metricIdx, true
	}
	return -1, false
}

// unitValueHeader detects a "单位 | 数值" or "Unit | Value" header row and
// returns both column indexes.
func unitValueHeader(cells []string) (int, int, bool) {
	unitIdx, valueIdx := -1, -1
	for i, c := range cells {
		lower := strings.ToLower(c)
		switch {
		case strings.Contains(lower, "unit"), strings.Contains(c, "单位"):
			unitIdx = i
		case strings.Contains(lower, "value"), strings.Contains(c, "数值"):
			valueIdx = i
		}
	}
	if unitIdx >= 0 && valueIdx >= 0 {
		return unitIdx, valueIdx, true
	}
	return -1, -1, false
}

// sectionRow reports whether the row is a section banner such as
// "Physical Properties" or "物理性能".
func sectionRow(cells []string) bool {
	lower := strings.ToLower(cells[0])
	return strings.Contains(lower, "properties") || strings.Contains(cells[0], "性能")
}
