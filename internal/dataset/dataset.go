// Package dataset builds an instruction-tuning dataset from merged material
// records.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/polymerlab/matsheet/internal/merge"
)

// Row is one Alpaca-format instruction row.
type Row struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// instructionTemplates are cycled deterministically over the records.
var instructionTemplates = []string{
	"作为一名化工专家，请分析 %s 的加工特性。",
	"请总结 %s 的关键物性并给出适用场景。",
	"基于物性数据，评估 %s 的薄膜应用表现。",
	"从材料工程角度解释 %s 的性能优势。",
	"给出 %s 的主要参数并简述加工建议。",
}

// propertySentences drive the output summary, in fixed order.
var propertySentences = []struct {
	key   string
	label string
}{
	{"density", "密度"},
	{"melt_index", "熔融指数"},
	{"tensile_strength", "拉伸强度"},
	{"elongation", "断裂伸长率"},
	{"melt_peak_temperature", "熔融峰值温度"},
	{"vicat_softening_temperature", "维卡软化温度"},
}

// Build produces count rows by cycling records and instruction templates in
// lockstep. Records without a material name do not participate; with no
// usable records the dataset is empty.
func Build(records []*merge.MergedRecord, count int) []Row {
	var usable []*merge.MergedRecord
	for _, rec := range records {
		if name, ok := stringField(rec, "material_name"); ok && name != "" {
			usable = append(usable, rec)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	rows := make([]Row, 0, count)
	for idx := 0; len(rows) < count; idx++ {
		rec := usable[idx%len(usable)]
		name, _ := stringField(rec, "material_name")
		rows = append(rows, Row{
			Instruction: fmt.Sprintf(instructionTemplates[idx%len(instructionTemplates)], name),
			Input:       "",
			Output:      buildOutput(rec),
		})
	}
	return rows
}

// buildOutput renders the property summary, expert reasoning clauses and the
// source citation for one record.
func buildOutput(rec *merge.MergedRecord) string {
	var parts []string
	for _, p := range propertySentences {
		if v, ok := numberField(rec, p.key); ok {
			unit, _ := stringField(rec, p.key+"_unit")
			parts = append(parts, p.label+"为 "+formatNumber(v)+" "+unit+"。")
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "暂无完整物性数据，需要补充测试。")
	}

	var reasoning []string
	if v, ok := numberField(rec, "density"); ok {
		if v < 0.92 {
			reasoning = append(reasoning, "较低密度通常意味着更好的柔韧性与韧性")
		} else if v > 0.94 {
			reasoning = append(reasoning, "较高密度常对应更高刚性与耐热性")
		}
	}
	if v, ok := numberField(rec, "melt_index"); ok {
		if v <= 1.0 {
			reasoning = append(reasoning, "低熔指通常代表更高分子量和更好的力学性能")
		} else if v >= 10 {
			reasoning = append(reasoning, "较高熔指通常意味着更好的流动性与加工性")
		}
	}
	if v, ok := numberField(rec, "tensile_strength"); ok && v >= 20 {
		reasoning = append(reasoning, "拉伸强度较高，适合承载或耐撕裂应用")
	}
	if v, ok := numberField(rec, "elongation"); ok && v >= 400 {
		reasoning = append(reasoning, "断裂伸长率高，说明材料延展性好")
	}

	out := strings.Join(parts, "")
	if len(reasoning) > 0 {
		out += "专家推理：综合物性来看，" + strings.Join(reasoning, "；") + "。"
	}

	var files []string
	for _, s := range rec.Sources {
		if s.File != "" {
			files = append(files, s.File)
		}
	}
	if len(files) > 0 {
		if len(files) > 2 {
			files = files[:2]
		}
		out += " [cite: " + strings.Join(files, ", ") + "]"
	}
	return out
}

func numberField(rec *merge.MergedRecord, name string) (float64, bool) {
	v, ok := rec.Get(name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func stringField(rec *merge.MergedRecord, name string) (string, bool) {
	v, ok := rec.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
