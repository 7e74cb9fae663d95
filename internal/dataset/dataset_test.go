package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymerlab/matsheet/internal/merge"
)

func mergedRecord(t *testing.T, raw string) *merge.MergedRecord {
	t.Helper()
	var rec merge.MergedRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return &rec
}

func TestBuild_CyclesRecordsAndTemplates(t *testing.T) {
	records := []*merge.MergedRecord{
		mergedRecord(t, `{"material_name":"HDPE 5502","density":0.941,"density_unit":"g/cm³","melt_index":0.35,"melt_index_unit":"g/10min","sources":[{"type":"pdf","file":"5502.pdf"}]}`),
		mergedRecord(t, `{"material_name":"Exceed 1018","density":0.918,"density_unit":"g/cm³","sources":[{"type":"html","file":"1018.html"}]}`),
	}

	rows := Build(records, 5)
	require.Len(t, rows, 5)

	assert.Equal(t, "作为一名化工专家，请分析 HDPE 5502 的加工特性。", rows[0].Instruction)
	assert.Equal(t, "请总结 Exceed 1018 的关键物性并给出适用场景。", rows[1].Instruction)
	assert.Equal(t, "基于物性数据，评估 HDPE 5502 的薄膜应用表现。", rows[2].Instruction)
	assert.Equal(t, "", rows[0].Input)

	// Deterministic: same inputs, same rows.
	again := Build(records, 5)
	assert.Equal(t, rows, again)
}

func TestBuild_Output(t *testing.T) {
	rec := mergedRecord(t, `{"material_name":"HDPE 5502","density":0.941,"density_unit":"g/cm³","melt_index":0.35,"melt_index_unit":"g/10min","tensile_strength":31.03,"tensile_strength_unit":"MPa","elongation":600,"elongation_unit":"%","sources":[{"type":"pdf","file":"5502.pdf"},{"type":"html","file":"5502.html"},{"type":"html","file":"extra.html"}]}`)

	rows := Build([]*merge.MergedRecord{rec}, 1)
	require.Len(t, rows, 1)

	out := rows[0].Output
	assert.Contains(t, out, "密度为 0.941 g/cm³。")
	assert.Contains(t, out, "熔融指数为 0.35 g/10min。")
	assert.Contains(t, out, "拉伸强度为 31.03 MPa。")
	assert.Contains(t, out, "断裂伸长率为 600 %。")

	assert.Contains(t, out, "专家推理：综合物性来看，")
	assert.Contains(t, out, "较高密度常对应更高刚性与耐热性")
	assert.Contains(t, out, "低熔指通常代表更高分子量和更好的力学性能")
	assert.Contains(t, out, "拉伸强度较高，适合承载或耐撕裂应用")
	assert.Contains(t, out, "断裂伸长率高，说明材料延展性好")

	// Citation keeps only the first two source files.
	assert.Contains(t, out, " [cite: 5502.pdf, 5502.html]")
	assert.NotContains(t, out, "extra.html")
}

func TestBuild_NoProperties(t *testing.T) {
	rec := mergedRecord(t, `{"material_name":"Mystery Grade","sources":[{"type":"html","file":"m.html"}]}`)

	rows := Build([]*merge.MergedRecord{rec}, 1)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Output, "暂无完整物性数据，需要补充测试。")
}

func TestBuild_NoUsableRecords(t *testing.T) {
	assert.Nil(t, Build(nil, 10))

	unnamed := mergedRecord(t, `{"sources":[]}`)
	assert.Nil(t, Build([]*merge.MergedRecord{unnamed}, 10))
}
