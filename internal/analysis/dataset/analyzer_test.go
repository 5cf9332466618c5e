package dataset

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsgraph/internal/models"
	"hlsgraph/internal/reporters/json"
)

func powergearManifest() *models.Manifest {
	return &models.Manifest{
		OutputLength: 3,
		NodeWidth:    2,
		EdgeWidth:    1,
		Outputs: []models.OutputGroup{
			{Name: "POWERGEAR", Shift: 0, Metrics: []string{"Total Power", "Static Power", "Dynamic Power"}},
		},
	}
}

func example(id int, kernel string, y []float32) *models.Example {
	return &models.Example{
		ID:        id,
		X:         [][]float32{{1, 0}, {0, 0}},
		EdgeIndex: [2][]int64{{0}, {1}},
		EdgeAttr:  [][]float32{{1}},
		BBIDs:     []int64{0, 0},
		NumBBs:    1,
		Y:         y,
		UseInLoss: []bool{true, true, true},
		Metadata:  models.Metadata{Kernel: kernel, OutputConfig: "POWERGEAR"},
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	w := json.NewWriter(dir)

	must.M(w.Write(example(0, "atax", []float32{0.5, -0.5, 1.2})))
	must.M(w.Write(example(1, "atax", []float32{0, 0, 0})))
	broken := example(2, "gemm", []float32{0, 0, 0})
	broken.X = [][]float32{{1, 0}}
	broken.BBIDs = []int64{0}
	broken.EdgeIndex = [2][]int64{{0}, {5}}
	must.M(w.Write(broken))

	result, err := NewAnalyzer(powergearManifest(), w, dir).Analyze()
	require.NoError(t, err)

	assert.Equal(t, 3, result.Examples)
	assert.Equal(t, map[string]int{"atax": 2, "gemm": 1}, result.Kernels)
	assert.Equal(t, map[string]int{"POWERGEAR": 3}, result.OutputConfigs)
	assert.InDelta(t, 5.0/3.0, result.Nodes.Mean, 1e-9)
	assert.Equal(t, 1.0, result.Nodes.Min)
	assert.Equal(t, 2.0, result.Nodes.Max)
	assert.Equal(t, []int{1}, result.DeadFeatures)

	require.Len(t, result.Outputs, 3)
	dynamic := result.Outputs[2]
	assert.Equal(t, "Dynamic Power", dynamic.Name)
	assert.Equal(t, 3, dynamic.Used)
	assert.InDelta(t, 1.2, dynamic.Max, 1e-6)

	var shape, ranges []Issue
	for _, issue := range result.Issues {
		switch issue.Type {
		case "shape":
			shape = append(shape, issue)
		case "range":
			ranges = append(ranges, issue)
		}
	}
	require.Len(t, shape, 1)
	assert.Equal(t, 2, shape[0].Example)
	assert.Contains(t, shape[0].Description, "outside [0, 1)")
	require.Len(t, ranges, 1)
	assert.Contains(t, ranges[0].Description, "Dynamic Power")
}

func TestAnalyzeUnusedOutputs(t *testing.T) {
	dir := t.TempDir()
	w := json.NewWriter(dir)
	ex := example(0, "atax", []float32{0.5, 0, 0})
	ex.UseInLoss = []bool{true, false, false}
	must.M(w.Write(ex))

	result, err := NewAnalyzer(powergearManifest(), w, dir).Analyze()
	require.NoError(t, err)

	var coverage int
	for _, issue := range result.Issues {
		if issue.Type == "coverage" {
			coverage++
		}
	}
	assert.Equal(t, 2, coverage)
	assert.Equal(t, 0, result.Outputs[1].Used)
	assert.Equal(t, 0.0, result.Outputs[0].Std)
}

func TestAnalyzeRejectsInconsistentManifest(t *testing.T) {
	dir := t.TempDir()
	w := json.NewWriter(dir)
	must.M(w.Write(example(0, "atax", []float32{0, 0, 0})))

	m := powergearManifest()
	m.OutputLength = 4
	_, err := NewAnalyzer(m, w, dir).Analyze()
	require.Error(t, err)

	m = powergearManifest()
	m.Outputs[0].Shift = 2
	_, err = NewAnalyzer(m, w, dir).Analyze()
	require.Error(t, err)

	m = powergearManifest()
	m.Outputs[0].Name = "NOPE"
	_, err = NewAnalyzer(m, w, dir).Analyze()
	require.Error(t, err)
}

func TestAnalyzeEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := NewAnalyzer(powergearManifest(), json.NewWriter(dir), dir).Analyze()
	require.Error(t, err)
}
