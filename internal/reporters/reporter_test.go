package reporters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsgraph/internal/models"
	"hlsgraph/internal/reporters/json"
)

func sampleExample(id int) *models.Example {
	return &models.Example{
		ID:           id,
		X:            [][]float32{{1, 0, 0.25}, {0, 1, -0.5}},
		EdgeIndex:    [2][]int64{{0, 1}, {1, 0}},
		EdgeAttr:     [][]float32{{1, 0}, {0, 1}},
		CFGEdgeIndex: [2][]int64{{0, 1}, {1, 0}},
		BBIDs:        []int64{0, 1},
		NumBBs:       2,
		BBBatch:      []int64{0, 0},
		Y:            []float32{0.1, -0.3333, 0},
		UseInLoss:    []bool{true, true, false},
		Metadata: models.Metadata{
			Kernel:       "kernel_gemm",
			Pragmas:      "set_directive_pipeline \"kernel_gemm/L0\"",
			DatasetIndex: 3,
			OutputConfig: "VAST_18",
			Shift:        6,
			AllOutputs:   []string{"LUTs", "FFs", "Latency"},
			RunID:        "run",
		},
	}
}

func TestWritersRoundTrip(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			w, err := NewWriter(Options{OutputDir: dir, Format: format})
			require.NoError(t, err)

			assert.False(t, w.Exists(7))
			ex := sampleExample(7)
			require.NoError(t, w.Write(ex))
			assert.True(t, w.Exists(7))
			assert.Equal(t, filepath.Join(dir, "data_7."+format), w.Path(7))

			r, err := NewReader(format)
			require.NoError(t, err)
			paths, err := r.Glob(dir)
			require.NoError(t, err)
			require.Equal(t, []string{w.Path(7)}, paths)

			got, err := r.Read(paths[0])
			require.NoError(t, err)
			assert.Equal(t, ex, got)
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(Options{OutputDir: t.TempDir(), Format: "pt"})
	require.Error(t, err)
	_, err = NewReader("pt")
	require.Error(t, err)
}

func sampleManifest() *models.Manifest {
	return &models.Manifest{
		RunID:        "2b1c",
		Profile:      "galway",
		Format:       "json",
		StartTime:    time.Now().Add(-time.Minute),
		Duration:     1500 * time.Millisecond,
		OutputLength: 15,
		Outputs: []models.OutputGroup{
			{Name: "DB4HLS", Shift: 0, Metrics: []string{"LUTs", "FFs"}},
			{Name: "ML4ACCEL", Shift: 6, Metrics: []string{"Total LUTs"}},
		},
		Kernels: []models.KernelRun{
			{OutputConfig: "DB4HLS", Kernel: "gemm", Designs: 3, Generated: 2, Failed: 1},
			{OutputConfig: "ML4ACCEL", Kernel: "bicg", Error: "no such file"},
		},
		Total:  3,
		Failed: 1,
		Host:   &models.Host{CPUModel: "Test CPU", Cores: 4, Threads: 8, MemoryTotal: 1 << 30},
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest()
	require.NoError(t, json.WriteManifest(dir, m))
	got, err := json.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Kernels, got.Kernels)
	assert.Equal(t, m.Outputs, got.Outputs)
	assert.Equal(t, m.Duration, got.Duration)
}

func TestStdoutReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(sampleManifest(), "stdout", "", &buf).Generate())

	out := buf.String()
	assert.Contains(t, out, "Dataset Run Summary")
	assert.Contains(t, out, "galway")
	assert.Contains(t, out, "ML4ACCEL")
	assert.Contains(t, out, "gemm:")
	assert.Contains(t, out, "bicg (ML4ACCEL): no such file")
	assert.Contains(t, out, "1.0 GiB")
}

func TestTextReporter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewReporter(sampleManifest(), "txt", dir, nil).Generate())
	out := string(must.M1(os.ReadFile(filepath.Join(dir, "summary.txt"))))
	assert.Contains(t, out, "Kernels")
	assert.Contains(t, out, "Output Layout (15 values)")
}
