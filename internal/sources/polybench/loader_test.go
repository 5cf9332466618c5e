package polybench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const powerScript = `open_project prj_a
set_top kernel_gemm
open_solution "solution_a"
set_directive_pipeline "kernel_gemm/L0"
set_directive_interface -mode m_axi "kernel_gemm" A
csynth_design
open_project prj_b
open_solution "solution_b"
set_directive_unroll -factor 4 "kernel_gemm/L1"
csynth_design
`

func writeKernel(t *testing.T, base, kernel, table, tableName, scriptName string) {
	dir := filepath.Join(base, kernel)
	must.M(os.MkdirAll(dir, 0o755))
	must.M(os.WriteFile(filepath.Join(dir, tableName), []byte(table), 0o644))
	must.M(os.WriteFile(filepath.Join(dir, scriptName), []byte(powerScript), 0o644))
}

func TestLoadPowerGear(t *testing.T) {
	base := t.TempDir()
	writeKernel(t, base, "gemm",
		"prj,total_pwr(uW),static_pwr(uW),dynamic_pwr(mW)\nprj_a,350000,320000,30\nprj_b,410000,330000,80\n",
		PowerGear.Table, PowerGear.Script)

	data, err := NewLoader(base+"/", PowerGear).Load(context.Background(), "gemm")
	require.NoError(t, err)
	assert.Equal(t, "gemm", data.Name)
	assert.Equal(t, filepath.Join(base, "gemm", "gemm.c"), data.SourcePath)
	require.Len(t, data.Designs, 2)

	first := data.Designs[0]
	assert.Equal(t, 350000.0, first.Values["Total Power"])
	assert.Equal(t, 30.0, first.Values["Dynamic Power"])
	assert.Equal(t, "set_directive_pipeline \"kernel_gemm/L0\"\nset_directive_interface -mode m_axi \"kernel_gemm\" A\ncsynth_design", first.Pragmas)
	assert.Equal(t, "set_directive_unroll -factor 4 \"kernel_gemm/L1\"\ncsynth_design", data.Designs[1].Pragmas)
}

func TestLoadML4ACCEL(t *testing.T) {
	base := t.TempDir()
	writeKernel(t, base, "gemm",
		"prj\tTotal LUTs\tLogic LUTs\tSRLs\tFFs\tRAMB36\tRAMB18\tDSP48 Blocks\tlatency\tvivado_dynamic_pwr(mW)\n"+
			"prj_b\t1200\t1100\t10\t900\t2\t1\t5\t43000\t120\n",
		ML4ACCEL.Table, ML4ACCEL.Script)

	data, err := NewLoader(base, ML4ACCEL).Load(context.Background(), "gemm")
	require.NoError(t, err)
	require.Len(t, data.Designs, 1)
	d := data.Designs[0]
	assert.Equal(t, 43000.0, d.Values["Latency"])
	assert.Equal(t, 120.0, d.Values["Dynamic Power"])
	assert.Equal(t, 5.0, d.Values["DSP48 Blocks"])
	assert.Len(t, d.Values, 9)
}

func TestLoadUnknownSolution(t *testing.T) {
	base := t.TempDir()
	writeKernel(t, base, "gemm",
		"prj,total_pwr(uW),static_pwr(uW),dynamic_pwr(mW)\nprj_z,1,1,1\n",
		PowerGear.Table, PowerGear.Script)

	_, err := NewLoader(base, PowerGear).Load(context.Background(), "gemm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prj_z")
}

func TestLoadMissingKernel(t *testing.T) {
	_, err := NewLoader(t.TempDir(), PowerGear).Load(context.Background(), "missing")
	require.Error(t, err)
}
