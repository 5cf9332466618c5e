package directives

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutePoint(t *testing.T) {
	src := SplitLines(`void kernel_atax(double A[390][410]) {
#pragma ACCEL PIPELINE auto{__PIPE__L0}
#pragma ACCEL TILE FACTOR=auto{__TILE__L0}
#pragma ACCEL PARALLEL FACTOR=auto{__PARA__L1}
  for (int i = 0; i < 390; i++) {}
}
`)
	point := map[string]string{
		"__PIPE__L0": "flatten",
		"__TILE__L0": "4",
	}

	out := strings.Join(SubstitutePoint(src, point), "")
	assert.Equal(t, `void kernel_atax(double A[390][410]) {
#pragma ACCEL PIPELINE flatten
#pragma ACCEL TILE FACTOR=4
  for (int i = 0; i < 390; i++) {}
}
`, out)
}

func TestSubstitutePointMultipleKeys(t *testing.T) {
	out := SubstitutePoint([]string{"#pragma ACCEL PARALLEL FACTOR=auto{a} reduction=auto{b}\n"},
		map[string]string{"a": "2", "b": "sum"})
	require.Len(t, out, 1)
	assert.Equal(t, "#pragma ACCEL PARALLEL FACTOR=2 reduction=sum\n", out[0])
}

func TestExtractScript(t *testing.T) {
	script := `open_project gemm
open_solution "solution_3"
set_directive_unroll -factor 2 "gemm/loop1"
csynth_design
open_solution "solution_4"
  set_part xc7z020
  set_directive_array_partition -type cyclic -factor 4 -dim 1 "gemm" A
  set_directive_interface -mode ap_memory "gemm" A
  create_clock -period 10
  set_directive_pipeline "gemm/loop2"
  csynth_design
open_solution "solution_5"
set_directive_unroll -factor 8 "gemm/loop1"
csynth_design
`
	out, err := ExtractScript(`"solution_4"`, strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, `set_directive_array_partition -type cyclic -factor 4 -dim 1 "gemm" A
set_directive_interface -mode ap_memory "gemm" A
set_directive_pipeline "gemm/loop2"
csynth_design`, out)

	list, err := ParseList(out)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ArrayPartition, list[0].Kind)
	assert.Equal(t, Pipeline, list[1].Kind)

	_, err = ExtractScript("solution_9", strings.NewReader(script))
	require.Error(t, err)
}
