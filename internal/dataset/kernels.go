package dataset

import (
	"strings"

	"github.com/pkg/errors"

	"hlsgraph/internal/metrics"
)

// kernelGroup is a named benchmark selection feeding one output configuration
type kernelGroup struct {
	name    string
	config  metrics.ConfigID
	kernels []string
	// output is false for groups that reuse another configuration's outputs
	output bool
}

// groups in generation order
var groups = []kernelGroup{
	{name: "red", config: metrics.DB4HLS, output: true, kernels: []string{
		"gemm", "bfs", "update", "hist", "init", "sum_scan", "last_step_scan", "fft", "local_scan", "md_kernel",
		"twiddles8", "get_oracle_activations1", "get_oracle_activations2", "matrix_vector_product_with_bias_input_layer",
		"stencil3d", "ellpack", "bbgemm", "viterbi", "aes_shiftRows", "ms_mergesort", "merge", "add_bias_to_activations",
		"aes256_encrypt_ecb", "aes_expandEncKey", "ss_sort", "stencil", "soft_max", "take_difference",
		"matrix_vector_product_with_bias_output_layer", "update_weights", "backprop", "aes_addRoundKey",
		"aes_addRoundKey_cpy", "aes_mixColumns", "aes_subBytes", "matrix_vector_product_with_bias_second_layer",
	}},
	{name: "orange", config: metrics.ML4ACCEL, output: true, kernels: []string{
		"gemm", "bicg", "gesummv", "k2mm", "k3mm", "syr2k", "syrk",
	}},
	{name: "pink", config: metrics.POWERGEAR, output: true, kernels: []string{
		"atax", "gemm", "bicg", "gesummv", "k2mm", "k3mm", "mvt", "syr2k", "syrk",
	}},
	{name: "violet", config: metrics.GNNDSE, output: true, kernels: []string{
		"3mm", "2mm", "adi", "aes", "atax", "bicg", "correlation", "doitgen", "fdtd_2d", "gemm_blocked", "gemver",
		"gesummv", "heat_3d", "jacobi_1d", "jacobi_2d", "md", "mvt", "nw", "seidel_2d", "spmv_ellpack", "stencil_2d",
		"stencil_3d", "symm", "syr2k", "syrk", "trmm",
	}},
	{name: "indigo", config: metrics.VAST18, output: true, kernels: []string{
		"3mm", "2mm", "adi", "aes", "atax", "atax_medium", "bicg", "bicg_medium", "correlation", "doitgen",
		"doitgen_red", "fdtd_2d", "gemm_blocked", "gemm_ncubed", "gemm_p", "gemver", "gemver_medium", "gesummv",
		"gesummv_medium", "heat_3d", "jacobi_1d", "jacobi_2d", "md", "mvt", "mvt_medium", "nw", "seidel_2d",
		"spmv_crs", "spmv_ellpack", "stencil_2d", "stencil_3d", "symm", "symm_opt_medium", "syr2k", "syrk", "trmm",
		"trmm_opt",
	}},
	{name: "ruby", config: metrics.VAST20, output: true, kernels: []string{
		"2mm", "aes", "atax", "bicg", "bicg_large", "correlation", "covariance", "doitgen", "doitgen_red",
		"fdtd_2d_large", "gemm_blocked", "gemm_ncubed", "gemm_p", "gemm_p_large", "gemver", "gesummv", "mvt", "nw",
		"spmv_crs", "spmv_ellpack", "stencil_2d", "stencil_3d", "symm", "symm_opt", "syr2k", "syrk", "trmm",
		"trmm_opt",
	}},
	{name: "sapphire", config: metrics.VAST21, output: true, kernels: []string{
		"3mm", "2mm", "adi", "aes", "atax", "atax_medium", "bicg", "bicg_large", "correlation", "covariance",
		"doitgen", "doitgen_red", "fdtd_2d", "fdtd_2d_large", "gemm_blocked", "gemm_ncubed", "gemm_p", "gemm_p_large",
		"gemver", "gemver_medium", "gesummv", "gesummv_medium", "heat_3d", "jacobi_1d", "jacobi_2d", "mvt",
		"mvt_medium", "nw", "seidel_2d", "spmv_ellpack", "stencil_2d", "stencil_3d", "symm", "symm_opt",
		"symm_opt_medium", "syr2k", "syrk", "trmm", "trmm_opt",
	}},
	{name: "gold", config: metrics.VASTCustom21, kernels: []string{
		"2mm", "3mm", "adi", "aes", "atax", "atax_medium", "bicg_large", "bicg", "bicg_medium", "correlation",
		"covariance", "doitgen_red", "doitgen", "fdtd_2d_large", "fdtd_2d", "gemm_blocked", "gemm_ncubed",
		"gemm_p_large", "gemm_p", "gemver_medium", "gemver", "gesummv_medium", "gesummv", "heat_3d", "jacobi_1d",
		"jacobi_2d", "mvt_medium", "mvt", "nw", "seidel_2d", "spmv_ellpack", "stencil_2d", "stencil_3d",
		"symm_opt_medium", "symm_opt", "symm", "syr2k", "syrk", "trmm_opt", "trmm",
	}},
	{name: "silver", config: metrics.VASTCustom20, kernels: []string{
		"2mm", "aes", "atax", "bicg", "bicg_large", "correlation", "covariance", "doitgen", "doitgen_red",
		"fdtd_2d_large", "gemm_blocked", "gemm_ncubed", "gemm_p", "gemm_p_large", "gemver", "gesummv", "mvt", "nw",
		"spmv_crs", "spmv_ellpack", "stencil_2d", "stencil_3d", "symm", "symm_opt", "syr2k", "syrk", "trmm",
		"trmm_opt",
	}},
	{name: "platinum", config: metrics.VASTCustom18, kernels: []string{
		"2mm", "3mm", "adi", "aes", "atax", "atax_medium", "bicg", "bicg_medium", "correlation", "doitgen",
		"doitgen_red", "fdtd_2d", "gemm_blocked", "gemm_ncubed", "gemm_p", "gemver", "gemver_medium", "gesummv",
		"gesummv_medium", "heat_3d", "jacobi_1d", "jacobi_2d", "md", "mvt", "mvt_medium", "nw", "seidel_2d",
		"spmv_crs", "spmv_ellpack", "stencil_2d", "stencil_3d", "symm", "symm_opt_medium", "syr2k", "syrk", "trmm",
		"trmm_opt",
	}},
	{name: "crystal", config: metrics.VASTCustom21, kernels: []string{
		"3mm", "atax_medium", "covariance", "fdtd_2d", "gemm_p", "gemver_medium", "jacobi_2d", "symm_opt", "trmm_opt",
		"syr2k",
	}},
}

// GroupNames lists the known kernel groups in generation order
func GroupNames() []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.name
	}
	return names
}

// Job is the list of kernels generated under one output configuration
type Job struct {
	Config  metrics.ConfigID
	Kernels []string
}

// Plan turns selected kernel groups into jobs and the output configurations
// of the output layout. Jobs are ordered by the first group naming their
// configuration; groups sharing a configuration extend its kernel list.
func Plan(names []string, combineVast bool) ([]Job, []metrics.ConfigID, error) {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false
		for _, g := range groups {
			if g.name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, errors.Errorf("unknown kernel group %q, expected one of %s",
				name, strings.Join(GroupNames(), ", "))
		}
		selected[name] = true
	}

	var (
		jobs    []Job
		outputs []metrics.ConfigID
		index   = make(map[metrics.ConfigID]int)
	)
	for _, g := range groups {
		if !selected[g.name] {
			continue
		}
		i, ok := index[g.config]
		if !ok {
			i = len(jobs)
			index[g.config] = i
			jobs = append(jobs, Job{Config: g.config})
		}
		jobs[i].Kernels = append(jobs[i].Kernels, g.kernels...)
		if g.output {
			outputs = append(outputs, g.config)
		}
	}
	if combineVast {
		outputs = append(outputs, metrics.VASTAll)
	}
	return jobs, outputs, nil
}
