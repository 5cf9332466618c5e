// internal/sources/db/loader.go

// Package db loads DB4HLS designs from the results database.
package db

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"hlsgraph/internal/models"
)

// configurationSpaces maps kernels to their configuration space id
var configurationSpaces = map[string]int{
	"gemm":                                         297,
	"get_delta_matrix_weights3":                    365,
	"get_delta_matrix_weights1":                    366,
	"get_delta_matrix_weights2":                    367,
	"bfs":                                          373,
	"update":                                       382,
	"hist":                                         383,
	"init":                                         384,
	"sum_scan":                                     385,
	"last_step_scan":                               386,
	"fft":                                          389,
	"local_scan":                                   390,
	"md_kernel":                                    391,
	"twiddles8":                                    396,
	"get_oracle_activations1":                      403,
	"get_oracle_activations2":                      404,
	"matrix_vector_product_with_bias_input_layer":  405,
	"stencil3d":                                    409,
	"ellpack":                                      410,
	"bbgemm":                                       412,
	"viterbi":                                      415,
	"aes_shiftRows":                                424,
	"ms_mergesort":                                 436,
	"merge":                                        437,
	"add_bias_to_activations":                      440,
	"aes256_encrypt_ecb":                           441,
	"aes_expandEncKey":                             442,
	"ss_sort":                                      443,
	"stencil":                                      444,
	"soft_max":                                     446,
	"take_difference":                              447,
	"matrix_vector_product_with_bias_output_layer": 449,
	"update_weights":                               450,
	"backprop":                                     451,
	"aes_addRoundKey":                              455,
	"aes_addRoundKey_cpy":                          457,
	"aes_mixColumns":                               459,
	"aes_subBytes":                                 460,
	"matrix_vector_product_with_bias_second_layer": 461,
}

const designQuery = `
SELECT
	db4hls.configuration.config_script AS pragmas,
	COALESCE(db4hls.resource_results.hls_lut, 0) AS luts,
	COALESCE(db4hls.resource_results.hls_ff, 0) AS ffs,
	db4hls.performance_results.average_latency AS latency,
	COALESCE(db4hls.resource_results.hls_bram, 0) AS brams,
	COALESCE(db4hls.resource_results.hls_dsp, 0) AS dsps,
	COALESCE(db4hls.performance_results.estimated_clock, 0) AS clock
FROM db4hls.configuration
JOIN db4hls.configuration_space ON db4hls.configuration.id_configuration_space = db4hls.configuration_space.id_configuration_space
JOIN db4hls.implementation ON db4hls.configuration.hash_configuration = db4hls.implementation.hash_configuration
LEFT JOIN db4hls.resource_results ON db4hls.implementation.id_resource_results = db4hls.resource_results.id_resource_result
LEFT JOIN db4hls.performance_results ON db4hls.implementation.id_performance_results = db4hls.performance_results.id_performance_result
WHERE db4hls.configuration_space.id_configuration_space = ? AND db4hls.performance_results.average_latency > 0`

// designRow is one implementation joined with its results
type designRow struct {
	Pragmas string  `gorm:"column:pragmas"`
	LUTs    float64 `gorm:"column:luts"`
	FFs     float64 `gorm:"column:ffs"`
	Latency float64 `gorm:"column:latency"`
	BRAMs   float64 `gorm:"column:brams"`
	DSPs    float64 `gorm:"column:dsps"`
	Clock   float64 `gorm:"column:clock"`
}

func (r designRow) values() map[string]float64 {
	return map[string]float64{
		"LUTs":    r.LUTs,
		"FFs":     r.FFs,
		"Latency": r.Latency,
		"BRAMs":   r.BRAMs,
		"DSPs":    r.DSPs,
		"Clock":   r.Clock,
	}
}

// Kernels lists the kernels with a known configuration space
func Kernels() []string {
	names := make([]string, 0, len(configurationSpaces))
	for name := range configurationSpaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader reads designs from the database and sources from <SourcePath>/<kernel>.cpp
type Loader struct {
	DB         *gorm.DB
	SourcePath string
}

func NewLoader(db *gorm.DB, sourcePath string) *Loader {
	return &Loader{DB: db, SourcePath: strings.TrimSuffix(sourcePath, "/")}
}

func (l *Loader) Load(ctx context.Context, kernel string) (*models.KernelData, error) {
	space, ok := configurationSpaces[kernel]
	if !ok {
		return nil, errors.Errorf("kernel %q has no configuration space", kernel)
	}
	if l.DB == nil {
		return nil, errors.New("no database connection")
	}

	var rows []designRow
	if err := l.DB.WithContext(ctx).Raw(designQuery, space).Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to query designs of %s", kernel)
	}

	data := &models.KernelData{
		Name:       kernel,
		SourcePath: filepath.Join(l.SourcePath, kernel+".cpp"),
		Designs:    make([]models.Design, len(rows)),
	}
	for i, row := range rows {
		data.Designs[i] = models.Design{Index: i, Pragmas: row.Pragmas, Values: row.values()}
	}

	klog.V(1).Infof("Loaded %d designs of %s (configuration space %d)", len(rows), kernel, space)
	return data, nil
}
