// internal/sources/polybench/loader.go

// Package polybench loads designs stored as a results table next to a
// multi-solution TCL script, one kernel per directory.
package polybench

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hlsgraph/internal/directives"
	"hlsgraph/internal/models"
)

// solutionColumn names the TCL solution a row was produced by
const solutionColumn = "prj"

// Layout describes the files and columns of one results table flavour
type Layout struct {
	Table     string
	Script    string
	Delimiter rune
	// Columns maps metric names to table columns
	Columns map[string]string
}

// ML4ACCEL post-implementation results
var ML4ACCEL = Layout{
	Table:     "post_implementation_info_latency.csv",
	Script:    "hls.tcl",
	Delimiter: '\t',
	Columns: map[string]string{
		"Total LUTs":    "Total LUTs",
		"Logic LUTs":    "Logic LUTs",
		"SRLs":          "SRLs",
		"FFs":           "FFs",
		"RAMB36":        "RAMB36",
		"RAMB18":        "RAMB18",
		"DSP48 Blocks":  "DSP48 Blocks",
		"Latency":       "latency",
		"Dynamic Power": "vivado_dynamic_pwr(mW)",
	},
}

// PowerGear power measurements
var PowerGear = Layout{
	Table:     "power_measurement.csv",
	Script:    "script_0.tcl",
	Delimiter: ',',
	Columns: map[string]string{
		"Total Power":   "total_pwr(uW)",
		"Static Power":  "static_pwr(uW)",
		"Dynamic Power": "dynamic_pwr(mW)",
	},
}

// Loader reads <base>/<kernel>/{table,script} and the kernel source <base>/<kernel>/<kernel>.c
type Loader struct {
	BasePath string
	Layout   Layout
}

func NewLoader(basePath string, layout Layout) *Loader {
	return &Loader{BasePath: strings.TrimSuffix(basePath, "/"), Layout: layout}
}

func (l *Loader) Load(ctx context.Context, kernel string) (*models.KernelData, error) {
	dir := filepath.Join(l.BasePath, kernel)

	table, err := os.Open(filepath.Join(dir, l.Layout.Table))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open results of %s", kernel)
	}
	defer table.Close()

	types := map[string]series.Type{solutionColumn: series.String}
	for _, column := range l.Layout.Columns {
		types[column] = series.Float
	}
	df := dataframe.ReadCSV(table,
		dataframe.WithDelimiter(l.Layout.Delimiter),
		dataframe.WithTypes(types))
	if df.Err != nil {
		return nil, errors.Wrapf(df.Err, "failed to parse results of %s", kernel)
	}

	script, err := os.ReadFile(filepath.Join(dir, l.Layout.Script))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directive script of %s", kernel)
	}

	data := &models.KernelData{
		Name:       kernel,
		SourcePath: filepath.Join(dir, kernel+".c"),
	}

	columns := make(map[string][]float64, len(l.Layout.Columns))
	for metric, column := range l.Layout.Columns {
		col := df.Col(column)
		if col.Err != nil {
			return nil, errors.Wrapf(col.Err, "results of %s", kernel)
		}
		columns[metric] = col.Float()
	}
	solutions := df.Col(solutionColumn)
	if solutions.Err != nil {
		return nil, errors.Wrapf(solutions.Err, "results of %s", kernel)
	}

	for i, solution := range solutions.Records() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pragmas, err := directives.ExtractScript(solution, strings.NewReader(string(script)))
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", kernel, i)
		}

		values := make(map[string]float64, len(columns))
		for metric, column := range columns {
			values[metric] = column[i]
		}
		data.Designs = append(data.Designs, models.Design{Index: i, Pragmas: pragmas, Values: values})
	}

	klog.V(1).Infof("Loaded %d designs of %s from %s", len(data.Designs), kernel, l.Layout.Table)
	return data, nil
}
