// Package dataset checks persisted examples against the manifest of the run
// that produced them.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"hlsgraph/internal/metrics"
	"hlsgraph/internal/models"
	"hlsgraph/internal/reporters"
)

type Analyzer struct {
	manifest *models.Manifest
	reader   reporters.Reader
	dir      string
}

func NewAnalyzer(manifest *models.Manifest, reader reporters.Reader, dir string) *Analyzer {
	return &Analyzer{
		manifest: manifest,
		reader:   reader,
		dir:      dir,
	}
}

type AnalysisResult struct {
	Examples      int            `json:"examples"`
	Kernels       map[string]int `json:"kernels"`
	OutputConfigs map[string]int `json:"outputConfigs"`
	Nodes         Summary        `json:"nodes"`
	Edges         Summary        `json:"edges"`
	Outputs       []ColumnStats  `json:"outputs"`
	// DeadFeatures lists node feature columns that are zero on every node
	DeadFeatures []int   `json:"deadFeatures"`
	Issues       []Issue `json:"issues"`
}

type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type ColumnStats struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Used   int    `json:"used"`
	Bounds bool   `json:"bounds"`
	Summary
}

type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Example     int    `json:"example"`
}

// column describes one position of the output vector
type column struct {
	name  string
	group string
	// bounded columns normalize into [-1, 1] while the raw value is below the metric max
	bounded bool
}

func (a *Analyzer) Analyze() (*AnalysisResult, error) {
	columns, err := a.columns()
	if err != nil {
		return nil, err
	}

	paths, err := a.reader.Glob(a.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing examples in %s", a.dir)
	}
	sort.Strings(paths)

	result := &AnalysisResult{
		Kernels:       make(map[string]int),
		OutputConfigs: make(map[string]int),
	}

	var (
		nodes, edges []float64
		values       = make([][]float64, len(columns))
		live         = make([]bool, a.manifest.NodeWidth)
	)
	for _, path := range paths {
		ex, err := a.reader.Read(path)
		if err != nil {
			return nil, err
		}
		result.Examples++
		result.Kernels[ex.Metadata.Kernel]++
		result.OutputConfigs[ex.Metadata.OutputConfig]++
		nodes = append(nodes, float64(len(ex.X)))
		edges = append(edges, float64(len(ex.EdgeAttr)))

		result.Issues = append(result.Issues, a.checkShapes(ex)...)
		for _, row := range ex.X {
			for j, v := range row {
				if j < len(live) && v != 0 {
					live[j] = true
				}
			}
		}
		if len(ex.Y) != len(columns) || len(ex.UseInLoss) != len(columns) {
			continue
		}
		for i, v := range ex.Y {
			if ex.UseInLoss[i] {
				values[i] = append(values[i], float64(v))
			}
		}
	}
	if result.Examples == 0 {
		return nil, errors.Errorf("no examples found in %s", a.dir)
	}

	result.Nodes = summarize(nodes)
	result.Edges = summarize(edges)
	for j, ok := range live {
		if !ok {
			result.DeadFeatures = append(result.DeadFeatures, j)
		}
	}
	for i, c := range columns {
		s := ColumnStats{Name: c.name, Group: c.group, Used: len(values[i]), Bounds: c.bounded}
		if s.Used > 0 {
			s.Summary = summarize(values[i])
		}
		result.Outputs = append(result.Outputs, s)
	}
	result.Issues = append(result.Issues, a.checkRanges(result.Outputs)...)
	return result, nil
}

// columns expands the manifest's output groups into one entry per output position
func (a *Analyzer) columns() ([]column, error) {
	var columns []column
	for _, g := range a.manifest.Outputs {
		id, err := metrics.ParseConfigID(g.Name)
		if err != nil {
			return nil, err
		}
		c, err := metrics.Lookup(id)
		if err != nil {
			return nil, err
		}
		if len(columns) != g.Shift {
			return nil, errors.Errorf("output group %s starts at %d, expected %d", g.Name, g.Shift, len(columns))
		}
		for _, m := range c.Metrics {
			bounded := m.Transform.Kind != metrics.Performance && m.Transform.Kind != metrics.Identity
			for i := 0; i < m.Transform.Width(); i++ {
				name := m.Name
				if m.Transform.Width() > 1 {
					name = fmt.Sprintf("%s[%d]", m.Name, i)
				}
				columns = append(columns, column{name: name, group: g.Name, bounded: bounded})
			}
		}
	}
	if len(columns) != a.manifest.OutputLength {
		return nil, errors.Errorf("output groups cover %d values, manifest records %d",
			len(columns), a.manifest.OutputLength)
	}
	return columns, nil
}

func (a *Analyzer) checkShapes(ex *models.Example) []Issue {
	var issues []Issue
	report := func(format string, args ...interface{}) {
		issues = append(issues, Issue{
			Type:        "shape",
			Severity:    "high",
			Description: fmt.Sprintf(format, args...),
			Example:     ex.ID,
		})
	}

	numNodes := int64(len(ex.X))
	for i, row := range ex.X {
		if len(row) != a.manifest.NodeWidth {
			report("node %d has %d features, expected %d", i, len(row), a.manifest.NodeWidth)
			break
		}
	}
	if len(ex.EdgeIndex[0]) != len(ex.EdgeIndex[1]) || len(ex.EdgeIndex[0]) != len(ex.EdgeAttr) {
		report("edge index has %d/%d entries for %d edge rows",
			len(ex.EdgeIndex[0]), len(ex.EdgeIndex[1]), len(ex.EdgeAttr))
	}
	for i, row := range ex.EdgeAttr {
		if len(row) != a.manifest.EdgeWidth {
			report("edge %d has %d features, expected %d", i, len(row), a.manifest.EdgeWidth)
			break
		}
	}
	if outside(ex.EdgeIndex[0], numNodes) || outside(ex.EdgeIndex[1], numNodes) {
		report("edge index refers to a node outside [0, %d)", numNodes)
	}
	if len(ex.BBIDs) != len(ex.X) {
		report("%d basic block ids for %d nodes", len(ex.BBIDs), len(ex.X))
	}
	if outside(ex.BBIDs, int64(ex.NumBBs)) {
		report("basic block id outside [0, %d)", ex.NumBBs)
	}
	if outside(ex.CFGEdgeIndex[0], int64(ex.NumBBs)) || outside(ex.CFGEdgeIndex[1], int64(ex.NumBBs)) {
		report("control flow edge refers to a block outside [0, %d)", ex.NumBBs)
	}
	if len(ex.Y) != a.manifest.OutputLength || len(ex.UseInLoss) != a.manifest.OutputLength {
		report("%d outputs and %d loss flags, expected %d",
			len(ex.Y), len(ex.UseInLoss), a.manifest.OutputLength)
	}
	return issues
}

func (a *Analyzer) checkRanges(columns []ColumnStats) []Issue {
	var issues []Issue
	for _, c := range columns {
		switch {
		case c.Used == 0:
			issues = append(issues, Issue{
				Type:        "coverage",
				Severity:    "low",
				Description: fmt.Sprintf("output %s of %s is never used in the loss", c.Name, c.Group),
				Example:     -1,
			})
		case c.Bounds && (c.Max > 1 || c.Min < -1):
			issues = append(issues, Issue{
				Type:     "range",
				Severity: "medium",
				Description: fmt.Sprintf("output %s of %s spans [%.3f, %.3f], the metric maximum is too low",
					c.Name, c.Group, c.Min, c.Max),
				Example: -1,
			})
		}
	}
	return issues
}

func outside(ids []int64, n int64) bool {
	for _, id := range ids {
		if id < 0 || id >= n {
			return true
		}
	}
	return false
}

func summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.Std = 0
	}
	for _, v := range x {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}
