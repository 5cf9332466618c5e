// cmd/hlsgraphctl/display.go

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	analysis "hlsgraph/internal/analysis/dataset"
	"hlsgraph/internal/models"
)

func printAnalysis(w *tabwriter.Writer, result *analysis.AnalysisResult) {
	fmt.Fprintf(w, "Dataset Analysis\n")
	fmt.Fprintf(w, "================\n")
	fmt.Fprintf(w, "Examples:\t%s\n", humanize.Comma(int64(result.Examples)))
	fmt.Fprintf(w, "Kernels:\t%d\n", len(result.Kernels))
	fmt.Fprintf(w, "Nodes:\t%.1f avg (%.0f to %.0f)\n", result.Nodes.Mean, result.Nodes.Min, result.Nodes.Max)
	fmt.Fprintf(w, "Edges:\t%.1f avg (%.0f to %.0f)\n", result.Edges.Mean, result.Edges.Min, result.Edges.Max)

	if len(result.OutputConfigs) > 0 {
		fmt.Fprintf(w, "\nExamples per Output Configuration:\n")
		for _, name := range sortedKeys(result.OutputConfigs) {
			fmt.Fprintf(w, "  %s:\t%s\n", name, humanize.Comma(int64(result.OutputConfigs[name])))
		}
	}

	if len(result.DeadFeatures) > 0 {
		columns := make([]string, len(result.DeadFeatures))
		for i, c := range result.DeadFeatures {
			columns[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(w, "\nNode feature columns never set:\t%s\n", strings.Join(columns, ", "))
	}

	fmt.Fprintf(w, "\nOutputs\n")
	fmt.Fprintf(w, "=======\n")
	fmt.Fprintf(w, "GROUP\tOUTPUT\tUSED\tMEAN\tSTD\tMIN\tMAX\n")
	for _, c := range result.Outputs {
		if c.Used == 0 {
			fmt.Fprintf(w, "%s\t%s\t0\t-\t-\t-\t-\n", c.Group, c.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			c.Group, c.Name, c.Used, c.Mean, c.Std, c.Min, c.Max)
	}

	if len(result.Issues) > 0 {
		fmt.Fprintf(w, "\nIssues\n")
		fmt.Fprintf(w, "======\n")

		byType := make(map[string]int)
		for _, issue := range result.Issues {
			byType[issue.Type]++
		}
		fmt.Fprintf(w, "Summary:\n")
		for _, t := range sortedKeys(byType) {
			fmt.Fprintf(w, "  %s:\t%d issues\n", t, byType[t])
		}

		fmt.Fprintf(w, "\nDetailed Issues:\n")
		for _, issue := range result.Issues {
			if issue.Example >= 0 {
				fmt.Fprintf(w, "  - [%s] example %d: %s\n", issue.Severity, issue.Example, issue.Description)
			} else {
				fmt.Fprintf(w, "  - [%s] %s\n", issue.Severity, issue.Description)
			}
		}
	}
}

func printExample(w *tabwriter.Writer, ex *models.Example) {
	fmt.Fprintf(w, "Example Information\n")
	fmt.Fprintf(w, "===================\n")
	fmt.Fprintf(w, "ID:\t%d\n", ex.ID)
	fmt.Fprintf(w, "Kernel:\t%s\n", ex.Metadata.Kernel)
	fmt.Fprintf(w, "Output Configuration:\t%s\n", ex.Metadata.OutputConfig)
	fmt.Fprintf(w, "Dataset Index:\t%d\n", ex.Metadata.DatasetIndex)
	fmt.Fprintf(w, "Shift:\t%d (join %d)\n", ex.Metadata.Shift, ex.Metadata.JoinShift)
	if ex.Metadata.RunID != "" {
		fmt.Fprintf(w, "Run:\t%s\n", ex.Metadata.RunID)
	}

	fmt.Fprintf(w, "\nGraph\n")
	fmt.Fprintf(w, "=====\n")
	width := 0
	if len(ex.X) > 0 {
		width = len(ex.X[0])
	}
	fmt.Fprintf(w, "Nodes:\t%d x %d features\n", len(ex.X), width)
	width = 0
	if len(ex.EdgeAttr) > 0 {
		width = len(ex.EdgeAttr[0])
	}
	fmt.Fprintf(w, "Edges:\t%d x %d features\n", len(ex.EdgeAttr), width)
	fmt.Fprintf(w, "Basic Blocks:\t%d\n", ex.NumBBs)
	fmt.Fprintf(w, "Control Flow Edges:\t%d\n", len(ex.CFGEdgeIndex[0]))

	fmt.Fprintf(w, "\nOutputs\n")
	fmt.Fprintf(w, "=======\n")
	for i, v := range ex.Y {
		if i >= len(ex.UseInLoss) || !ex.UseInLoss[i] {
			continue
		}
		name := fmt.Sprint(i)
		if i < len(ex.Metadata.AllOutputs) {
			name = ex.Metadata.AllOutputs[i]
		}
		fmt.Fprintf(w, "  %s:\t%.4f\n", name, v)
	}

	if ex.Metadata.Pragmas != "" {
		fmt.Fprintf(w, "\nPragmas\n")
		fmt.Fprintf(w, "=======\n")
		for _, line := range strings.Split(strings.TrimSpace(ex.Metadata.Pragmas), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
