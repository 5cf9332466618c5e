// internal/reporters/text/reporter.go
package text

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

const SummaryFile = "summary.txt"

// Reporter renders a run manifest as a human readable summary
type Reporter struct {
	manifest *models.Manifest
	outDir   string
}

func NewReporter(manifest *models.Manifest, outDir string) *Reporter {
	return &Reporter{
		manifest: manifest,
		outDir:   outDir,
	}
}

func (r *Reporter) Generate() error {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	file, err := os.Create(filepath.Join(r.outDir, SummaryFile))
	if err != nil {
		return errors.Wrap(err, "creating summary file")
	}
	defer file.Close()

	w := tabwriter.NewWriter(file, 0, 0, 2, ' ', 0)
	return r.GenerateToWriter(w)
}

func (r *Reporter) GenerateToWriter(w *tabwriter.Writer) error {
	sections := []func(*tabwriter.Writer) error{
		r.generateRunSummary,
		r.generateHostInfo,
		r.generateOutputLayout,
		r.generateKernelTable,
		r.generateFailures,
	}

	for _, section := range sections {
		if err := section(w); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

func (r *Reporter) generateRunSummary(w *tabwriter.Writer) error {
	m := r.manifest
	fmt.Fprintf(w, "Dataset Run Summary\n")
	fmt.Fprintf(w, "===================\n\n")
	fmt.Fprintf(w, "Run ID:\t%s\n", m.RunID)
	fmt.Fprintf(w, "Profile:\t%s\n", m.Profile)
	fmt.Fprintf(w, "Format:\t%s\n", m.Format)
	fmt.Fprintf(w, "Output Directory:\t%s\n", m.OutputDir)
	if !m.StartTime.IsZero() {
		fmt.Fprintf(w, "Started:\t%s (%s)\n", m.StartTime.Format(time.RFC3339), humanize.Time(m.StartTime))
	}
	fmt.Fprintf(w, "Duration:\t%s\n", m.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Designs:\t%s\n", humanize.Comma(int64(m.Total)))
	fmt.Fprintf(w, "Failed:\t%s\n", humanize.Comma(int64(m.Failed)))
	fmt.Fprintf(w, "Node Features:\t%d\n", m.NodeWidth)
	fmt.Fprintf(w, "Edge Features:\t%d\n", m.EdgeWidth)
	return nil
}

func (r *Reporter) generateHostInfo(w *tabwriter.Writer) error {
	m := r.manifest
	if m.Host == nil && m.Environment == nil && m.Resources == nil {
		return nil
	}

	fmt.Fprintf(w, "Host\n")
	fmt.Fprintf(w, "----\n")
	if env := m.Environment; env != nil {
		fmt.Fprintf(w, "Hostname:\t%s\n", env.Hostname)
		fmt.Fprintf(w, "Platform:\t%s/%s\n", env.OS, env.Arch)
		fmt.Fprintf(w, "Graph Compiler:\t%s\n", env.Compiler)
	}
	if h := m.Host; h != nil {
		fmt.Fprintf(w, "CPU:\t%s (%d cores, %d threads)\n", h.CPUModel, h.Cores, h.Threads)
		fmt.Fprintf(w, "Memory:\t%s total, %s available\n",
			humanize.IBytes(h.MemoryTotal), humanize.IBytes(h.MemoryAvail))
	}
	if res := m.Resources; res != nil {
		fmt.Fprintf(w, "Peak Memory:\t%s\n", humanize.IBytes(uint64(res.MaxMemory)))
		fmt.Fprintf(w, "CPU Time:\t%.2fs\n", res.CPUTime)
		fmt.Fprintf(w, "I/O:\t%s read, %s written\n",
			humanize.IBytes(uint64(res.ReadBytes)), humanize.IBytes(uint64(res.WriteBytes)))
	}
	return nil
}

func (r *Reporter) generateOutputLayout(w *tabwriter.Writer) error {
	fmt.Fprintf(w, "Output Layout (%d values)\n", r.manifest.OutputLength)
	fmt.Fprintf(w, "-------------\n")
	fmt.Fprintf(w, "CONFIG\tSHIFT\tMETRICS\n")
	for _, g := range r.manifest.Outputs {
		fmt.Fprintf(w, "%s\t%d\t%s\n", g.Name, g.Shift, strings.Join(g.Metrics, ", "))
	}
	return nil
}

func (r *Reporter) generateKernelTable(w *tabwriter.Writer) error {
	fmt.Fprintf(w, "Kernels\n")
	fmt.Fprintf(w, "-------\n")
	fmt.Fprintf(w, "CONFIG\tKERNEL\tBASE ID\tDESIGNS\tGENERATED\tSKIPPED\tFAILED\tDURATION\n")
	for _, k := range r.manifest.Kernels {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			k.OutputConfig, k.Kernel, k.BaseID, k.Designs, k.Generated, k.Skipped, k.Failed,
			k.Duration.Round(time.Millisecond))
	}
	return nil
}

func (r *Reporter) generateFailures(w *tabwriter.Writer) error {
	failed := make(map[string]int)
	var errs []string
	for _, k := range r.manifest.Kernels {
		if k.Failed > 0 {
			failed[k.Kernel] += k.Failed
		}
		if k.Error != "" {
			errs = append(errs, fmt.Sprintf("%s (%s): %s", k.Kernel, k.OutputConfig, k.Error))
		}
	}
	if len(failed) == 0 && len(errs) == 0 {
		return nil
	}

	fmt.Fprintf(w, "Failures\n")
	fmt.Fprintf(w, "--------\n")
	r.printTopItems(w, failed, 10)
	for _, e := range errs {
		fmt.Fprintf(w, "%s\n", e)
	}
	return nil
}

func (r *Reporter) printTopItems(w *tabwriter.Writer, m map[string]int, limit int) {
	type kv struct {
		Key   string
		Value int
	}

	var items []kv
	for k, v := range m {
		items = append(items, kv{k, v})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Key < items[j].Key
	})

	for i, item := range items {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "%s:\t%d failed\n", item.Key, item.Value)
	}
}
