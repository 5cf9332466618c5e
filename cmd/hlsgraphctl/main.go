// cmd/hlsgraphctl/main.go

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"k8s.io/klog/v2"

	analysis "hlsgraph/internal/analysis/dataset"
	"hlsgraph/internal/dataset"
	"hlsgraph/internal/metrics"
	"hlsgraph/internal/profiles"
	"hlsgraph/internal/reporters"
	jsonreporter "hlsgraph/internal/reporters/json"
)

var (
	format  = flag.String("format", "display", "Output format (display, json)")
	version = flag.Bool("version", false, "Show version information")

	combineVast = flag.Bool("combine-vast", false, "Include the combined VAST group in the groups layout")
)

const buildVersion = "0.1.0"

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *version {
		fmt.Printf("hlsgraphctl version %s\n", buildVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "profiles":
		listProfiles()

	case "groups":
		listGroups(args[1:])

	case "outputs":
		listOutputs()

	case "show":
		if len(args) < 2 {
			klog.Exit("Dataset directory required")
		}
		showManifest(args[1])

	case "analyze":
		if len(args) < 2 {
			klog.Exit("Dataset directory required")
		}
		analyzeDataset(args[1])

	case "example":
		if len(args) < 2 {
			klog.Exit("Example file required")
		}
		showExample(args[1])

	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func listProfiles() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "PROFILE\tNODE WIDTH\tEDGE WIDTH\tFLAGS\n")
	for _, name := range profiles.Names() {
		p, err := profiles.Lookup(name)
		if err != nil {
			klog.Exitf("Failed to load profile %s: %v", name, err)
		}
		r, err := profiles.Resolve(p, "")
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t%v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, r.NodeWidth(), r.EdgeWidth(), strings.Join(r.Flags, " "))
	}
}

func listGroups(selected []string) {
	names := selected
	if len(names) == 0 {
		names = dataset.GroupNames()
	}
	jobs, outputs, err := dataset.Plan(names, *combineVast)
	if err != nil {
		klog.Exitf("Failed to plan groups: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "CONFIG\tKERNELS\n")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%d\n", job.Config, len(job.Kernels))
	}

	layout, err := metrics.NewLayout(outputs...)
	if err != nil {
		klog.Exitf("Failed to lay out outputs: %v", err)
	}
	fmt.Fprintf(w, "\nOUTPUT\tSHIFT\tWIDTH\n")
	for _, g := range layout.Groups {
		fmt.Fprintf(w, "%s\t%d\t%d\n", g.ID, g.Shift, g.Width)
	}
	fmt.Fprintf(w, "total\t\t%d\n", layout.Length)
}

func listOutputs() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "CONFIG\tMETRIC\tTRANSFORM\n")
	for _, id := range []metrics.ConfigID{
		metrics.DB4HLS, metrics.ML4ACCEL, metrics.POWERGEAR, metrics.VAST18, metrics.VASTAll, metrics.GNNDSE,
	} {
		c, err := metrics.Lookup(id)
		if err != nil {
			klog.Exitf("Failed to load output configuration %s: %v", id, err)
		}
		for _, m := range c.Metrics {
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, m.Name, m.Transform.Kind)
		}
	}
}

func showManifest(dir string) {
	manifest, err := jsonreporter.ReadManifest(dir)
	if err != nil {
		klog.Exitf("Failed to read manifest: %v", err)
	}

	if *format == "json" {
		printJSON(manifest)
		return
	}
	if err := reporters.NewReporter(manifest, "stdout", dir, os.Stdout).Generate(); err != nil {
		klog.Exitf("Failed to generate report: %v", err)
	}
}

func analyzeDataset(dir string) {
	manifest, err := jsonreporter.ReadManifest(dir)
	if err != nil {
		klog.Exitf("Failed to read manifest: %v", err)
	}
	reader, err := reporters.NewReader(manifest.Format)
	if err != nil {
		klog.Exitf("Failed to create reader: %v", err)
	}

	result, err := analysis.NewAnalyzer(manifest, reader, dir).Analyze()
	if err != nil {
		klog.Exitf("Analysis failed: %v", err)
	}

	if *format == "json" {
		printJSON(result)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	printAnalysis(w, result)
}

func showExample(path string) {
	reader, err := reporters.NewReader(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		klog.Exitf("Failed to create reader: %v", err)
	}
	ex, err := reader.Read(path)
	if err != nil {
		klog.Exitf("Failed to read example: %v", err)
	}

	if *format == "json" {
		printJSON(ex)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	printExample(w, ex)
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		klog.Exitf("Failed to encode: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`Usage: %s [options] <command> [arguments]

Commands:
  profiles              List graph profiles and their feature widths
  groups [group...]     Show kernel groups and the output layout they produce
  outputs               List output configurations and their metrics
  show <dataset-dir>    Show the manifest of a generated dataset
  analyze <dataset-dir> Check shapes and ranges of the persisted examples
  example <file>        Show one persisted example

Options:
  -format string    Output format (display, json) (default "display")
  -combine-vast     Include the combined VAST group in the groups layout
  -version          Show version information

Examples:
  %[1]s -combine-vast groups indigo ruby   # Layout of a combined VAST run
  %[1]s show datasets/default/mayo         # Run summary
  %[1]s -format json analyze datasets/x/y  # Analysis as JSON
`, os.Args[0])
}
