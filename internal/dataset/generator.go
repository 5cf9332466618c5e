// Package dataset turns measured kernel designs into persisted graph examples.
package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"hlsgraph/internal/cfg"
	graph "hlsgraph/internal/collectors/graph"
	"hlsgraph/internal/directives"
	"hlsgraph/internal/encoding"
	"hlsgraph/internal/metrics"
	"hlsgraph/internal/models"
	"hlsgraph/internal/profiles"
	"hlsgraph/internal/reporters"
)

const (
	DefaultWorkers = 16
	// allVast21Index is the dataset index every graph gets with AllVast21
	allVast21Index = int(metrics.VAST21)
)

// Options controls a generation run
type Options struct {
	// OutputDir receives the examples, typically <dataset>/<output>/<profile>
	OutputDir string
	// TempDir holds one annotated source per worker
	TempDir string
	Workers int
	Format  string

	CombineVast bool
	// AllVast21 tags every graph with the VAST_21 dataset index
	AllVast21 bool
	// MerlinOnly skips the secondary graph of VAST designs
	MerlinOnly bool
	// ValidOnly drops VAST designs that are not valid
	ValidOnly bool
	// NoRegen keeps examples that already exist
	NoRegen bool
}

// Progress receives generation events. Methods may be called concurrently.
type Progress interface {
	StartKernel(config metrics.ConfigID, kernel string, designs int)
	Done(n int)
	FinishKernel(run models.KernelRun)
}

type nopProgress struct{}

func (nopProgress) StartKernel(metrics.ConfigID, string, int) {}
func (nopProgress) Done(int)                                 {}
func (nopProgress) FinishKernel(models.KernelRun)             {}

// Generator produces one example per design of every kernel of its jobs
type Generator struct {
	opts     Options
	profile  *profiles.Resolved
	invoker  graph.Invoker
	loaders  LoaderFunc
	jobs     []Job
	layout   *metrics.Layout
	writer   reporters.Writer
	progress Progress
	runID    string
}

// NewGenerator validates the run setup: every job must land in an output
// group of the layout built from outputs.
func NewGenerator(opts Options, profile *profiles.Resolved, invoker graph.Invoker, loaders LoaderFunc,
	jobs []Job, outputs []metrics.ConfigID) (*Generator, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.TempDir == "" {
		opts.TempDir = "tmp"
	}
	if opts.OutputDir == "" {
		return nil, errors.New("no output directory")
	}

	layout, err := metrics.NewLayout(outputs...)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		c, err := metrics.Lookup(job.Config)
		if err != nil {
			return nil, err
		}
		if _, _, err := layout.Shifts(c); err != nil {
			return nil, errors.Wrapf(err, "kernels of %s", job.Config)
		}
	}

	writer, err := reporters.NewWriter(reporters.Options{OutputDir: opts.OutputDir, Format: opts.Format})
	if err != nil {
		return nil, err
	}

	return &Generator{
		opts:     opts,
		profile:  profile,
		invoker:  invoker,
		loaders:  loaders,
		jobs:     jobs,
		layout:   layout,
		writer:   writer,
		progress: nopProgress{},
		runID:    uuid.New().String(),
	}, nil
}

// SetProgress installs a progress receiver
func (g *Generator) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	g.progress = p
}

func (g *Generator) Layout() *metrics.Layout { return g.layout }

func (g *Generator) RunID() string { return g.runID }

// Run generates every job in order. Example ids continue across kernels.
// Failures of single designs or kernels are collected and returned joined
// after the whole run; the manifest is always returned.
func (g *Generator) Run(ctx context.Context) (*models.Manifest, error) {
	start := time.Now()
	if err := os.MkdirAll(g.opts.TempDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating temp directory")
	}
	if err := os.MkdirAll(g.opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	manifest := g.newManifest(start)
	var errs []error
	baseID := 0

	for _, job := range g.jobs {
		c, err := metrics.Lookup(job.Config)
		if err != nil {
			return manifest, err
		}
		loader, err := g.loaders(job.Config)
		if err != nil {
			return manifest, errors.Wrapf(err, "designs of %s", job.Config)
		}

		for n, name := range job.Kernels {
			if err := ctx.Err(); err != nil {
				return manifest, err
			}
			klog.Infof("Processing kernel: %s, %d/%d (%s)", name, n+1, len(job.Kernels), job.Config)

			run := models.KernelRun{OutputConfig: job.Config.String(), Kernel: name, BaseID: baseID}
			kernel, err := loader.Load(ctx, name)
			if err != nil {
				klog.Warningf("Skipping kernel %s: %v", name, err)
				run.Error = err.Error()
				errs = append(errs, errors.Wrapf(err, "kernel %s", name))
				manifest.Kernels = append(manifest.Kernels, run)
				g.progress.FinishKernel(run)
				continue
			}
			if g.opts.ValidOnly && c.Vast {
				kernel.Designs = validDesigns(kernel.Designs)
			}

			kernelStart := time.Now()
			g.progress.StartKernel(job.Config, name, len(kernel.Designs))
			generated, skipped, failures := g.generateKernel(ctx, c, kernel, baseID)

			run.Designs = len(kernel.Designs)
			run.Generated = generated
			run.Skipped = skipped
			run.Failed = len(failures)
			run.Duration = time.Since(kernelStart)
			manifest.Kernels = append(manifest.Kernels, run)
			manifest.Total += run.Designs
			manifest.Failed += run.Failed
			errs = append(errs, failures...)
			g.progress.FinishKernel(run)

			klog.Infof("Completed %s in %s", name, run.Duration.Round(time.Millisecond))
			baseID += len(kernel.Designs)
		}
	}

	manifest.Duration = time.Since(start)
	klog.Infof("Total time: %s, total designs: %d", manifest.Duration.Round(time.Millisecond), baseID)
	return manifest, stderrors.Join(errs...)
}

func (g *Generator) newManifest(start time.Time) *models.Manifest {
	m := &models.Manifest{
		RunID:        g.runID,
		Profile:      g.profile.Profile.Name,
		Format:       g.opts.Format,
		OutputDir:    g.opts.OutputDir,
		StartTime:    start,
		OutputLength: g.layout.Length,
		NodeWidth:    g.profile.NodeWidth(),
		EdgeWidth:    g.profile.EdgeWidth(),
	}
	if m.Format == "" {
		m.Format = "json"
	}
	for _, group := range g.layout.Groups {
		m.Outputs = append(m.Outputs, models.OutputGroup{Name: group.ID.String(), Shift: group.Shift, Metrics: group.Metrics})
	}
	return m
}

func validDesigns(designs []models.Design) []models.Design {
	var kept []models.Design
	for _, d := range designs {
		if d.Values[metrics.ValidMetric] != 0 {
			kept = append(kept, d)
		}
	}
	return kept
}

// generateKernel strides the designs over the workers: worker k handles
// designs k, k+W, k+2W, ...
func (g *Generator) generateKernel(ctx context.Context, c *metrics.OutputConfig, kernel *models.KernelData,
	baseID int) (generated, skipped int, failures []error) {
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)

	for worker := 0; worker < g.opts.Workers; worker++ {
		worker := worker
		eg.Go(func() error {
			for i := worker; i < len(kernel.Designs); i += g.opts.Workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				id := baseID + i
				if g.opts.NoRegen && g.writer.Exists(id) {
					mu.Lock()
					skipped++
					mu.Unlock()
					g.progress.Done(1)
					continue
				}

				err := g.generateDesign(ctx, worker, c, kernel, i, id)
				mu.Lock()
				if err != nil {
					err = errors.Wrapf(err, "there was an error in %s %d", kernel.Name, i)
					klog.Warning(err)
					failures = append(failures, err)
				} else {
					generated++
				}
				mu.Unlock()
				g.progress.Done(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		failures = append(failures, errors.Wrapf(err, "kernel %s", kernel.Name))
	}
	return generated, skipped, failures
}

func (g *Generator) datasetIndex(c *metrics.OutputConfig) int {
	if g.opts.AllVast21 {
		return allVast21Index
	}
	return int(c.Target)
}

// annotate writes the design's version of src into dst
func annotate(ctx context.Context, c *metrics.OutputConfig, kernel *models.KernelData, d models.Design, src, dst string) error {
	if usesMerlin(c.ID) {
		return directives.SubstituteFile(ctx, d.Point, src, dst)
	}
	list, err := directives.ParseList(d.Pragmas)
	if err != nil {
		return err
	}
	return directives.InjectFile(ctx, kernel.Name, list, src, dst)
}

// encodedGraph is one compiler graph with its basic block data
type encodedGraph struct {
	*encoding.Graph
	bbIDs []int64
	cfg   *cfg.CFG
}

func (g *Generator) compile(ctx context.Context, kernel *models.KernelData, source string, index, graphType int) (*encodedGraph, error) {
	ag, err := g.invoker.Invoke(ctx, graph.Request{
		Kernel:       kernel.Name,
		Source:       source,
		DatasetIndex: index,
		GraphType:    graphType,
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encoding.Encode(g.profile.Encoders, ag)
	if err != nil {
		return nil, err
	}
	bbIDs, err := cfg.BasicBlockIDs(ag)
	if err != nil {
		return nil, err
	}
	blocks, err := cfg.Extract(ag)
	if err != nil {
		return nil, err
	}
	return &encodedGraph{Graph: encoded, bbIDs: bbIDs, cfg: blocks}, nil
}

func (g *Generator) generateDesign(ctx context.Context, worker int, c *metrics.OutputConfig,
	kernel *models.KernelData, i, id int) error {
	d := kernel.Designs[i]
	tmp := filepath.Join(g.opts.TempDir, fmt.Sprintf("%d.cpp", worker))
	index := g.datasetIndex(c)

	if err := annotate(ctx, c, kernel, d, kernel.Source(i), tmp); err != nil {
		return err
	}
	primary, err := g.compile(ctx, kernel, tmp, index, 0)
	if err != nil {
		return err
	}

	if !g.opts.MerlinOnly && c.Vast {
		// the secondary graph always comes from the kernel's own source
		if err := annotate(ctx, c, kernel, d, kernel.SourcePath, tmp); err != nil {
			return err
		}
		secondary, err := g.compile(ctx, kernel, tmp, index, 1)
		if err != nil {
			return err
		}
		primary = &encodedGraph{
			Graph: primary.Concat(secondary.Graph),
			bbIDs: append(primary.bbIDs, cfg.Offset(secondary.bbIDs, int64(primary.cfg.NumBBs))...),
			cfg:   cfg.Merge(primary.cfg, secondary.cfg),
		}
	}

	values, err := c.Normalize(d)
	if err != nil {
		return err
	}
	y, use, err := g.layout.Assemble(c, values, c.UseInLoss(d))
	if err != nil {
		return err
	}
	shift, joinShift, err := g.layout.Shifts(c)
	if err != nil {
		return err
	}

	ex := &models.Example{
		ID:           id,
		X:            primary.X,
		EdgeIndex:    primary.EdgeIndex,
		EdgeAttr:     primary.EdgeAttr,
		CFGEdgeIndex: primary.cfg.EdgeIndex,
		BBIDs:        primary.bbIDs,
		NumBBs:       primary.cfg.NumBBs,
		BBBatch:      primary.cfg.BBBatch,
		Y:            y,
		UseInLoss:    use,
		Metadata: models.Metadata{
			Kernel:       kernel.Name,
			Pragmas:      designPragmas(c, d),
			DatasetIndex: index,
			OutputConfig: c.ID.String(),
			Shift:        shift,
			JoinShift:    joinShift,
			AllOutputs:   g.layout.AllOutputs(),
			RunID:        g.runID,
		},
	}
	klog.V(1).Infof("%s %d: %d nodes, %d edges, %d basic blocks", kernel.Name, i, len(ex.X), len(ex.EdgeAttr), ex.NumBBs)
	return g.writer.Write(ex)
}

// designPragmas renders the directives of a design for example metadata
func designPragmas(c *metrics.OutputConfig, d models.Design) string {
	if !usesMerlin(c.ID) {
		return d.Pragmas
	}
	keys := make([]string, 0, len(d.Point))
	for k := range d.Point {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + d.Point[k]
	}
	return strings.Join(lines, "\n")
}
