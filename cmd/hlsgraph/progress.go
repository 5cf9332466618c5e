// cmd/hlsgraph/progress.go

package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"hlsgraph/internal/metrics"
	"hlsgraph/internal/models"
)

const progressThrottle = 100 * time.Millisecond

// progress draws one bar per kernel
type progress struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

func (p *progress) StartKernel(config metrics.ConfigID, kernel string, designs int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(designs,
		progressbar.OptionSetDescription(fmt.Sprintf("%-10s %-24s", config, kernel)),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "=", SaucerHead: ">", SaucerPadding: ".", BarStart: "[", BarEnd: "]"}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("designs"),
		progressbar.OptionThrottle(progressThrottle),
	)
}

func (p *progress) Done(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

func (p *progress) FinishKernel(run models.KernelRun) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	status := fmt.Sprintf("%s designs", humanize.Comma(int64(run.Generated)))
	if run.Skipped > 0 {
		status += fmt.Sprintf(", %s kept", humanize.Comma(int64(run.Skipped)))
	}
	if run.Failed > 0 {
		status += fmt.Sprintf(", %d failed", run.Failed)
	}
	if run.Error != "" {
		status = "not loaded: " + run.Error
	}
	fmt.Fprintf(p.out, "\n%s %s: %s\n", run.OutputConfig, run.Kernel, status)
}
