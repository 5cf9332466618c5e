package resource

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"hlsgraph/internal/models"
)

// Collector implements resource usage collection for the running process.
// Graph compiler children are short lived, so their cost shows up in the
// parent's CPU time once they have been waited for.
type Collector struct {
	models.BaseCollector
	info      models.ResourceUsage
	startTime time.Time
	proc      *process.Process
}

// NewCollector creates a new resource usage collector
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

// Initialize prepares the resource collector
func (c *Collector) Initialize(ctx context.Context) error {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return errors.Wrap(err, "opening own process")
	}
	c.proc = proc
	c.info.ThreadCount = runtime.GOMAXPROCS(0)
	return nil
}

// Collect gathers resource usage information
func (c *Collector) Collect(ctx context.Context) error {
	if c.proc == nil {
		return errors.New("resource collector not initialized")
	}

	memInfo, err := c.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return errors.Wrap(err, "reading memory info")
	}
	if rss := int64(memInfo.RSS); rss > c.info.MaxMemory {
		c.info.MaxMemory = rss
	}

	cpuTimes, err := c.proc.TimesWithContext(ctx)
	if err != nil {
		return errors.Wrap(err, "reading cpu times")
	}
	c.info.CPUTime = cpuTimes.User + cpuTimes.System

	// IO counters are not available on every platform
	if ioStats, err := c.proc.IOCountersWithContext(ctx); err == nil {
		c.info.ReadBytes = int64(ioStats.ReadBytes)
		c.info.WriteBytes = int64(ioStats.WriteBytes)
	}

	if threads, err := c.proc.NumThreadsWithContext(ctx); err == nil {
		c.info.ThreadCount = int(threads)
	}
	return nil
}

// GetData returns the collected resource usage information
func (c *Collector) GetData() interface{} {
	return c.info
}

// Cleanup performs one final collection
func (c *Collector) Cleanup(ctx context.Context) error {
	return c.Collect(ctx)
}

// Elapsed returns the wall time since the collector was created
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}
