package host

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"hlsgraph/internal/models"
)

// Collector implements host information collection
type Collector struct {
	models.BaseCollector
	info models.Host
}

// NewCollector creates a new host collector
func NewCollector() *Collector {
	return &Collector{}
}

// Initialize prepares the host collector
func (c *Collector) Initialize(ctx context.Context) error {
	return nil
}

// Collect gathers CPU and memory information
func (c *Collector) Collect(ctx context.Context) error {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return errors.Wrap(err, "reading cpu info")
	}
	if len(infos) > 0 {
		c.info.CPUModel = infos[0].ModelName
		c.info.CPUVendor = infos[0].VendorID
		c.info.Frequency = infos[0].Mhz
	}

	cores, err := cpu.CountsWithContext(ctx, false)
	if err == nil {
		c.info.Cores = int32(cores)
	}
	c.info.Threads = int32(runtime.NumCPU())

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return errors.Wrap(err, "reading memory info")
	}
	c.info.MemoryTotal = vm.Total
	c.info.MemoryAvail = vm.Available
	return nil
}

// GetData returns the collected host information
func (c *Collector) GetData() interface{} {
	return c.info
}

// Cleanup performs any necessary cleanup
func (c *Collector) Cleanup(ctx context.Context) error {
	return nil
}
