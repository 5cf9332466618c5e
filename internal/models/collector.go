package models

import (
	"context"
)

// Collector defines the interface for run environment collectors
type Collector interface {
	// Initialize prepares the collector
	Initialize(ctx context.Context) error

	// Collect gathers data
	Collect(ctx context.Context) error

	// GetData returns the collected data
	GetData() interface{}

	// Cleanup performs any necessary cleanup
	Cleanup(ctx context.Context) error
}

// BaseCollector provides common functionality for collectors
type BaseCollector struct {
	Enabled bool
	Error   error
}

// Environment describes where a dataset run executed
type Environment struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	WorkingDir string `json:"workingDir"`
	Hostname   string `json:"hostname"`
	// Compiler is the graph compiler binary resolved on PATH
	Compiler string `json:"compiler"`
}

// Host describes the machine's CPU and memory
type Host struct {
	CPUModel    string  `json:"cpuModel"`
	CPUVendor   string  `json:"cpuVendor"`
	Cores       int32   `json:"cores"`
	Threads     int32   `json:"threads"`
	Frequency   float64 `json:"frequency"`
	MemoryTotal uint64  `json:"memoryTotal"`
	MemoryAvail uint64  `json:"memoryAvailable"`
}

// ResourceUsage represents resource utilization of the dataset run
type ResourceUsage struct {
	MaxMemory   int64   `json:"maxMemory"`
	CPUTime     float64 `json:"cpuTime"`
	ThreadCount int     `json:"threads"`
	ReadBytes   int64   `json:"readBytes"`
	WriteBytes  int64   `json:"writeBytes"`
}

// CollectorFactory manages collectors
type CollectorFactory struct {
	names      []string
	collectors map[string]Collector
}

// NewCollectorFactory creates a new collector factory
func NewCollectorFactory() *CollectorFactory {
	return &CollectorFactory{
		collectors: make(map[string]Collector),
	}
}

// RegisterCollector registers a collector
func (f *CollectorFactory) RegisterCollector(name string, collector Collector) {
	if _, exists := f.collectors[name]; !exists {
		f.names = append(f.names, name)
	}
	f.collectors[name] = collector
}

// GetCollector returns a specific collector
func (f *CollectorFactory) GetCollector(name string) (Collector, bool) {
	collector, exists := f.collectors[name]
	return collector, exists
}

// Names returns the registered collector names in registration order
func (f *CollectorFactory) Names() []string {
	return f.names
}

// GetCollectors returns all registered collectors
func (f *CollectorFactory) GetCollectors() map[string]Collector {
	return f.collectors
}
