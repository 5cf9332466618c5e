// internal/models/manifest.go

package models

import "time"

// OutputGroup is one configuration's slice of the output vector
type OutputGroup struct {
	Name    string   `json:"name"`
	Shift   int      `json:"shift"`
	Metrics []string `json:"metrics"`
}

// KernelRun summarises the designs of one kernel
type KernelRun struct {
	OutputConfig string        `json:"outputConfig"`
	Kernel       string        `json:"kernel"`
	BaseID       int           `json:"baseId"`
	Designs      int           `json:"designs"`
	Generated    int           `json:"generated"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Duration     time.Duration `json:"duration"`
	// Error is set when the kernel's designs could not be loaded
	Error string `json:"error,omitempty"`
}

// Manifest describes one dataset generation run
type Manifest struct {
	RunID        string        `json:"runId"`
	Profile      string        `json:"profile"`
	Format       string        `json:"format"`
	OutputDir    string        `json:"outputDir"`
	StartTime    time.Time     `json:"startTime"`
	Duration     time.Duration `json:"duration"`
	OutputLength int           `json:"outputLength"`
	Outputs      []OutputGroup `json:"outputs"`
	NodeWidth    int           `json:"nodeWidth"`
	EdgeWidth    int           `json:"edgeWidth"`
	Kernels      []KernelRun   `json:"kernels"`
	Total        int           `json:"total"`
	Failed       int           `json:"failed"`

	Compiler    interface{}    `json:"compiler,omitempty"`
	Environment *Environment   `json:"environment,omitempty"`
	Host        *Host          `json:"host,omitempty"`
	Resources   *ResourceUsage `json:"resources,omitempty"`
}
