// internal/models/design.go

package models

import "context"

// Design is one measured configuration of a kernel
type Design struct {
	Index int `json:"index"`

	// Pragmas holds directive text, one directive per line
	Pragmas string `json:"pragmas"`

	// Point holds placeholder assignments for sources annotated with auto{key} pragmas
	Point map[string]string `json:"point,omitempty"`

	// SourcePath overrides the kernel's source file for this design when set
	SourcePath string `json:"sourcePath,omitempty"`

	Values map[string]float64 `json:"values"`
}

// Value returns a measured metric; a missing metric is reported as not found
func (d Design) Value(metric string) (float64, bool) {
	v, ok := d.Values[metric]
	return v, ok
}

// KernelData groups every design measured for a single kernel
type KernelData struct {
	// Name is the top-level function handed to the graph compiler
	Name       string   `json:"name"`
	SourcePath string   `json:"sourcePath"`
	Designs    []Design `json:"designs"`
}

// Source returns the source file a design should be annotated from
func (k *KernelData) Source(i int) string {
	if p := k.Designs[i].SourcePath; p != "" {
		return p
	}
	return k.SourcePath
}

// DesignLoader loads measured designs for a kernel from a data store
type DesignLoader interface {
	Load(ctx context.Context, kernel string) (*KernelData, error)
}
