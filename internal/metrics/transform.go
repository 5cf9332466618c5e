// Package metrics maps measured quality-of-result metrics to and from the
// [-1, 1] range used as regression targets.
package metrics

import (
	"math"

	"github.com/pkg/errors"
)

// Kind selects a Transform
type Kind int

const (
	Linear Kind = iota
	Affine
	Log
	Identity
	// Performance maps latency to ln(1e7/(latency+1))/2
	Performance
	OneHot
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Affine:
		return "affine"
	case Log:
		return "log"
	case Identity:
		return "identity"
	case Performance:
		return "performance"
	case OneHot:
		return "one_hot"
	}
	return "unknown"
}

const performanceScale = 1e7

// Transform is an invertible normalization of one metric
type Transform struct {
	Kind Kind    `json:"kind"`
	Max  float64 `json:"max,omitempty"`
	Min  float64 `json:"min,omitempty"`
	Bias float64 `json:"bias,omitempty"`
	// Tags are the categories of a OneHot transform
	Tags []float64 `json:"tags,omitempty"`
}

func LinearTransform(max float64) Transform { return Transform{Kind: Linear, Max: max} }

func AffineTransform(max, min float64) Transform { return Transform{Kind: Affine, Max: max, Min: min} }

func LogTransform(max, bias float64) Transform { return Transform{Kind: Log, Max: max, Bias: bias} }

func IdentityTransform() Transform { return Transform{Kind: Identity} }

func PerformanceTransform() Transform { return Transform{Kind: Performance} }

func OneHotTransform(tags ...float64) Transform { return Transform{Kind: OneHot, Tags: tags} }

// Width is the number of output columns
func (t Transform) Width() int {
	if t.Kind == OneHot {
		return len(t.Tags)
	}
	return 1
}

func (t Transform) logScale() float64 {
	return math.Log2(t.Max+t.Bias) - math.Log2(t.Bias)
}

// Apply normalizes a raw value. OneHot transforms return the tag position.
func (t Transform) Apply(v float64) float64 {
	switch t.Kind {
	case Linear:
		return v/t.Max*2 - 1
	case Affine:
		return (v-t.Min)/t.Max*2 - 1
	case Log:
		return (math.Log2(v+t.Bias)-math.Log2(t.Bias))/t.logScale()*2 - 1
	case Performance:
		return math.Log(performanceScale/(v+1)) / 2
	case OneHot:
		for i, tag := range t.Tags {
			if tag == v {
				return float64(i)
			}
		}
		return -1
	}
	return v
}

// Invert recovers the raw value from a normalized one
func (t Transform) Invert(b float64) float64 {
	switch t.Kind {
	case Linear:
		return (b + 1) / 2 * t.Max
	case Affine:
		return (b+1)/2*t.Max + t.Min
	case Log:
		return math.Exp2((b+1)/2*t.logScale()+math.Log2(t.Bias)) - t.Bias
	case Performance:
		return performanceScale/math.Exp(2*b) - 1
	case OneHot:
		i := int(b)
		if i < 0 || i >= len(t.Tags) {
			return math.NaN()
		}
		return t.Tags[i]
	}
	return b
}

// Normalize produces the output columns of v
func (t Transform) Normalize(v float64) ([]float32, error) {
	if t.Kind != OneHot {
		return []float32{float32(t.Apply(v))}, nil
	}
	pos := int(t.Apply(v))
	if pos < 0 {
		return nil, errors.Errorf("value %v is not a category of the metric", v)
	}
	out := make([]float32, len(t.Tags))
	out[pos] = 1
	return out, nil
}

// Unnormalize reverses Normalize. OneHot columns decode to the tag of the largest column.
func (t Transform) Unnormalize(columns []float32) (float64, error) {
	if len(columns) != t.Width() {
		return 0, errors.Errorf("expected %d columns, got %d", t.Width(), len(columns))
	}
	if t.Kind != OneHot {
		return t.Invert(float64(columns[0])), nil
	}
	best := 0
	for i, c := range columns {
		if c > columns[best] {
			best = i
		}
	}
	return t.Tags[best], nil
}
