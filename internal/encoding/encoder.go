// Package encoding turns graph attributes into fixed width feature rows.
package encoding

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind selects the transform of an Encoder
type Kind int

const (
	OneHot Kind = iota
	Linear
	Log
)

func (k Kind) String() string {
	switch k {
	case OneHot:
		return "one_hot"
	case Linear:
		return "linear"
	case Log:
		return "log"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Target is the object class an encoder reads from
type Target int

const (
	Node Target = iota
	Edge
)

func (t Target) String() string {
	if t == Edge {
		return "edge"
	}
	return "node"
}

// Encoder maps one attribute to a fixed number of features.
// Encoders are values; build them with NewOneHot, NewLinear or NewLog.
type Encoder struct {
	Kind   Kind
	Label  string
	Target Target

	// OneHot vocabulary, sorted and without duplicates
	Tags []string

	// Linear and Log
	Max  float64
	Bias float64

	positions map[string]int
}

// EncodingError reports a value an encoder cannot represent
type EncodingError struct {
	Label  string
	Object string
	Value  string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("encoding %s of %s: %s %q", e.Label, e.Object, e.Reason, e.Value)
	}
	return fmt.Sprintf("encoding %s: %s %q", e.Label, e.Reason, e.Value)
}

// NewOneHot creates a one-hot encoder. Tags are sorted and de-duplicated so
// that a column keeps its meaning however the vocabulary was listed.
func NewOneHot(label string, target Target, tags ...string) Encoder {
	uniq := make(map[string]bool, len(tags))
	var vocabulary []string
	for _, tag := range tags {
		if !uniq[tag] {
			uniq[tag] = true
			vocabulary = append(vocabulary, tag)
		}
	}
	sort.Strings(vocabulary)

	positions := make(map[string]int, len(vocabulary))
	for i, tag := range vocabulary {
		positions[tag] = i
	}
	return Encoder{Kind: OneHot, Label: label, Target: target, Tags: vocabulary, positions: positions}
}

// NewLinear creates an encoder mapping [0, max] to [-1, 1]
func NewLinear(label string, target Target, max float64) Encoder {
	return Encoder{Kind: Linear, Label: label, Target: target, Max: max}
}

// NewLog creates an encoder mapping [0, max] to [-1, 1] on a log2 scale shifted by bias
func NewLog(label string, target Target, max, bias float64) Encoder {
	return Encoder{Kind: Log, Label: label, Target: target, Max: max, Bias: bias}
}

// RangeTags returns the decimal strings 0..n-1
func RangeTags(n int) []string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = strconv.Itoa(i)
	}
	return tags
}

// Width is the number of features the encoder produces
func (e Encoder) Width() int {
	if e.Kind == OneHot {
		return len(e.Tags)
	}
	return 1
}

// Encode transforms one raw attribute value
func (e Encoder) Encode(raw string) ([]float32, error) {
	if e.Kind == OneHot {
		value := strings.ReplaceAll(raw, " ", "")
		pos, ok := e.positions[value]
		if !ok {
			return nil, &EncodingError{Label: e.Label, Value: value, Reason: "unseen value"}
		}
		features := make([]float32, len(e.Tags))
		features[pos] = 1
		return features, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &EncodingError{Label: e.Label, Value: raw, Reason: "non-numeric value"}
	}
	normalized, err := e.Normalize(v)
	if err != nil {
		return nil, err
	}
	return []float32{float32(normalized)}, nil
}

// Normalize applies a Linear or Log transform to v
func (e Encoder) Normalize(v float64) (float64, error) {
	switch e.Kind {
	case Linear:
		return v/e.Max*2 - 1, nil
	case Log:
		if v+e.Bias <= 0 {
			return 0, &EncodingError{Label: e.Label, Value: strconv.FormatFloat(v, 'g', -1, 64), Reason: "value outside log domain"}
		}
		scale := math.Log2(e.Max+e.Bias) - math.Log2(e.Bias)
		return (math.Log2(v+e.Bias)-math.Log2(e.Bias))/scale*2 - 1, nil
	}
	return 0, &EncodingError{Label: e.Label, Reason: "not a numeric encoder"}
}

// Width sums the widths of the encoders bound to target
func Width(encoders []Encoder, target Target) int {
	width := 0
	for _, e := range encoders {
		if e.Target == target {
			width += e.Width()
		}
	}
	if target == Edge {
		width += directionWidth
	}
	return width
}
