// Package directives parses Vitis-style set_directive_* lines and rewrites kernel
// sources so that each directive becomes an in-source #pragma HLS line.
package directives

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the directive kinds the injector understands
type Kind int

const (
	Unroll Kind = iota
	ArrayPartition
	Resource
	Pipeline
	Inline
)

var kindNames = [...]string{"unroll", "array_partition", "resource", "pipeline", "inline"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// keyword prefixes, in the order they are tried
var keywords = map[string]Kind{
	"set_directive_unroll":          Unroll,
	"set_directive_array_partition": ArrayPartition,
	"set_directive_resource":        Resource,
	"set_directive_pipeline":        Pipeline,
	"set_directive_inline":          Inline,
}

// Lines with these keywords appear in directive corpora but carry nothing
// the injector can express in source.
var ignoredKeywords = map[string]bool{
	"set_directive_interface": true,
	"csynth_design":           true,
}

// Partition types accepted by set_directive_array_partition
const (
	PartitionCyclic   = "cyclic"
	PartitionBlock    = "block"
	PartitionComplete = "complete"
)

// Directive is one parsed directive. Only the fields relevant to Kind are set.
type Directive struct {
	Kind Kind

	// Unroll
	Factor int

	// Unroll and Pipeline
	Label string

	// ArrayPartition; factor and dim are kept as written
	PartitionType   string
	PartitionFactor string
	Dim             string

	// ArrayPartition and Resource
	Variable string
	Core     string

	// Inline
	Function string
	Off      bool
}

// ParseError reports a directive line that could not be parsed
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid directive %q: %s", e.Line, e.Reason)
}

// Parse parses a single directive line. ok is false for blank lines and for
// keywords that are recognised but ignored (interface directives, csynth_design).
func Parse(line string) (d Directive, ok bool, err error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return d, false, nil
	}

	kind, known := keywords[tokens[0]]
	if !known {
		if ignoredKeywords[tokens[0]] {
			return d, false, nil
		}
		return d, false, &ParseError{Line: line, Reason: "unknown directive kind " + tokens[0]}
	}

	p := tokenizedLine{line: line, tokens: tokens}
	d.Kind = kind
	switch kind {
	case Unroll:
		err = p.parseUnroll(&d)
	case ArrayPartition:
		err = p.parseArrayPartition(&d)
	case Resource:
		err = p.parseResource(&d)
	case Pipeline:
		d.Label = loopLabel(p.last())
	case Inline:
		d.Off = p.has("-off")
		d.Function = unquote(p.last())
	}
	if err != nil {
		return Directive{}, false, err
	}
	return d, true, nil
}

// ParseList parses a newline separated directive block, as stored with each design
func ParseList(text string) ([]Directive, error) {
	var list []Directive
	for _, line := range strings.Split(text, "\n") {
		d, ok, err := Parse(strings.TrimSpace(line))
		if err != nil {
			return nil, err
		}
		if ok {
			list = append(list, d)
		}
	}
	return list, nil
}

type tokenizedLine struct {
	line   string
	tokens []string
}

func (p tokenizedLine) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: p.line, Reason: fmt.Sprintf(format, args...)}
}

func (p tokenizedLine) has(flag string) bool {
	return p.index(flag) >= 0
}

func (p tokenizedLine) index(flag string) int {
	for i, tok := range p.tokens {
		if tok == flag {
			return i
		}
	}
	return -1
}

// value returns the token following flag
func (p tokenizedLine) value(flag string) (string, error) {
	i := p.index(flag)
	if i < 0 {
		return "", p.errorf("missing %s", flag)
	}
	if i+1 >= len(p.tokens) {
		return "", p.errorf("missing value for %s", flag)
	}
	return p.tokens[i+1], nil
}

func (p tokenizedLine) last() string {
	return p.tokens[len(p.tokens)-1]
}

func (p tokenizedLine) parseUnroll(d *Directive) error {
	i := p.index("-factor")
	if i < 0 {
		return p.errorf("missing -factor")
	}
	if i+2 >= len(p.tokens) {
		return p.errorf("missing factor or loop label")
	}
	factor, err := strconv.Atoi(p.tokens[i+1])
	if err != nil {
		return p.errorf("unroll factor %q is not an integer", p.tokens[i+1])
	}
	d.Factor = factor
	d.Label = loopLabel(p.tokens[i+2])
	return nil
}

func (p tokenizedLine) parseArrayPartition(d *Directive) error {
	partitionType, err := p.value("-type")
	if err != nil {
		return err
	}
	d.PartitionType = partitionType
	d.PartitionFactor = "1"
	d.Dim = "1"

	switch partitionType {
	case PartitionCyclic, PartitionBlock:
		if d.PartitionFactor, err = p.value("-factor"); err != nil {
			return err
		}
	case PartitionComplete:
	default:
		return p.errorf("unknown partition type %q", partitionType)
	}

	if p.has("-dim") {
		if d.Dim, err = p.value("-dim"); err != nil {
			return err
		}
	}
	d.Variable = unquote(p.last())
	return nil
}

func (p tokenizedLine) parseResource(d *Directive) error {
	core, err := p.value("-core")
	if err != nil {
		return err
	}
	d.Core = core
	d.Variable = unquote(p.last())
	return nil
}

// loopLabel strips quotes and the function path from a location like "kernel/loop1"
func loopLabel(location string) string {
	location = unquote(location)
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

func unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// Pragma returns the pragma text emitted for the directive, without indentation
func (d Directive) Pragma() string {
	switch d.Kind {
	case Unroll:
		return "#pragma HLS UNROLL factor=" + strconv.Itoa(d.Factor)
	case ArrayPartition:
		return fmt.Sprintf("#pragma HLS ARRAY_PARTITION type=%s variable=%s factor=%s dim=%s",
			d.PartitionType, d.Variable, d.PartitionFactor, d.Dim)
	case Resource:
		return fmt.Sprintf("#pragma HLS RESOURCE core=%s variable=%s", d.Core, d.Variable)
	case Pipeline:
		return "#pragma HLS PIPELINE "
	case Inline:
		if d.Off {
			return "#pragma HLS inline off "
		}
		return "#pragma HLS inline on "
	}
	return ""
}
