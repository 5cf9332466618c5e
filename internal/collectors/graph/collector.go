// internal/collectors/graph/collector.go
package graph

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hlsgraph/internal/models"
	graphparser "hlsgraph/internal/parsers/graph"
)

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// Request identifies one graph compiler invocation
type Request struct {
	Kernel       string
	Source       string
	DatasetIndex int
	// GraphType is 0 for the primary graph and 1 for the secondary graph of a dual-graph design
	GraphType int
}

// Invoker produces the attribute graph of an annotated kernel source
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*models.AttributeGraph, error)
}

// IngestionError reports a failed compiler run or unparsable compiler output
type IngestionError struct {
	Kernel string
	Source string
	Stderr string
	Err    error
}

func (e *IngestionError) Error() string {
	msg := fmt.Sprintf("graph ingestion failed for kernel %s (%s): %v", e.Kernel, e.Source, e.Err)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors unwrap the error
func (e *IngestionError) Cause() error { return e.Err }

// Compiler runs the graph compiler binary as a subprocess. Each call is a single
// attempt; the compiler is deterministic for identical inputs.
type Compiler struct {
	Binary string
	// Flags are the profile flags placed before the per-request arguments
	Flags []string
}

// NewCompiler creates an invoker for binary with the given profile flags
func NewCompiler(binary string, flags []string) *Compiler {
	return &Compiler{Binary: binary, Flags: flags}
}

// Args returns the argument list for req
func (c *Compiler) Args(req Request) []string {
	args := append([]string(nil), c.Flags...)
	return append(args,
		"--top", req.Kernel,
		"--src", req.Source,
		"--datasetIndex", strconv.Itoa(req.DatasetIndex),
		"--graphType", strconv.Itoa(req.GraphType),
	)
}

// Invoke implements Invoker
func (c *Compiler) Invoke(ctx context.Context, req Request) (*models.AttributeGraph, error) {
	args := c.Args(req)
	klog.V(2).Infof("invoking %s %s", c.Binary, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &IngestionError{Kernel: req.Kernel, Source: req.Source, Stderr: stderr.String(), Err: err}
	}

	g, err := graphparser.NewParser(&stdout).Parse()
	if err != nil {
		return nil, &IngestionError{Kernel: req.Kernel, Source: req.Source, Stderr: stderr.String(), Err: err}
	}
	return g, nil
}

// Info describes the graph compiler used for a run
type Info struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Version string   `json:"version"`
	Flags   []string `json:"flags"`
}

// Collector records which graph compiler produced a dataset
type Collector struct {
	models.BaseCollector
	compiler *Compiler
	info     Info
}

func NewCollector(compiler *Compiler) *Collector {
	return &Collector{
		compiler: compiler,
		info: Info{
			Flags: compiler.Flags,
		},
	}
}

func (c *Collector) Initialize(ctx context.Context) error {
	c.info.Name = filepath.Base(c.compiler.Binary)
	path, err := exec.LookPath(c.compiler.Binary)
	if err != nil {
		return errors.Wrapf(err, "graph compiler %s not found", c.compiler.Binary)
	}
	c.info.Path = path
	return nil
}

func (c *Collector) Collect(ctx context.Context) error {
	version, err := c.collectVersion(ctx)
	if err != nil {
		// older compiler builds do not know --version
		klog.V(1).Infof("graph compiler version unavailable: %v", err)
		version = "unknown"
	}
	c.info.Version = version
	return nil
}

func (c *Collector) GetData() interface{} {
	return c.info
}

func (c *Collector) Cleanup(ctx context.Context) error {
	return nil
}

func (c *Collector) collectVersion(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, c.compiler.Binary, "--version").CombinedOutput()
	if err != nil {
		return "", err
	}
	if matches := versionPattern.FindStringSubmatch(string(output)); len(matches) > 1 {
		return matches[1], nil
	}
	return "", errors.New("no version in compiler output")
}
