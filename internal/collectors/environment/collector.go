// internal/collectors/environment/collector.go

package environment

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

// Collector implements environment information collection
type Collector struct {
	models.BaseCollector
	info     models.Environment
	compiler string
}

// NewCollector creates a new environment collector; compiler is the configured
// graph compiler binary, resolved against PATH during collection.
func NewCollector(compiler string) *Collector {
	return &Collector{compiler: compiler}
}

// Initialize prepares the environment collector
func (c *Collector) Initialize(ctx context.Context) error {
	return nil
}

// Collect gathers environment information
func (c *Collector) Collect(ctx context.Context) error {
	c.info.OS = runtime.GOOS
	c.info.Arch = runtime.GOARCH

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	c.info.WorkingDir = wd

	if host, err := os.Hostname(); err == nil {
		c.info.Hostname = host
	}

	c.info.Compiler = c.compiler
	if c.compiler != "" {
		if resolved, err := exec.LookPath(c.compiler); err == nil {
			c.info.Compiler = resolved
		}
	}
	return nil
}

// GetData returns the collected environment information
func (c *Collector) GetData() interface{} {
	return c.info
}

// Cleanup performs any necessary cleanup
func (c *Collector) Cleanup(ctx context.Context) error {
	return nil
}
