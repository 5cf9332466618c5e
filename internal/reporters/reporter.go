package reporters

import (
	"io"

	"github.com/pkg/errors"

	"hlsgraph/internal/models"
	"hlsgraph/internal/reporters/json"
	"hlsgraph/internal/reporters/pb"
	"hlsgraph/internal/reporters/stdout"
	"hlsgraph/internal/reporters/text"
)

// Reporter defines the interface for run summary generators
type Reporter interface {
	Generate() error
}

// NewReporter creates a summary reporter: "stdout" writes to w, anything else
// writes summary.txt into outDir.
func NewReporter(manifest *models.Manifest, format, outDir string, w io.Writer) Reporter {
	switch format {
	case "stdout":
		return stdout.NewReporter(manifest, w)
	default:
		return text.NewReporter(manifest, outDir)
	}
}

// Writer persists examples, one file per example id
type Writer interface {
	Write(ex *models.Example) error
	// Exists reports whether the example with this id was already persisted
	Exists(id int) bool
	Path(id int) string
}

// Reader loads persisted examples back
type Reader interface {
	Read(path string) (*models.Example, error)
	// Glob matches every example file of the format in a directory
	Glob(dir string) ([]string, error)
}

// Options holds configuration for example persistence
type Options struct {
	OutputDir string
	Format    string
}

// Formats lists the supported example formats
func Formats() []string {
	return []string{json.Format, pb.Format}
}

// NewWriter creates a writer based on the specified format
func NewWriter(opts Options) (Writer, error) {
	switch opts.Format {
	case json.Format, "":
		return json.NewWriter(opts.OutputDir), nil
	case pb.Format:
		return pb.NewWriter(opts.OutputDir), nil
	default:
		return nil, errors.Errorf("unknown example format %q", opts.Format)
	}
}

// NewReader creates a reader based on the specified format
func NewReader(format string) (Reader, error) {
	switch format {
	case json.Format, "":
		return json.NewWriter(""), nil
	case pb.Format:
		return pb.NewWriter(""), nil
	default:
		return nil, errors.Errorf("unknown example format %q", format)
	}
}
