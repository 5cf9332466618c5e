// internal/reporters/stdout/reporter.go

package stdout

import (
	"io"
	"os"
	"text/tabwriter"

	"hlsgraph/internal/models"
	"hlsgraph/internal/reporters/text"
)

type Reporter struct {
	manifest *models.Manifest
	writer   io.Writer
}

func NewReporter(manifest *models.Manifest, writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		manifest: manifest,
		writer:   writer,
	}
}

func (r *Reporter) Generate() error {
	w := tabwriter.NewWriter(r.writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	// Reuse the text reporter
	reporter := text.NewReporter(r.manifest, "")
	return reporter.GenerateToWriter(w)
}
