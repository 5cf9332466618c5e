package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

const (
	Format       = "json"
	ManifestFile = "manifest.json"
)

// Writer stores examples as data_<id>.json
type Writer struct {
	outDir string
}

func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

func (w *Writer) Path(id int) string {
	return filepath.Join(w.outDir, fmt.Sprintf("data_%d.%s", id, Format))
}

func (w *Writer) Exists(id int) bool {
	_, err := os.Stat(w.Path(id))
	return err == nil
}

func (w *Writer) Write(ex *models.Example) error {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	return WriteFile(w.Path(ex.ID), ex, false)
}

func (w *Writer) Read(path string) (*models.Example, error) {
	ex := &models.Example{}
	if err := ReadFile(path, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (w *Writer) Glob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "data_*."+Format))
}

// WriteFile encodes v into path, replacing the file atomically
func WriteFile(path string, v interface{}, indent bool) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	encoder := json.NewEncoder(file)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", path)
	}
	return os.Rename(tmp, path)
}

// ReadFile decodes the JSON file at path into v
func ReadFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// WriteManifest stores the run manifest next to the examples
func WriteManifest(outDir string, m *models.Manifest) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	return WriteFile(filepath.Join(outDir, ManifestFile), m, true)
}

// ReadManifest loads the manifest of a dataset directory
func ReadManifest(outDir string) (*models.Manifest, error) {
	m := &models.Manifest{}
	if err := ReadFile(filepath.Join(outDir, ManifestFile), m); err != nil {
		return nil, err
	}
	return m, nil
}
