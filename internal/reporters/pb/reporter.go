// Package pb stores examples as binary google.protobuf.Struct messages.
package pb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"hlsgraph/internal/models"
)

const Format = "pb"

// Writer stores examples as data_<id>.pb
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
	data, err := Marshal(ex)
	if err != nil {
		return errors.Wrapf(err, "example %d", ex.ID)
	}
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	path := w.Path(ex.ID)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return os.Rename(path+".tmp", path)
}

func (w *Writer) Read(path string) (*models.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	ex, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return ex, nil
}

func (w *Writer) Glob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "data_*."+Format))
}

// toStruct maps an example onto a Struct using its JSON field names
func toStruct(ex *models.Example) (*structpb.Struct, error) {
	raw, err := json.Marshal(ex)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// Marshal encodes an example as a binary Struct message
func Marshal(ex *models.Example) ([]byte, error) {
	s, err := toStruct(ex)
	if err != nil {
		return nil, errors.Wrap(err, "converting example")
	}
	return proto.Marshal(s)
}

// Unmarshal decodes a binary Struct message into an example
func Unmarshal(data []byte) (*models.Example, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, err
	}
	ex := &models.Example{}
	if err := json.Unmarshal(raw, ex); err != nil {
		return nil, err
	}
	return ex, nil
}
