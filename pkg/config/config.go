// pkg/config/config.go

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hlsgraph/internal/dataset"
	"hlsgraph/internal/profiles"
	"hlsgraph/internal/reporters"
)

// Config represents the global configuration
type Config struct {
	// Dataset settings
	DatasetDir   string `json:"datasetDir" yaml:"datasetDir"`     // Root directory of generated datasets
	OutputFolder string `json:"outputFolder" yaml:"outputFolder"` // Folder under DatasetDir for this output layout
	InputsDir    string `json:"inputsDir" yaml:"inputsDir"`       // Kernel sources and design tables
	TempDir      string `json:"tempDir" yaml:"tempDir"`           // Scratch directory for annotated sources

	// Graph settings
	CompilerBinary string   `json:"compilerBinary" yaml:"compilerBinary"` // Graph compiler executable
	Profile        string   `json:"profile" yaml:"profile"`               // Named graph profile
	Groups         []string `json:"groups" yaml:"groups"`                 // Kernel groups to generate

	// Generation settings
	Workers     int    `json:"workers" yaml:"workers"`
	Format      string `json:"format" yaml:"format"` // Example format (json, pb)
	CombineVast bool   `json:"combineVast" yaml:"combineVast"`
	AllVast21   bool   `json:"allVast21" yaml:"allVast21"`
	MerlinOnly  bool   `json:"merlinOnly" yaml:"merlinOnly"`
	ValidOnly   bool   `json:"validOnly" yaml:"validOnly"`
	NoRegen     bool   `json:"noRegen" yaml:"noRegen"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DatasetDir:     "datasets",
		OutputFolder:   "default",
		InputsDir:      "inputs",
		TempDir:        filepath.Join(os.TempDir(), "hlsgraph"),
		CompilerBinary: "hlsgraph-compile",
		Profile:        "mayo",
		Groups:         []string{"red"},
		Workers:        dataset.DefaultWorkers,
		Format:         "json",
	}
}

// LoadConfig loads configuration from a YAML or JSON file. Fields missing
// from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "reading %s", path)
	}

	if isJSON(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parsing %s", path)
	}

	return config, nil
}

// SaveConfig saves configuration to a file, as JSON when path ends in .json
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that would otherwise fail mid-run
func (c *Config) Validate() error {
	if _, err := profiles.Lookup(c.Profile); err != nil {
		return err
	}
	if c.Workers < 1 {
		return &profiles.ConfigurationError{Reason: "workers must be positive"}
	}
	if len(c.Groups) == 0 {
		return &profiles.ConfigurationError{Reason: "no kernel groups selected"}
	}
	if _, _, err := dataset.Plan(c.Groups, c.CombineVast); err != nil {
		return &profiles.ConfigurationError{Reason: err.Error()}
	}
	for _, f := range reporters.Formats() {
		if f == c.Format {
			return nil
		}
	}
	return &profiles.ConfigurationError{Reason: "unknown example format " + c.Format}
}

// OutputDir is where examples of the configured profile are written:
// <dataset>/<output>/<profile>
func (c *Config) OutputDir() string {
	return filepath.Join(c.DatasetDir, c.OutputFolder, c.Profile)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
