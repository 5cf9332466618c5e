// internal/sources/vast/loader.go

// Package vast loads Merlin design points dumped as JSON, one file per kernel
// and tool version.
package vast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hlsgraph/internal/models"
)

// Version selects the tool release a design dump was produced with
type Version string

const (
	V18 Version = "v18"
	V20 Version = "v20"
	V21 Version = "v21"
)

// Variant selects how designs are filtered and which source files they use
type Variant int

const (
	// Standard keeps every design and annotates <base>/sources/<kernel>.c
	Standard Variant = iota
	// Custom keeps designs with a pre-translated source under
	// <base>/translate/output_sources_<version>/<kernel>/<index>.cpp
	Custom
	// GNNDSE keeps valid designs with a positive LUT utilisation
	GNNDSE
)

// kernelPrefix is prepended to kernel names since C functions cannot start with a digit
const kernelPrefix = "kernel_"

var (
	resourceMetrics = []string{"LUTs", "FFs", "DSPs", "BRAMs", "Latency"}
	// metrics kept when a design is not valid
	unconditional = []string{"Valid", "Synthesized", "Oversized"}
)

type resources struct {
	LUT  float64 `json:"util-LUT"`
	FF   float64 `json:"util-FF"`
	DSP  float64 `json:"util-DSP"`
	BRAM float64 `json:"util-BRAM"`
}

type record struct {
	Point   map[string]json.RawMessage `json:"point"`
	ResUtil resources                  `json:"res_util"`
	Perf    float64                    `json:"perf"`
	Valid   bool                       `json:"valid"`
}

// Loader reads <base>/designs/<version>/<kernel>.json
type Loader struct {
	BasePath string
	Version  Version
	Variant  Variant
}

func NewLoader(basePath string, version Version, variant Variant) *Loader {
	return &Loader{BasePath: strings.TrimSuffix(basePath, "/"), Version: version, Variant: variant}
}

func (l *Loader) Load(ctx context.Context, kernel string) (*models.KernelData, error) {
	path := filepath.Join(l.BasePath, "designs", string(l.Version), kernel+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open designs of %s", kernel)
	}
	defer f.Close()

	records, err := decodeOrdered(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	data := &models.KernelData{
		Name:       kernelPrefix + kernel,
		SourcePath: filepath.Join(l.BasePath, "sources", kernel+".c"),
	}
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d := models.Design{Index: i, Point: pointValues(r.Point)}
		switch l.Variant {
		case GNNDSE:
			if !r.Valid || r.ResUtil.LUT <= 0 {
				continue
			}
			d.Values = gnndseValues(r)
		case Custom:
			translated := filepath.Join(l.BasePath, "translate", "output_sources_"+string(l.Version), kernel, fmt.Sprintf("%d.cpp", i))
			if _, err := os.Stat(translated); err != nil {
				continue
			}
			d.SourcePath = translated
			d.Values = designValues(r.ResUtil, r.Perf, r.Valid)
		default:
			d.Values = designValues(r.ResUtil, r.Perf, r.Valid)
		}
		data.Designs = append(data.Designs, d)
	}

	klog.V(1).Infof("Loaded %d of %d designs of %s (%s)", len(data.Designs), len(records), kernel, l.Version)
	return data, nil
}

// decodeOrdered reads a JSON object of records keeping the file's key order
func decodeOrdered(r io.Reader) ([]record, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object of designs")
	}

	var records []record
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrapf(err, "design %v", key)
		}
		records = append(records, rec)
	}
	return records, nil
}

// pointValues renders placeholder values the way they appear in pragma text
func pointValues(point map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(point))
	for key, raw := range point {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out[key] = s
			continue
		}
		out[key] = string(raw)
	}
	return out
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// designValues expands one measurement into every column an output configuration
// may ask for: "<metric>[ join]{ valid, all}" plus the Valid, Synthesized and
// Oversized flags. Measurements of designs that are not valid are zeroed.
func designValues(util resources, perf float64, valid bool) map[string]float64 {
	measured := map[string]float64{
		"LUTs":    util.LUT,
		"FFs":     util.FF,
		"DSPs":    util.DSP,
		"BRAMs":   util.BRAM,
		"Latency": perf,
	}
	if !valid {
		for k := range measured {
			measured[k] = 0
		}
	}

	values := make(map[string]float64)
	for _, join := range []string{"", " join"} {
		for _, column := range []string{" valid", " all"} {
			for _, metric := range resourceMetrics {
				values[metric+join+column] = measured[metric]
			}
		}
		synthesized := perf > 0
		flags := []bool{valid, synthesized, synthesized && !valid}
		for i, name := range unconditional {
			values[name+join] = flag(flags[i])
		}
	}
	return values
}

func gnndseValues(r record) map[string]float64 {
	return map[string]float64{
		"LUTs":    r.ResUtil.LUT,
		"FFs":     r.ResUtil.FF,
		"DSPs":    r.ResUtil.DSP,
		"BRAMs":   r.ResUtil.BRAM,
		"Latency": r.Perf,
	}
}
