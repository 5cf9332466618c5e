package metrics

import (
	"strings"

	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

// ConfigID names an output configuration. The values are the dataset index
// written into every graph and must not change.
type ConfigID int

const (
	DB4HLS ConfigID = iota
	ML4ACCEL
	POWERGEAR
	VAST18
	VAST20
	VAST21
	VASTAll
	VASTCustom18
	VASTCustom20
	VASTCustom21
	GNNDSE
)

var configNames = map[ConfigID]string{
	DB4HLS:       "DB4HLS",
	ML4ACCEL:     "ML4ACCEL",
	POWERGEAR:    "POWERGEAR",
	VAST18:       "VAST_18",
	VAST20:       "VAST_20",
	VAST21:       "VAST_21",
	VASTAll:      "VAST_ALL",
	VASTCustom18: "VAST_CUSTOM_18",
	VASTCustom20: "VAST_CUSTOM_20",
	VASTCustom21: "VAST_CUSTOM_21",
	GNNDSE:       "GNNDSE",
}

func (id ConfigID) String() string {
	if name, ok := configNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseConfigID accepts names like "VAST_18" or "vast_18"
func ParseConfigID(name string) (ConfigID, error) {
	for id, n := range configNames {
		if strings.EqualFold(n, name) {
			return id, nil
		}
	}
	return 0, errors.Errorf("unknown output configuration %q", name)
}

// MetricSpec binds a metric name to its transform
type MetricSpec struct {
	Name      string    `json:"name"`
	Transform Transform `json:"transform"`
}

// OutputConfig is a named, ordered metric set
type OutputConfig struct {
	ID ConfigID `json:"id"`
	// Target is the output group the values of this configuration land in
	Target  ConfigID     `json:"target"`
	Metrics []MetricSpec `json:"metrics"`
	// Vast designs also fill the combined VAST_ALL group
	Vast bool `json:"vast"`
}

// Names lists the metric names in output order
func (c *OutputConfig) Names() []string {
	names := make([]string, len(c.Metrics))
	for i, m := range c.Metrics {
		names[i] = m.Name
	}
	return names
}

// Width is the number of output columns
func (c *OutputConfig) Width() int {
	w := 0
	for _, m := range c.Metrics {
		w += m.Transform.Width()
	}
	return w
}

// Spec returns the metric named name
func (c *OutputConfig) Spec(name string) (MetricSpec, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricSpec{}, false
}

// Normalize builds the output vector of a design. Negative measurements are
// clamped to 0 first.
func (c *OutputConfig) Normalize(d models.Design) ([]float32, error) {
	out := make([]float32, 0, c.Width())
	for _, m := range c.Metrics {
		v, ok := d.Value(m.Name)
		if !ok {
			return nil, errors.Errorf("design %d has no value for metric %q", d.Index, m.Name)
		}
		if m.Transform.Kind != OneHot && v < 0 {
			v = 0
		}
		columns, err := m.Transform.Normalize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "metric %q", m.Name)
		}
		out = append(out, columns...)
	}
	return out, nil
}

// Unnormalize maps an output vector back to raw metric values
func (c *OutputConfig) Unnormalize(y []float32) (map[string]float64, error) {
	if len(y) != c.Width() {
		return nil, errors.Errorf("expected %d outputs, got %d", c.Width(), len(y))
	}
	values := make(map[string]float64, len(c.Metrics))
	pos := 0
	for _, m := range c.Metrics {
		w := m.Transform.Width()
		v, err := m.Transform.Unnormalize(y[pos : pos+w])
		if err != nil {
			return nil, errors.Wrapf(err, "metric %q", m.Name)
		}
		values[m.Name] = v
		pos += w
	}
	return values, nil
}

// UseInLoss marks which outputs are meaningful for d. Metrics measured only
// on valid designs are masked out when the design is not valid.
func (c *OutputConfig) UseInLoss(d models.Design) []bool {
	use := make([]bool, 0, c.Width())
	valid := d.Values[ValidMetric] != 0
	for _, m := range c.Metrics {
		keep := true
		if c.Vast && strings.HasSuffix(m.Name, validSuffix) {
			keep = valid
		}
		for i := 0; i < m.Transform.Width(); i++ {
			use = append(use, keep)
		}
	}
	return use
}

const (
	// ValidMetric is 1 for designs that met the resource constraints
	ValidMetric = "Valid"
	validSuffix = " valid"
	allSuffix   = " all"
	joinInfix   = " join"
)

func logMetric(name string, max, bias float64) MetricSpec {
	return MetricSpec{Name: name, Transform: LogTransform(max, bias)}
}

func linearMetric(name string, max float64) MetricSpec {
	return MetricSpec{Name: name, Transform: LinearTransform(max)}
}

func db4hls() *OutputConfig {
	return &OutputConfig{ID: DB4HLS, Target: DB4HLS, Metrics: []MetricSpec{
		logMetric("LUTs", 350000, 300),
		logMetric("FFs", 250000, 600),
		logMetric("Latency", 58235500, 600),
		logMetric("BRAMs", 64, 2),
		logMetric("DSPs", 3500, 100),
		linearMetric("Clock", 13),
	}}
}

func ml4accel() *OutputConfig {
	return &OutputConfig{ID: ML4ACCEL, Target: ML4ACCEL, Metrics: []MetricSpec{
		logMetric("Total LUTs", 157308, 14000),
		logMetric("Logic LUTs", 148078, 14000),
		logMetric("SRLs", 42764, 600),
		logMetric("FFs", 184114, 8000),
		logMetric("RAMB36", 448, 25),
		logMetric("RAMB18", 448, 25),
		logMetric("DSP48 Blocks", 1024, 14),
		logMetric("Latency", 7366023, 300000),
		logMetric("Dynamic Power", 1823, 2),
	}}
}

func powergear() *OutputConfig {
	return &OutputConfig{ID: POWERGEAR, Target: POWERGEAR, Metrics: []MetricSpec{
		{Name: "Total Power", Transform: AffineTransform(900000, 300000)},
		{Name: "Static Power", Transform: AffineTransform(900000, 300000)},
		logMetric("Dynamic Power", 1331, 0.5),
	}}
}

// VastMetricNames lists the metrics of a VAST configuration
func VastMetricNames(join bool) []string {
	infix := ""
	if join {
		infix = joinInfix
	}
	var names []string
	for _, base := range []string{"LUTs", "FFs", "DSPs", "BRAMs", "Latency"} {
		names = append(names, base+infix+allSuffix)
	}
	for _, flag := range []string{"Valid", "Synthesized", "Oversized"} {
		names = append(names, flag+infix)
	}
	return names
}

func vast(id, target ConfigID, join bool) *OutputConfig {
	c := &OutputConfig{ID: id, Target: target, Vast: true}
	for _, name := range VastMetricNames(join) {
		t := IdentityTransform()
		if strings.HasPrefix(name, "Latency") {
			t = PerformanceTransform()
		}
		c.Metrics = append(c.Metrics, MetricSpec{Name: name, Transform: t})
	}
	return c
}

func gnndse() *OutputConfig {
	return &OutputConfig{ID: GNNDSE, Target: GNNDSE, Metrics: []MetricSpec{
		linearMetric("LUTs", 1),
		linearMetric("FFs", 1),
		linearMetric("DSPs", 1),
		linearMetric("BRAMs", 1),
		logMetric("Latency", 7729501, 200),
	}}
}

// Lookup returns a fresh output configuration
func Lookup(id ConfigID) (*OutputConfig, error) {
	switch id {
	case DB4HLS:
		return db4hls(), nil
	case ML4ACCEL:
		return ml4accel(), nil
	case POWERGEAR:
		return powergear(), nil
	case VAST18, VAST20, VAST21:
		return vast(id, id, false), nil
	case VASTAll:
		return vast(id, id, true), nil
	case VASTCustom18:
		return vast(id, VAST18, true), nil
	case VASTCustom20:
		return vast(id, VAST20, true), nil
	case VASTCustom21:
		return vast(id, VAST21, true), nil
	case GNNDSE:
		return gnndse(), nil
	}
	return nil, errors.Errorf("unknown output configuration %d", int(id))
}
