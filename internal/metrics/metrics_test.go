package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsgraph/internal/models"
)

func TestTransformRoundTrip(t *testing.T) {
	for name, tr := range map[string]Transform{
		"linear":      LinearTransform(13),
		"affine":      AffineTransform(900000, 300000),
		"log":         LogTransform(58235500, 600),
		"logSmallB":   LogTransform(1331, 0.5),
		"identity":    IdentityTransform(),
		"performance": PerformanceTransform(),
	} {
		max := tr.Max
		if max == 0 {
			max = 1e6
		}
		for _, frac := range []float64{0, 0.001, 0.25, 0.5, 0.999, 1} {
			v := frac * max
			got := tr.Invert(tr.Apply(v))
			assert.InDelta(t, v, got, 1e-6*math.Max(1, v), "%s at %v", name, v)
		}
	}
}

func TestTransformBounds(t *testing.T) {
	tr := LogTransform(512, 2)
	assert.InDelta(t, -1, tr.Apply(0), 1e-12)
	assert.InDelta(t, 1, tr.Apply(512), 1e-12)

	lin := LinearTransform(64)
	assert.InDelta(t, -1, lin.Apply(0), 1e-12)
	assert.InDelta(t, 1, lin.Apply(64), 1e-12)

	perf := PerformanceTransform()
	assert.InDelta(t, math.Log(1e7)/2, perf.Apply(0), 1e-12)
}

func TestOneHotTransform(t *testing.T) {
	tr := OneHotTransform(0, 1)
	assert.Equal(t, 2, tr.Width())
	cols, err := tr.Normalize(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, cols)

	v, err := tr.Unnormalize([]float32{0.8, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = tr.Normalize(3)
	require.Error(t, err)
}

func TestNormalizeDesign(t *testing.T) {
	c, err := Lookup(DB4HLS)
	require.NoError(t, err)
	d := models.Design{Values: map[string]float64{
		"LUTs": 350000, "FFs": 0, "Latency": -5, "BRAMs": 64, "DSPs": 0, "Clock": 6.5,
	}}
	y, err := c.Normalize(d)
	require.NoError(t, err)
	require.Len(t, y, 6)
	assert.InDelta(t, 1, y[0], 1e-6)
	assert.InDelta(t, -1, y[1], 1e-6)
	assert.InDelta(t, -1, y[2], 1e-6, "negative values clamp to zero")
	assert.InDelta(t, 0, y[5], 1e-6)

	raw, err := c.Unnormalize(y)
	require.NoError(t, err)
	assert.InDelta(t, 6.5, raw["Clock"], 1e-5)

	delete(d.Values, "Clock")
	_, err = c.Normalize(d)
	require.Error(t, err)
}

func TestVastConfig(t *testing.T) {
	c, err := Lookup(VAST18)
	require.NoError(t, err)
	assert.Equal(t, []string{"LUTs all", "FFs all", "DSPs all", "BRAMs all", "Latency all", "Valid", "Synthesized", "Oversized"}, c.Names())

	join, err := Lookup(VASTCustom20)
	require.NoError(t, err)
	assert.Equal(t, VAST20, join.Target)
	assert.Equal(t, "LUTs join all", join.Names()[0])
	assert.Equal(t, "Valid join", join.Names()[5])

	d := models.Design{Values: map[string]float64{
		"LUTs all": 0.3, "FFs all": 0.1, "DSPs all": 0, "BRAMs all": 0.2, "Latency all": 999,
		"Valid": 0, "Synthesized": 1, "Oversized": 1,
	}}
	y, err := c.Normalize(d)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, y[0], 1e-6)
	assert.InDelta(t, math.Log(1e7/1000)/2, y[4], 1e-5)
	assert.Equal(t, []bool{true, true, true, true, true, true, true, true}, c.UseInLoss(d))
}

func TestUseInLossValidOnly(t *testing.T) {
	c := &OutputConfig{ID: VAST18, Target: VAST18, Vast: true, Metrics: []MetricSpec{
		{Name: "LUTs valid", Transform: IdentityTransform()},
		{Name: "LUTs all", Transform: IdentityTransform()},
	}}
	assert.Equal(t, []bool{false, true}, c.UseInLoss(models.Design{Values: map[string]float64{"Valid": 0}}))
	assert.Equal(t, []bool{true, true}, c.UseInLoss(models.Design{Values: map[string]float64{"Valid": 1}}))
}

func TestLayout(t *testing.T) {
	l, err := NewLayout(DB4HLS, ML4ACCEL)
	require.NoError(t, err)
	assert.Equal(t, 15, l.Length)

	shift, ok := l.Shift(ML4ACCEL)
	require.True(t, ok)
	assert.Equal(t, 6, shift)
	assert.Len(t, l.AllOutputs(), 15)

	c, _ := Lookup(ML4ACCEL)
	values := make([]float32, 9)
	use := make([]bool, 9)
	for i := range values {
		values[i] = float32(i + 1)
		use[i] = true
	}
	y, mask, err := l.Assemble(c, values, use)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 6), y[:6])
	assert.Equal(t, values, y[6:])
	assert.Equal(t, make([]bool, 6), mask[:6])
	assert.Equal(t, use, mask[6:])

	assert.Equal(t, append(make([]bool, 6), use...), l.Mask(c))

	gnn, _ := Lookup(GNNDSE)
	_, _, err = l.Assemble(gnn, make([]float32, 5), make([]bool, 5))
	require.Error(t, err)
}

func TestLayoutCombinedVast(t *testing.T) {
	l, err := NewLayout(DB4HLS, VAST18, VASTAll)
	require.NoError(t, err)
	assert.Equal(t, 6+8+8, l.Length)

	v18, _ := Lookup(VAST18)
	values := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	use := []bool{true, true, true, true, true, true, true, true}
	y, mask, err := l.Assemble(v18, values, use)
	require.NoError(t, err)
	assert.Equal(t, values, y[6:14])
	assert.Equal(t, values, y[14:])
	assert.False(t, mask[0])
	assert.True(t, mask[21])

	shift, joinShift, err := l.Shifts(v18)
	require.NoError(t, err)
	assert.Equal(t, 14, shift)
	assert.Equal(t, 14, joinShift)

	db, _ := Lookup(DB4HLS)
	shift, joinShift, err = l.Shifts(db)
	require.NoError(t, err)
	assert.Equal(t, 0, shift)
	assert.Equal(t, 14, joinShift)

	custom, _ := Lookup(VASTCustom21)
	y, _, err = l.Assemble(custom, values, use)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), y[6:14], "VAST_21 has no group of its own here")
	assert.Equal(t, values, y[14:])
}

func TestParseConfigID(t *testing.T) {
	id, err := ParseConfigID("vast_custom_18")
	require.NoError(t, err)
	assert.Equal(t, VASTCustom18, id)
	assert.Equal(t, 7, int(id))
	assert.Equal(t, 10, int(GNNDSE))

	_, err = ParseConfigID("nope")
	require.Error(t, err)
}
