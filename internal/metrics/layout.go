package metrics

import (
	"github.com/pkg/errors"
)

// Group is one configuration's slice of the global output vector
type Group struct {
	ID      ConfigID `json:"id"`
	Shift   int      `json:"shift"`
	Metrics []string `json:"metrics"`
	Width   int      `json:"width"`
}

// Layout concatenates the outputs of several configurations so designs from
// different sources can share one target tensor.
type Layout struct {
	Groups []Group `json:"groups"`
	Length int     `json:"length"`
}

// NewLayout lays out the given configurations in order. Repeated ids are
// placed once.
func NewLayout(ids ...ConfigID) (*Layout, error) {
	l := &Layout{}
	seen := make(map[ConfigID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		l.Groups = append(l.Groups, Group{ID: id, Shift: l.Length, Metrics: c.Names(), Width: c.Width()})
		l.Length += c.Width()
	}
	return l, nil
}

// Group returns the group of id
func (l *Layout) Group(id ConfigID) (Group, bool) {
	for _, g := range l.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Shift returns the offset of id's group
func (l *Layout) Shift(id ConfigID) (int, bool) {
	g, ok := l.Group(id)
	return g.Shift, ok
}

// AllOutputs lists every metric name in vector order
func (l *Layout) AllOutputs() []string {
	var names []string
	for _, g := range l.Groups {
		names = append(names, g.Metrics...)
	}
	return names
}

// receives reports whether designs of c write into group g
func receives(g Group, c *OutputConfig) bool {
	if g.ID == VASTAll {
		return c.Vast
	}
	return g.ID == c.Target
}

// Mask marks the columns written by designs of c
func (l *Layout) Mask(c *OutputConfig) []bool {
	mask := make([]bool, l.Length)
	for _, g := range l.Groups {
		if receives(g, c) {
			for i := g.Shift; i < g.Shift+g.Width; i++ {
				mask[i] = true
			}
		}
	}
	return mask
}

// Assemble places a design's normalized values and use-in-loss flags into the
// global vectors. Columns outside c's groups are zero and unused.
func (l *Layout) Assemble(c *OutputConfig, values []float32, use []bool) ([]float32, []bool, error) {
	if len(values) != c.Width() || len(use) != c.Width() {
		return nil, nil, errors.Errorf("%s produced %d values and %d flags, expected %d",
			c.ID, len(values), len(use), c.Width())
	}

	y := make([]float32, l.Length)
	mask := make([]bool, l.Length)
	placed := false
	for _, g := range l.Groups {
		if !receives(g, c) {
			continue
		}
		if g.Width != c.Width() {
			return nil, nil, errors.Errorf("%s outputs do not fit group %s", c.ID, g.ID)
		}
		copy(y[g.Shift:], values)
		copy(mask[g.Shift:], use)
		placed = true
	}
	if !placed {
		return nil, nil, errors.Errorf("no output group receives %s", c.ID)
	}
	return y, mask, nil
}

// Shifts returns the shift and join shift recorded with every example of c.
// With a combined VAST group present, VAST designs are addressed through it.
func (l *Layout) Shifts(c *OutputConfig) (shift, joinShift int, err error) {
	all, combined := l.Shift(VASTAll)
	if combined {
		joinShift = all
	}
	if combined && c.Vast {
		return all, joinShift, nil
	}
	shift, ok := l.Shift(c.Target)
	if !ok {
		return 0, 0, errors.Errorf("no output group for %s", c.Target)
	}
	return shift, joinShift, nil
}
