package dataset

import (
	"context"

	"k8s.io/klog/v2"

	graph "hlsgraph/internal/collectors/graph"
	"hlsgraph/internal/models"
)

// Recorder runs the environment collectors around a generation run and
// stores what they found in the manifest
type Recorder struct {
	factory *models.CollectorFactory
	active  []string
}

func NewRecorder(factory *models.CollectorFactory) *Recorder {
	return &Recorder{factory: factory}
}

// Start initializes every collector; failing collectors are skipped
func (r *Recorder) Start(ctx context.Context) {
	for _, name := range r.factory.Names() {
		collector, _ := r.factory.GetCollector(name)
		if err := collector.Initialize(ctx); err != nil {
			klog.Warningf("failed to initialize %s collector: %v", name, err)
			continue
		}
		r.active = append(r.active, name)
	}
}

// Finish collects from every active collector into m
func (r *Recorder) Finish(ctx context.Context, m *models.Manifest) {
	for _, name := range r.active {
		collector, _ := r.factory.GetCollector(name)
		if err := collector.Collect(ctx); err != nil {
			klog.Warningf("collection failed for %s: %v", name, err)
			continue
		}

		switch data := collector.GetData().(type) {
		case models.Environment:
			m.Environment = &data
		case models.Host:
			m.Host = &data
		case models.ResourceUsage:
			m.Resources = &data
		case graph.Info:
			m.Compiler = data
		default:
			klog.V(1).Infof("ignoring data of %s collector (%T)", name, data)
		}

		if err := collector.Cleanup(ctx); err != nil {
			klog.V(1).Infof("cleanup of %s collector: %v", name, err)
		}
	}
}
