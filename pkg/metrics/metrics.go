// Package metrics counts bounding-box builds with Prometheus collectors.
// A Collector implements bbox.Observer and owns its own registry, so several
// collectors can coexist in one process.
package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/chazu/meshbox/pkg/bbox"
)

// Metric names.
const (
	BoxesBuiltName      = "meshbox_boxes_built_total"
	ElementFailuresName = "meshbox_element_failures_total"
	TraversalsName      = "meshbox_traversals_total"
	BoxesPerRankName    = "meshbox_boxes_per_traversal"
)

// Collector records adapter events.
type Collector struct {
	registry *prometheus.Registry

	boxesBuilt      *prometheus.CounterVec
	elementFailures *prometheus.CounterVec
	traversals      prometheus.Counter
	boxesPerRank    prometheus.Histogram
}

var _ bbox.Observer = (*Collector)(nil)

// NewCollector creates a Collector with a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		boxesBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: BoxesBuiltName,
			Help: "Bounding boxes appended to an output collection, by rank",
		}, []string{"rank"}),
		elementFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: ElementFailuresName,
			Help: "Elements whose bounding box could not be built, by reason",
		}, []string{"reason"}),
		traversals: factory.NewCounter(prometheus.CounterOpts{
			Name: TraversalsName,
			Help: "Completed bounding-box traversals",
		}),
		boxesPerRank: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    BoxesPerRankName,
			Help:    "Boxes produced by one traversal",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// BoxBuilt implements bbox.Observer.
func (c *Collector) BoxBuilt(rank uint32) {
	c.boxesBuilt.WithLabelValues(rankLabel(rank)).Inc()
}

// ElementFailed implements bbox.Observer.
func (c *Collector) ElementFailed(_ uint32, reason string) {
	c.elementFailures.WithLabelValues(reason).Inc()
}

// TraversalFinished implements bbox.Observer.
func (c *Collector) TraversalFinished(_ uint32, boxes int) {
	c.traversals.Inc()
	c.boxesPerRank.Observe(float64(boxes))
}

func rankLabel(rank uint32) string {
	return strconv.FormatUint(uint64(rank), 10)
}

// Totals summarizes the counters across all label values.
type Totals struct {
	Boxes      float64
	Failures   float64
	Traversals float64
}

// Totals gathers the registry and sums each counter family.
func (c *Collector) Totals() (Totals, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return Totals{}, fmt.Errorf("metrics: gather: %w", err)
	}
	var t Totals
	for _, mf := range families {
		switch mf.GetName() {
		case BoxesBuiltName:
			t.Boxes = counterSum(mf)
		case ElementFailuresName:
			t.Failures = counterSum(mf)
		case TraversalsName:
			t.Traversals = counterSum(mf)
		}
	}
	return t, nil
}

func counterSum(mf *dto.MetricFamily) float64 {
	var sum float64
	for _, m := range mf.GetMetric() {
		sum += m.GetCounter().GetValue()
	}
	return sum
}

// WriteText writes every family in the Prometheus text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
