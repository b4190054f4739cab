// Package trace assembles per-pod multivariate traces from raw per-metric
// CSV exports collected during controlled workload experiments. One
// experiment group directory holds one CSV per catalog metric; the merger
// joins them into an aligned table and the extractor splits that table into
// fixed-width per-pod arrays with metadata.
package trace

import "fmt"

// Catalog is the frozen metric configuration shared by the series loader,
// the merger, and the extractor: the ordered list of metric names every
// complete trace must contain, partitioned into per-pod and system-wide
// sets. The partition decides the join key during merge (per-pod metrics
// join on (timestamp, pod), system metrics on timestamp alone), so a single
// Catalog value must be passed through the whole pipeline rather than
// re-declared per stage.
type Catalog struct {
	order  []string
	perPod map[string]bool
	index  map[string]int
}

// defaultMetricOrder lists the 15 metrics of a complete trace. Column j of
// every extracted trace corresponds to defaultMetricOrder[j].
var defaultMetricOrder = []string{
	"cpu_psi",
	"cpu_usage",
	"gpu_memory",
	"gpu_power",
	"gpu_temperature",
	"gpu_utilization",
	"inference_latency_avg",
	"inference_latency_p50",
	"inference_latency_p95",
	"inference_latency_p99",
	"inference_throughput",
	"inference_total",
	"io_psi",
	"memory_psi",
	"memory_usage",
}

// defaultPerPodMetrics names the metrics observed separately for each pod;
// their CSV exports carry a "pod" column. Every other catalog metric is
// system-wide and is broadcast onto pod rows during merge.
var defaultPerPodMetrics = []string{
	"cpu_psi",
	"cpu_usage",
	"inference_latency_avg",
	"io_psi",
	"memory_psi",
	"memory_usage",
}

// NewCatalog builds a Catalog from an ordered metric list and the subset
// observed per pod. Names must be unique and every per-pod name must appear
// in the order list.
func NewCatalog(order []string, perPod []string) (Catalog, error) {
	c := Catalog{
		order:  append([]string(nil), order...),
		perPod: make(map[string]bool, len(perPod)),
		index:  make(map[string]int, len(order)),
	}
	for i, name := range c.order {
		if _, dup := c.index[name]; dup {
			return Catalog{}, fmt.Errorf("catalog: duplicate metric %q", name)
		}
		c.index[name] = i
	}
	for _, name := range perPod {
		if _, ok := c.index[name]; !ok {
			return Catalog{}, fmt.Errorf("catalog: per-pod metric %q not in metric order", name)
		}
		c.perPod[name] = true
	}
	return c, nil
}

// DefaultCatalog returns the standard 15-metric catalog (6 per-pod, 9
// system-wide) used by the phase-1 experiment exports.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(defaultMetricOrder, defaultPerPodMetrics)
	if err != nil {
		panic(err) // static tables above are self-consistent
	}
	return c
}

// NumMetrics returns the number of metric channels in catalog order.
func (c Catalog) NumMetrics() int { return len(c.order) }

// Metrics returns a copy of the ordered metric name list.
func (c Catalog) Metrics() []string { return append([]string(nil), c.order...) }

// Index returns the column index of the named metric and whether it exists.
func (c Catalog) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// IsPerPod reports whether the named metric is observed per pod.
func (c Catalog) IsPerPod(name string) bool { return c.perPod[name] }

// PerPodMetrics returns the per-pod metric names in catalog order.
func (c Catalog) PerPodMetrics() []string {
	var names []string
	for _, name := range c.order {
		if c.perPod[name] {
			names = append(names, name)
		}
	}
	return names
}

// SystemMetrics returns the system-wide metric names in catalog order.
func (c Catalog) SystemMetrics() []string {
	var names []string
	for _, name := range c.order {
		if !c.perPod[name] {
			names = append(names, name)
		}
	}
	return names
}
