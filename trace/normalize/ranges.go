// Package normalize implements the reversible range-based normalization
// applied to assembled pod traces before they feed sequence models. It is
// deliberately free of any dependency on the assembly code: a normalizer is
// built from a range table plus an ordered metric name list and operates on
// bare float64 matrices.
package normalize

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range bounds one metric channel. Max must exceed Min.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// RangeTable maps every catalog metric name to exactly one Range. It is the
// sole state of a Normalizer: either the fixed absolute table below or one
// derived once from a reference dataset, then frozen.
type RangeTable map[string]Range

// DefaultRanges returns the fixed absolute normalization bounds. These are
// physically motivated, not system-relative: PSI metrics are pressure
// ratios in [0,1], latency metrics get generous ceilings that grow with the
// percentile, memory is bounded per pod in bytes. Absolute bounds keep a
// pod's denormalized footprint identical no matter which machine the model
// later targets.
func DefaultRanges() RangeTable {
	return RangeTable{
		"cpu_psi":               {Min: 0, Max: 1},
		"cpu_usage":             {Min: 0, Max: 8},        // cores
		"gpu_memory":            {Min: 0, Max: 20000},    // MB
		"gpu_power":             {Min: 0, Max: 100},      // W
		"gpu_temperature":       {Min: 0, Max: 100},      // C
		"gpu_utilization":       {Min: 0, Max: 100},      // percent
		"inference_latency_avg": {Min: 0, Max: 5},        // seconds
		"inference_latency_p50": {Min: 0, Max: 5},
		"inference_latency_p95": {Min: 0, Max: 8},
		"inference_latency_p99": {Min: 0, Max: 10},
		"inference_throughput":  {Min: 0, Max: 500},      // req/s
		"inference_total":       {Min: 0, Max: 100000},
		"io_psi":                {Min: 0, Max: 1},
		"memory_psi":            {Min: 0, Max: 1},
		"memory_usage":          {Min: 0, Max: 10e9},     // bytes
	}
}

// rangeFile is the persisted form of a RangeTable: the per-metric bounds
// plus min/max/scale vectors in catalog order for direct vectorized use by
// consumers that do not want to rebuild a Normalizer.
type rangeFile struct {
	Metrics []string         `yaml:"metrics"`
	Ranges  map[string]Range `yaml:"ranges"`
	Mins    []float64        `yaml:"mins"`
	Maxs    []float64        `yaml:"maxs"`
	Scales  []float64        `yaml:"scales"`
}

// SaveRangeTable writes a range table to a YAML file, with vectors laid out
// in the given metric order.
func SaveRangeTable(path string, table RangeTable, metricOrder []string) error {
	mins, maxs, scales, err := vectors(table, metricOrder)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(rangeFile{
		Metrics: metricOrder,
		Ranges:  table,
		Mins:    mins,
		Maxs:    maxs,
		Scales:  scales,
	})
	if err != nil {
		return fmt.Errorf("marshal range table: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write range table %s: %w", path, err)
	}
	return nil
}

// LoadRangeTable reads a range table and its metric order back from YAML.
func LoadRangeTable(path string) (RangeTable, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read range table %s: %w", path, err)
	}
	var file rangeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse range table %s: %w", path, err)
	}
	if _, _, _, err := vectors(file.Ranges, file.Metrics); err != nil {
		return nil, nil, fmt.Errorf("range table %s: %w", path, err)
	}
	return file.Ranges, file.Metrics, nil
}

// vectors lays the table out as min/max/scale slices in metric order,
// validating coverage and width as it goes.
func vectors(table RangeTable, metricOrder []string) (mins, maxs, scales []float64, err error) {
	mins = make([]float64, len(metricOrder))
	maxs = make([]float64, len(metricOrder))
	scales = make([]float64, len(metricOrder))
	for i, name := range metricOrder {
		r, ok := table[name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("range table has no entry for metric %q", name)
		}
		if r.Max <= r.Min {
			return nil, nil, nil, fmt.Errorf("metric %q: max %v must exceed min %v", name, r.Max, r.Min)
		}
		mins[i], maxs[i], scales[i] = r.Min, r.Max, r.Max-r.Min
	}
	return mins, maxs, scales, nil
}

// Stats renders a human-readable table of the ranges, sorted by metric name
// when no order is given.
func (t RangeTable) Stats(metricOrder []string) string {
	if metricOrder == nil {
		for name := range t {
			metricOrder = append(metricOrder, name)
		}
		sort.Strings(metricOrder)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %14s %14s %14s\n", "metric", "min", "max", "range")
	for _, name := range metricOrder {
		r := t[name]
		fmt.Fprintf(&b, "%-24s %14.4f %14.4f %14.4f\n", name, r.Min, r.Max, r.Max-r.Min)
	}
	return b.String()
}
