// Package testutil builds synthetic experiment group directories for tests:
// one CSV per catalog metric in the exporter's on-disk format, with hooks to
// introduce the defects the pipeline must surface (missing sources,
// duplicate sources, dropped samples).
package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ExperimentSpec describes one synthetic group directory.
type ExperimentSpec struct {
	GroupID    string
	Pods       []string
	Timesteps  int

	// SkipMetrics lists metrics whose CSV is not written at all.
	SkipMetrics []string
	// DuplicateMetrics lists metrics written twice under different run
	// timestamps, to provoke ambiguous resolution.
	DuplicateMetrics []string
	// DropSample omits the observation for (metric, pod, timestep) when it
	// returns true. Pod is empty for system metrics.
	DropSample func(metric, pod string, step int) bool
	// Value overrides the generated cell value. The default is
	// deterministic in (metric index, pod index, timestep).
	Value func(metric, pod string, step int) float64
}

// baseTime anchors the synthetic export timestamps.
var baseTime = time.Date(2026, 1, 22, 10, 30, 0, 0, time.UTC)

// Timestamp renders the exporter-format timestamp of a step.
func Timestamp(step int) string {
	return baseTime.Add(time.Duration(step) * 5 * time.Second).Format("2006-01-02 15:04:05")
}

// DefaultValue is the deterministic cell value used when no Value hook is
// given: distinct per metric and step, offset per pod so sibling pods never
// collide.
func DefaultValue(metricIdx int, podIdx int, step int) float64 {
	return float64(metricIdx*100+step) + float64(podIdx)*0.5
}

// WriteExperimentDir materializes the spec under root and returns the group
// directory path.
func WriteExperimentDir(t *testing.T, root string, spec ExperimentSpec, metricOrder []string, isPerPod func(string) bool) string {
	t.Helper()

	dir := filepath.Join(root, spec.GroupID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}

	skip := make(map[string]bool)
	for _, m := range spec.SkipMetrics {
		skip[m] = true
	}
	duplicate := make(map[string]bool)
	for _, m := range spec.DuplicateMetrics {
		duplicate[m] = true
	}

	for metricIdx, metric := range metricOrder {
		if skip[metric] {
			continue
		}
		writeMetricCSV(t, dir, spec, metric, metricIdx, "20260122_103000", isPerPod(metric))
		if duplicate[metric] {
			writeMetricCSV(t, dir, spec, metric, metricIdx, "20260122_113000", isPerPod(metric))
		}
	}
	return dir
}

func writeMetricCSV(t *testing.T, dir string, spec ExperimentSpec, metric string, metricIdx int, runStamp string, perPod bool) {
	t.Helper()

	name := fmt.Sprintf("%s_%s_%s.csv", spec.GroupID, metric, runStamp)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	value := spec.Value
	if value == nil {
		value = func(metric, pod string, step int) float64 {
			podIdx := 0
			for i, p := range spec.Pods {
				if p == pod {
					podIdx = i
				}
			}
			return DefaultValue(metricIdx, podIdx, step)
		}
	}

	if perPod {
		// Exporters append Prometheus label columns after value; the loader
		// must resolve by name and ignore extras.
		mustWrite(t, w, []string{"timestamp", "value", "pod", "instance"})
		for step := 0; step < spec.Timesteps; step++ {
			for _, pod := range spec.Pods {
				if spec.DropSample != nil && spec.DropSample(metric, pod, step) {
					continue
				}
				mustWrite(t, w, []string{
					Timestamp(step),
					fmt.Sprintf("%g", value(metric, pod, step)),
					pod,
					"node-0",
				})
			}
		}
		return
	}

	mustWrite(t, w, []string{"timestamp", "value"})
	for step := 0; step < spec.Timesteps; step++ {
		if spec.DropSample != nil && spec.DropSample(metric, "", step) {
			continue
		}
		mustWrite(t, w, []string{
			Timestamp(step),
			fmt.Sprintf("%g", value(metric, "", step)),
		})
	}
}

func mustWrite(t *testing.T, w *csv.Writer, record []string) {
	t.Helper()
	if err := w.Write(record); err != nil {
		t.Fatalf("write csv record: %v", err)
	}
}
