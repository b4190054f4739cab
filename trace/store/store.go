// Package store persists trace collections so downstream consumers can
// reload them without re-parsing raw CSV sources. Traces and metadata are
// written as two parallel ordered JSON files, loadable independently or as
// a pair; the range table of a normalized collection travels alongside as
// YAML and takes precedence over any ambient table at denormalization time.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/workload-modeling/podtrace/trace"
	"github.com/workload-modeling/podtrace/trace/normalize"
)

// File names inside a collection directory.
const (
	TracesFile   = "pod_traces.json"
	MetadataFile = "pod_metadata.json"
	RangesFile   = "ranges.yaml"
)

// SaveCollection writes a collection into dir, creating it if needed.
// pod_traces.json holds the ordered list of (T, 15) value matrices,
// pod_metadata.json the metadata record at the same index; ranges.yaml is
// written only when the collection carries a range table. metricOrder fixes
// the vector layout of the persisted ranges.
func SaveCollection(dir string, c *trace.Collection, metricOrder []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir %s: %w", dir, err)
	}

	values := make([][][]float64, len(c.Traces))
	meta := make([]trace.PodMetadata, len(c.Traces))
	for i, tr := range c.Traces {
		values[i] = tr.Values
		meta[i] = tr.Meta
	}

	if err := writeJSON(filepath.Join(dir, TracesFile), values); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, MetadataFile), meta); err != nil {
		return err
	}
	if c.Ranges != nil {
		if err := normalize.SaveRangeTable(filepath.Join(dir, RangesFile), c.Ranges, metricOrder); err != nil {
			return err
		}
	}
	logrus.Infof("saved %d pod traces to %s", len(c.Traces), dir)
	return nil
}

// LoadCollection restores a collection saved by SaveCollection. Array
// contents come back float64-identical and metadata structurally equal. A
// stored range table, if present, is attached to the collection so later
// denormalization uses it rather than whatever table the caller currently
// holds.
func LoadCollection(dir string) (*trace.Collection, error) {
	var values [][][]float64
	if err := readJSON(filepath.Join(dir, TracesFile), &values); err != nil {
		return nil, err
	}
	meta, err := LoadMetadata(dir)
	if err != nil {
		return nil, err
	}
	if len(values) != len(meta) {
		return nil, fmt.Errorf("store %s: %d traces but %d metadata records", dir, len(values), len(meta))
	}

	c := &trace.Collection{Traces: make([]trace.PodTrace, len(values))}
	for i := range values {
		c.Traces[i] = trace.PodTrace{Values: values[i], Meta: meta[i]}
	}

	rangesPath := filepath.Join(dir, RangesFile)
	if _, err := os.Stat(rangesPath); err == nil {
		table, _, err := normalize.LoadRangeTable(rangesPath)
		if err != nil {
			return nil, err
		}
		c.Ranges = table
	}
	logrus.Infof("loaded %d pod traces from %s", len(c.Traces), dir)
	return c, nil
}

// LoadMetadata reads only the metadata half of a stored collection, for
// consumers that inspect experiment composition without touching the
// arrays.
func LoadMetadata(dir string) ([]trace.PodMetadata, error) {
	var meta []trace.PodMetadata
	if err := readJSON(filepath.Join(dir, MetadataFile), &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
