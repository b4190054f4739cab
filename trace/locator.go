package trace

import (
	"fmt"
	"path/filepath"
)

// SourceIndex maps each catalog metric name to the one source file holding
// its series. It is the explicit lookup-table form of metric resolution:
// built once per group directory, then consulted at load time, so alternate
// storage layouts only need to produce an equivalent index.
type SourceIndex map[string]string

// FindMetricFile resolves the single CSV file for a metric inside a group
// directory by substring match on the file name. Metric names must be
// specific enough not to collide under substring matching (the catalog's
// "inference_latency_p95" vs "inference_latency_p50" are; a bare "latency"
// would not be). Zero matches fail with ErrNotFound, more than one with
// ErrAmbiguous.
func FindMetricFile(dir, metric string) (string, error) {
	pattern := filepath.Join(dir, "*"+metric+"*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob %q: %w", pattern, err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: metric %q in %s", ErrNotFound, metric, dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: metric %q in %s matches %v", ErrAmbiguous, metric, dir, matches)
	}
}

// BuildSourceIndex resolves every catalog metric in a group directory.
// Resolution of all 15 metrics must succeed before any series is parsed;
// a single ErrNotFound or ErrAmbiguous aborts the whole group.
func BuildSourceIndex(dir string, catalog Catalog) (SourceIndex, error) {
	index := make(SourceIndex, catalog.NumMetrics())
	for _, metric := range catalog.Metrics() {
		path, err := FindMetricFile(dir, metric)
		if err != nil {
			return nil, err
		}
		index[metric] = path
	}
	return index, nil
}
