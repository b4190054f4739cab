package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Observation is one sample of one metric: an instant, a value, and the pod
// the sample belongs to (empty for system-wide metrics). Timestamps are
// UnixNano so join keys compare exactly and sort chronologically.
type Observation struct {
	Timestamp int64
	Value     float64
	Pod       string
}

// Series holds one metric's raw observations for one experiment group,
// immutable once loaded. The generic "value" CSV column has already been
// claimed by the metric (Metric field), so downstream joins never collide
// on column names.
type Series struct {
	Metric string
	PerPod bool
	Points []Observation
}

// timestampLayouts lists the formats the monitoring exporter is known to
// write, most common first. A bare float (unix seconds) is tried last.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp converts an exported timestamp cell to UnixNano.
func parseTimestamp(s string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixNano(), nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(secs * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", s)
}

// LoadSeries parses one source CSV into a Series. Columns are resolved by
// header name: "timestamp" and "value" are always required, "pod" only when
// the metric is per-pod in the catalog; any extra exporter columns (labels,
// job names) are ignored. A well-formed file with zero data rows yields an
// empty series, not an error — whether emptiness is fatal is the merger's
// call. A missing required column or an unparseable cell fails with
// ErrMalformedSource.
func LoadSeries(path, metric string, catalog Catalog) (Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("open series %s: %w", path, err)
	}
	defer file.Close()

	perPod := catalog.IsPerPod(metric)
	series := Series{Metric: metric, PerPod: perPod}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return Series{}, fmt.Errorf("%w: %s: empty file, no header", ErrMalformedSource, path)
	}
	if err != nil {
		return Series{}, fmt.Errorf("read header of %s: %w", path, err)
	}

	tsCol, valCol, podCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case "timestamp":
			tsCol = i
		case "value":
			valCol = i
		case "pod":
			podCol = i
		}
	}
	if tsCol < 0 || valCol < 0 {
		return Series{}, fmt.Errorf("%w: %s: missing timestamp/value column (header %v)", ErrMalformedSource, path, header)
	}
	if perPod && podCol < 0 {
		return Series{}, fmt.Errorf("%w: %s: per-pod metric %q has no pod column", ErrMalformedSource, path, metric)
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Series{}, fmt.Errorf("%w: %s row %d: %v", ErrMalformedSource, path, row, err)
		}

		ts, err := parseTimestamp(record[tsCol])
		if err != nil {
			return Series{}, fmt.Errorf("%w: %s row %d: %v", ErrMalformedSource, path, row, err)
		}
		value, err := strconv.ParseFloat(record[valCol], 64)
		if err != nil {
			return Series{}, fmt.Errorf("%w: %s row %d: invalid value: %v", ErrMalformedSource, path, row, err)
		}

		obs := Observation{Timestamp: ts, Value: value}
		if perPod {
			obs.Pod = record[podCol]
			if obs.Pod == "" {
				return Series{}, fmt.Errorf("%w: %s row %d: empty pod id", ErrMalformedSource, path, row)
			}
		}
		series.Points = append(series.Points, obs)
	}
	return series, nil
}
