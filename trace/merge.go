package trace

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Row is one aligned observation row: one pod at one instant, with a cell
// per catalog metric in catalog order. NaN marks a cell no series covered;
// rows leaving the merger may still carry NaN (a sampling gap), which the
// extractor rejects rather than imputes.
type Row struct {
	Timestamp int64
	Pod       string
	Values    []float64
}

// AlignedTable is the merge output for one experiment group: rows keyed by
// (timestamp, pod), sorted ascending by that key. Every row has a non-empty
// pod — rows come only from per-pod series; system values are broadcast onto
// them, never the reverse.
type AlignedTable struct {
	Group   ExperimentGroup
	Catalog Catalog
	Rows    []Row
}

type rowKey struct {
	ts  int64
	pod string
}

// MergeGroup assembles one AlignedTable from a group directory holding one
// CSV per catalog metric:
//
//  1. all per-pod series are outer-joined on (timestamp, pod), so a sample
//     in any per-pod metric creates a row and gaps in siblings stay NaN;
//  2. all system series are outer-joined on timestamp alone;
//  3. the system table is left-joined onto the per-pod rows: each row
//     receives the system values at its timestamp, identically for every pod
//     sharing it, and system-only timestamps are dropped (a system sample
//     has no pod to anchor a row to).
//
// Locating or parsing failure for any of the 15 metrics aborts the whole
// group; partial tables are never produced.
func MergeGroup(dir string, group ExperimentGroup, catalog Catalog) (*AlignedTable, error) {
	index, err := BuildSourceIndex(dir, catalog)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", group.ID(), err)
	}
	return MergeGroupSources(index, group, catalog)
}

// MergeGroupSources merges from an already-resolved SourceIndex. The index
// must cover every catalog metric.
func MergeGroupSources(index SourceIndex, group ExperimentGroup, catalog Catalog) (*AlignedTable, error) {
	width := catalog.NumMetrics()

	// Step 1: per-pod outer join on (timestamp, pod).
	cells := make(map[rowKey][]float64)
	ensureRow := func(key rowKey) []float64 {
		row, ok := cells[key]
		if !ok {
			row = make([]float64, width)
			for i := range row {
				row[i] = math.NaN()
			}
			cells[key] = row
		}
		return row
	}

	for _, metric := range catalog.PerPodMetrics() {
		series, err := loadIndexedSeries(index, metric, group, catalog)
		if err != nil {
			return nil, err
		}
		col, _ := catalog.Index(metric)
		for _, obs := range series.Points {
			ensureRow(rowKey{ts: obs.Timestamp, pod: obs.Pod})[col] = obs.Value
		}
	}

	// Step 2: system outer join on timestamp alone.
	systemCells := make(map[int64][]float64)
	for _, metric := range catalog.SystemMetrics() {
		series, err := loadIndexedSeries(index, metric, group, catalog)
		if err != nil {
			return nil, err
		}
		col, _ := catalog.Index(metric)
		for _, obs := range series.Points {
			row, ok := systemCells[obs.Timestamp]
			if !ok {
				row = make([]float64, width)
				for i := range row {
					row[i] = math.NaN()
				}
				systemCells[obs.Timestamp] = row
			}
			row[col] = obs.Value
		}
	}

	// Step 3: broadcast system values onto per-pod rows (left join).
	systemCols := make([]int, 0, width)
	for _, metric := range catalog.SystemMetrics() {
		col, _ := catalog.Index(metric)
		systemCols = append(systemCols, col)
	}
	for key, row := range cells {
		if sysRow, ok := systemCells[key.ts]; ok {
			for _, col := range systemCols {
				row[col] = sysRow[col]
			}
		}
	}

	// Step 4: sort ascending by (timestamp, pod).
	table := &AlignedTable{Group: group, Catalog: catalog, Rows: make([]Row, 0, len(cells))}
	for key, row := range cells {
		table.Rows = append(table.Rows, Row{Timestamp: key.ts, Pod: key.pod, Values: row})
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.Pod < b.Pod
	})

	logrus.Infof("merged group %s: %d rows, %d metrics", group.ID(), len(table.Rows), width)
	return table, nil
}

func loadIndexedSeries(index SourceIndex, metric string, group ExperimentGroup, catalog Catalog) (Series, error) {
	path, ok := index[metric]
	if !ok {
		return Series{}, fmt.Errorf("%w: metric %q not in source index for group %s", ErrNotFound, metric, group.ID())
	}
	series, err := LoadSeries(path, metric, catalog)
	if err != nil {
		return Series{}, fmt.Errorf("group %s: %w", group.ID(), err)
	}
	return series, nil
}
