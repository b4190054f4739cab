package normalize

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Derivation defaults: the max bound is the 99.5th percentile of observed
// values with a 20% safety margin, which keeps rare outliers from stretching
// the whole channel while leaving headroom above typical load.
const (
	DefaultPercentile = 99.5
	DefaultMargin     = 1.2

	// minRangeWidth is the epsilon below which a derived range is considered
	// degenerate and widened to min+1.
	minRangeWidth = 1e-6
)

// DeriveOptions tunes range derivation. Zero values select the defaults.
type DeriveOptions struct {
	Percentile float64 // percentile for the max bound, in (0, 100]
	Margin     float64 // multiplicative safety margin on the max bound
}

// DeriveRanges computes a range table from a reference trace set: per
// metric channel, min = max(0, observed minimum) and max = percentile of
// all observed values times the margin. The result must be computed once
// and frozen — a Normalizer built from it copies the bounds, so later
// derivations cannot drift an existing round-trip guarantee.
func DeriveRanges(traces [][][]float64, metricOrder []string, opts DeriveOptions) (RangeTable, error) {
	if opts.Percentile == 0 {
		opts.Percentile = DefaultPercentile
	}
	if opts.Margin == 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Percentile <= 0 || opts.Percentile > 100 {
		return nil, fmt.Errorf("derive ranges: percentile %v out of (0, 100]", opts.Percentile)
	}
	if len(traces) == 0 {
		return nil, fmt.Errorf("derive ranges: no reference traces")
	}

	width := len(metricOrder)
	columns := make([][]float64, width)
	for ti, values := range traces {
		for ri, row := range values {
			if len(row) != width {
				return nil, fmt.Errorf("derive ranges: trace %d row %d has %d channels, want %d", ti, ri, len(row), width)
			}
			for j, v := range row {
				columns[j] = append(columns[j], v)
			}
		}
	}

	table := make(RangeTable, width)
	for j, name := range metricOrder {
		col := columns[j]
		if len(col) == 0 {
			return nil, fmt.Errorf("derive ranges: metric %q has no observations", name)
		}
		sort.Float64s(col)

		min := col[0]
		if min < 0 {
			min = 0
		}
		max := stat.Quantile(opts.Percentile/100, stat.LinInterp, col, nil) * opts.Margin
		if max-min < minRangeWidth {
			max = min + 1
		}
		table[name] = Range{Min: min, Max: max}
	}
	return table, nil
}
