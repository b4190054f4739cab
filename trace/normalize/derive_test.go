package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRanges_MinIsClampedAtZero(t *testing.T) {
	traces := [][][]float64{{
		{-5, 10},
		{-2, 20},
		{3, 30},
	}}
	table, err := DeriveRanges(traces, []string{"a", "b"}, DeriveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, table["a"].Min, "negative observed min clamps to 0")
	assert.Equal(t, 10.0, table["b"].Min, "positive observed min is kept")
}

func TestDeriveRanges_MaxIsPercentileTimesMargin(t *testing.T) {
	// 0..100 uniformly: the 100th percentile is 100, margin 1.5 gives 150.
	var rows [][]float64
	for i := 0; i <= 100; i++ {
		rows = append(rows, []float64{float64(i)})
	}
	table, err := DeriveRanges([][][]float64{rows}, []string{"a"}, DeriveOptions{Percentile: 100, Margin: 1.5})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, table["a"].Max, 1e-9)

	// The default 99.5th percentile sits below an extreme outlier.
	rows = append(rows, []float64{1e6})
	table, err = DeriveRanges([][][]float64{rows}, []string{"a"}, DeriveOptions{})
	require.NoError(t, err)
	assert.Less(t, table["a"].Max, 1e6)
}

func TestDeriveRanges_DegenerateWidthWidensToOne(t *testing.T) {
	traces := [][][]float64{{
		{7, 0},
		{7, 0},
	}}
	table, err := DeriveRanges(traces, []string{"constant", "zero"}, DeriveOptions{})
	require.NoError(t, err)

	// A constant non-zero channel keeps its margin headroom (7 * 1.2).
	assert.Equal(t, 7.0, table["constant"].Min)
	assert.InDelta(t, 8.4, table["constant"].Max, 1e-9)

	// An all-zero channel would have zero width; max widens to min + 1.
	assert.Equal(t, 0.0, table["zero"].Min)
	assert.InDelta(t, 1.0, table["zero"].Max, 1e-9)
}

func TestDeriveRanges_PoolsAcrossTraces(t *testing.T) {
	traces := [][][]float64{
		{{1}, {2}},
		{{100}, {200}},
	}
	table, err := DeriveRanges(traces, []string{"a"}, DeriveOptions{Percentile: 100, Margin: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, table["a"].Min)
	assert.InDelta(t, 200.0, table["a"].Max, 1e-9)
}

func TestDeriveRanges_InvalidInputs(t *testing.T) {
	_, err := DeriveRanges(nil, []string{"a"}, DeriveOptions{})
	assert.Error(t, err, "no traces")

	_, err = DeriveRanges([][][]float64{{{1, 2}}}, []string{"a"}, DeriveOptions{})
	assert.Error(t, err, "channel width mismatch")

	_, err = DeriveRanges([][][]float64{{{1}}}, []string{"a"}, DeriveOptions{Percentile: 150})
	assert.Error(t, err, "percentile out of range")
}

func TestDeriveRanges_TableIsUsableByNormalizer(t *testing.T) {
	traces := [][][]float64{{
		{0.5, 1e9},
		{1.5, 2e9},
		{2.0, 3e9},
	}}
	order := []string{"cpu", "mem"}
	table, err := DeriveRanges(traces, order, DeriveOptions{})
	require.NoError(t, err)

	n, err := NewNormalizer(table, order)
	require.NoError(t, err)
	normalized, err := n.NormalizeBatch(traces)
	require.NoError(t, err)
	restored, err := n.DenormalizeBatch(normalized)
	require.NoError(t, err)
	for r := range traces[0] {
		for j := range traces[0][r] {
			assert.InDelta(t, traces[0][r][j], restored[0][r][j], 1e-3)
		}
	}
}
