package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrder = []string{"cpu_usage", "memory_usage", "gpu_utilization"}

func testTable() RangeTable {
	return RangeTable{
		"cpu_usage":       {Min: 0, Max: 8},
		"memory_usage":    {Min: 0, Max: 10e9},
		"gpu_utilization": {Min: 0, Max: 100},
	}
}

func TestNewNormalizer_RejectsIncompleteOrDegenerateTables(t *testing.T) {
	_, err := NewNormalizer(RangeTable{"cpu_usage": {Min: 0, Max: 8}}, testOrder)
	assert.Error(t, err, "missing metrics")

	bad := testTable()
	bad["cpu_usage"] = Range{Min: 5, Max: 5}
	_, err = NewNormalizer(bad, testOrder)
	assert.Error(t, err, "max must exceed min")
}

func TestNormalize_MapsIntoUnitInterval(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	out, err := n.Normalize([][]float64{{4, 5e9, 86.7}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0][0], 1e-12)
	assert.InDelta(t, 0.5, out[0][1], 1e-12)
	assert.InDelta(t, 0.867, out[0][2], 1e-12)
}

func TestNormalize_ClampingBoundaries(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	// min -> 0.0, max -> 1.0 exactly
	out, err := n.Normalize([][]float64{{0, 10e9, 100}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0][0])
	assert.Equal(t, 1.0, out[0][1])
	assert.Equal(t, 1.0, out[0][2])

	// above max -> exactly 1.0, below min -> exactly 0.0
	out, err = n.Normalize([][]float64{{100, -5, 250}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out[0][0])
	assert.Equal(t, 0.0, out[0][1])
	assert.Equal(t, 1.0, out[0][2])
}

func TestRoundTrip_InRangeValuesRecoverExactly(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	// Values at memory scale ~1e9 must round-trip within 1e-3 absolute.
	original := [][]float64{
		{1.2, 1643693933, 86.7},
		{0.3, 200 * 1 << 20, 12.0},
		{7.9, 9.99e9, 99.9},
	}
	normalized, err := n.Normalize(original)
	require.NoError(t, err)
	restored, err := n.Denormalize(normalized)
	require.NoError(t, err)

	for i := range original {
		for j := range original[i] {
			assert.InDelta(t, original[i][j], restored[i][j], 1e-3, "row %d channel %d", i, j)
		}
	}
}

func TestRoundTrip_OutOfRangeComesBackAsBoundary(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	normalized, err := n.Normalize([][]float64{{20, -1, 150}})
	require.NoError(t, err)
	restored, err := n.Denormalize(normalized)
	require.NoError(t, err)

	// Lossy by design: clamped values denormalize to the nearest bound.
	assert.Equal(t, 8.0, restored[0][0])
	assert.Equal(t, 0.0, restored[0][1])
	assert.Equal(t, 100.0, restored[0][2])
}

func TestNormalize_ShapeMismatchIsAnError(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	_, err = n.Normalize([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	in := [][]float64{{4, 5e9, 50}}
	_, err = n.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{4, 5e9, 50}}, in)
}

func TestBatchOps_ApplyPerTraceIndependently(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)

	traces := [][][]float64{
		{{4, 5e9, 50}},
		{{8, 10e9, 100}, {0, 0, 0}},
	}
	normalized, err := n.NormalizeBatch(traces)
	require.NoError(t, err)
	require.Len(t, normalized, 2)
	assert.Len(t, normalized[1], 2)

	restored, err := n.DenormalizeBatch(normalized)
	require.NoError(t, err)
	for i := range traces {
		for r := range traces[i] {
			for j := range traces[i][r] {
				assert.InDelta(t, traces[i][r][j], restored[i][r][j], 1e-3)
			}
		}
	}
}

func TestNormalizer_FrozenAgainstTableMutation(t *testing.T) {
	table := testTable()
	n, err := NewNormalizer(table, testOrder)
	require.NoError(t, err)

	table["cpu_usage"] = Range{Min: 0, Max: 1000}

	out, err := n.Normalize([][]float64{{4, 0, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0][0], 1e-12, "construction froze the original bounds")
}

func TestNormalizer_RangesReconstructsFrozenTable(t *testing.T) {
	n, err := NewNormalizer(testTable(), testOrder)
	require.NoError(t, err)
	assert.Equal(t, testTable(), n.Ranges())
}

func TestDefaultRanges_CoverAllCatalogMetricsWithPositiveWidth(t *testing.T) {
	table := DefaultRanges()
	assert.Len(t, table, 15)
	for name, r := range table {
		assert.Greater(t, r.Max, r.Min, name)
		assert.False(t, math.IsNaN(r.Min) || math.IsNaN(r.Max), name)
	}
}
