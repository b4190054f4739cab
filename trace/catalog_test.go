package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_PartitionsFifteenMetrics(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 15, c.NumMetrics())
	assert.Len(t, c.PerPodMetrics(), 6)
	assert.Len(t, c.SystemMetrics(), 9)

	// Per-pod and system sets are disjoint and cover the catalog.
	seen := make(map[string]bool)
	for _, name := range append(c.PerPodMetrics(), c.SystemMetrics()...) {
		assert.False(t, seen[name], name)
		seen[name] = true
	}
	assert.Len(t, seen, 15)
}

func TestDefaultCatalog_ColumnIndexMatchesOrder(t *testing.T) {
	c := DefaultCatalog()
	for i, name := range c.Metrics() {
		idx, ok := c.Index(name)
		require.True(t, ok, name)
		assert.Equal(t, i, idx, name)
	}
	_, ok := c.Index("no_such_metric")
	assert.False(t, ok)
}

func TestNewCatalog_RejectsInconsistentDefinitions(t *testing.T) {
	_, err := NewCatalog([]string{"a", "a"}, nil)
	assert.Error(t, err, "duplicate metric names")

	_, err = NewCatalog([]string{"a", "b"}, []string{"c"})
	assert.Error(t, err, "per-pod metric outside the order list")
}

func TestDefaultCatalog_PerPodSetMatchesExporter(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{
		"cpu_psi",
		"cpu_usage",
		"inference_latency_avg",
		"io_psi",
		"memory_psi",
		"memory_usage",
	}, c.PerPodMetrics())
	assert.True(t, c.IsPerPod("memory_usage"))
	assert.False(t, c.IsPerPod("gpu_memory"))
}
