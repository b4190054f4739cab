package trace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/workload-modeling/podtrace/trace/normalize"
)

// Collection is an ordered set of pod traces, plus the range table they
// were normalized with (nil while the values are still raw). It is the unit
// the store persists and the unit downstream training consumes.
type Collection struct {
	Traces []PodTrace
	Ranges normalize.RangeTable
}

// Normalize returns a new collection with every trace mapped through the
// normalizer, carrying the normalizer's frozen ranges. Metadata is shared,
// values are fresh arrays; the receiver is unchanged.
func (c *Collection) Normalize(n *normalize.Normalizer) (*Collection, error) {
	out := &Collection{Traces: make([]PodTrace, len(c.Traces)), Ranges: n.Ranges()}
	for i, tr := range c.Traces {
		values, err := n.Normalize(tr.Values)
		if err != nil {
			return nil, fmt.Errorf("normalize trace %s/%s: %w", tr.Meta.GroupID, tr.Meta.PodID, err)
		}
		out.Traces[i] = PodTrace{Values: values, Meta: tr.Meta}
	}
	return out, nil
}

// Denormalize maps a normalized collection back to original units using the
// collection's own stored range table — never an ambient one, so a
// collection written under a different table than the caller's current
// default still denormalizes correctly.
func (c *Collection) Denormalize(metricOrder []string) (*Collection, error) {
	if c.Ranges == nil {
		return nil, fmt.Errorf("collection carries no range table to denormalize with")
	}
	n, err := normalize.NewNormalizer(c.Ranges, metricOrder)
	if err != nil {
		return nil, err
	}
	out := &Collection{Traces: make([]PodTrace, len(c.Traces))}
	for i, tr := range c.Traces {
		values, err := n.Denormalize(tr.Values)
		if err != nil {
			return nil, fmt.Errorf("denormalize trace %s/%s: %w", tr.Meta.GroupID, tr.Meta.PodID, err)
		}
		out.Traces[i] = PodTrace{Values: values, Meta: tr.Meta}
	}
	return out, nil
}

// Summary reports trace counts per workload and per replica cardinality.
func (c *Collection) Summary() string {
	byWorkload := make(map[string]int)
	byReplicas := make(map[int]int)
	for _, tr := range c.Traces {
		byWorkload[tr.Meta.Workload]++
		byReplicas[tr.Meta.Replicas]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "total pod traces: %d\n", len(c.Traces))

	workloads := make([]string, 0, len(byWorkload))
	for w := range byWorkload {
		workloads = append(workloads, w)
	}
	sort.Strings(workloads)
	b.WriteString("per workload:\n")
	for _, w := range workloads {
		fmt.Fprintf(&b, "  %-15s %d\n", w, byWorkload[w])
	}

	replicas := make([]int, 0, len(byReplicas))
	for r := range byReplicas {
		replicas = append(replicas, r)
	}
	sort.Ints(replicas)
	b.WriteString("per replica count:\n")
	for _, r := range replicas {
		fmt.Fprintf(&b, "  r=%-3d %d\n", r, byReplicas[r])
	}
	return b.String()
}
