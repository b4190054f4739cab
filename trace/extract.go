package trace

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// PodMetadata identifies and sizes one extracted trace. Timesteps and
// Metrics are read from the produced array's shape, never asserted
// independently, so they cannot disagree with the data.
type PodMetadata struct {
	Workload  string `json:"workload"`
	Replicas  int    `json:"replica_count"`
	PodID     string `json:"pod_id"`
	GroupID   string `json:"group_id"`
	Timesteps int    `json:"timesteps"`
	Metrics   int    `json:"metrics"`
}

// PodTrace is one pod's complete multivariate trace: a (Timesteps, 15)
// matrix whose column j is catalog metric j, plus metadata. Finalized
// traces contain no NaN and are immutable by convention.
type PodTrace struct {
	Values [][]float64
	Meta   PodMetadata
}

// ExtractPodTraces splits an aligned table into one PodTrace per distinct
// pod. Within a pod, rows keep the table's timestamp order. A pod whose
// matrix would contain NaN — a system-metric timestamp the broadcast could
// not fill, or a per-pod series missing samples at timestamps its siblings
// have — fails with ErrIncompleteTrace; the defect is reported per pod and
// does not stop sibling pods from being extracted. The returned error joins
// all per-pod failures; callers treating the group as all-or-nothing check
// err != nil.
func ExtractPodTraces(table *AlignedTable, group ExperimentGroup) ([]PodTrace, error) {
	catalog := table.Catalog
	width := catalog.NumMetrics()

	// Distinct pods in first-appearance order of the sorted table.
	var pods []string
	rowsByPod := make(map[string][]Row)
	for _, row := range table.Rows {
		if _, seen := rowsByPod[row.Pod]; !seen {
			pods = append(pods, row.Pod)
		}
		rowsByPod[row.Pod] = append(rowsByPod[row.Pod], row)
	}

	var traces []PodTrace
	var podErrs []error
	for _, pod := range pods {
		rows := rowsByPod[pod]
		values := make([][]float64, len(rows))
		var incomplete error
		for t, row := range rows {
			if len(row.Values) != width {
				incomplete = fmt.Errorf("%w: group %s pod %s: row has %d columns, want %d",
					ErrIncompleteTrace, group.ID(), pod, len(row.Values), width)
				break
			}
			for j, v := range row.Values {
				if math.IsNaN(v) {
					incomplete = fmt.Errorf("%w: group %s pod %s: metric %q has no value at timestep %d",
						ErrIncompleteTrace, group.ID(), pod, catalog.Metrics()[j], t)
					break
				}
			}
			if incomplete != nil {
				break
			}
			values[t] = append([]float64(nil), row.Values...)
		}
		if incomplete != nil {
			logrus.Warnf("skipping pod: %v", incomplete)
			podErrs = append(podErrs, incomplete)
			continue
		}

		traces = append(traces, PodTrace{
			Values: values,
			Meta: PodMetadata{
				Workload:  group.Workload,
				Replicas:  group.Replicas,
				PodID:     pod,
				GroupID:   group.ID(),
				Timesteps: len(values),
				Metrics:   width,
			},
		})
	}
	return traces, errors.Join(podErrs...)
}
