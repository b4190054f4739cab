package trace

import (
	"fmt"
	"regexp"
	"strconv"
)

// groupIDPattern matches experiment group identifiers such as "resnet50_r3"
// or "distilbert_r10": workload name, then "_r", then the replica count.
var groupIDPattern = regexp.MustCompile(`^(.+)_r(\d+)$`)

// ExperimentGroup identifies one experiment: a workload run at a fixed
// replica cardinality. All sources for one group live in a directory named
// after the group id.
type ExperimentGroup struct {
	Workload string
	Replicas int
}

// ParseGroupID parses a "<workload>_r<N>" identifier into an
// ExperimentGroup. Fails with ErrBadGroupName before any loading begins if
// the pattern does not match or the replica count is below 1.
func ParseGroupID(id string) (ExperimentGroup, error) {
	m := groupIDPattern.FindStringSubmatch(id)
	if m == nil {
		return ExperimentGroup{}, fmt.Errorf("%w: %q does not match <workload>_r<N>", ErrBadGroupName, id)
	}
	replicas, err := strconv.Atoi(m[2])
	if err != nil {
		return ExperimentGroup{}, fmt.Errorf("%w: %q: %v", ErrBadGroupName, id, err)
	}
	if replicas < 1 {
		return ExperimentGroup{}, fmt.Errorf("%w: %q: replica count must be >= 1", ErrBadGroupName, id)
	}
	return ExperimentGroup{Workload: m[1], Replicas: replicas}, nil
}

// ID renders the canonical "<workload>_r<N>" identifier.
func (g ExperimentGroup) ID() string {
	return fmt.Sprintf("%s_r%d", g.Workload, g.Replicas)
}
