package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// LoadDataset assembles a Collection from a root directory holding one
// subdirectory per experiment group. Groups are processed in sorted name
// order; each is merged and extracted independently. A group with any fatal
// defect — unparseable name, missing or ambiguous source, malformed CSV, or
// an incomplete pod — is logged with its identifying context and excluded
// whole: partial groups never contribute truncated or gap-filled traces.
// The error return is non-nil only when the root itself is unusable.
func LoadDataset(rootDir string, catalog Catalog) (*Collection, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir %s: %w", rootDir, err)
	}

	var groupDirs []string
	for _, e := range entries {
		if e.IsDir() {
			groupDirs = append(groupDirs, e.Name())
		}
	}
	sort.Strings(groupDirs)
	logrus.Infof("loading dataset from %s: %d group directories", rootDir, len(groupDirs))

	collection := &Collection{}
	for _, name := range groupDirs {
		traces, err := AssembleGroup(filepath.Join(rootDir, name), name, catalog)
		if err != nil {
			logrus.Warnf("excluding group %s: %v", name, err)
			continue
		}
		collection.Traces = append(collection.Traces, traces...)
	}
	logrus.Infof("dataset loaded: %d pod traces from %d groups", len(collection.Traces), len(groupDirs))
	return collection, nil
}

// AssembleGroup runs the full merge-and-extract sequence for one group
// directory. Any per-pod extraction failure fails the whole group, after
// each defect has been reported individually.
func AssembleGroup(dir, groupID string, catalog Catalog) ([]PodTrace, error) {
	group, err := ParseGroupID(groupID)
	if err != nil {
		return nil, err
	}
	table, err := MergeGroup(dir, group, catalog)
	if err != nil {
		return nil, err
	}
	traces, err := ExtractPodTraces(table, group)
	if err != nil {
		return nil, err
	}
	logrus.Infof("group %s: extracted %d pod traces", groupID, len(traces))
	return traces, nil
}
