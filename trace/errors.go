package trace

import "errors"

// Sentinel errors of the assembly pipeline. All failures are fatal for the
// unit they describe and are never retried: inputs are static files, so a
// retry cannot change the outcome. Callers match with errors.Is.
var (
	// ErrNotFound means no source file matched a catalog metric in a group
	// directory.
	ErrNotFound = errors.New("metric source not found")

	// ErrAmbiguous means more than one source file matched a catalog metric.
	// Ambiguity is a data-integrity bug and is surfaced, never resolved by
	// picking one.
	ErrAmbiguous = errors.New("ambiguous metric source")

	// ErrMalformedSource means a source file is missing a required column or
	// has an unparseable cell.
	ErrMalformedSource = errors.New("malformed metric source")

	// ErrIncompleteTrace means an extracted pod trace would contain gaps:
	// a metric column with no observations, or NaN cells the system-metric
	// broadcast could not fill.
	ErrIncompleteTrace = errors.New("incomplete pod trace")

	// ErrBadGroupName means a group identifier does not match the
	// <workload>_r<N> pattern.
	ErrBadGroupName = errors.New("unparseable experiment group name")
)
