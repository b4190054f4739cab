package normalize

import "fmt"

// Normalizer maps raw trace values to [0,1] per metric channel and back.
// Construction freezes the range table into min/scale vectors in metric
// order; later mutation of the source table cannot affect an existing
// Normalizer, which is what makes round-trip and cross-run comparisons
// meaningful.
type Normalizer struct {
	metrics []string
	mins    []float64
	maxs    []float64
	scales  []float64
}

// NewNormalizer builds a Normalizer for the given metric order. Every
// metric must have a table entry with max > min.
func NewNormalizer(table RangeTable, metricOrder []string) (*Normalizer, error) {
	mins, maxs, scales, err := vectors(table, metricOrder)
	if err != nil {
		return nil, fmt.Errorf("new normalizer: %w", err)
	}
	return &Normalizer{
		metrics: append([]string(nil), metricOrder...),
		mins:    mins,
		maxs:    maxs,
		scales:  scales,
	}, nil
}

// Metrics returns the channel order the normalizer was frozen with.
func (n *Normalizer) Metrics() []string { return append([]string(nil), n.metrics...) }

// Ranges reconstructs the frozen table, e.g. for persisting alongside a
// normalized collection.
func (n *Normalizer) Ranges() RangeTable {
	table := make(RangeTable, len(n.metrics))
	for i, name := range n.metrics {
		table[name] = Range{Min: n.mins[i], Max: n.maxs[i]}
	}
	return table
}

// Normalize maps a (T, channels) matrix into [0,1] per channel:
// clamp((x-min)/(max-min), 0, 1). Clamping is intentional lossy protection
// against outliers — a value outside [min,max] does not round-trip exactly,
// it comes back as the nearest bound. The input is not modified.
func (n *Normalizer) Normalize(values [][]float64) ([][]float64, error) {
	return n.apply(values, func(x float64, j int) float64 {
		y := (x - n.mins[j]) / n.scales[j]
		if y < 0 {
			return 0
		}
		if y > 1 {
			return 1
		}
		return y
	})
}

// Denormalize maps normalized values back to original units:
// y*(max-min)+min. This is the exact algebraic inverse of the unclamped
// forward map, so normalize-then-denormalize recovers any in-range value
// exactly (up to float64 arithmetic).
func (n *Normalizer) Denormalize(values [][]float64) ([][]float64, error) {
	return n.apply(values, func(y float64, j int) float64 {
		return y*n.scales[j] + n.mins[j]
	})
}

// NormalizeBatch applies Normalize independently per trace; there is no
// cross-trace state.
func (n *Normalizer) NormalizeBatch(traces [][][]float64) ([][][]float64, error) {
	out := make([][][]float64, len(traces))
	for i, values := range traces {
		normalized, err := n.Normalize(values)
		if err != nil {
			return nil, fmt.Errorf("trace %d: %w", i, err)
		}
		out[i] = normalized
	}
	return out, nil
}

// DenormalizeBatch applies Denormalize independently per trace.
func (n *Normalizer) DenormalizeBatch(traces [][][]float64) ([][][]float64, error) {
	out := make([][][]float64, len(traces))
	for i, values := range traces {
		denormalized, err := n.Denormalize(values)
		if err != nil {
			return nil, fmt.Errorf("trace %d: %w", i, err)
		}
		out[i] = denormalized
	}
	return out, nil
}

func (n *Normalizer) apply(values [][]float64, f func(x float64, j int) float64) ([][]float64, error) {
	width := len(n.metrics)
	out := make([][]float64, len(values))
	for t, row := range values {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d channels, normalizer has %d", t, len(row), width)
		}
		mapped := make([]float64, width)
		for j, x := range row {
			mapped[j] = f(x, j)
		}
		out[t] = mapped
	}
	return out, nil
}
