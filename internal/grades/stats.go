package grades

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution in grade units.
type Summary struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Median float64 `json:"median" yaml:"median"`
}

// Describe computes count-weighted statistics over the numeric grade labels.
// Labels that do not parse as numbers are left out.
func Describe(d *Distribution) Summary {
	var values, weights []float64
	for i, label := range d.scale.labels {
		g, err := strconv.ParseFloat(label, 64)
		if err != nil || d.counts[i] == 0 {
			continue
		}
		values = append(values, g)
		weights = append(weights, float64(d.counts[i]))
	}
	if len(values) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(values, weights)
	if math.IsNaN(std) {
		std = 0
	}

	// stat.Quantile requires ascending values
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	sv := make([]float64, len(values))
	sw := make([]float64, len(values))
	for i, j := range idx {
		sv[i], sw[i] = values[j], weights[j]
	}
	median := stat.Quantile(0.5, stat.Empirical, sv, sw)

	return Summary{Mean: mean, StdDev: std, Median: median}
}
