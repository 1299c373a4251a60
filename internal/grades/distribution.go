package grades

import (
	"sort"
)

// Distribution is the element-wise sum of several semester vectors.
// It is built once by Aggregate and only read afterwards.
type Distribution struct {
	scale   *Scale
	counts  []int
	total   int
	sources []string
}

// Aggregate sums the vectors of all sources. A nil vector marks a source
// whose extraction failed and contributes nothing. A vector whose length
// differs from the scale, or that holds a negative count, fails the whole call.
func Aggregate(scale *Scale, sources map[string]Vector) (*Distribution, error) {
	d := &Distribution{
		scale:  scale,
		counts: make([]int, scale.Len()),
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := sources[name]
		if v == nil {
			continue
		}
		if len(v) != scale.Len() {
			return nil, &ScaleMismatchError{Source: name, Expected: scale.Len(), Got: len(v)}
		}
		for i, n := range v {
			if n < 0 {
				return nil, &ScaleMismatchError{Source: name, Detail: "negative count for grade " + scale.labels[i]}
			}
			d.counts[i] += n
		}
		d.sources = append(d.sources, name)
	}

	for _, n := range d.counts {
		d.total += n
	}
	return d, nil
}

// Scale returns the scale the distribution is aligned to.
func (d *Distribution) Scale() *Scale { return d.scale }

// Total returns the number of students across all sources.
func (d *Distribution) Total() int { return d.total }

// Counts returns a copy of the per-grade counts.
func (d *Distribution) Counts() []int {
	out := make([]int, len(d.counts))
	copy(out, d.counts)
	return out
}

// Sources returns the names of the sources that contributed, sorted.
func (d *Distribution) Sources() []string {
	out := make([]string, len(d.sources))
	copy(out, d.sources)
	return out
}

// Percentile returns the rounded percentage of students that scored grade
// or better. Halves round away from zero. Unknown grades and an empty
// distribution yield 0.
func (d *Distribution) Percentile(grade string) int {
	idx := d.scale.Index(grade)
	if idx < 0 || d.total == 0 {
		return 0
	}

	atOrBetter := 0
	for _, n := range d.counts[:idx+1] {
		atOrBetter += n
	}
	// floor(100*a/t + 1/2) without floating point
	return (200*atOrBetter + d.total) / (2 * d.total)
}
