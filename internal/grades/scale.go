// Package grades provides grade scales, per-semester count vectors and the
// cumulative distribution used to answer percentile queries.
package grades

import (
	"fmt"
	"strings"
)

// DefaultLabels is the German university grade scale from best to worst,
// including the failing grade 5.0.
var DefaultLabels = []string{"1.0", "1.3", "1.7", "2.0", "2.3", "2.7", "3.0", "3.3", "3.7", "4.0", "5.0"}

// Scale is an ordered set of grade labels, best first.
// A Scale is immutable once created.
type Scale struct {
	labels []string
	index  map[string]int
}

// NewScale creates a scale from labels ordered best to worst.
func NewScale(labels []string) (*Scale, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("grade scale is empty")
	}

	s := &Scale{
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, fmt.Errorf("grade scale: empty label at position %d", i)
		}
		if _, dup := s.index[l]; dup {
			return nil, fmt.Errorf("grade scale: duplicate label %q", l)
		}
		s.labels[i] = l
		s.index[l] = i
	}
	return s, nil
}

// MustScale is like NewScale but panics on invalid labels.
func MustScale(labels []string) *Scale {
	s, err := NewScale(labels)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of grades in the scale.
func (s *Scale) Len() int { return len(s.labels) }

// Labels returns a copy of the grade labels.
func (s *Scale) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Index returns the position of a grade, or -1 if it is not part of the scale.
func (s *Scale) Index(label string) int {
	if i, ok := s.index[label]; ok {
		return i
	}
	return -1
}

// Contains reports whether label is a grade of the scale.
func (s *Scale) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}
