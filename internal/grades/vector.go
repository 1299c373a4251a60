package grades

import (
	"strconv"
	"strings"

	"grade-estimator/internal/layout"
)

// Vector holds one student count per grade, in scale order.
type Vector []int

// Sum returns the number of students in the vector.
func (v Vector) Sum() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

// Build turns the words of a count row into a vector for scale.
// Only purely numeric words are kept, in row order. The number of counts
// must match the scale exactly.
func Build(row []layout.Token, scale *Scale) (Vector, error) {
	var counts Vector
	for _, t := range row {
		text := strings.TrimSpace(t.Text)
		if !isDigits(text) {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, &TokenFormatError{
				Expected: scale.Len(),
				Detail:   "count " + strconv.Quote(text) + " out of range",
			}
		}
		counts = append(counts, n)
	}

	if len(counts) != scale.Len() {
		return nil, &TokenFormatError{Expected: scale.Len(), Found: len(counts)}
	}
	return counts, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
