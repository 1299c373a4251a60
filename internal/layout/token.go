// Package layout groups recognized words back into the table rows they were
// read from.
package layout

import (
	"errors"
	"image"
	"sort"
	"strings"
)

// DefaultAnchor is the row label of the student count row in the reports.
const DefaultAnchor = "Anzahl"

// ErrAnchorNotFound is returned when no recognized word matches the anchor label.
var ErrAnchorNotFound = errors.New("anchor not found")

// Address identifies the text line a word was recognized in.
type Address struct {
	Block     int
	Paragraph int
	Line      int
}

// Token is a single recognized word.
type Token struct {
	Text       string
	Address    Address
	Left       int             // X of the left edge in pixels
	Bounds     image.Rectangle // Word box in image coordinates
	Confidence float64
}

// AnchorRow returns the words on the same recognized line as the first word
// matching anchor, ordered left to right. Matching ignores case and
// surrounding whitespace.
func AnchorRow(tokens []Token, anchor string) ([]Token, error) {
	want := strings.ToLower(strings.TrimSpace(anchor))
	if want == "" {
		return nil, ErrAnchorNotFound
	}

	found := -1
	for i, t := range tokens {
		if strings.ToLower(strings.TrimSpace(t.Text)) == want {
			found = i
			break
		}
	}
	if found == -1 {
		return nil, ErrAnchorNotFound
	}

	addr := tokens[found].Address
	var row []Token
	for _, t := range tokens {
		if t.Address == addr {
			row = append(row, t)
		}
	}

	sort.SliceStable(row, func(i, j int) bool {
		return row[i].Left < row[j].Left
	})
	return row, nil
}

// Texts returns the text of each token.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
