package grades

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenFormat is returned when a recognized row does not hold exactly
	// one count per grade.
	ErrTokenFormat = errors.New("token format error")

	// ErrScaleMismatch is returned when a vector does not line up with the scale.
	ErrScaleMismatch = errors.New("scale mismatch")
)

// TokenFormatError reports how many numeric tokens were found in a row.
type TokenFormatError struct {
	Expected int
	Found    int
	Detail   string
}

func (e *TokenFormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("token format error: %s", e.Detail)
	}
	return fmt.Sprintf("token format error: expected %d counts, found %d", e.Expected, e.Found)
}

func (e *TokenFormatError) Is(target error) bool { return target == ErrTokenFormat }

// ScaleMismatchError names the source whose vector does not fit the scale.
type ScaleMismatchError struct {
	Source   string
	Expected int
	Got      int
	Detail   string
}

func (e *ScaleMismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("scale mismatch for %q: %s", e.Source, e.Detail)
	}
	return fmt.Sprintf("scale mismatch for %q: expected %d grades, got %d", e.Source, e.Expected, e.Got)
}

func (e *ScaleMismatchError) Is(target error) bool { return target == ErrScaleMismatch }
