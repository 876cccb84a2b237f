package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions reports vessel dimensions or a resolution that cannot produce a
// valid wrap shape.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// DimensionError wraps ErrInvalidDimensions with the offending detail.
type DimensionError struct {
	Kind error
	Msg  string
}

func (e *DimensionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *DimensionError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &DimensionError{Kind: ErrInvalidDimensions, Msg: fmt.Sprintf(format, args...)}
}
