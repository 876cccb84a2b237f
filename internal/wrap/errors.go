package wrap

import (
	"errors"
	"fmt"
)

// ErrUnsupportedWrapType reports a wrap type other than straight, seamless or tapered.
var ErrUnsupportedWrapType = errors.New("unsupported wrap type")

// RequestError wraps a sentinel kind with the detail of a rejected request.
type RequestError struct {
	Kind error
	Msg  string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *RequestError) Unwrap() error { return e.Kind }

func requestErrorf(kind error, format string, args ...any) error {
	return &RequestError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
