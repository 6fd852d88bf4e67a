package log

import (
	"fmt"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// MarshalStack returns the innermost pkg/errors stack of err as a list of "func file:line" frames.
func MarshalStack(err error) []string {

	var tracer stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			tracer = st
		}
	}

	if tracer == nil {
		return nil
	}

	frames := tracer.StackTrace()
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, fmt.Sprintf("%n %s:%d", f, f, f))
	}

	return out
}
