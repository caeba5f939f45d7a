// Package execcontext carries the context and output streams for a single
// CLI invocation so commands stay testable against buffers.
package execcontext

import (
	"context"
	"fmt"
	"io"
)

// RunContext bundles the cancellation context with the invocation's output
// streams.
type RunContext struct {
	Context context.Context
	StdOut  io.Writer
	StdErr  io.Writer
}

func (rc RunContext) Write(p []byte) (n int, err error) {
	return rc.StdOut.Write(p)
}

func (rc RunContext) Printf(format string, v ...any) {
	fmt.Fprintf(rc.StdOut, format, v...)
}
