package debug

import (
	"fmt"
	"os"

	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
)

// Logf writes to stderr, rendering *ir.Node arguments in wire form.
func Logf(format string, args ...any) {
	rendered := make([]any, len(args))
	for i, a := range args {
		if n, ok := a.(*ir.Node); ok {
			a = encode.String(n)
		}
		rendered[i] = a
	}
	fmt.Fprintf(os.Stderr, format, rendered...)
}
