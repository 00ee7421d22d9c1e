package diag

import "io"

// NewForTest builds a Registry suitable for unit tests: it writes to w
// instead of stderr and never calls os.Exit on a Fatal report, so test
// code can inspect Entries() after a Fatal diagnostic.
func NewForTest(w io.Writer) *Registry {
	return &Registry{
		out:         w,
		colorOn:     false,
		exitOnFatal: false,
	}
}
