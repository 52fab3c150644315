package parse

// DefaultMaxDepth bounds nesting of arrays and objects.
const DefaultMaxDepth = 1000

type parseOpts struct {
	comments   bool
	duplicates bool
	maxDepth   int
}

type ParseOption func(*parseOpts)

// ParseComments allows // and /* */ comments and trailing commas.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParseDuplicates allows repeated object keys; the last value wins.
func ParseDuplicates(v bool) ParseOption {
	return func(o *parseOpts) { o.duplicates = v }
}

func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}
