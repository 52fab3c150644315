// Package parse parses JSON text into IR nodes.
//
// # Usage
//
//	node, err := parse.Parse([]byte(`{"name": "alice", "age": 30}`))
//
//	// Accept comments and trailing commas
//	node, err := parse.Parse(d, parse.ParseComments(true))
//
// Number text is kept verbatim on the resulting nodes.
package parse
