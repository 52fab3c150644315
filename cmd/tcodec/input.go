package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/parse"
)

// readFile reads file, or standard input for "-".
func readFile(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return d, nil
}

// getDoc parses a JSON document. Comments are allowed.
func getDoc(cc *cli.Context, file string) (*ir.Node, error) {
	d, err := readFile(cc, file)
	if err != nil {
		return nil, err
	}
	node, err := parse.Parse(d, parse.ParseComments(true))
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}
	return node, nil
}

// inputs defaults to standard input.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
