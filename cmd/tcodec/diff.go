package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: diff takes at most 1 file, got %v", cli.ErrUsage, args)
	}
	c, err := cfg.codecFor(cfg.Schema, cfg.Type)
	if err != nil {
		return err
	}
	file := inputs(args)[0]
	doc, err := getDoc(cc, file)
	if err != nil {
		return err
	}
	norm, err := roundTrip(c, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	differs, err := writeDiff(cc.Out, doc, norm, cfg.colors(cc.Out))
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// writeDiff renders a and b indented and writes their line diff, with
// removed lines prefixed by "-" and added lines by "+".
func writeDiff(w io.Writer, a, b *ir.Node, colored bool) (bool, error) {
	at, err := indented(a)
	if err != nil {
		return false, err
	}
	bt, err := indented(b)
	if err != nil {
		return false, err
	}
	if at == bt {
		return false, nil
	}
	dmp := diffmatchpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(at, bt)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)

	del, ins := fmt.Sprint, fmt.Sprint
	if colored {
		red, green := color.New(color.FgRed), color.New(color.FgGreen)
		red.EnableColor()
		green.EnableColor()
		del, ins = red.Sprint, green.Sprint
	}
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", del
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := io.WriteString(w, paint(prefix+line)); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}

func indented(n *ir.Node) (string, error) {
	buf := &strings.Builder{}
	if err := encode.Encode(n, buf, encode.EncodeWire(false)); err != nil {
		return "", err
	}
	s := buf.String()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, nil
}
