package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/codec"
	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
)

func normalize(cfg *NormalizeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Normalize.Parse(cc, args)
	if err != nil {
		return err
	}
	c, err := cfg.codecFor(cfg.Schema, cfg.Type)
	if err != nil {
		return err
	}
	for i, file := range inputs(args) {
		doc, err := getDoc(cc, file)
		if err != nil {
			return err
		}
		norm, err := roundTrip(c, doc)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if i > 0 {
			if _, err := cc.Out.Write([]byte("\n")); err != nil {
				return err
			}
		}
		if err := encode.Encode(norm, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}

// roundTrip decodes doc with c and encodes the value again.
func roundTrip(c *codec.Codec, doc *ir.Node) (*ir.Node, error) {
	v, err := c.FromIR(doc)
	if err != nil {
		return nil, err
	}
	return c.ToIR(v)
}
