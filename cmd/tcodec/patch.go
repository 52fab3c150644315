package main

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/parse"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.PatchFile == "" {
		return fmt.Errorf("%w: a patch file is required (-p)", cli.ErrUsage)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: patch takes at most 1 file, got %v", cli.ErrUsage, args)
	}
	c, err := cfg.codecFor(cfg.Schema, cfg.Type)
	if err != nil {
		return err
	}
	p, err := readFile(cc, cfg.PatchFile)
	if err != nil {
		return err
	}
	file := inputs(args)[0]
	doc, err := readFile(cc, file)
	if err != nil {
		return err
	}
	res, err := applyPatch(doc, p, cfg.Merge)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", file, err)
	}
	node, err := parse.Parse(res)
	if err != nil {
		return fmt.Errorf("patch result: %w", err)
	}
	norm, err := roundTrip(c, node)
	if err != nil {
		return fmt.Errorf("patch result does not decode as %s: %w", cfg.Type, err)
	}
	if err := encode.Encode(norm, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func applyPatch(doc, p []byte, merge bool) ([]byte, error) {
	if merge {
		return jsonpatch.MergePatch(doc, p)
	}
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, fmt.Errorf("error decoding patch: %w", err)
	}
	return ops.Apply(doc)
}
