package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/schema"
)

func listTypes(cfg *TypesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Types.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: types takes no arguments", cli.ErrUsage)
	}
	s, err := cfg.session(cfg.Schema)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cc.Out, 0, 4, 2, ' ', 0)
	for _, t := range s.types {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Kind, describe(t))
	}
	return w.Flush()
}

func describe(t *schema.Type) string {
	var parts []string
	if t.Super != nil {
		parts = append(parts, "extends "+t.Super.String())
	}
	if t.Abstract {
		parts = append(parts, "abstract")
	}
	if ti := t.TypeInfo; ti != nil && ti.Use != schema.IDNone {
		parts = append(parts, fmt.Sprintf("discriminator %s (%s, %s)", ti.PropertyName(), ti.Use, ti.Include))
	}
	if root := t.Root(); root != nil && root != t && root.TypeInfo != nil && !t.Abstract {
		if tag, err := root.TypeInfo.TagOf(t); err == nil {
			parts = append(parts, "tag "+tag)
		}
	}
	return strings.Join(parts, ", ")
}
