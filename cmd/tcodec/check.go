package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"go.uber.org/multierr"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: check takes no arguments", cli.ErrUsage)
	}
	s, err := cfg.session(cfg.Schema)
	if err != nil {
		return err
	}
	errs := multierr.Errors(s.res.Check())
	for _, e := range errs {
		fmt.Fprintf(cc.Out, "- %v\n", e)
	}
	if len(errs) != 0 {
		return fmt.Errorf("%d problems in %s", len(errs), cfg.Schema)
	}
	fmt.Fprintf(cc.Out, "%d types ok\n", len(s.types))
	return nil
}
