package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/codegen"
	"go.uber.org/zap"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

type Config struct {
	OutputFile string `cli:"name=o desc='output file (default: <package>_codec_gen.go)'"`
	Dir        string `cli:"name=dir desc='directory to scan for Go files (default: current directory)'"`
	Recursive  bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
	Check      bool   `cli:"name=check desc='type-check packages before generating'"`
	Verbose    bool   `cli:"name=v desc='log progress to stderr'"`

	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tcodec-gen").
		WithSynopsis("tcodec-gen [opts]").
		WithDescription("Generate type descriptors for structs marked //typecodec:generate.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	log := zap.NewNop()
	if cfg.Verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}
	defer log.Sync()
	written, err := codegen.Run(codegen.Config{
		Dir:        cfg.Dir,
		Recursive:  cfg.Recursive,
		OutputFile: cfg.OutputFile,
		Check:      cfg.Check,
	}, log)
	for _, f := range written {
		fmt.Fprintln(cc.Out, f)
	}
	return err
}
